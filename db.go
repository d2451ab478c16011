// db.go
//
// Word catalog sources for the Hangman server.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Choosing the catalog source at startup: WORDS_CATALOG_FILE, then
//     WORDS_DB (seeded from the embedded catalog when empty), then the
//     embedded catalog.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/words"
)

// openDB opens (and creates if missing) a SQLite database file.
func openDB(dsn string) (*sql.DB, error) {
	// Ensure directory exists for ./data/words.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Explicitly enforce foreign keys + WAL.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded migrations in lexical order, each in its own
// transaction, skipping those already recorded in _migrations. Scripts that
// manage their own transaction or foreign key pragma run as-is.
func migrate(ctx context.Context, db *sql.DB, migs []assets.Migration) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	for _, m := range migs {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		upper := strings.ToUpper(m.SQL)
		selfManaged := strings.Contains(upper, "BEGIN TRANSACTION") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
			strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")

		if selfManaged {
			if _, err := db.ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("apply %s: %w", m.Name, err)
			}
			if _, err := db.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
				return fmt.Errorf("record %s: %w", m.Name, err)
			}
			log.Info().Str("migration", m.Name).Msg("applied (self-managed)")
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

// loadCatalog returns the word catalog from the configured source.
func loadCatalog(ctx context.Context, cfg *config.Config) (*words.Catalog, error) {
	switch {
	case cfg.CatalogFile != "":
		log.Info().Str("file", cfg.CatalogFile).Msg("loading word catalog from file")
		return words.LoadFile(cfg.CatalogFile)
	case cfg.WordsDB != "":
		log.Info().Str("db", cfg.WordsDB).Msg("loading word catalog from sqlite")
		return loadCatalogDB(ctx, cfg.WordsDB)
	default:
		return words.Default()
	}
}

// loadCatalogDB opens dsn, migrates it, seeds it from the embedded catalog
// when empty and reads the catalog back.
func loadCatalogDB(ctx context.Context, dsn string) (*words.Catalog, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	migs, err := assets.Migrations()
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	if err := migrate(ctx, db, migs); err != nil {
		return nil, err
	}

	def, err := words.Default()
	if err != nil {
		return nil, err
	}
	seeded, err := words.SeedSQL(ctx, db, def)
	if err != nil {
		return nil, err
	}
	if seeded {
		log.Info().Str("db", dsn).Msg("seeded word catalog")
	}
	return words.LoadSQL(ctx, db)
}
