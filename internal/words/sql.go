// internal/words/sql.go
//
// SQLite-backed catalog source (WORDS_DB).
//
// Tables (see assets/sql/001_catalog.sql):
//   catalog_buckets(id, kind, name)
//   catalog_words(bucket_id, position, word)
//
// SeedSQL writes a catalog into empty tables; LoadSQL reads it back and
// runs the same validation as the text loaders.

package words

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// LoadSQL reads the catalog from the database.
func LoadSQL(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT b.kind, b.name, w.word
        FROM catalog_words w
        JOIN catalog_buckets b ON b.id = w.bucket_id
        ORDER BY b.kind, b.name, w.position`)
	if err != nil {
		return nil, fmt.Errorf("words: query catalog: %w", err)
	}
	defer rows.Close()

	categories := map[string][]string{}
	tiers := map[string][]string{}
	for rows.Next() {
		var kind, name, word string
		if err := rows.Scan(&kind, &name, &word); err != nil {
			return nil, fmt.Errorf("words: scan catalog row: %w", err)
		}
		switch Kind(kind) {
		case KindCategory:
			categories[name] = append(categories[name], word)
		case KindTier:
			tiers[name] = append(tiers[name], word)
		default:
			log.Warn().Str("kind", kind).Str("bucket", name).Msg("skipping unknown catalog bucket kind")
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("words: read catalog rows: %w", err)
	}
	return New(categories, tiers)
}

// SeedSQL stores c into the database if no bucket exists yet.
// Returns true when rows were written.
func SeedSQL(ctx context.Context, db *sql.DB, c *Catalog) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM catalog_buckets`).Scan(&n); err != nil {
		return false, fmt.Errorf("words: count buckets: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, kind := range []Kind{KindCategory, KindTier} {
		for _, name := range c.Names(kind) {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO catalog_buckets (kind, name) VALUES (?, ?)`, string(kind), name)
			if err != nil {
				return false, fmt.Errorf("words: insert %s %q: %w", kind, name, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return false, err
			}
			for i, w := range c.Words(kind, name) {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO catalog_words (bucket_id, position, word) VALUES (?, ?, ?)`, id, i, w); err != nil {
					return false, fmt.Errorf("words: insert word %q: %w", w, err)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("words: commit seed: %w", err)
	}
	return true, nil
}
