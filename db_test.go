package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/config"
)

func TestLoadCatalogDBSeedsOnce(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "data", "words.db")

	first, err := loadCatalogDB(ctx, dsn)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	c1, t1, w1 := first.Stats()
	if c1 != 8 || t1 != 3 || w1 == 0 {
		t.Fatalf("stats %d/%d/%d", c1, t1, w1)
	}

	// second open: migrations and seed are no-ops, content unchanged
	second, err := loadCatalogDB(ctx, dsn)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if c2, t2, w2 := second.Stats(); c2 != c1 || t2 != t1 || w2 != w1 {
		t.Fatalf("catalog changed on reopen: %d/%d/%d", c2, t2, w2)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := openDB(filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	migs, err := assets.Migrations()
	if err != nil || len(migs) == 0 {
		t.Fatalf("migrations: %v (%d)", err, len(migs))
	}
	for i := 0; i < 2; i++ {
		if err := migrate(ctx, db, migs); err != nil {
			t.Fatalf("migrate pass %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil || n != len(migs) {
		t.Fatalf("_migrations rows = %d (%v)", n, err)
	}
}

func TestLoadCatalogSources(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(file, []byte("@category FRUITS\npomme\n@tier FACILE\npomme\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		cfg        config.Config
		categories int
	}{
		{"embedded", config.Config{}, 8},
		{"file", config.Config{CatalogFile: file}, 1},
		{"file wins over db", config.Config{CatalogFile: file, WordsDB: filepath.Join(t.TempDir(), "x.db")}, 1},
		{"sqlite", config.Config{WordsDB: filepath.Join(t.TempDir(), "y.db")}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := loadCatalog(ctx, &tt.cfg)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if c, _, _ := cat.Stats(); c != tt.categories {
				t.Fatalf("categories = %d, want %d", c, tt.categories)
			}
		})
	}

	if _, err := loadCatalog(ctx, &config.Config{CatalogFile: filepath.Join(t.TempDir(), "missing.txt")}); err == nil {
		t.Fatal("missing file accepted")
	}
}
