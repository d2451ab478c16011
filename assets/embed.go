// assets/embed.go
//
// Embedded static data for the server:
//   - catalog.txt: default word base (categories + difficulty tiers).
//   - sql/*.sql:   migrations for the optional SQLite catalog source.
package assets

import (
	"embed"
	"io"
	"io/fs"
	"sort"
)

//go:embed catalog.txt sql/*.sql
var FS embed.FS

// Catalog opens the embedded default word catalog.
func Catalog() (io.ReadCloser, error) {
	return FS.Open("catalog.txt")
}

// Migration is a single embedded SQL migration script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded migrations in lexical order.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: n, SQL: string(b)})
	}
	return out, nil
}
