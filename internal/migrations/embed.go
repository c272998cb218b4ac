// Package migrations provides embedded SQL schema files, one set per dialect.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed sql
var files embed.FS

// For returns the migration statements for dialect in apply order.
func For(dialect string) ([]string, error) {
	dir := "sql/" + dialect
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %q: %w", dialect, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	stmts := make([]string, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(files, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		stmts = append(stmts, string(b))
	}
	return stmts, nil
}
