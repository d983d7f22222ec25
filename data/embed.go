// Package data embeds the SQL migrations shipped with the site CMS.
package data

import (
	"embed"
	"io/fs"
)

//go:embed sql/migrations/postgres/*.sql sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrations returns the migration tree rooted at sql/migrations, with one
// directory per dialect.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "sql/migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
