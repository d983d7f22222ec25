package cms

import (
	"io/fs"

	"github.com/goliatone/go-site-cms/data"
)

// GetMigrationsFS returns the embedded migration files, one directory per
// dialect (postgres/ and sqlite/).
func GetMigrationsFS() fs.FS {
	return data.Migrations()
}
