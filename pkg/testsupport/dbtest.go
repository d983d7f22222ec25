package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-site-cms/data"
	"github.com/goliatone/go-site-cms/internal/storage"
	"github.com/uptrace/bun"
)

var dbCounter atomic.Int64

// SQLiteMemoryDSN returns a DSN for a named shared-cache in-memory database
// unique to this process, so parallel tests never see each other's rows.
func SQLiteMemoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, dbCounter.Add(1))
}

// NewSQLiteDB opens an in-memory SQLite database with the embedded migrations
// applied. The database is closed when the test finishes.
func NewSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()

	db, err := storage.Open(storage.Config{
		Driver: storage.DriverSQLite,
		DSN:    SQLiteMemoryDSN(t.Name()),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := storage.Migrate(context.Background(), db, data.Migrations(), nil); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
