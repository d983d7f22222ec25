package storage

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

// Dialect directories inside the migrations tree.
const (
	postgresDir = "postgres"
	sqliteDir   = "sqlite"
)

// Migrator applies the embedded SQL migrations with bun/migrate.
type Migrator struct {
	db       *bun.DB
	migrator *migrate.Migrator
	logger   interfaces.Logger
}

// NewMigrator discovers the migrations for db's dialect in tree.
func NewMigrator(db *bun.DB, tree fs.FS, logger interfaces.Logger) (*Migrator, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	dir := postgresDir
	if db.Dialect().Name() == dialect.SQLite {
		dir = sqliteDir
	}
	source, err := fs.Sub(tree, dir)
	if err != nil {
		return nil, fmt.Errorf("storage: %s migrations: %w", dir, err)
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(source); err != nil {
		return nil, fmt.Errorf("storage: discover migrations: %w", err)
	}
	return &Migrator{
		db:       db,
		migrator: migrate.NewMigrator(db, migrations),
		logger:   logger,
	}, nil
}

// Up applies every pending migration and returns the names applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("storage: init migrations: %w", err)
	}
	group, err := m.migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	if group.IsZero() {
		m.logger.Debug("storage.migrate.noop")
		return nil, nil
	}
	names := make([]string, 0, len(group.Migrations))
	for _, migration := range group.Migrations {
		names = append(names, migration.Name)
	}
	m.logger.Info("storage.migrate.applied", "group", group.ID, "count", len(names))
	return names, nil
}

// Down rolls back the most recent migration group.
func (m *Migrator) Down(ctx context.Context) ([]string, error) {
	if err := m.migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("storage: init migrations: %w", err)
	}
	group, err := m.migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: rollback: %w", err)
	}
	if group.IsZero() {
		return nil, nil
	}
	names := make([]string, 0, len(group.Migrations))
	for _, migration := range group.Migrations {
		names = append(names, migration.Name)
	}
	m.logger.Info("storage.migrate.rolled_back", "group", group.ID, "count", len(names))
	return names, nil
}

// Migrate is the one-shot form of NewMigrator followed by Up.
func Migrate(ctx context.Context, db *bun.DB, tree fs.FS, logger interfaces.Logger) error {
	migrator, err := NewMigrator(db, tree, logger)
	if err != nil {
		return err
	}
	_, err = migrator.Up(ctx)
	return err
}
