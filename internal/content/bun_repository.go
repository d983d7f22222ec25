package content

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
)

// BunRepository stores records in a SQL database through bun.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Record]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db, repo: NewRecordRepository(db)}
}

// Create inserts record directly so constraint violations surface as driver
// errors and map onto ConflictError.
func (r *BunRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, mapWriteError(err, "create", record)
	}
	return cloneRecord(record), nil
}

func (r *BunRepository) GetByID(ctx context.Context, contentType string, id uuid.UUID) (*Record, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type = ?", contentType).
				Where("?TableAlias.id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, contentType, id.String())
	}
	if len(records) == 0 {
		return nil, notFound(contentType, id.String())
	}
	return records[0], nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, contentType, slug string) (*Record, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type = ?", contentType).
				Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, contentType, slug)
	}
	if len(records) == 0 {
		return nil, notFound(contentType, slug)
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context, contentType string, filter ListFilter) ([]*Record, error) {
	var records []*Record
	q := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.content_type = ?", contentType)
	if filter.ActiveOnly {
		q = q.Where("?TableAlias.is_active = ?", true)
	}
	if err := q.OrderExpr("?TableAlias.created_at DESC, ?TableAlias.seq DESC").Scan(ctx); err != nil {
		return nil, &StorageError{Op: "list", Cause: err}
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Record) (*Record, error) {
	res, err := r.db.NewUpdate().
		Model(record).
		Column("slug", "is_active", "fields", "sections", "updated_at").
		Where("id = ?", record.ID).
		Where("content_type = ?", record.ContentType).
		Exec(ctx)
	if err != nil {
		return nil, mapWriteError(err, "update", record)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, notFound(record.ContentType, record.ID.String())
	}
	return r.GetByID(ctx, record.ContentType, record.ID)
}

func (r *BunRepository) Delete(ctx context.Context, contentType string, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Record)(nil)).
		Where("id = ?", id).
		Where("content_type = ?", contentType).
		Exec(ctx)
	if err != nil {
		return &StorageError{Op: "delete", Cause: err}
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return notFound(contentType, id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) || goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return notFound(resource, key)
	}
	return &StorageError{Op: "read", Cause: err}
}

func mapWriteError(err error, op string, record *Record) error {
	if isUniqueViolation(err) {
		return &ConflictError{ContentType: record.ContentType, Slug: record.Slug, Cause: err}
	}
	return &StorageError{Op: op, Cause: err}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
