package content

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage of content records. Implementations enforce
// (content type, slug) uniqueness atomically and report a *ConflictError
// when it is violated, *NotFoundError for missing rows and *StorageError for
// everything else.
type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)
	GetByID(ctx context.Context, contentType string, id uuid.UUID) (*Record, error)
	GetBySlug(ctx context.Context, contentType, slug string) (*Record, error)
	// List orders by created_at descending, newest inserts first on ties.
	List(ctx context.Context, contentType string, filter ListFilter) ([]*Record, error)
	// Update overwrites slug, is_active, fields, sections and updated_at.
	Update(ctx context.Context, record *Record) (*Record, error)
	Delete(ctx context.Context, contentType string, id uuid.UUID) error
}

// NewRecordRepository wires content records into go-repository-bun.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *Record) string {
			return r.Slug
		},
	})
}
