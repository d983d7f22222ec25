package content_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/google/uuid"
)

func TestMemoryRepositoryCreateLeavesInputUntouched(t *testing.T) {
	repo := content.NewMemoryRepository()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	input := &content.Record{
		ContentType: content.TypeProject,
		Slug:        "acme-portal",
		IsActive:    true,
		Fields:      map[string]any{"title": "Acme Portal"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := repo.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("expected a generated id")
	}
	if input.ID != uuid.Nil {
		t.Fatalf("expected caller record to keep a nil id, got %s", input.ID)
	}
	if input.Seq != 0 {
		t.Fatalf("expected caller record to keep a zero seq, got %d", input.Seq)
	}
}
