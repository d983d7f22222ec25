package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/identity"
	"github.com/goliatone/go-site-cms/internal/sections"
	"github.com/google/uuid"
)

func TestServiceCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := content.NewService(content.NewMemoryRepository())

	cases := []struct {
		name  string
		req   content.CreateRequest
		field string
	}{
		{
			name:  "unknown type",
			req:   content.CreateRequest{ContentType: "recipe", Slug: "x"},
			field: "content_type",
		},
		{
			name:  "missing slug",
			req:   projectRequest(""),
			field: "slug",
		},
		{
			name:  "invalid slug",
			req:   projectRequest("Not A Slug!"),
			field: "slug",
		},
		{
			name: "blank required field",
			req: func() content.CreateRequest {
				r := projectRequest("blank")
				r.Fields["previewImage"] = "   "
				return r
			}(),
			field: "fields.previewImage",
		},
		{
			name: "section not defined for type",
			req: func() content.CreateRequest {
				r := projectRequest("pricing")
				r.Sections = map[string]any{sections.NamePricing: map[string]any{"plans": []any{}}}
				return r
			}(),
			field: "sections.pricingSection",
		},
		{
			name: "section with wrong shape",
			req: func() content.CreateRequest {
				r := projectRequest("shape")
				r.Sections = map[string]any{sections.NameFeatures: map[string]any{"items": "not a list"}}
				return r
			}(),
			field: "sections.featuresSection",
		},
		{
			name: "field with wrong type",
			req: func() content.CreateRequest {
				r := projectRequest("typed")
				r.Fields["technologies"] = "go"
				return r
			}(),
			field: "fields",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			var vErr *content.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if content.KindOf(err) != content.KindValidation {
				t.Fatalf("expected validation kind, got %s", content.KindOf(err))
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tc.field, vErr.FieldMessages())
			}
		})
	}
}

func TestServiceCreateReportsEveryMissingField(t *testing.T) {
	_, err := content.NewService(content.NewMemoryRepository()).Create(context.Background(), content.CreateRequest{
		ContentType: content.TypeJob,
		Slug:        "backend-engineer",
		Fields:      map[string]any{"title": "Backend Engineer"},
	})
	var vErr *content.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"department", "location", "employmentType", "description"} {
		if _, ok := vErr.Fields["fields."+field]; !ok {
			t.Fatalf("expected %s to be reported, got %v", field, vErr.FieldMessages())
		}
	}
}

func TestServiceCreateUsesExternalID(t *testing.T) {
	ctx := context.Background()
	svc := content.NewService(content.NewMemoryRepository())

	created, err := svc.Create(ctx, content.CreateRequest{
		ContentType: content.TypeJob,
		Slug:        "backend-engineer",
		ExternalID:  "1712345678901",
		Fields: map[string]any{
			"title":          "Backend Engineer",
			"department":     "Engineering",
			"location":       "Remote",
			"employmentType": "Full-time",
			"description":    "Build services.",
		},
		Sections: map[string]any{
			sections.NameRequirements: map[string]any{"items": []any{"Go", "SQL"}},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := identity.RecordUUID(content.TypeJob, "1712345678901")
	if created.ID != want {
		t.Fatalf("expected id %s, got %s", want, created.ID)
	}

	again, err := svc.Upsert(ctx, content.UpsertRequest{
		ContentType: content.TypeJob,
		Slug:        "backend-engineer",
		ExternalID:  "1712345678901",
		Fields:      created.Fields,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("external id should resolve to the same record")
	}
}

func TestServiceUsesIDGenerator(t *testing.T) {
	fixed := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	svc := content.NewService(content.NewMemoryRepository(), content.WithIDGenerator(func() uuid.UUID { return fixed }))

	created, err := svc.Create(context.Background(), projectRequest("generated"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != fixed {
		t.Fatalf("expected generated id %s, got %s", fixed, created.ID)
	}
}

func TestServiceGetByKeyFallsBackToSlug(t *testing.T) {
	ctx := context.Background()
	svc := content.NewService(content.NewMemoryRepository())

	// A slug that happens to parse as a UUID is still found.
	slugID := "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	created, err := svc.Create(ctx, projectRequest(slugID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	found, err := svc.GetByKey(ctx, content.TypeProject, slugID)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected slug fallback to find the record")
	}

	if _, err := svc.Create(ctx, projectRequest("acme-portal")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetByKey(ctx, content.TypeProject, "ACME-PORTAL"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("lookups are case sensitive, got %v", err)
	}
}

func TestServiceNullSectionRemovesIt(t *testing.T) {
	ctx := context.Background()
	svc := content.NewService(content.NewMemoryRepository())

	req := projectRequest("nulls")
	req.Sections = map[string]any{sections.NameCTA: map[string]any{"title": "Go"}}
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, content.UpdateRequest{
		ContentType: content.TypeProject,
		ID:          created.ID,
		Fields:      req.Fields,
		Sections:    map[string]any{sections.NameCTA: nil},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := updated.Sections[sections.NameCTA]; ok {
		t.Fatalf("expected cta removed")
	}
}

func TestServiceUpdateKeepsActiveFlagWhenOmitted(t *testing.T) {
	ctx := context.Background()
	svc := content.NewService(content.NewMemoryRepository())

	inactive := false
	req := projectRequest("draft")
	req.IsActive = &inactive
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(ctx, content.UpdateRequest{
		ContentType: content.TypeProject,
		ID:          created.ID,
		Fields:      req.Fields,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("expected record to stay inactive")
	}
}

func TestServiceTypes(t *testing.T) {
	types := content.NewService(content.NewMemoryRepository()).Types()
	names := make([]string, len(types))
	for i, def := range types {
		names[i] = def.Name
	}
	want := []string{"job", "page", "post", "product", "project"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestKindOf(t *testing.T) {
	cases := map[error]content.ErrorKind{
		nil:                                  "",
		&content.ValidationError{}:           content.KindValidation,
		&content.ConflictError{}:             content.KindConflict,
		&content.NotFoundError{}:             content.KindNotFound,
		&content.StorageError{Op: "read"}:    content.KindStorageUnavailable,
		errors.New("connection reset"):       content.KindStorageUnavailable,
	}
	for err, want := range cases {
		if got := content.KindOf(err); got != want {
			t.Fatalf("KindOf(%v) = %q, want %q", err, got, want)
		}
	}
}
