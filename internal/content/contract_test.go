package content_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/internal/sections"
	"github.com/goliatone/go-site-cms/pkg/testsupport"
	"github.com/google/uuid"
)

type repoFactory func(t *testing.T) content.Repository

func repoFactories() map[string]repoFactory {
	return map[string]repoFactory{
		"memory": func(*testing.T) content.Repository {
			return content.NewMemoryRepository()
		},
		"sqlite": func(t *testing.T) content.Repository {
			return content.NewBunRepository(testsupport.NewSQLiteDB(t))
		},
	}
}

// fixedClock returns the same instant until advanced.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func projectRequest(slug string) content.CreateRequest {
	return content.CreateRequest{
		ContentType: content.TypeProject,
		Slug:        slug,
		Fields: map[string]any{
			"title":        "Acme Portal",
			"description":  "Customer portal",
			"fullDesc":     "A long description of the portal.",
			"previewImage": "/x.png",
		},
	}
}

func TestContentStoreContract(t *testing.T) {
	for name, factory := range repoFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("acme portal lifecycle", func(t *testing.T) { testAcmePortalLifecycle(t, factory(t)) })
			t.Run("duplicate slug conflicts", func(t *testing.T) { testDuplicateSlug(t, factory(t)) })
			t.Run("list ordering", func(t *testing.T) { testListOrdering(t, factory(t)) })
			t.Run("list active filter", func(t *testing.T) { testListActiveFilter(t, factory(t)) })
			t.Run("update missing id", func(t *testing.T) { testUpdateMissing(t, factory(t)) })
			t.Run("upsert replaces sections", func(t *testing.T) { testUpsertReplaces(t, factory(t)) })
			t.Run("change slug", func(t *testing.T) { testChangeSlug(t, factory(t)) })
			t.Run("concurrent create", func(t *testing.T) { testConcurrentCreate(t, factory(t)) })
			t.Run("concurrent upsert", func(t *testing.T) { testConcurrentUpsert(t, factory(t)) })
			t.Run("upsert keeps slug", func(t *testing.T) { testUpsertKeepsSlug(t, factory(t)) })
			t.Run("slug scoped by type", func(t *testing.T) { testSlugScopedByType(t, factory(t)) })
		})
	}
}

func testAcmePortalLifecycle(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	clock := newFixedClock()
	svc := content.NewService(repo, content.WithClock(clock.Now))

	hero, err := sections.Build(sections.Hero{Title: "Acme", Subtitle: "Portal"})
	if err != nil {
		t.Fatalf("build sections: %v", err)
	}
	req := projectRequest("acme-portal")
	req.Sections = hero

	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at, got %v and %v", created.CreatedAt, created.UpdatedAt)
	}
	if !created.IsActive {
		t.Fatalf("expected new records to default to active")
	}

	fetched, err := svc.GetByKey(ctx, content.TypeProject, "acme-portal")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != created.ID || fetched.Title() != "Acme Portal" {
		t.Fatalf("unexpected record %+v", fetched)
	}
	decoded, ok, err := sections.Decode[sections.Hero](fetched.Sections, sections.NameHero)
	if err != nil || !ok {
		t.Fatalf("decode hero: ok=%v err=%v", ok, err)
	}
	if decoded.Subtitle != "Portal" {
		t.Fatalf("expected hero subtitle Portal, got %q", decoded.Subtitle)
	}

	byID, err := svc.GetByKey(ctx, content.TypeProject, created.ID.String())
	if err != nil || byID.Slug != "acme-portal" {
		t.Fatalf("get by id: %v %+v", err, byID)
	}

	fields := projectRequest("acme-portal").Fields
	fields["title"] = "Acme Portal v2"
	updated, err := svc.Update(ctx, content.UpdateRequest{
		ContentType: content.TypeProject,
		ID:          created.ID,
		Fields:      fields,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title() != "Acme Portal v2" {
		t.Fatalf("expected updated title, got %q", updated.Title())
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updated_at to advance, got %v <= %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at must not change")
	}
	if len(updated.Sections) != 0 {
		t.Fatalf("expected omitted sections to be removed, got %v", updated.Sections)
	}

	if err := svc.Delete(ctx, content.TypeProject, created.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByKey(ctx, content.TypeProject, "acme-portal"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(ctx, content.TypeProject, "acme-portal"); content.KindOf(err) != content.KindNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func testDuplicateSlug(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	original, err := svc.Create(ctx, projectRequest("dup"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second := projectRequest("dup")
	second.Fields["title"] = "Other"
	_, err = svc.Create(ctx, second)
	var conflict *content.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Slug != "dup" {
		t.Fatalf("unexpected conflict %+v", conflict)
	}

	stored, err := svc.GetBySlug(ctx, content.TypeProject, "dup")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ID != original.ID || stored.Title() != "Acme Portal" {
		t.Fatalf("original record changed: %+v", stored)
	}

	withID := projectRequest("dup-two")
	withID.ID = original.ID
	if _, err := svc.Create(ctx, withID); content.KindOf(err) != content.KindConflict {
		t.Fatalf("expected conflict on duplicate id, got %v", err)
	}
}

func testListOrdering(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	clock := newFixedClock()
	svc := content.NewService(repo, content.WithClock(clock.Now))

	if _, err := svc.Create(ctx, projectRequest("a")); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := svc.Create(ctx, projectRequest("b")); err != nil {
		t.Fatalf("create b: %v", err)
	}
	assertSlugs(t, svc, content.ListFilter{}, "b", "a")

	if err := svc.Delete(ctx, content.TypeProject, "a"); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	if _, err := svc.Create(ctx, projectRequest("a")); err != nil {
		t.Fatalf("recreate a: %v", err)
	}
	assertSlugs(t, svc, content.ListFilter{}, "a", "b")

	clock.Advance(-time.Hour)
	if _, err := svc.Create(ctx, projectRequest("older")); err != nil {
		t.Fatalf("create older: %v", err)
	}
	assertSlugs(t, svc, content.ListFilter{}, "a", "b", "older")
}

func testListActiveFilter(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	inactive := false
	hidden := projectRequest("hidden")
	hidden.IsActive = &inactive
	if _, err := svc.Create(ctx, hidden); err != nil {
		t.Fatalf("create hidden: %v", err)
	}
	if _, err := svc.Create(ctx, projectRequest("visible")); err != nil {
		t.Fatalf("create visible: %v", err)
	}

	assertSlugs(t, svc, content.ListFilter{ActiveOnly: true}, "visible")

	all, err := svc.List(ctx, content.TypeProject, content.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if _, err := svc.GetByKey(ctx, content.TypeProject, "hidden"); err != nil {
		t.Fatalf("inactive records stay readable by key: %v", err)
	}
}

func testUpdateMissing(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	_, err := svc.Update(ctx, content.UpdateRequest{
		ContentType: content.TypeProject,
		ID:          uuid.New(),
		Fields:      projectRequest("x").Fields,
	})
	if content.KindOf(err) != content.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	records, err := svc.List(ctx, content.TypeProject, content.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("update must not create records, got %d", len(records))
	}
}

func testUpsertReplaces(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	first, err := svc.Upsert(ctx, content.UpsertRequest{
		ContentType: content.TypeProject,
		Slug:        "portal",
		Fields:      projectRequest("portal").Fields,
		Sections: map[string]any{
			sections.NameCTA:  map[string]any{"title": "Talk to us"},
			sections.NameHero: map[string]any{"title": "Hero"},
		},
	})
	if err != nil {
		t.Fatalf("upsert create: %v", err)
	}

	second, err := svc.Upsert(ctx, content.UpsertRequest{
		ContentType: content.TypeProject,
		Slug:        "portal",
		Fields:      projectRequest("portal").Fields,
		Sections: map[string]any{
			sections.NameHero: map[string]any{"title": "New hero"},
		},
	})
	if err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert must keep the id")
	}
	if _, ok := second.Sections[sections.NameCTA]; ok {
		t.Fatalf("expected omitted cta section to be removed")
	}
	hero, _ := second.Sections[sections.NameHero].(map[string]any)
	if hero["title"] != "New hero" {
		t.Fatalf("expected hero replaced, got %v", hero)
	}

	third, err := svc.Upsert(ctx, content.UpsertRequest{
		ContentType: content.TypeProject,
		ID:          first.ID,
		Slug:        "portal",
		Fields:      projectRequest("portal").Fields,
	})
	if err != nil {
		t.Fatalf("upsert by id: %v", err)
	}
	if third.ID != first.ID {
		t.Fatalf("upsert by id created a new record")
	}

	_, err = svc.Upsert(ctx, content.UpsertRequest{
		ContentType: content.TypeProject,
		Slug:        "broken",
		Fields:      map[string]any{"title": "only"},
	})
	if content.KindOf(err) != content.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func testChangeSlug(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	a, err := svc.Create(ctx, projectRequest("first"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, projectRequest("second")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ChangeSlug(ctx, content.ChangeSlugRequest{ContentType: content.TypeProject, ID: a.ID, Slug: "second"}); content.KindOf(err) != content.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	renamed, err := svc.ChangeSlug(ctx, content.ChangeSlugRequest{ContentType: content.TypeProject, ID: a.ID, Slug: "renamed"})
	if err != nil {
		t.Fatalf("change slug: %v", err)
	}
	if renamed.Slug != "renamed" || renamed.ID != a.ID {
		t.Fatalf("unexpected record %+v", renamed)
	}
	if _, err := svc.GetBySlug(ctx, content.TypeProject, "first"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("old slug should be free, got %v", err)
	}

	_, err = svc.Update(ctx, content.UpdateRequest{
		ContentType: content.TypeProject,
		ID:          a.ID,
		Slug:        "sneaky",
		Fields:      projectRequest("x").Fields,
	})
	if content.KindOf(err) != content.KindValidation {
		t.Fatalf("update must not rename, got %v", err)
	}
}

func testConcurrentCreate(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		others    []error
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, projectRequest("x"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, content.ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if succeeded != 1 || conflicts != writers-1 {
		t.Fatalf("expected exactly one success, got %d successes and %d conflicts", succeeded, conflicts)
	}
}

func testConcurrentUpsert(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	const writers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Upsert(ctx, content.UpsertRequest{
				ContentType: content.TypeProject,
				Slug:        "race",
				Fields:      projectRequest("race").Fields,
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	records, err := svc.List(ctx, content.TypeProject, content.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
}

func testUpsertKeepsSlug(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	original, err := svc.Create(ctx, projectRequest("original"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Upsert(ctx, content.UpsertRequest{
		ContentType: content.TypeProject,
		ID:          original.ID,
		Slug:        "renamed",
		Fields:      projectRequest("renamed").Fields,
	})
	var vErr *content.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.Fields["slug"]; !ok {
		t.Fatalf("expected error on slug, got %v", vErr.FieldMessages())
	}

	stored, err := svc.GetByKey(ctx, content.TypeProject, original.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Slug != "original" {
		t.Fatalf("expected slug to stay original, got %q", stored.Slug)
	}
	if _, err := svc.GetByKey(ctx, content.TypeProject, "renamed"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected no record under the new slug, got %v", err)
	}
}

func testSlugScopedByType(t *testing.T, repo content.Repository) {
	ctx := context.Background()
	svc := content.NewService(repo)

	if _, err := svc.Create(ctx, projectRequest("shared")); err != nil {
		t.Fatalf("create project: %v", err)
	}
	_, err := svc.Create(ctx, content.CreateRequest{
		ContentType: content.TypePage,
		Slug:        "shared",
		Fields:      map[string]any{"title": "About"},
	})
	if err != nil {
		t.Fatalf("same slug in another type should be allowed: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, content.TypePost, "shared"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected not found across types, got %v", err)
	}
}

func assertSlugs(t *testing.T, svc content.Service, filter content.ListFilter, want ...string) {
	t.Helper()
	records, err := svc.List(context.Background(), content.TypeProject, filter)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, len(records))
	for i, record := range records {
		got[i] = record.Slug
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
