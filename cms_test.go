package cms_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	cms "github.com/goliatone/go-site-cms"
)

func newModule(t *testing.T) *cms.Module {
	t.Helper()
	cfg := cms.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Uploads.Root = t.TempDir()
	cfg.Logging.Provider = "noop"

	module, err := cms.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModuleContentRoundTrip(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)

	created, err := module.Content().Create(ctx, cms.CreateRequest{
		ContentType: cms.TypePage,
		Slug:        "about",
		Fields: map[string]any{
			"title":       "About",
			"description": "Who we are",
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	url, err := module.Links().URL(cms.TypePage, created.Slug)
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if url != "http://localhost:8080/about" {
		t.Fatalf("unexpected url %q", url)
	}

	_, err = module.Content().Create(ctx, cms.CreateRequest{
		ContentType: cms.TypePage,
		Slug:        "about",
		Fields:      created.Fields,
	})
	if !errors.Is(err, cms.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := module.Content().Delete(ctx, cms.TypePage, "about"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := module.Content().GetByKey(ctx, cms.TypePage, "about"); !errors.Is(err, cms.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestModuleExposesHandlerAndUploads(t *testing.T) {
	module := newModule(t)
	if module.Uploads() == nil {
		t.Fatalf("expected upload store")
	}
	if _, err := module.Handler(); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if _, err := module.Markdown(); err == nil {
		t.Fatalf("expected markdown to be disabled by default")
	}
}

func TestGetMigrationsFSHasDialectDirectories(t *testing.T) {
	for _, dir := range []string{"postgres", "sqlite"} {
		entries, err := fs.ReadDir(cms.GetMigrationsFS(), dir)
		if err != nil {
			t.Fatalf("read %s migrations: %v", dir, err)
		}
		if len(entries) == 0 {
			t.Fatalf("expected %s migrations", dir)
		}
	}
}
