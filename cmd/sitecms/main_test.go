package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	cms "github.com/goliatone/go-site-cms"
	"github.com/goliatone/go-site-cms/internal/runtimeconfig"
	"github.com/goliatone/go-site-cms/pkg/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const post = `---
title: Hello World
excerpt: The first post
tags: [go, cms]
---
# Hello

Welcome.
`

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Storage.DSN = ""
	cfg.Uploads.Root = t.TempDir()
	cfg.Logging.Provider = "noop"
	return cfg
}

func captureModule(t *testing.T) **cms.Module {
	t.Helper()
	var captured *cms.Module
	original := moduleBuilder
	moduleBuilder = func(ctx context.Context, cfg runtimeconfig.Config) (*cms.Module, error) {
		module, err := cms.New(ctx, cfg)
		captured = module
		return module, err
	}
	t.Cleanup(func() { moduleBuilder = original })
	return &captured
}

func TestRunImportStoresPosts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.md"), []byte(post), 0o644))
	captured := captureModule(t)

	var out bytes.Buffer
	err := run(context.Background(), testConfig(t), []string{"import", "-content-dir", dir}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "markdown import command executed successfully")

	record, err := (*captured).Content().GetByKey(context.Background(), cms.TypePost, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", record.Fields["title"])
}

func TestRunImportDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.md"), []byte(post), 0o644))
	captured := captureModule(t)

	err := run(context.Background(), testConfig(t), []string{"import", "-content-dir", dir, "-dry-run"}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = (*captured).Content().GetByKey(context.Background(), cms.TypePost, "hello-world")
	assert.ErrorIs(t, err, cms.ErrNotFound)
}

func TestRunSyncExecutes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.md"), []byte(post), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), testConfig(t), []string{"sync", "-content-dir", dir, "-delete-orphaned"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "markdown sync command executed successfully")
}

func TestRunMigrateSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.DSN = testsupport.SQLiteMemoryDSN(t.Name())

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, []string{"migrate", "up"}, &out))
	assert.Contains(t, out.String(), "up ")
}

func TestRunMigrateRequiresDatabase(t *testing.T) {
	err := run(context.Background(), testConfig(t), []string{"migrate"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testConfig(t), []string{"publish"}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "usage: sitecms")
}

func TestEnvConfigMapsOntoRuntimeConfig(t *testing.T) {
	t.Setenv("SITECMS_DB_DRIVER", "postgres")
	t.Setenv("SITECMS_DB_DSN", "postgres://cms@localhost/cms")
	t.Setenv("SITECMS_UPLOADS_PROVIDER", "s3")
	t.Setenv("AWS_S3_BUCKET", "site-media")
	t.Setenv("SITECMS_UPLOADS_EXTENSIONS", ".png,.jpg")
	t.Setenv("SITECMS_COMMAND_TIMEOUT", "5s")

	env, err := LoadEnv()
	require.NoError(t, err)
	cfg := env.RuntimeConfig()

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://cms@localhost/cms", cfg.Storage.DSN)
	assert.Equal(t, "s3", cfg.Uploads.Provider)
	assert.Equal(t, "site-media", cfg.Uploads.S3.Bucket)
	assert.Equal(t, []string{".png", ".jpg"}, cfg.Uploads.AllowedExtensions)
	assert.Equal(t, 5*time.Second, cfg.Commands.Timeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	require.NoError(t, cfg.Validate())
}
