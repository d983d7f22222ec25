package uploads_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-site-cms/internal/uploads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 2, 7, 10, 0, 0, 0, time.UTC) }

func TestObjectKey(t *testing.T) {
	key := uploads.ObjectKey(fixedNow(), "Team Photo.PNG", "abcd1234")
	assert.Equal(t, "2025/02/team-photo-abcd1234.png", key)

	key = uploads.ObjectKey(fixedNow(), `C:\fakepath\hero.jpg`, "x")
	assert.Equal(t, "2025/02/hero-x.jpg", key)
}

func TestPublicPath(t *testing.T) {
	assert.Equal(t, "/uploads/a.png", uploads.PublicPath("uploads/", "a.png"))
	assert.Equal(t, "/a.png", uploads.PublicPath("", "a.png"))
}

func TestFSStorePut(t *testing.T) {
	root := t.TempDir()
	store, err := uploads.NewFSStore(uploads.FSConfig{Root: root, URLPrefix: "/uploads"},
		uploads.WithFSClock(fixedNow),
		uploads.WithFSSuffix(func() string { return "s1" }),
	)
	require.NoError(t, err)

	path, err := store.Put(context.Background(), "preview.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/2025/02/preview-s1.png", path)

	data, err := os.ReadFile(filepath.Join(root, "2025", "02", "preview-s1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "/uploads", store.URLPrefix())
}

func TestFSStoreRejectsInput(t *testing.T) {
	root := t.TempDir()
	store, err := uploads.NewFSStore(uploads.FSConfig{
		Root:   root,
		Policy: uploads.Policy{MaxBytes: 4},
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "", strings.NewReader("x"))
	assert.ErrorIs(t, err, uploads.ErrFilenameRequired)

	_, err = store.Put(ctx, "script.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, uploads.ErrExtensionRejected)

	_, err = store.Put(ctx, "empty.png", strings.NewReader(""))
	assert.ErrorIs(t, err, uploads.ErrEmptyUpload)

	_, err = store.Put(ctx, "big.png", strings.NewReader("too many bytes"))
	assert.ErrorIs(t, err, uploads.ErrTooLarge)

	leftovers := 0
	_ = filepath.Walk(root, func(_ string, info os.FileInfo, _ error) error {
		if info != nil && !info.IsDir() {
			leftovers++
		}
		return nil
	})
	assert.Zero(t, leftovers, "failed uploads must not leave files behind")
}

func TestOpenSelectsProvider(t *testing.T) {
	store, err := uploads.Open(context.Background(), uploads.Config{
		Provider: "fs",
		FS:       uploads.FSConfig{Root: t.TempDir()},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &uploads.FSStore{}, store)

	_, err = uploads.Open(context.Background(), uploads.Config{Provider: "ftp"}, nil)
	assert.Error(t, err)
}
