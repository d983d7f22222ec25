package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
)

// FSConfig configures the local filesystem backend.
type FSConfig struct {
	// Root is the directory files are written below.
	Root string
	// URLPrefix is the public path Root is served under, e.g. /uploads.
	URLPrefix string
	Policy    Policy
}

// FSStore writes uploads to the local filesystem.
type FSStore struct {
	cfg    FSConfig
	now    func() time.Time
	suffix func() string
	logger interfaces.Logger
}

// FSOption customizes an FSStore.
type FSOption func(*FSStore)

func WithFSClock(now func() time.Time) FSOption {
	return func(s *FSStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFSSuffix overrides the random suffix added to every file name.
func WithFSSuffix(suffix func() string) FSOption {
	return func(s *FSStore) {
		if suffix != nil {
			s.suffix = suffix
		}
	}
}

func WithFSLogger(logger interfaces.Logger) FSOption {
	return func(s *FSStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFSStore validates cfg and creates the root directory when missing.
func NewFSStore(cfg FSConfig, opts ...FSOption) (*FSStore, error) {
	if cfg.Root == "" {
		return nil, errors.New("uploads: filesystem root is required")
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create root: %w", err)
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/uploads"
	}
	store := &FSStore{
		cfg:    cfg,
		now:    time.Now,
		suffix: randomSuffix,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

func (s *FSStore) Put(ctx context.Context, filename string, body io.Reader) (string, error) {
	if _, err := s.cfg.Policy.extension(filename); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(s.now(), filename, s.suffix())
	target := filepath.Join(s.cfg.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("uploads: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("uploads: create temp file: %w", err)
	}
	written, copyErr := io.Copy(tmp, s.cfg.Policy.limit(body))
	closeErr := tmp.Close()
	if copyErr == nil && written == 0 {
		copyErr = ErrEmptyUpload
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		if copyErr != nil {
			return "", fmt.Errorf("uploads: write %s: %w", filename, copyErr)
		}
		return "", fmt.Errorf("uploads: write %s: %w", filename, closeErr)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("uploads: finalize %s: %w", filename, err)
	}

	publicPath := PublicPath(s.cfg.URLPrefix, key)
	s.logger.Info("uploads.put", "backend", "fs", "path", publicPath, "bytes", written)
	return publicPath, nil
}

// Root returns the directory uploads are written to.
func (s *FSStore) Root() string {
	return s.cfg.Root
}

// URLPrefix returns the public path uploads are served under.
func (s *FSStore) URLPrefix() string {
	return "/" + strings.Trim(s.cfg.URLPrefix, "/")
}
