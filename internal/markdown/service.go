package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
)

// Config controls how the Markdown service discovers and renders files.
type Config struct {
	BasePath    string
	Pattern     string
	Recursive   bool
	ContentType string
	Parser      ParseOptions
}

// Service loads Markdown documents from disk and imports them into the
// content store.
type Service struct {
	cfg      Config
	parser   Parser
	loader   *Loader
	importer *Importer
	logger   interfaces.Logger
}

// NewService builds a service rooted at cfg.BasePath. A nil parser selects
// goldmark with cfg.Parser.
func NewService(cfg Config, store ContentStore, parser Parser, logger interfaces.Logger) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return NewServiceFS(filesystem, cfg, store, parser, logger), nil
}

// NewServiceFS is NewService over an arbitrary filesystem.
func NewServiceFS(filesystem fs.FS, cfg Config, store ContentStore, parser Parser, logger interfaces.Logger) *Service {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: NewLoader(filesystem, LoaderConfig{
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		importer: NewImporter(ImporterConfig{
			Content: store,
			Parser:  parser,
			Logger:  logger,
		}),
		logger: logger,
	}
}

// Load reads a single document relative to the base path.
func (s *Service) Load(ctx context.Context, name string) (*Document, error) {
	return s.loader.LoadFile(ctx, normalisePath(name))
}

// LoadDirectory reads every matching document under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*Document, error) {
	return s.loader.LoadDirectory(ctx, normalisePath(dir))
}

// Render converts Markdown into HTML.
func (s *Service) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.Parse(markdown)
}

// ImportDirectory loads dir and upserts every document.
func (s *Service) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	docs, err := s.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	opts = s.withDefaults(opts)
	result, err := s.importer.ImportDocuments(ctx, docs, opts)
	if result != nil {
		s.logger.Info("markdown.import.completed",
			"directory", dir,
			"created", len(result.Created),
			"updated", len(result.Updated),
			"skipped", len(result.Skipped),
			"errors", len(result.Errors),
			"dry_run", opts.DryRun,
		)
	}
	return result, err
}

// Sync imports dir and, when requested, deletes orphaned records.
func (s *Service) Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error) {
	docs, err := s.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	opts.ImportOptions = s.withDefaults(opts.ImportOptions)
	result, err := s.importer.SyncDocuments(ctx, docs, opts)
	if result != nil {
		s.logger.Info("markdown.sync.completed",
			"directory", dir,
			"created", len(result.Created),
			"updated", len(result.Updated),
			"skipped", len(result.Skipped),
			"deleted", len(result.Deleted),
			"errors", len(result.Errors),
			"dry_run", opts.DryRun,
		)
	}
	return result, err
}

func (s *Service) withDefaults(opts ImportOptions) ImportOptions {
	if strings.TrimSpace(opts.ContentType) == "" {
		opts.ContentType = s.cfg.ContentType
	}
	return opts
}

func normalisePath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "."
	}
	return strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "./")
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
