package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-site-cms/data"
	"github.com/goliatone/go-site-cms/internal/commands"
	contentcmd "github.com/goliatone/go-site-cms/internal/commands/content"
	markdowncmd "github.com/goliatone/go-site-cms/internal/commands/markdown"
	"github.com/goliatone/go-site-cms/internal/content"
	sitehttp "github.com/goliatone/go-site-cms/internal/http"
	"github.com/goliatone/go-site-cms/internal/links"
	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/internal/logging/gologger"
	"github.com/goliatone/go-site-cms/internal/markdown"
	"github.com/goliatone/go-site-cms/internal/runtimeconfig"
	"github.com/goliatone/go-site-cms/internal/storage"
	"github.com/goliatone/go-site-cms/internal/uploads"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"
)

// ErrMarkdownDisabled is returned by the markdown accessors when the
// configuration leaves the importer off.
var ErrMarkdownDisabled = errors.New("di: markdown import is disabled")

// Container wires the site CMS modules together.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB   *bun.DB
	ownsDB  bool
	records content.Repository

	contentSvc   content.Service
	uploadStore  uploads.Store
	routeManager *urlkit.RouteManager
	linkResolver *links.Resolver

	markdownSvc    *markdown.Service
	markdownParser markdown.Parser

	contentCommands  contentcmd.Handlers
	importHandler    *markdowncmd.ImportDirectoryHandler
	syncHandler      *markdowncmd.SyncDirectoryHandler
	markdownCommands bool
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB reuses an open database instead of opening Config.Storage. The
// caller keeps ownership and closes it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithRepository overrides the record repository.
func WithRepository(repo content.Repository) Option {
	return func(c *Container) {
		c.records = repo
	}
}

// WithContentService overrides the default content service binding.
func WithContentService(svc content.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithUploadStore overrides the upload backend selected by Config.Uploads.
func WithUploadStore(store uploads.Store) Option {
	return func(c *Container) {
		c.uploadStore = store
	}
}

// WithRouteManager overrides the route manager used to build public URLs.
func WithRouteManager(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// WithMarkdownParser overrides the goldmark parser used by the importer.
func WithMarkdownParser(parser markdown.Parser) Option {
	return func(c *Container) {
		c.markdownParser = parser
	}
}

// WithMarkdownService overrides the markdown importer. It also enables the
// markdown commands regardless of Config.Markdown.Enabled.
func WithMarkdownService(svc *markdown.Service) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// NewContainer validates cfg and builds every module it describes.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureContent()
	c.configureRoutes()
	if err := c.configureUploads(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureMarkdown(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureCommands()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "noop":
		c.loggerProvider = nil
		return nil
	case "console":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    "console",
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	}
}

func (c *Container) configureStorage(ctx context.Context) error {
	logger := logging.StorageLogger(c.loggerProvider)
	if c.records != nil || c.contentSvc != nil {
		return nil
	}

	if c.bunDB == nil {
		if strings.EqualFold(strings.TrimSpace(c.Config.Storage.Driver), "memory") {
			c.records = content.NewMemoryRepository()
			logger.Info("storage.configured", "driver", "memory")
			return nil
		}
		db, err := storage.Open(storage.Config{
			Driver:       c.Config.Storage.Driver,
			DSN:          c.Config.Storage.DSN,
			MaxOpenConns: c.Config.Storage.MaxOpenConns,
		})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if c.Config.Storage.AutoMigrate {
		if err := storage.Migrate(ctx, c.bunDB, data.Migrations(), logger); err != nil {
			c.Close()
			return err
		}
	}
	c.records = content.NewBunRepository(c.bunDB)
	logger.Info("storage.configured",
		"driver", c.bunDB.Dialect().Name(),
		"auto_migrate", c.Config.Storage.AutoMigrate,
	)
	return nil
}

func (c *Container) configureContent() {
	if c.contentSvc != nil {
		return
	}
	c.contentSvc = content.NewService(c.records,
		content.WithLogger(logging.ContentLogger(c.loggerProvider)),
	)
}

func (c *Container) configureRoutes() {
	if c.routeManager == nil {
		routeCfg := c.Config.Routes.RouteConfig
		if routeCfg == nil {
			routeCfg = links.DefaultRouteConfig(c.Config.Routes.BaseURL)
		}
		c.routeManager = urlkit.NewRouteManager(routeCfg)
	}
	group := strings.TrimSpace(c.Config.Routes.Group)
	if group == "" {
		group = links.DefaultGroup
	}
	c.linkResolver = links.NewResolver(c.routeManager, group)
}

func (c *Container) configureUploads(ctx context.Context) error {
	if c.uploadStore != nil {
		return nil
	}
	cfg := c.Config.Uploads
	policy := uploads.Policy{
		AllowedExtensions: cfg.AllowedExtensions,
		MaxBytes:          cfg.MaxBytes,
	}
	store, err := uploads.Open(ctx, uploads.Config{
		Provider: cfg.Provider,
		FS: uploads.FSConfig{
			Root:      cfg.Root,
			URLPrefix: cfg.URLPrefix,
			Policy:    policy,
		},
		S3: uploads.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
			URLPrefix:       cfg.S3.URLPrefix,
			Policy:          policy,
		},
	}, logging.UploadsLogger(c.loggerProvider))
	if err != nil {
		return fmt.Errorf("di: uploads: %w", err)
	}
	c.uploadStore = store
	return nil
}

func (c *Container) configureMarkdown() error {
	if c.markdownSvc != nil {
		c.markdownCommands = true
		return nil
	}
	cfg := c.Config.Markdown
	if !cfg.Enabled {
		return nil
	}
	svc, err := markdown.NewService(markdown.Config{
		BasePath:    cfg.ContentDir,
		Pattern:     cfg.Pattern,
		Recursive:   cfg.Recursive,
		ContentType: cfg.ContentType,
		Parser: markdown.ParseOptions{
			Extensions: cfg.Parser.Extensions,
			HardWraps:  cfg.Parser.HardWraps,
			SafeMode:   cfg.Parser.SafeMode,
		},
	}, c.contentSvc, c.markdownParser, logging.MarkdownLogger(c.loggerProvider))
	if err != nil {
		return fmt.Errorf("di: markdown: %w", err)
	}
	c.markdownSvc = svc
	c.markdownCommands = true
	return nil
}

func (c *Container) configureCommands() {
	timeout := c.Config.Commands.Timeout
	c.contentCommands = contentcmd.NewHandlers(c.contentSvc, commands.CommandLogger(c.loggerProvider, "content"), timeout)
	if c.markdownCommands {
		logger := commands.CommandLogger(c.loggerProvider, "markdown")
		c.importHandler = markdowncmd.NewImportDirectoryHandler(c.markdownSvc, logger)
		c.syncHandler = markdowncmd.NewSyncDirectoryHandler(c.markdownSvc, logger)
	}
}

// LoggerProvider returns the provider modules draw their loggers from. It
// is nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the logger for module, annotated with the module name.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// DB returns the database backing the store, or nil for the memory driver.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// Migrator returns a migrator over the container database.
func (c *Container) Migrator() (*storage.Migrator, error) {
	if c.bunDB == nil {
		return nil, fmt.Errorf("di: storage driver %q has no migrations", c.Config.Storage.Driver)
	}
	return storage.NewMigrator(c.bunDB, data.Migrations(), logging.StorageLogger(c.loggerProvider))
}

func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

func (c *Container) UploadStore() uploads.Store {
	return c.uploadStore
}

func (c *Container) LinkResolver() *links.Resolver {
	return c.linkResolver
}

func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// ContentCommands returns the content command handlers.
func (c *Container) ContentCommands() contentcmd.Handlers {
	return c.contentCommands
}

// MarkdownService returns the markdown importer when it is enabled.
func (c *Container) MarkdownService() (*markdown.Service, error) {
	if c.markdownSvc == nil {
		return nil, ErrMarkdownDisabled
	}
	return c.markdownSvc, nil
}

// ImportDirectoryHandler returns the markdown import command handler.
func (c *Container) ImportDirectoryHandler() (*markdowncmd.ImportDirectoryHandler, error) {
	if c.importHandler == nil {
		return nil, ErrMarkdownDisabled
	}
	return c.importHandler, nil
}

// SyncDirectoryHandler returns the markdown sync command handler.
func (c *Container) SyncDirectoryHandler() (*markdowncmd.SyncDirectoryHandler, error) {
	if c.syncHandler == nil {
		return nil, ErrMarkdownDisabled
	}
	return c.syncHandler, nil
}

// AdminAPI builds the administrative endpoints over the container services.
func (c *Container) AdminAPI() *sitehttp.AdminAPI {
	return sitehttp.NewAdminAPI(
		sitehttp.WithBasePath(c.Config.HTTP.AdminBasePath),
		sitehttp.WithContentService(c.contentSvc),
		sitehttp.WithUploadStore(c.uploadStore),
		sitehttp.WithLinkResolver(c.linkResolver),
		sitehttp.WithAdminLogger(logging.HTTPLogger(c.loggerProvider)),
		sitehttp.WithMaxUploadBytes(c.Config.Uploads.MaxBytes),
	)
}

// PublicAPI builds the read-only site endpoints.
func (c *Container) PublicAPI() *sitehttp.PublicAPI {
	return sitehttp.NewPublicAPI(c.contentSvc,
		sitehttp.WithPublicBasePath(c.Config.HTTP.PublicBasePath),
		sitehttp.WithPublicLinkResolver(c.linkResolver),
	)
}

// Handler registers the admin and public APIs on a fresh mux.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := c.AdminAPI().Register(mux); err != nil {
		return nil, err
	}
	if err := c.PublicAPI().Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}
