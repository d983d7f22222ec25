package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrStorageDriverUnknown        = errors.New("sitecms config: storage driver is invalid")
	ErrStorageDSNRequired          = errors.New("sitecms config: storage dsn is required")
	ErrUploadsProviderUnknown      = errors.New("sitecms config: uploads provider is invalid")
	ErrUploadsRootRequired         = errors.New("sitecms config: uploads root is required for the fs provider")
	ErrUploadsBucketRequired       = errors.New("sitecms config: uploads bucket is required for the s3 provider")
	ErrUploadsMaxBytesInvalid      = errors.New("sitecms config: uploads max bytes must be zero or positive")
	ErrHTTPAddrRequired            = errors.New("sitecms config: http address is required")
	ErrRoutesBaseURLRequired       = errors.New("sitecms config: routes base url is required when no route config is supplied")
	ErrMarkdownContentDirRequired  = errors.New("sitecms config: markdown content directory is required when markdown is enabled")
	ErrLoggingProviderRequired     = errors.New("sitecms config: logging provider is required")
	ErrLoggingProviderUnknown      = errors.New("sitecms config: logging provider is invalid")
	ErrLoggingLevelInvalid         = errors.New("sitecms config: logging level is invalid")
	ErrLoggingFormatInvalid        = errors.New("sitecms config: logging format is invalid")
	ErrCommandsTimeoutInvalid      = errors.New("sitecms config: command timeout must be zero or positive")
	ErrHTTPShutdownTimeoutNegative = errors.New("sitecms config: http shutdown timeout must be zero or positive")
)

// Config aggregates everything the site CMS needs at startup.
type Config struct {
	Storage  StorageConfig
	Uploads  UploadsConfig
	HTTP     HTTPConfig
	Routes   RoutesConfig
	Markdown MarkdownConfig
	Commands CommandsConfig
	Logging  LoggingConfig
}

// StorageConfig selects the database.
type StorageConfig struct {
	// Driver is "sqlite3" or "postgres". "memory" keeps records in process.
	Driver       string
	DSN          string
	MaxOpenConns int
	// AutoMigrate applies pending migrations when the container starts.
	AutoMigrate bool
}

// UploadsConfig selects the upload backend.
type UploadsConfig struct {
	Provider          string
	Root              string
	URLPrefix         string
	MaxBytes          int64
	AllowedExtensions []string
	S3                S3Config
}

// S3Config configures the S3 upload backend.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
	KeyPrefix       string
	URLPrefix       string
}

// HTTPConfig configures the JSON APIs.
type HTTPConfig struct {
	Addr            string
	AdminBasePath   string
	PublicBasePath  string
	ShutdownTimeout time.Duration
}

// RoutesConfig configures public URL generation. RouteConfig wins over
// BaseURL when both are set.
type RoutesConfig struct {
	BaseURL     string
	Group       string
	RouteConfig *urlkit.Config
}

// MarkdownConfig captures filesystem and parser behaviour for post imports.
type MarkdownConfig struct {
	Enabled     bool
	ContentDir  string
	Pattern     string
	Recursive   bool
	ContentType string
	Parser      MarkdownParserConfig
}

// MarkdownParserConfig mirrors markdown.ParseOptions.
type MarkdownParserConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// CommandsConfig tunes the command handlers.
type CommandsConfig struct {
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns a configuration that runs against a local SQLite
// file and stores uploads on disk.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:      "sqlite3",
			DSN:         "file:sitecms.db?cache=shared&_fk=1",
			AutoMigrate: true,
		},
		Uploads: UploadsConfig{
			Provider:  "fs",
			Root:      "public/uploads",
			URLPrefix: "/uploads",
			MaxBytes:  10 << 20,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			AdminBasePath:   "/admin/api",
			PublicBasePath:  "/api",
			ShutdownTimeout: 10 * time.Second,
		},
		Routes: RoutesConfig{
			BaseURL: "http://localhost:8080",
			Group:   "site",
		},
		Markdown: MarkdownConfig{
			ContentDir:  "content/posts",
			Pattern:     "*.md",
			Recursive:   true,
			ContentType: "post",
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	driver := normalize(cfg.Storage.Driver)
	switch driver {
	case "memory":
	case "sqlite", "sqlite3", "postgres", "postgresql", "pg":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}

	switch normalize(cfg.Uploads.Provider) {
	case "", "fs", "local":
		if strings.TrimSpace(cfg.Uploads.Root) == "" {
			return ErrUploadsRootRequired
		}
	case "s3":
		if strings.TrimSpace(cfg.Uploads.S3.Bucket) == "" {
			return ErrUploadsBucketRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrUploadsProviderUnknown, cfg.Uploads.Provider)
	}
	if cfg.Uploads.MaxBytes < 0 {
		return ErrUploadsMaxBytesInvalid
	}

	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if cfg.HTTP.ShutdownTimeout < 0 {
		return ErrHTTPShutdownTimeoutNegative
	}
	if cfg.Routes.RouteConfig == nil && strings.TrimSpace(cfg.Routes.BaseURL) == "" {
		return ErrRoutesBaseURLRequired
	}
	if cfg.Markdown.Enabled && strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandsTimeoutInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
