package main

import (
	"time"

	"github.com/goliatone/go-site-cms/internal/runtimeconfig"
	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig is the process environment read at startup.
type EnvConfig struct {
	Storage  StorageEnv
	Uploads  UploadsEnv
	HTTP     HTTPEnv
	Markdown MarkdownEnv
	Logging  LoggingEnv

	BaseURL        string        `env:"SITECMS_BASE_URL" env-default:"http://localhost:8080"`
	CommandTimeout time.Duration `env:"SITECMS_COMMAND_TIMEOUT" env-default:"30s"`
}

type StorageEnv struct {
	Driver       string `env:"SITECMS_DB_DRIVER" env-default:"sqlite3"`
	DSN          string `env:"SITECMS_DB_DSN" env-default:"file:sitecms.db?cache=shared&_fk=1"`
	MaxOpenConns int    `env:"SITECMS_DB_MAX_OPEN_CONNS" env-default:"10"`
	AutoMigrate  bool   `env:"SITECMS_DB_AUTO_MIGRATE" env-default:"true"`
}

type UploadsEnv struct {
	Provider          string   `env:"SITECMS_UPLOADS_PROVIDER" env-default:"fs"`
	Root              string   `env:"SITECMS_UPLOADS_ROOT" env-default:"public/uploads"`
	URLPrefix         string   `env:"SITECMS_UPLOADS_URL_PREFIX" env-default:"/uploads"`
	MaxBytes          int64    `env:"SITECMS_UPLOADS_MAX_BYTES" env-default:"10485760"`
	AllowedExtensions []string `env:"SITECMS_UPLOADS_EXTENSIONS" env-separator:","`

	S3Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"AWS_S3_BUCKET"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"AWS_S3_ENDPOINT"`
	S3UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	S3KeyPrefix       string `env:"SITECMS_UPLOADS_S3_KEY_PREFIX" env-default:"uploads"`
	S3URLPrefix       string `env:"SITECMS_UPLOADS_S3_URL_PREFIX"`
}

type HTTPEnv struct {
	Addr            string        `env:"SITECMS_HTTP_ADDR" env-default:":8080"`
	AdminBasePath   string        `env:"SITECMS_ADMIN_BASE_PATH" env-default:"/admin/api"`
	PublicBasePath  string        `env:"SITECMS_PUBLIC_BASE_PATH" env-default:"/api"`
	ShutdownTimeout time.Duration `env:"SITECMS_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type MarkdownEnv struct {
	ContentDir  string   `env:"SITECMS_MARKDOWN_DIR" env-default:"content/posts"`
	Pattern     string   `env:"SITECMS_MARKDOWN_PATTERN" env-default:"*.md"`
	ContentType string   `env:"SITECMS_MARKDOWN_CONTENT_TYPE" env-default:"post"`
	Extensions  []string `env:"SITECMS_MARKDOWN_EXTENSIONS" env-separator:","`
	SafeMode    bool     `env:"SITECMS_MARKDOWN_SAFE_MODE" env-default:"false"`
}

type LoggingEnv struct {
	Provider  string   `env:"SITECMS_LOG_PROVIDER" env-default:"console"`
	Level     string   `env:"SITECMS_LOG_LEVEL" env-default:"info"`
	Format    string   `env:"SITECMS_LOG_FORMAT" env-default:"json"`
	AddSource bool     `env:"SITECMS_LOG_ADD_SOURCE" env-default:"false"`
	Focus     []string `env:"SITECMS_LOG_FOCUS" env-separator:","`
}

// LoadEnv reads EnvConfig from the environment.
func LoadEnv() (EnvConfig, error) {
	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return EnvConfig{}, err
	}
	return env, nil
}

// RuntimeConfig maps the environment onto the runtime configuration.
func (e EnvConfig) RuntimeConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()

	cfg.Storage.Driver = e.Storage.Driver
	cfg.Storage.DSN = e.Storage.DSN
	cfg.Storage.MaxOpenConns = e.Storage.MaxOpenConns
	cfg.Storage.AutoMigrate = e.Storage.AutoMigrate

	cfg.Uploads.Provider = e.Uploads.Provider
	cfg.Uploads.Root = e.Uploads.Root
	cfg.Uploads.URLPrefix = e.Uploads.URLPrefix
	cfg.Uploads.MaxBytes = e.Uploads.MaxBytes
	cfg.Uploads.AllowedExtensions = e.Uploads.AllowedExtensions
	cfg.Uploads.S3 = runtimeconfig.S3Config{
		Region:          e.Uploads.S3Region,
		Bucket:          e.Uploads.S3Bucket,
		AccessKeyID:     e.Uploads.S3AccessKeyID,
		SecretAccessKey: e.Uploads.S3SecretAccessKey,
		Endpoint:        e.Uploads.S3Endpoint,
		UsePathStyle:    e.Uploads.S3UsePathStyle,
		KeyPrefix:       e.Uploads.S3KeyPrefix,
		URLPrefix:       e.Uploads.S3URLPrefix,
	}

	cfg.HTTP.Addr = e.HTTP.Addr
	cfg.HTTP.AdminBasePath = e.HTTP.AdminBasePath
	cfg.HTTP.PublicBasePath = e.HTTP.PublicBasePath
	cfg.HTTP.ShutdownTimeout = e.HTTP.ShutdownTimeout

	cfg.Routes.BaseURL = e.BaseURL
	cfg.Commands.Timeout = e.CommandTimeout

	cfg.Markdown.ContentDir = e.Markdown.ContentDir
	cfg.Markdown.Pattern = e.Markdown.Pattern
	cfg.Markdown.ContentType = e.Markdown.ContentType
	cfg.Markdown.Parser.Extensions = e.Markdown.Extensions
	cfg.Markdown.Parser.SafeMode = e.Markdown.SafeMode

	cfg.Logging.Provider = e.Logging.Provider
	cfg.Logging.Level = e.Logging.Level
	cfg.Logging.Format = e.Logging.Format
	cfg.Logging.AddSource = e.Logging.AddSource
	cfg.Logging.Focus = e.Logging.Focus
	return cfg
}
