package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-site-cms/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown driver",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Driver = "mysql" },
			want:   runtimeconfig.ErrStorageDriverUnknown,
		},
		{
			name:   "missing dsn",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.DSN = " " },
			want:   runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name:   "unknown uploads provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Uploads.Provider = "gcs" },
			want:   runtimeconfig.ErrUploadsProviderUnknown,
		},
		{
			name:   "s3 without bucket",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Uploads.Provider = "s3" },
			want:   runtimeconfig.ErrUploadsBucketRequired,
		},
		{
			name:   "fs without root",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Uploads.Root = "" },
			want:   runtimeconfig.ErrUploadsRootRequired,
		},
		{
			name: "routes without base url",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Routes.BaseURL = ""
			},
			want: runtimeconfig.ErrRoutesBaseURLRequired,
		},
		{
			name: "markdown without content dir",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Markdown.Enabled = true
				cfg.Markdown.ContentDir = ""
			},
			want: runtimeconfig.ErrMarkdownContentDirRequired,
		},
		{
			name:   "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "invalid logging level",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Level = "verbose" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_MemoryDriverNeedsNoDSN(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Storage.DSN = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected memory driver to validate, got %v", err)
	}
}
