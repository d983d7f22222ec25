package uploads

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-site-cms/pkg/interfaces"
)

const (
	ProviderFS = "fs"
	ProviderS3 = "s3"
)

// Config selects and configures an upload backend.
type Config struct {
	Provider string
	FS       FSConfig
	S3       S3Config
}

// Open builds the Store named by cfg.Provider.
func Open(ctx context.Context, cfg Config, logger interfaces.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderFS, "local":
		return NewFSStore(cfg.FS, WithFSLogger(logger))
	case ProviderS3:
		return NewS3Store(ctx, cfg.S3, WithS3Logger(logger))
	default:
		return nil, fmt.Errorf("uploads: unknown provider %q", cfg.Provider)
	}
}
