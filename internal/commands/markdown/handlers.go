package markdowncmd

import (
	"context"

	"github.com/goliatone/go-site-cms/internal/commands"
	"github.com/goliatone/go-site-cms/internal/logging"
	"github.com/goliatone/go-site-cms/internal/markdown"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	importOperation = "markdown.import_directory"
	syncOperation   = "markdown.sync_directory"
)

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]   = (*SyncDirectoryHandler)(nil)
)

// Importer is the part of markdown.Service the handlers drive.
type Importer interface {
	ImportDirectory(ctx context.Context, dir string, opts markdown.ImportOptions) (*markdown.ImportResult, error)
	Sync(ctx context.Context, dir string, opts markdown.SyncOptions) (*markdown.SyncResult, error)
}

// ImportDirectoryHandler runs Markdown directory imports.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

func NewImportDirectoryHandler(service Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, msg.Directory, markdown.ImportOptions{
			ContentType: msg.ContentType,
			DryRun:      msg.DryRun,
		})
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("markdown.command.import_directory.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithTimeout[ImportDirectoryCommand](0),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			return directoryFields(msg.Directory, msg.ContentType, msg.DryRun)
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler runs Markdown sync workflows.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

func NewSyncDirectoryHandler(service Importer, logger interfaces.Logger, opts ...commands.HandlerOption[SyncDirectoryCommand]) *SyncDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		result, err := service.Sync(ctx, msg.Directory, markdown.SyncOptions{
			ImportOptions: markdown.ImportOptions{
				ContentType: msg.ContentType,
				DryRun:      msg.DryRun,
			},
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"deleted_count": len(result.Deleted),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("markdown.command.sync_directory.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
		commands.WithTimeout[SyncDirectoryCommand](0),
		commands.WithMessageFields(func(msg SyncDirectoryCommand) map[string]any {
			fields := directoryFields(msg.Directory, msg.ContentType, msg.DryRun)
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncDirectoryCommand].
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

func directoryFields(dir, contentType string, dryRun bool) map[string]any {
	fields := map[string]any{"directory": dir}
	if contentType != "" {
		fields["content_type"] = contentType
	}
	if dryRun {
		fields["dry_run"] = true
	}
	return fields
}
