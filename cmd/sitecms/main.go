package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cms "github.com/goliatone/go-site-cms"
	markdowncmd "github.com/goliatone/go-site-cms/internal/commands/markdown"
	"github.com/goliatone/go-site-cms/internal/runtimeconfig"
)

const usage = `usage: sitecms <command> [flags]

commands:
  serve     run the admin and public HTTP APIs
  migrate   apply (up) or roll back (down) database migrations
  import    import a directory of markdown posts
  sync      import markdown posts and optionally delete orphaned records
`

var moduleBuilder = func(ctx context.Context, cfg runtimeconfig.Config) (*cms.Module, error) {
	return cms.New(ctx, cfg)
}

func main() {
	env, err := LoadEnv()
	if err != nil {
		log.Fatalf("sitecms: read environment: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, env.RuntimeConfig(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("sitecms: %v", err)
	}
}

func run(ctx context.Context, cfg runtimeconfig.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("command is required")
	}
	switch args[0] {
	case "serve":
		return runServe(ctx, cfg, args[1:])
	case "migrate":
		return runMigrate(ctx, cfg, args[1:], out)
	case "import":
		return runImport(ctx, cfg, args[1:], out)
	case "sync":
		return runSync(ctx, cfg, args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runServe(ctx context.Context, cfg runtimeconfig.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.HTTP.Addr, "Address the HTTP server listens on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler, err := module.Handler()
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}
	logger := module.Container().Logger("sitecms.server")
	server := &http.Server{Addr: *addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", *addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx := context.Background()
	if cfg.HTTP.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, cfg.HTTP.ShutdownTimeout)
		defer cancel()
	}
	logger.Info("server.shutdown")
	return server.Shutdown(shutdownCtx)
}

func runMigrate(ctx context.Context, cfg runtimeconfig.Config, args []string, out io.Writer) error {
	direction := "up"
	if len(args) > 0 {
		direction = strings.ToLower(args[0])
	}
	cfg.Storage.AutoMigrate = false

	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	migrator, err := module.Container().Migrator()
	if err != nil {
		return err
	}

	var applied []string
	switch direction {
	case "up":
		applied, err = migrator.Up(ctx)
	case "down":
		applied, err = migrator.Down(ctx)
	default:
		return fmt.Errorf("migrate: unknown direction %q", direction)
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "no migrations to run")
		return nil
	}
	for _, name := range applied {
		fmt.Fprintf(out, "%s %s\n", direction, name)
	}
	return nil
}

func runImport(ctx context.Context, cfg runtimeconfig.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	contentDir := fs.String("content-dir", cfg.Markdown.ContentDir, "Path to the markdown content root")
	directory := fs.String("dir", ".", "Directory to import, relative to the content root")
	contentType := fs.String("content-type", cfg.Markdown.ContentType, "Content type imported documents are stored as")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting content")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := markdownModule(ctx, cfg, *contentDir)
	if err != nil {
		return err
	}
	defer module.Close()

	handler, err := module.Container().ImportDirectoryHandler()
	if err != nil {
		return err
	}
	if err := handler.Execute(ctx, markdowncmd.ImportDirectoryCommand{
		Directory:   *directory,
		ContentType: *contentType,
		DryRun:      *dryRun,
	}); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(out, "markdown import command executed successfully")
	return nil
}

func runSync(ctx context.Context, cfg runtimeconfig.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	contentDir := fs.String("content-dir", cfg.Markdown.ContentDir, "Path to the markdown content root")
	directory := fs.String("dir", ".", "Directory to sync, relative to the content root")
	contentType := fs.String("content-type", cfg.Markdown.ContentType, "Content type synced documents are stored as")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting content")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "Delete records with no matching markdown file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := markdownModule(ctx, cfg, *contentDir)
	if err != nil {
		return err
	}
	defer module.Close()

	handler, err := module.Container().SyncDirectoryHandler()
	if err != nil {
		return err
	}
	if err := handler.Execute(ctx, markdowncmd.SyncDirectoryCommand{
		Directory:      *directory,
		ContentType:    *contentType,
		DryRun:         *dryRun,
		DeleteOrphaned: *deleteOrphaned,
	}); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(out, "markdown sync command executed successfully")
	return nil
}

func markdownModule(ctx context.Context, cfg runtimeconfig.Config, contentDir string) (*cms.Module, error) {
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = contentDir
	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}
