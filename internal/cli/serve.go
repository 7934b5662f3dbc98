package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"umlgate/internal/config"
	"umlgate/internal/gateway"
	"umlgate/internal/render"
	"umlgate/internal/storage"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP render gateway",
		Long: `Start the HTTP gateway that validates, renders, and persists diagrams.

The gateway loads its configuration, opens the slot database (an in-memory
store when no database path is configured), and serves the JSON API until
interrupted.

Example:
  umlgate serve --config ./umlgate.yaml
  umlgate serve --config ./umlgate.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file (defaults apply when omitted)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	backend, closeBackend, err := openBackend(cfg.DatabasePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open slot database", err)
	}
	defer func() {
		if closeErr := closeBackend(); closeErr != nil {
			slog.Error("error closing slot database", "error", closeErr)
		}
	}()

	renderer := render.NewClient(cfg.RendererURL, &http.Client{Timeout: cfg.RenderTimeout()})
	slog.Info("renderer configured", "endpoint", renderer.Endpoint(), "timeout", cfg.RenderTimeout())

	svc := gateway.NewService(renderer, slog.Default())
	server := gateway.NewServer(svc, storage.New(backend), slog.Default(), language.Make(cfg.Locale))

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Routes(),
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gateway listening", "addr", cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitCommandError, "shutdown failed", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapExitError(ExitCommandError, "server failed", err)
	}
}

// configureLogging installs the process-wide text handler on stderr.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the config file, or returns validated defaults when no
// path was given.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(path)
}

// openBackend picks the slot backend: SQLite when a database path is
// configured, otherwise a process-local in-memory store.
func openBackend(path string) (storage.Backend, func() error, error) {
	if path == "" {
		slog.Info("slot database not configured, using in-memory store")
		return storage.NewMemoryBackend(), func() error { return nil }, nil
	}
	slog.Info("opening slot database", "path", path)
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}
