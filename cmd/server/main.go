package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tasklens/server/internal/application/auth"
	"github.com/tasklens/server/internal/application/tasks"
	"github.com/tasklens/server/internal/config"
	internalhttp "github.com/tasklens/server/internal/http"
	"github.com/tasklens/server/internal/http/handler"
	"github.com/tasklens/server/internal/storage/memory"
	"github.com/tasklens/server/internal/storage/postgres"
	"github.com/tasklens/server/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		// slog may not be configured yet if config loading failed.
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Init observability. Exporter endpoint and headers come from the
	// standard OTEL_* env vars.
	lp, logger, err := observability.InitLogger(ctx, cfg.ServiceName, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := newShutdownContext()
		defer cancel()
		if err := lp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown logger provider", "error", err)
		}
	}()
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, cfg.ServiceName, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := newShutdownContext()
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown tracer provider", "error", err)
		}
	}()

	mp, err := observability.InitMeterProvider(ctx, cfg.ServiceName, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init meter provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := newShutdownContext()
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown meter provider", "error", err)
		}
	}()

	slog.InfoContext(ctx, "starting tasklens service", "env", cfg.Env, "storage", cfg.StorageType)

	repo, cleanup, err := newRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	defer cleanup()

	owners, err := auth.ParseKeys(cfg.APIKeys)
	if err != nil {
		return fmt.Errorf("failed to parse API keys: %w", err)
	}
	authenticator := auth.NewAuthenticator(owners)
	slog.InfoContext(ctx, "API key authentication enabled", "keys", len(owners))

	taskService := tasks.NewService(repo)

	// Wrap the API routes with HTTP instrumentation so each request gets
	// a span and the standard http.server metrics.
	apiHandler := otelhttp.NewHandler(handler.NewServer(taskService).Routes(), "tasklens-api")

	server := internalhttp.NewAPIServer(apiHandler, authenticator, internalhttp.ServerConfig{
		Port: cfg.HTTPPort,
	})

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")

		shutdownCtx, cancel := newShutdownContext()
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "HTTP server shutdown timed out", "error", err)
		}
		return nil
	case err := <-errResult:
		return err
	}
}

// newRepository builds the configured storage backend and returns it with
// its cleanup function.
func newRepository(ctx context.Context, cfg *config.Config) (tasks.Repository, func(), error) {
	switch cfg.StorageType {
	case config.StoragePostgres:
		store, err := postgres.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "storage initialized", "dsn", maskPassword(cfg.PostgresDSN))
		return store, store.Close, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}

// newShutdownContext creates a fresh timeout context for cleanup work.
// The main context is already cancelled by the time shutdown runs.
func newShutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
