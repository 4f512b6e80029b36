// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vaultmcp/internal/api"
	"github.com/starford/vaultmcp/internal/mcpserver"
	"github.com/starford/vaultmcp/internal/noteservice"
	"github.com/starford/vaultmcp/internal/pdftext"
	"github.com/starford/vaultmcp/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = newLogger(cfg.App)
	}
	slog.SetDefault(logger)

	vaultPath := cfg.Vault.ResolvePath()

	logger.Info("Configuration loaded",
		slog.String("transport", cfg.App.Transport),
		slog.String("vault_path", vaultPath),
		slog.Bool("include_yaml_frontmatter", cfg.Vault.IncludeYAMLFrontmatter),
		slog.Int("max_search_results", cfg.Vault.MaxSearchResults),
		slog.String("log_level", cfg.App.LogLevel.String()))

	srv, svc, err := buildServer(cfg, vaultPath, logger)
	if err != nil {
		return err
	}

	if cfg.App.Transport == TransportHTTP {
		return serveHTTP(ctx, cfg, srv, svc, logger)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Serving MCP over stdio")
	if err := srv.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return fmt.Errorf("stdio server error: %w", err)
	}
	logger.Info("Server stopped successfully")
	return nil
}

// newLogger builds the structured JSON logger. stdout belongs to the protocol
// in stdio mode, so logs go to stderr there.
func newLogger(cfg ApplicationConfig) *slog.Logger {
	out := os.Stdout
	if cfg.Transport == TransportStdio {
		out = os.Stderr
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
}

// buildServer wires storage, PDF extraction and the note service behind the
// MCP tool server. An unresolved vault is logged and served in degraded mode.
func buildServer(cfg *Config, vaultPath string, logger *slog.Logger) (*mcpserver.Server, *noteservice.Service, error) {
	store, err := storage.NewFS(vaultPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	if !store.Available() {
		logger.Error("Vault path is not configured or accessible; tools will report errors",
			slog.String("vault_path", vaultPath),
			slog.Any("candidates", cfg.Vault.Candidates))
	}

	svc := noteservice.NewService(store, pdftext.New(nil, logger), noteservice.Options{
		IncludeFrontmatter: cfg.Vault.IncludeYAMLFrontmatter,
		MaxSearchResults:   cfg.Vault.MaxSearchResults,
	}, logger)

	return mcpserver.New(svc, logger), svc, nil
}

// newHTTPHandler builds the chi router for the HTTP transport.
func newHTTPHandler(srv *mcpserver.Server, svc *noteservice.Service, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !svc.VaultAvailable() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"vault unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", api.NewRouter(svc, logger))

	// MCP streamable HTTP transport.
	r.Handle("/mcp", srv.HTTPHandler())

	return r
}

func serveHTTP(ctx context.Context, cfg *Config, srv *mcpserver.Server, svc *noteservice.Service, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHTTPHandler(srv, svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
