package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/sheetfilter/internal/config"
	"github.com/JonMunkholm/sheetfilter/internal/core"
	"github.com/JonMunkholm/sheetfilter/internal/logging"
	"github.com/JonMunkholm/sheetfilter/internal/web"
	"github.com/JonMunkholm/sheetfilter/internal/xlsx"
)

// sweepInterval is how often idle sessions are expired.
const sweepInterval = time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Environment variables take precedence over .env
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"locale", cfg.Filter.Locale,
		"run_max_concurrent", cfg.Run.MaxConcurrent,
		"session_max", cfg.Session.Max,
		"api_key_required", cfg.Server.RequireAPIKey(),
	)

	opts, err := cfg.Filter.ServiceOptions()
	if err != nil {
		return err
	}
	writer, err := xlsx.NewWriter(cfg.Filter.ResultSheet, cfg.Filter.OutputDateFormat)
	if err != nil {
		return err
	}
	service := core.NewService(xlsx.Opener{}, writer, opts)
	slog.Info("column set", "columns", service.Columns().Labels())

	limiter := core.NewRunLimiter(cfg.Run.MaxConcurrent, cfg.Run.MaxWaitTime)
	sessions := web.NewSessionStore(cfg.Session.Max, cfg.Session.IdleTimeout, cfg.Filter.Language())
	server := web.NewServer(service, sessions, limiter, cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sessions.RunSweeper(gctx, sweepInterval)
		return nil
	})

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for filter runs to complete", "active", status.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("filter runs did not complete in time", "error", err)
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
