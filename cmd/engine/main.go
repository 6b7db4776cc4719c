// Command engine serves the climate credit risk analysis engine over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climate-risk-engine/internal/adapter/http"
	"github.com/couchcryptid/climate-risk-engine/internal/config"
	"github.com/couchcryptid/climate-risk-engine/internal/engine"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
	"github.com/couchcryptid/climate-risk-engine/internal/premium"
	"github.com/couchcryptid/climate-risk-engine/internal/stress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	stressEngine := stress.NewEngine(cfg.Workers)
	premiumEngine := premium.NewEngine(cfg.NFIPExcludedStates)
	eng := engine.New(stressEngine, premiumEngine, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("engine started", "workers", cfg.Workers, "addr", cfg.HTTPAddr)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
