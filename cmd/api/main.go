// Package main starts an HTTP server that provides endpoints for health checks,
// component graph scoring, fleet contract analysis and change impact queries.
// It uses the internal handlers package to process requests and return JSON.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/cmd/api/middleware"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/config"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/handlers"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/logging"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/store"
)

const shutdownTimeout = 10 * time.Second

func setupRouter(cfg *config.Config, st store.Store, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	handlers.NewAPI(st, logger, cfg.MaxBodyBytes).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.Metrics(middleware.Cors(cfg.AllowedOrigin)(mux))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		JSON:    cfg.LogJSON,
		Service: handlers.ServiceName,
	})

	st, err := store.Open(cfg.StoreDir, cfg.StoreCacheSize, logger)
	if err != nil {
		logger.Error("failed to open run store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           setupRouter(cfg, st, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Port),
			slog.String("env", cfg.Env),
			slog.Bool("persistent_store", cfg.StoreDir != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
