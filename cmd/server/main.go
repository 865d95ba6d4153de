package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eternalApril/moonresp/internal/config"
	"github.com/eternalApril/moonresp/internal/logger"
	"github.com/eternalApril/moonresp/internal/metrics"
	"github.com/eternalApril/moonresp/internal/server"
	"github.com/eternalApril/moonresp/internal/store"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "cant load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cant initialize logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("Moonresp failed", zap.Error(err))
		log.Sync() //nolint:errcheck
		os.Exit(1)
	}

	log.Info("Moonresp stopped")
	log.Sync() //nolint:errcheck
}

// run serves until ctx is cancelled. It returns an error when the server cannot start
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Moonresp starting",
		zap.String("port", cfg.Server.Port),
		zap.Int64("max_bulk_length", cfg.RESP.MaxBulkLength),
		zap.Int("max_depth", cfg.RESP.MaxDepth),
	)

	m := metrics.New()

	var statusServer *metrics.Server
	if cfg.Metrics.Enabled {
		statusServer = metrics.NewServer(cfg.Metrics.Addr, m, log)
		go func() {
			if err := statusServer.ListenAndServe(); err != nil {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	engine := server.NewEngine(store.NewMapStore(), m, log)
	srv := server.New(cfg, engine, m, log)

	err := srv.ListenAndServe(ctx)
	if err != nil {
		log.Error("listener error", zap.Error(err))
	}

	if statusServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := statusServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", zap.Error(err))
		}
		cancel()
	}

	return err
}
