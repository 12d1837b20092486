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

	"github.com/trevorneel/EWD/internal/adapter/arcgis"
	httpadapter "github.com/trevorneel/EWD/internal/adapter/http"
	"github.com/trevorneel/EWD/internal/adapter/nws"
	"github.com/trevorneel/EWD/internal/config"
	"github.com/trevorneel/EWD/internal/observability"
	"github.com/trevorneel/EWD/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	alerts := nws.NewClient(cfg, logger)
	store := arcgis.NewClient(cfg, logger)
	p := pipeline.NewSummary(alerts, store, cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics listener is optional; a bare cron invocation runs without one.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	rep, runErr := p.Run(ctx)
	logger.Info("alert summary run finished",
		"regions_flagged", rep.RegionsFlagged,
		"rows_read", rep.RowsRead,
		"updates_proposed", rep.UpdatesProposed,
		"confirmed", rep.Confirmed,
		"batches", rep.Batches,
		"halted", rep.Halted)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("alert summary run failed", "error", runErr)
		os.Exit(1)
	}
	if rep.Halted {
		os.Exit(1)
	}
}
