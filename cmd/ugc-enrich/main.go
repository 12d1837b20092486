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
	kafkaadapter "github.com/trevorneel/EWD/internal/adapter/kafka"
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

	zones := nws.NewClient(cfg, logger)
	store := arcgis.NewClient(cfg, logger)

	// Diagnostics publisher is feature-flagged via KAFKA_BROKERS / KAFKA_DIAGNOSTICS_TOPIC.
	var sink pipeline.DiagnosticSink
	var publisher *kafkaadapter.Publisher
	if cfg.DiagnosticsEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		sink = publisher
		logger.Info("no-match diagnostics publishing enabled", "topic", cfg.KafkaDiagnosticsTopic)
	} else {
		logger.Info("no-match diagnostics publishing disabled")
	}

	p := pipeline.NewEnrich(zones, store, sink, cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	logger.Info("ugc enrichment run finished",
		"zones_indexed", rep.ZonesIndexed,
		"rows_read", rep.RowsRead,
		"already_assigned", rep.AlreadyAssigned,
		"matched", rep.Matched,
		"no_match", rep.NoMatches,
		"skipped", rep.Skipped,
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
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("ugc enrichment run failed", "error", runErr)
		os.Exit(1)
	}
	if rep.Halted {
		os.Exit(1)
	}
}
