package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jakehanson/ssa-disability-app/internal/bootstrap"
	"github.com/jakehanson/ssa-disability-app/internal/config"
	"github.com/jakehanson/ssa-disability-app/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewJSONLogger("ingest", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	// The run is one-shot, but metrics stay scrapeable while it executes.
	metricsServer := &http.Server{
		Addr:    ":" + cfg.IngestMetricsPort,
		Handler: app.IngestMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	start := time.Now()
	summary, err := app.RebuildUC.Rebuild(ctx)
	app.IngestMetrics.FinishRun("ingest", time.Since(start), err)
	if err != nil {
		log.Fatalf("rebuild error: %v", err)
	}

	logger.Info("rebuild finished",
		"sections_processed", summary.SectionsProcessed,
		"chunks_upserted", summary.ChunksUpserted,
		"duration", time.Since(start).Round(time.Second).String())
}
