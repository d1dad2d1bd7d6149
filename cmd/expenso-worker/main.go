package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expenso/internal/amqp"
	"expenso/internal/backend"
	"expenso/internal/cli"
	"expenso/internal/log"
	gsheet "expenso/internal/sheets/google"
	"expenso/internal/worker"
)

const (
	shutdownTimeout     = 30 * time.Second
	healthCheckInterval = time.Minute
	consumeRetryDelay   = 5 * time.Second
	maxConsumeRestarts  = 10
)

func main() {
	cfg := cli.LoadConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)
	cli.MustValidate(logger, cfg.ValidateWorker)

	logger.Info("Starting expenso-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	// The worker only reads the store and consumes events; it must see
	// rows written by the API immediately.
	backendCfg.AMQPURL = ""
	backendCfg.CacheTTL = 0

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := cli.MustOpenBackend(parent, logger, backendCfg)

	exporter, err := gsheet.New(parent, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	if err := exporter.EnsureHeader(parent); err != nil {
		logger.Error("Failed to prepare sheet header", log.FieldError, err, "sheet", cfg.GoogleSheetName)
		os.Exit(1)
	}
	logger.Info("Google Sheets exporter initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	exportWorker := worker.NewExportWorker(result.Store, exporter)

	stopped := make(chan struct{})
	ctx, done := cli.GracefulShutdown(parent, logger, shutdownTimeout, func(shutdownCtx context.Context) {
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
		}
		if err := consumer.Close(); err != nil {
			logger.Error("AMQP close error", log.FieldError, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consume(gctx, logger, consumer, exportWorker)
	})

	g.Go(func() error {
		ticker := time.NewTicker(healthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := result.Ready(gctx); err != nil && gctx.Err() == nil {
					logger.Warn("Store health check failed", log.FieldError, err)
				}
			}
		}
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		exitCode = 1
	}
	close(stopped)
	cancel()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
	os.Exit(exitCode)
}

// consume keeps the AMQP consumer running, restarting it after broker
// disconnects until ctx is done or the restart budget is spent.
func consume(ctx context.Context, logger *log.Logger, consumer *amqp.Client, w *worker.ExportWorker) error {
	restarts := 0
	for {
		err := consumer.ConsumeTransactionEvents(ctx, w.HandleEvent)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("consumer stopped")
		}

		restarts++
		if restarts > maxConsumeRestarts {
			return err
		}
		logger.Warn("Message consumption interrupted, restarting",
			log.FieldError, err,
			"attempt", restarts)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(consumeRetryDelay):
		}
	}
}
