package main

import (
	"context"
	"errors"
	"os"
	"time"

	"wallet/internal/amqp"
	"wallet/internal/analytics"
	"wallet/internal/backend"
	"wallet/internal/cli"
	"wallet/internal/log"
	"wallet/internal/sheets"
	gsheet "wallet/internal/sheets/google"
	sheetsmem "wallet/internal/sheets/memory"
	"wallet/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting wallet-worker")

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err)
		os.Exit(1)
	}

	var writer sheets.ReportWriter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, gsheet.Credentials{
			JSON: cfg.GoogleServiceAccountJSON,
			File: cfg.GoogleServiceAccountFile,
		}, logger.WithComponent(log.ComponentSheets))
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export enabled")
	} else {
		writer = sheetsmem.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set - exported reports are kept in memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	// Exports always read fresh data, so the worker skips the report cache.
	service := analytics.NewService(result.Backend, cfg.ReportConcurrency)
	exporter := worker.NewExportWorker(service, writer, logger.WithComponent(log.ComponentWorker), cfg.RequestTimeout)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		_ = amqpClient.Close()
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	if err := amqpClient.ConsumeExportRequests(ctx, exporter.HandleExportMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
