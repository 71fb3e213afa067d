package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"wallet/internal/amqp"
	"wallet/internal/analytics"
	"wallet/internal/backend"
	"wallet/internal/cache"
	"wallet/internal/cli"
	apphttp "wallet/internal/http"
	"wallet/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", backendCfg.Type.String())
		os.Exit(1)
	}

	service := analytics.NewService(result.Backend, cfg.ReportConcurrency)
	reports := analytics.NewReporter(service, cfg.ReportCacheSize, cfg.ReportCacheTTL)

	var cacheManager *cache.Manager
	if cached, ok := reports.(*analytics.CachedService); ok {
		cacheManager = cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
		cacheManager.Register(cached.Cache())
		cacheManager.StartCleanup(cfg.ReportCacheTTL)
		logger.Info("Report cache enabled", "ttl", cfg.ReportCacheTTL.String(), "size", cfg.ReportCacheSize)
	}

	deps := apphttp.Dependencies{Reports: reports, Store: result.Backend, Logger: logger}
	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(log.ComponentAMQP))
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		deps.Exports = amqpClient
		logger.Info("Report exports enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Report exports disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		RequestTimeout:     cfg.RequestTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, deps)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if cacheManager != nil {
			cacheManager.Stop()
		}
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting wallet server", "port", cfg.Port, "backend", backendCfg.Type.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
