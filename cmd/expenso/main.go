package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"expenso/internal/backend"
	"expenso/internal/cli"
	apphttp "expenso/internal/http"
	"expenso/internal/log"
	"expenso/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := cli.LoadConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentApp)
	cli.MustValidate(logger, cfg.Validate)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := cli.MustOpenBackend(parent, logger, backendCfg)

	txService := services.NewTransactionService(result.Store, result.Publisher)
	dashboard := services.NewDashboardService(result.Store, time.Now)

	srv := apphttp.NewServer(":"+cfg.Port, txService, dashboard, apphttp.Options{
		RoastingDefault: cfg.RoastingDefault,
		RateLimitRPM:    cfg.RateLimitRPM,
		BackendName:     backendCfg.Type.String(),
		Ready:           result.Ready,
		Logger:          logger,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(parent, logger, shutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting expenso server",
		"port", cfg.Port,
		log.FieldBackend, backendCfg.Type.String(),
		"events", result.Publisher != nil,
		"roasting_default", cfg.RoastingDefault)

	exitCode := 0
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		exitCode = 1
		cancel()
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	os.Exit(exitCode)
}
