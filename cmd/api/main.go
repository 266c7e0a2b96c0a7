package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/honeypot-agent/cmd/mainconfig"
	"github.com/wolfman30/honeypot-agent/internal/api/router"
	"github.com/wolfman30/honeypot-agent/internal/app/bootstrap"
	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
	"github.com/wolfman30/honeypot-agent/internal/observability/metrics"
	"github.com/wolfman30/honeypot-agent/pkg/logging"
)

func main() {
	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting honeypot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsHandler, honeypotMetrics := setupMetrics()
	rt, err := bootstrap.Build(ctx, cfg, loadAWSConfig(ctx, cfg, logger), nil, honeypotMetrics, logger)
	if err != nil {
		logger.Error("failed to build runtime", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	r := router.New(&router.Config{
		Logger:             logger,
		HoneypotHandler:    rt.Handler,
		AdminHandler:       rt.Admin,
		APIKey:             cfg.APISecretKey,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:            rt.Limiter,
	})

	// Create HTTP server. Writes allow for a full provider fallback chain.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// setupLogger builds the process logger, teeing to LOG_FILE when set.
func setupLogger(cfg *appconfig.Config) (*logging.Logger, func(), error) {
	opts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}
	if cfg.LogFile == "" {
		return logging.NewWithOptions(opts), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	opts.Output = io.MultiWriter(os.Stdout, f)
	return logging.NewWithOptions(opts), func() { _ = f.Close() }, nil
}

func setupMetrics() (http.Handler, *metrics.HoneypotMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metrics.NewHoneypotMetrics(registry)
}

// loadAWSConfig returns nil when the SDK cannot be configured; Bedrock and the
// SQS report mirror are then disabled while everything else keeps working.
func loadAWSConfig(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *aws.Config {
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Warn("aws config unavailable; bedrock and report queue disabled", "error", err)
		return nil
	}
	return &awsCfg
}
