package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/leoorbiters/leoorbiters/internal/client"
	"github.com/leoorbiters/leoorbiters/internal/config"
	"github.com/leoorbiters/leoorbiters/internal/dashboard"
	"github.com/leoorbiters/leoorbiters/internal/logging"
	"github.com/leoorbiters/leoorbiters/internal/metrics"
	"github.com/leoorbiters/leoorbiters/internal/sentryutil"
	"github.com/leoorbiters/leoorbiters/internal/version"
	"github.com/leoorbiters/leoorbiters/internal/webui"
)

const (
	component = "dashboard"

	// Four up/down changes within ten minutes marks the alert API as flapping
	flapThreshold = 4
	flapWindow    = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.Parse()

	bootLogger := logging.New(*logLevel, component)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootLogger.Fatal().
			Err(err).
			Str("config_path", *configPath).
			Msg("Failed to load configuration")
	}

	// Write to both stdout and the log buffer shown on the page
	logBuffer := webui.NewLogBuffer(cfg.Dashboard.LogBufferSize)
	level := *logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger := logging.New(level, component, logBuffer)

	logger.Info().
		Str("api_base_url", cfg.Dashboard.APIBaseURL).
		Dur("poll_interval", cfg.Dashboard.PollInterval).
		Msg("Starting LEO Orbiters dashboard")

	sentryutil.Init(cfg.Sentry, version.Get().String(), logger)
	defer sentryutil.Flush()

	reg := metrics.NewRegistry()
	dashMetrics := metrics.NewDashboard(reg)

	apiClient := client.New(cfg.Dashboard.APIBaseURL, client.Options{
		Timeout:  cfg.Dashboard.RequestTimeout,
		RetryMax: cfg.Dashboard.RetryMax,
	}, logger)

	state := dashboard.NewState(time.Now(), cfg.Dashboard.DateWindowDays)
	health := dashboard.NewHealth(logger, flapThreshold, flapWindow)
	poller := dashboard.NewPoller(apiClient, state, cfg.Dashboard.PollInterval, logger, dashMetrics)
	poller.SetHealth(health)

	server := webui.NewServer(state, logger, cfg.Dashboard.ListenAddress, reg)
	server.SetLogBuffer(logBuffer)
	server.SetHealth(health)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	logger.Info().
		Str("address", cfg.Dashboard.ListenAddress).
		Msg("Dashboard running, press Ctrl+C to stop")

	if err := server.Start(ctx); err != nil {
		sentryutil.CaptureError(err, map[string]string{"component": component})
		logger.Error().
			Err(err).
			Msg("Web UI server error")
		stop()
	}

	logger.Info().Msg("Shutting down...")
	wg.Wait()
	logger.Info().Msg("Dashboard stopped")
}
