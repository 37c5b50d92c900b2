package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/leoorbiters/leoorbiters/internal/api"
	"github.com/leoorbiters/leoorbiters/internal/config"
	"github.com/leoorbiters/leoorbiters/internal/generator"
	"github.com/leoorbiters/leoorbiters/internal/logging"
	"github.com/leoorbiters/leoorbiters/internal/sentryutil"
	"github.com/leoorbiters/leoorbiters/internal/version"
)

const component = "alertgen"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.Parse()

	logger := logging.New(*logLevel, component)
	logger.Info().Msg("Starting LEO Orbiters alert generator")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("config_path", *configPath).
			Msg("Failed to load configuration")
	}
	if *logLevel == "" {
		logger = logging.New(cfg.LogLevel, component)
	}

	sentryutil.Init(cfg.Sentry, version.Get().String(), logger)
	defer sentryutil.Flush()

	var gen *generator.Generator
	if cfg.Generator.Seed != 0 {
		gen = generator.New(rand.NewSource(cfg.Generator.Seed))
		logger.Info().Int64("seed", cfg.Generator.Seed).Msg("Using fixed random seed")
	} else {
		gen = generator.NewFromTime()
	}

	server := api.NewServer(gen, logger, cfg.Generator.ListenAddress)
	if cfg.Generator.CORSAllowedOrigin != "" {
		server.SetCORSOrigin(cfg.Generator.CORSAllowedOrigin)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("Alert generator running, press Ctrl+C to stop")

	if err := server.Start(ctx); err != nil {
		sentryutil.CaptureError(err, map[string]string{"component": component})
		logger.Error().
			Err(err).
			Msg("API server error")
		return
	}

	logger.Info().Msg("Alert generator stopped")
}
