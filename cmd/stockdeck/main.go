package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockdeck/stockdeck/internal/clients/fmp"
	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/server"
	"github.com/stockdeck/stockdeck/internal/services/curated"
	"github.com/stockdeck/stockdeck/internal/services/marketdata"
	"github.com/stockdeck/stockdeck/internal/storage/badger"
	"github.com/stockdeck/stockdeck/internal/storage/surrealdb"
)

func main() {
	configPath := os.Getenv("STOCKDECK_CONFIG")
	if configPath == "" {
		configPath = "stockdeck.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)

	cache, err := badger.NewStore(config.Cache.Path, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("path", config.Cache.Path).Msg("Failed to open cache")
	}
	defer cache.Close()

	// Without an API key the service runs in demo mode on synthetic data.
	var client interfaces.MarketAPIClient
	if config.Clients.FMP.APIKey != "" {
		client = fmp.NewClient(config.Clients.FMP.APIKey,
			fmp.WithBaseURL(config.Clients.FMP.BaseURL),
			fmp.WithRateLimit(config.Clients.FMP.RateLimit),
			fmp.WithTimeout(config.Clients.FMP.GetTimeout()),
			fmp.WithLogger(logger),
		)
	} else {
		logger.Warn().Msg("No FMP API key configured, serving synthetic data")
	}

	market := marketdata.NewService(client, cache, logger)

	backend, err := surrealdb.NewStore(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to curated backend")
	}
	defer backend.Close()

	curatedSvc := curated.NewService(backend, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	curatedSvc.Start(ctx)
	defer curatedSvc.Stop()

	srv := server.NewServer(config, logger, market, curatedSvc)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}
