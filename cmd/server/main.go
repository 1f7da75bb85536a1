package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"flight-aggregator/internal/mcptools"
	"flight-aggregator/internal/providers"
	"flight-aggregator/internal/usecase"
	"flight-aggregator/pkg/config"
	"flight-aggregator/pkg/logging"
)

const configPath = "config.yaml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	factory := providers.NewFactory(*cfg, logger)
	registry := factory.Build()
	defer factory.Shutdown()

	enabledNames := make([]string, 0)
	for _, p := range registry.All() {
		enabledNames = append(enabledNames, p.Name())
	}
	logger.Info("providers_registered", zap.Strings("providers", enabledNames))

	agg := factory.CreateAggregator()
	searchUseCase := usecase.NewSearchFlightsUseCase(agg, cfg.Search.MaxSearchResults, logger)
	cacheUseCase := usecase.NewManageCacheUseCase(factory.Cache(), logger)

	mcpServer := server.NewMCPServer(
		"flight-aggregator",
		"1.0.0",
		server.WithLogging(),
	)
	mcptools.Register(mcpServer, searchUseCase, cacheUseCase, logger)

	logger.Info("server_starting", zap.Int("provider_count", len(enabledNames)))
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server_error", zap.Error(err))
		os.Exit(1)
	}
}
