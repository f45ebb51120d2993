package main

import (
	"context"
	"os"

	"github.com/desertthunder/tevify/internal/services"
	"github.com/desertthunder/tevify/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	config.ApplyEnv()
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	var catalog services.Catalog
	var apiService *services.APIService
	if err := config.Validate(); err != nil {
		logger.Debug("catalog disabled", "error", err)
	} else if svc, err := services.NewJamendoServiceFromConfig(config.Catalog); err == nil {
		catalog = svc
		apiService = services.NewAPIService(svc.BaseURL(), svc.ClientID(), svc.HTTPClient())
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		API:     apiService,
		Logger:  logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "tevify",
		Usage:    "Discover and play free music from Jamendo in your terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if shared.IsCatalogError(err) {
			logger.Warn("catalog request failed, check catalog.client_id and your connection", "env", shared.ClientIDEnv)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
