package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	configPath, explicit := defaultConfigPath, false
	if v, ok := os.LookupEnv(shared.EnvPrefix + "CONFIG"); ok && v != "" {
		configPath, explicit = v, true
	}

	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig) && !explicit:
		config = shared.DefaultConfig()
	case err != nil:
		logger.Fatalf("failed to load config: %v", err)
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		logger.Fatalf("invalid environment override: %v", err)
	}

	catalog := services.NewCatalogService(services.CatalogOptsFromConfig(config.Catalog))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "tuneflow",
		Usage:    "Search the music catalog, preview tracks and curate a playlist",
		Version:  "0.1.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Run(ctx, os.Args)
	stop()
	runner.Close()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted")
			os.Exit(130)
		}
		logger.Fatalf("application error: %v", err)
	}
}
