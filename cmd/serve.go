package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/server"
	"github.com/desertthunder/tuneflow/internal/shared"
	"github.com/desertthunder/tuneflow/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web page until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = port
	}

	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "web")
	srv, err := web.NewServer(web.Options{
		State:   app.NewState(store, r.theme()),
		Catalog: r.catalog,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	r.writePlain("TuneFlow is running at http://%s\n", cfg.Addr())
	return server.Serve(ctx, cfg.Addr(), srv.Handler(), logger)
}
