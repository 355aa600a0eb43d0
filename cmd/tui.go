package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/player"
	"github.com/desertthunder/tuneflow/internal/shared"
	"github.com/desertthunder/tuneflow/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	logger := shared.WithLogger(fileLogger, "component", "tui")
	r.SetLogger(logger)

	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Options{
		State:    app.NewState(store, r.theme()),
		Searcher: app.NewSearcher(r.catalog),
		Launcher: player.NewLauncher(r.config.Player, logger),
		Logger:   logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
