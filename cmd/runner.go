package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/repositories"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	playlist   *repositories.PlaylistStore
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Playlist   *repositories.PlaylistStore // Opened from Config.Database on first use when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		playlist:   opts.Playlist,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, playlistCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by commands opened after the call.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openPlaylist returns the playlist store, opening the database and hydrating it on first use.
func (r *Runner) openPlaylist(ctx context.Context) (*repositories.PlaylistStore, error) {
	if r.playlist != nil {
		return r.playlist, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	store := repositories.NewPlaylistStore(repositories.NewRecordRepository(db), r.logger)
	if err := store.Load(ctx); err != nil {
		db.Close()
		return nil, err
	}

	r.db = db
	r.playlist = store
	return store, nil
}

// Close releases the database opened by [Runner.openPlaylist].
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) theme() app.Theme {
	theme, err := app.ParseTheme(r.config.UI.Theme)
	if err != nil {
		r.logger.Warn("unknown theme, using dark", "theme", r.config.UI.Theme)
	}
	return theme
}

// interactive reports whether output goes to a terminal.
func (r *Runner) interactive() bool {
	f, ok := r.output.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeItems renders items as a table. Rows for which marked returns true get a check mark.
func (r *Runner) writeItems(items []models.Item, marked func(models.Item) bool) error {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		title := item.Title
		if item.Kind == models.KindAlbum {
			title += " [album]"
		}
		mark := ""
		if marked != nil && marked(item) {
			mark = "✓"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", item.ID),
			title,
			item.Artist,
			models.FormatPrice(item.Price),
			item.ReleaseDate,
			mark,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "Title", "Artist", "Price", "Released", "").
		Rows(rows...)

	return r.writePlain("%s\n", t.String())
}
