package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/repositories"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
	tu "github.com/desertthunder/tuneflow/internal/testing"
	"github.com/urfave/cli/v3"
)

var (
	imagine = tu.Song(1440857781, "Imagine", 1.29, "1971-09-09")
	jealous = tu.Song(1440857782, "Jealous Guy", 0.99, "1971-09-08")
)

type harness struct {
	runner  *Runner
	output  *bytes.Buffer
	logs    *bytes.Buffer
	catalog *tu.MockCatalog
	records *tu.MemoryRecords
	store   *repositories.PlaylistStore
}

func newHarness(catalog *tu.MockCatalog) *harness {
	output := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	logger := shared.NewLogger(logs)
	records := tu.NewMemoryRecords()
	store := repositories.NewPlaylistStore(records, logger)

	runner := NewRunner(RunnerOpts{
		Catalog:  catalog,
		Playlist: store,
		Logger:   logger,
		Output:   output,
	})

	return &harness{runner: runner, output: output, logs: logs, catalog: catalog, records: records, store: store}
}

func (h *harness) run(args ...string) error {
	app := &cli.Command{
		Name:     "tuneflow",
		Writer:   h.output,
		Commands: h.runner.register(),
	}
	return app.Run(context.Background(), append([]string{"tuneflow"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := tu.StaticCatalog(nil, nil)
			store := repositories.NewPlaylistStore(tu.NewMemoryRecords(), logger)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Catalog:    catalog,
				Playlist:   store,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.playlist != store {
				t.Error("expected playlist to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "search", "playlist", "tui", "serve"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("interactive is false for buffers", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		if runner.interactive() {
			t.Error("expected a buffer not to be a terminal")
		}
	})

	t.Run("theme", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.UI.Theme = "light"
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{})})
		if runner.theme() != "light" {
			t.Errorf("expected light theme, got %s", runner.theme())
		}

		config.UI.Theme = "sepia"
		if runner.theme() != "dark" {
			t.Errorf("expected unknown theme to fall back to dark, got %s", runner.theme())
		}
	})
}

func TestSearchCommand(t *testing.T) {
	t.Run("prints sorted results as a table", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog([]models.Item{jealous, imagine}, nil))

		if err := h.run("search", "--media", "song", "lennon"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.output.String()
		if !strings.Contains(out, "$1.29") {
			t.Errorf("expected formatted price, got %s", out)
		}
		if strings.Index(out, "Imagine") > strings.Index(out, "Jealous Guy") {
			t.Errorf("expected newest release first, got %s", out)
		}
		if h.catalog.Queries[0].Media != models.MediaSong {
			t.Errorf("expected song media, got %s", h.catalog.Queries[0].Media)
		}
	})

	t.Run("json output", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog([]models.Item{imagine, jealous}, nil))

		if err := h.run("search", "--sort", "price", "--json", "lennon"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := h.output.String()
		if !strings.HasPrefix(out, `{"resultCount":2,"results":[{"id":1440857782`) {
			t.Errorf("expected cheapest result first in JSON, got %s", out)
		}
	})

	t.Run("no results", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, services.ErrNoResults))

		if err := h.run("search", "zzzz"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.output.String(), "No results found.") {
			t.Errorf("expected no results message, got %s", h.output.String())
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, fmt.Errorf("%w: status 503", shared.ErrAPIRequest)))

		err := h.run("search", "imagine")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected API error, got %v", err)
		}
		if !strings.Contains(err.Error(), "Could not reach the server.") {
			t.Errorf("expected user-facing message, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, nil))

		if err := h.run("search", "   "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument error, got %v", err)
		}
		if err := h.run("search", "--media", "podcast", "imagine"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag error, got %v", err)
		}
		if h.catalog.Calls() != 0 {
			t.Errorf("expected no catalog requests, got %d", h.catalog.Calls())
		}
	})

	t.Run("missing catalog", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		app := &cli.Command{Name: "tuneflow", Commands: runner.register()}

		err := app.Run(context.Background(), []string{"tuneflow", "search", "imagine"})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected service unavailable, got %v", err)
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	t.Run("list empty", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, nil))

		if err := h.run("playlist", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.output.String(), "Your playlist is empty.") {
			t.Errorf("expected empty message, got %s", h.output.String())
		}

		h.output.Reset()
		if err := h.run("playlist", "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.output.String() != "[]\n" {
			t.Errorf("expected empty JSON array, got %q", h.output.String())
		}
	})

	t.Run("add first result", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog([]models.Item{jealous, imagine}, nil))

		if err := h.run("playlist", "add", "lennon"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !h.store.Contains(imagine.ID) {
			t.Error("expected newest result to be added")
		}
		if !strings.Contains(h.records.Raw(repositories.PlaylistRecord), `"trackName":"Imagine"`) {
			t.Errorf("expected playlist to be persisted, got %s", h.records.Raw(repositories.PlaylistRecord))
		}
	})

	t.Run("add by id", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog([]models.Item{jealous, imagine}, nil))

		if err := h.run("playlist", "add", "--id", "1440857782", "lennon"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !h.store.Contains(jealous.ID) || h.store.Len() != 1 {
			t.Errorf("expected only Jealous Guy, got %v", h.store.Items())
		}

		h.output.Reset()
		if err := h.run("playlist", "add", "--id", "1440857782", "lennon"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.output.String(), "Already in playlist") {
			t.Errorf("expected duplicate notice, got %s", h.output.String())
		}
		if h.store.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", h.store.Len())
		}
	})

	t.Run("add unknown id", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog([]models.Item{imagine}, nil))

		err := h.run("playlist", "add", "--id", "42", "imagine")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected track not found, got %v", err)
		}
	})

	t.Run("add without results", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, services.ErrNoResults))

		err := h.run("playlist", "add", "zzzz")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected track not found, got %v", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, nil))
		h.store.Add(context.Background(), imagine)

		if err := h.run("playlist", "remove", "1440857781"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.store.Len() != 0 {
			t.Errorf("expected empty playlist, got %d", h.store.Len())
		}
		if !strings.Contains(h.output.String(), "Removed Test Artist - Imagine (0 entries)") {
			t.Errorf("expected removed entry to be named, got %s", h.output.String())
		}

		h.output.Reset()
		if err := h.run("playlist", "remove", "1440857781"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(h.output.String(), "No entry with id 1440857781") {
			t.Errorf("expected missing notice, got %s", h.output.String())
		}

		if err := h.run("playlist", "remove", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("clear", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, nil))
		h.store.Add(context.Background(), imagine)
		h.store.Add(context.Background(), jealous)

		if err := h.run("playlist", "clear"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.store.Len() != 0 || h.records.Raw(repositories.PlaylistRecord) != "" {
			t.Error("expected playlist and record to be cleared")
		}
		if !strings.Contains(h.output.String(), "Cleared 2 entries") {
			t.Errorf("expected summary, got %s", h.output.String())
		}
	})

	t.Run("export csv", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, nil))
		h.store.Add(context.Background(), imagine)
		path := filepath.Join(t.TempDir(), "mine.csv")

		if err := h.run("playlist", "export", "--format", "csv", "-o", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "1440857781,song,Imagine") {
			t.Errorf("expected entry row, got %s", content)
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, nil))

		err := h.run("playlist", "export", "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag, got %v", err)
		}
	})

	t.Run("import", func(t *testing.T) {
		catalog := &tu.MockCatalog{SearchFunc: func(_ context.Context, q models.Query) ([]models.Item, error) {
			switch q.Keyword {
			case "imagine":
				return []models.Item{imagine}, nil
			case "jealous guy":
				return []models.Item{jealous}, nil
			default:
				return nil, services.ErrNoResults
			}
		}}
		h := newHarness(catalog)

		path := filepath.Join(t.TempDir(), "keywords.txt")
		if err := os.WriteFile(path, []byte("# lennon\nimagine\n\njealous guy\nzzzz\n"), 0644); err != nil {
			t.Fatalf("failed to write keywords: %v", err)
		}

		if err := h.run("playlist", "import", "--rate", "100", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		items := h.store.Items()
		if len(items) != 2 || items[0].ID != imagine.ID || items[1].ID != jealous.ID {
			t.Errorf("expected entries in keyword order, got %v", items)
		}
		out := h.output.String()
		if !strings.Contains(out, "Import Complete!") || !strings.Contains(out, "zzzz") {
			t.Errorf("expected summary with failed keyword, got %s", out)
		}
	})

	t.Run("import missing file", func(t *testing.T) {
		h := newHarness(tu.StaticCatalog(nil, nil))

		if err := h.run("playlist", "import", filepath.Join(t.TempDir(), "nope.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		h := newHarness(nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := h.run("setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected a loadable config, got %v", err)
		}

		if err := h.run("setup", "config", "--config", path); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected error for existing file, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		h := newHarness(nil)
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		dbPath := filepath.Join(dir, "tuneflow.db")
		conf := fmt.Sprintf("[database]\npath = %q\n", dbPath)
		if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if err := h.run("setup", "database", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, dbPath)
	})
}

func TestOpenPlaylist(t *testing.T) {
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "tuneflow.db")
	logger := shared.NewLogger(&bytes.Buffer{})
	ctx := context.Background()

	runner := NewRunner(RunnerOpts{Config: config, Logger: logger, Output: &bytes.Buffer{}})
	store, err := runner.openPlaylist(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Add(ctx, imagine); err != nil {
		t.Fatalf("failed to add: %v", err)
	}
	again, _ := runner.openPlaylist(ctx)
	if again != store {
		t.Error("expected the store to be opened once")
	}
	runner.Close()

	reopened := NewRunner(RunnerOpts{Config: config, Logger: logger, Output: &bytes.Buffer{}})
	defer reopened.Close()
	store, err = reopened.openPlaylist(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !store.Contains(imagine.ID) {
		t.Error("expected the playlist to survive a reopen")
	}
}
