package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/formatter"
	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
	"github.com/desertthunder/tuneflow/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints the saved playlist.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}

	items := store.Items()
	if cmd.Bool("json") {
		if items == nil {
			items = []models.Item{}
		}
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	if len(items) == 0 {
		return r.writePlain("Your playlist is empty.\n")
	}

	r.writePlain("Playlist (%d)\n", len(items))
	if saved, err := store.SavedAt(ctx); err == nil {
		r.writePlain("Last saved: %s\n", saved.Local().Format(time.DateTime))
	} else if !errors.Is(err, shared.ErrNotImplemented) {
		r.logger.Debug("playlist write time unavailable", "error", err)
	}
	return r.writeItems(items, nil)
}

// PlaylistAdd searches for a keyword and adds the chosen result.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}

	resp, err := r.search(ctx, q, true)
	if err != nil {
		return err
	}
	if errors.Is(resp.Err, services.ErrNoResults) {
		return fmt.Errorf("%w: no results for %q", shared.ErrTrackNotFound, q.Keyword)
	}
	if resp.Err != nil {
		return fmt.Errorf("%s: %w", app.MsgUnreachable, resp.Err)
	}

	item := resp.Items[0]
	if id := cmd.Int64("id"); id != 0 {
		found := false
		for _, candidate := range resp.Items {
			if candidate.ID == id {
				item, found = candidate, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: no result with id %d for %q", shared.ErrTrackNotFound, id, q.Keyword)
		}
	}

	added, err := store.Add(ctx, item)
	if err != nil {
		return err
	}
	if !added {
		return r.writePlain("Already in playlist: %s - %s\n", item.Artist, item.Title)
	}

	r.logger.Info("added to playlist", "id", item.ID, "title", item.Title)
	return r.writePlain("✓ Added %s - %s (%d entries)\n", item.Artist, item.Title, store.Len())
}

// PlaylistRemove removes an entry by ID.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be a number, got %q", shared.ErrInvalidArgument, raw)
	}

	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}

	item, ok := store.Get(id)
	if !ok {
		return r.writePlain("No entry with id %d\n", id)
	}
	if _, err := store.Remove(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %s - %s (%d entries)\n", item.Artist, item.Title, store.Len())
}

// PlaylistClear deletes the saved playlist.
func (r *Runner) PlaylistClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}

	n := store.Len()
	if err := store.Clear(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Cleared %d entries\n", n)
}

// PlaylistExport writes the playlist in the requested format.
//
// Markdown exports get their own directory holding README.md and the cover artwork.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}
	items := store.Items()
	output := cmd.String("output")

	if format == formatter.Markdown {
		result, err := formatter.WriteMarkdownExport(items, output, r.httpClient)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d entries to %s\n", len(items), result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
		return nil
	}

	path, err := formatter.WriteExport(items, format, output)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Exported %d entries to %s\n", len(items), path)
}

// PlaylistImport adds the first catalog match of every keyword listed in a file.
func (r *Runner) PlaylistImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}
	media, err := models.ParseMediaType(cmd.String("media"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open keyword file: %w", err)
	}
	keywords, err := tasks.ParseKeywords(f)
	f.Close()
	if err != nil {
		return err
	}

	store, err := r.openPlaylist(ctx)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.SearchKeywords:
				if update.Step == 0 {
					r.writePlain("🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.AddEntries:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	engine := tasks.NewImportEngine(r.catalog, store)
	result, err := engine.Import(ctx, progressCh, keywords, tasks.ImportOpts{
		Media:      media,
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Keywords: %d\n", result.Total)
	r.writePlain("Added: %d\n", result.Added)
	r.writePlain("Already in playlist: %d\n", result.Skipped)
	r.writePlain("Playlist size: %d\n", store.Len())

	if result.Failed > 0 {
		r.writePlainln("Failed to import %d keywords:", result.Failed)
		for _, match := range result.Matches {
			if match.Error != nil {
				r.writePlain("  - %s: %v\n", match.Keyword, match.Error)
			}
		}
	}

	return nil
}
