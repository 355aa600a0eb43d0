package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchOutput is the JSON form of a search, shaped like the catalog response.
type SearchOutput struct {
	ResultCount int           `json:"resultCount"`
	Results     []models.Item `json:"results"`
}

// Search runs a single catalog search and prints the sorted results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	useJSON := cmd.Bool("json")
	r.logger.Debug("searching catalog", "keyword", q.Keyword, "media", q.Media, "sort", q.Sort)

	resp, err := r.search(ctx, q, !useJSON)
	if err != nil {
		return err
	}

	if errors.Is(resp.Err, services.ErrNoResults) {
		if useJSON {
			return r.writeJSON(SearchOutput{Results: []models.Item{}}, cmd.Bool("pretty"))
		}
		return r.writePlain("%s\n", app.MsgNoResults)
	}
	if resp.Err != nil {
		r.logger.Error("search failed", "keyword", q.Keyword, "error", resp.Err)
		return fmt.Errorf("%s: %w", app.MsgUnreachable, resp.Err)
	}

	if useJSON {
		return r.writeJSON(SearchOutput{ResultCount: len(resp.Items), Results: resp.Items}, cmd.Bool("pretty"))
	}

	r.writePlain("Results for %q (%s, sorted by %s)\n", q.Keyword, q.Media.Label(), q.Sort.Label())
	return r.writeItems(resp.Items, nil)
}

// search executes q, showing a spinner while it runs when output is a terminal.
func (r *Runner) search(ctx context.Context, q models.Query, progress bool) (app.Response, error) {
	req := app.Request{Token: shared.GenerateID(), Query: q}

	var resp app.Response
	run := func(ctx context.Context) error {
		resp = app.Execute(ctx, r.catalog, req)
		return nil
	}

	if progress && r.interactive() {
		err := spinner.New().Title("Searching...").Context(ctx).ActionWithErr(run).Run()
		return resp, err
	}
	return resp, run(ctx)
}

func queryFromFlags(cmd *cli.Command) (models.Query, error) {
	keyword := strings.TrimSpace(cmd.StringArg("keyword"))
	if keyword == "" {
		return models.Query{}, fmt.Errorf("%w: keyword", shared.ErrMissingArgument)
	}

	media, err := models.ParseMediaType(cmd.String("media"))
	if err != nil {
		return models.Query{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	sort, err := models.ParseSortKey(cmd.String("sort"))
	if err != nil {
		return models.Query{}, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	return models.Query{Keyword: keyword, Media: media, Sort: sort}, nil
}
