package tasks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
	"golang.org/x/time/rate"
)

// Playlist is the destination of imported entries.
type Playlist interface {
	Add(ctx context.Context, item models.Item) (bool, error)
}

// ImportOpts contains configuration for keyword imports.
type ImportOpts struct {
	Media      models.MediaType // Media filter applied to every search (default: song)
	NumWorkers int              // Concurrent workers (default: 4, max: 8)
	RateLimit  float64          // Searches per second across workers (default: 2)
}

// MatchResult represents the outcome for a single keyword.
type MatchResult struct {
	Keyword string       // Keyword as read from the input
	Matched *models.Item // First catalog match (nil if not found)
	Added   bool         // Whether the match was new to the playlist
	Error   error        // Search or storage error
}

// ImportResult contains all data from an import run.
type ImportResult struct {
	Total   int           // Keywords processed
	Added   int           // Matches added to the playlist
	Skipped int           // Matches already in the playlist
	Failed  int           // Keywords without a usable match
	Matches []MatchResult // Per-keyword results in input order
}

// ImportEngine searches keywords and fills the playlist with the matches.
type ImportEngine struct {
	catalog  services.Catalog
	playlist Playlist
}

// NewImportEngine creates a new ImportEngine with the provided catalog and playlist.
func NewImportEngine(catalog services.Catalog, playlist Playlist) *ImportEngine {
	return &ImportEngine{catalog: catalog, playlist: playlist}
}

type importJob struct {
	index   int
	keyword string
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import searches every keyword and adds the first match of each to the playlist.
//
// Searches run concurrently; entries are added one at a time in keyword order so the
// playlist order follows the input. A keyword that fails does not stop the import.
func (e *ImportEngine) Import(ctx context.Context, prog chan<- ProgressUpdate, keywords []string, opts ImportOpts) (*ImportResult, error) {
	if e.catalog == nil || e.playlist == nil {
		return nil, fmt.Errorf("%w: import engine not initialized", shared.ErrServiceUnavailable)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: no keywords to import", shared.ErrMissingArgument)
	}

	if opts.Media == "" {
		opts.Media = models.MediaSong
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	result := &ImportResult{Total: len(keywords), Matches: make([]MatchResult, len(keywords))}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan importJob)
	results := make(chan importJob, len(keywords))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.searchWorker(ctx, &wg, limiter, opts.Media, jobs, results, result.Matches)
	}

	go func() {
		defer close(jobs)
		for i, keyword := range keywords {
			select {
			case <-ctx.Done():
				return
			case jobs <- importJob{index: i, keyword: keyword}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	e.sendProgress(prog, searchStartedUpdate(len(keywords)))
	completed := 0
	for job := range results {
		completed++
		match := result.Matches[job.index]
		if match.Error != nil {
			e.sendProgress(prog, searchFailedUpdate(completed, len(keywords), job.keyword, match.Error))
		} else {
			e.sendProgress(prog, searchMatchedUpdate(completed, len(keywords), job.keyword, *match.Matched))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("import interrupted: %w", err)
	}

	e.sendProgress(prog, addEntriesUpdate(0, len(keywords)))
	for i := range result.Matches {
		match := &result.Matches[i]
		if match.Matched == nil {
			result.Failed++
			continue
		}

		added, err := e.playlist.Add(ctx, *match.Matched)
		if err != nil {
			return result, fmt.Errorf("failed to add %q: %w", match.Keyword, err)
		}

		match.Added = added
		if added {
			result.Added++
		} else {
			result.Skipped++
		}
	}

	e.sendProgress(prog, completeUpdate(result))
	return result, nil
}

// searchWorker searches keywords from the jobs channel and records the first match.
//
// Each worker writes only to the slots of the jobs it receives.
func (e *ImportEngine) searchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	media models.MediaType,
	jobs <-chan importJob,
	results chan<- importJob,
	matches []MatchResult,
) {
	defer wg.Done()

	for job := range jobs {
		match := MatchResult{Keyword: job.keyword}

		if err := limiter.Wait(ctx); err != nil {
			match.Error = err
		} else {
			items, err := e.catalog.Search(ctx, models.Query{Keyword: job.keyword, Media: media})
			switch {
			case err != nil:
				match.Error = err
			case len(items) == 0:
				match.Error = services.ErrNoResults
			default:
				match.Matched = &items[0]
			}
		}

		matches[job.index] = match
		results <- job
	}
}

// ParseKeywords reads one keyword per line, skipping blank lines and # comments.
func ParseKeywords(r io.Reader) ([]string, error) {
	var keywords []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keywords: %w", err)
	}
	return keywords, nil
}
