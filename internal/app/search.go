package app

import (
	"context"
	"slices"
	"sync"

	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/services"
)

// Request is a catalog search to run on behalf of [State].
type Request struct {
	Token string
	Query models.Query
}

// Response is the outcome of a [Request].
type Response struct {
	Token string
	Items []models.Item
	Err   error
}

// Execute runs req against catalog and sorts the results by the requested key.
func Execute(ctx context.Context, catalog services.Catalog, req Request) Response {
	items, err := catalog.Search(ctx, req.Query)
	if err != nil {
		return Response{Token: req.Token, Err: err}
	}

	items = slices.Clone(items)
	models.SortItems(items, req.Query.Sort)
	return Response{Token: req.Token, Items: items}
}

// Searcher runs requests one at a time from the caller's point of view: starting a
// search cancels the context of the one still in flight.
type Searcher struct {
	catalog services.Catalog

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSearcher creates a [Searcher] for catalog.
func NewSearcher(catalog services.Catalog) *Searcher {
	return &Searcher{catalog: catalog}
}

// Run cancels any in-flight search and executes req.
func (s *Searcher) Run(ctx context.Context, req Request) Response {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	resp := Execute(ctx, s.catalog, req)

	s.mu.Lock()
	if s.seq == seq {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	return resp
}

// Cancel aborts the in-flight search, if any.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
