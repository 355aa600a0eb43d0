// Package web serves the browser page and JSON endpoints.
//
// The page is rendered on the server from an [app.State] shared by every request, so
// the browser behaves as one session. Forms post actions back and are redirected to
// the page (POST, redirect, GET). Searches run while the request is held: the handler
// issues the [app.Request], executes it through an [app.Searcher] without holding the
// state lock, and resolves it afterwards. A request that was superseded meanwhile is
// dropped by the token check in [app.State.Resolve].
//
// Routes
//
//	GET  /                 → page; keyword, media and sort query params update the search
//	POST /playlist/add     → add a result by id
//	POST /playlist/remove  → remove an entry by id
//	POST /preview          → toggle the preview for url
//	POST /preview/ended    → natural end of playback (sent by the audio element)
//	POST /theme            → flip the theme
//	GET  /api/search       → stateless catalog search as JSON
//	GET  /api/playlist     → playlist as JSON
//	GET  /health           → liveness
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/server"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.gohtml
var tplFS embed.FS

// Server holds the session state behind the web page.
type Server struct {
	mu       sync.Mutex
	state    *app.State
	catalog  services.Catalog
	searcher *app.Searcher
	logger   *log.Logger
	tpl      *template.Template
}

// Options holds the dependencies of a [Server].
type Options struct {
	State   *app.State
	Catalog services.Catalog
	Logger  *log.Logger
}

// NewServer parses the templates and creates a [Server].
func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	tpl, err := template.New("tuneflow").Funcs(template.FuncMap{
		"price": models.FormatPrice,
	}).ParseFS(tplFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}

	return &Server{
		state:    opts.State,
		catalog:  opts.Catalog,
		searcher: app.NewSearcher(opts.Catalog),
		logger:   opts.Logger,
		tpl:      tpl,
	}, nil
}

// Handler returns the router wrapped in the standard middleware chain.
func (s *Server) Handler() http.Handler {
	return server.Standard(s.logger).Then(s.Router())
}

// Router returns the chi router serving every route.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Post("/playlist/add", s.handleAdd)
	r.Post("/playlist/remove", s.handleRemove)
	r.Post("/preview", s.handlePreview)
	r.Post("/preview/ended", s.handlePreviewEnded)
	r.Post("/theme", s.handleTheme)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleAPISearch)
		r.Get("/playlist", s.handleAPIPlaylist)
	})

	return r
}

// page is the template data for the index page.
type page struct {
	app.Snapshot
	MediaTypes []models.MediaType
	SortKeys   []models.SortKey
	Count      int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.applyQuery(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	snap := s.state.Snapshot()
	s.mu.Unlock()

	data := page{
		Snapshot:   snap,
		MediaTypes: models.MediaTypes,
		SortKeys:   models.SortKeys,
		Count:      len(snap.Playlist),
	}

	var buf bytes.Buffer
	if err := s.tpl.ExecuteTemplate(&buf, "base", data); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// applyQuery feeds the search form fields present in the URL into the state and runs
// the resulting search, if any.
func (s *Server) applyQuery(r *http.Request) error {
	q := r.URL.Query()

	s.mu.Lock()
	issued := false
	if q.Has("media") {
		media, err := models.ParseMediaType(q.Get("media"))
		if err != nil {
			s.mu.Unlock()
			return err
		}
		_, ok := s.state.SetMedia(media)
		issued = issued || ok
	}
	if q.Has("sort") {
		sort, err := models.ParseSortKey(q.Get("sort"))
		if err != nil {
			s.mu.Unlock()
			return err
		}
		_, ok := s.state.SetSort(sort)
		issued = issued || ok
	}
	if q.Has("keyword") {
		_, ok := s.state.SetKeyword(q.Get("keyword"))
		issued = issued || ok
	}
	req := app.Request{Token: s.state.Token(), Query: s.state.Query()}
	s.mu.Unlock()

	if req.Token == "" {
		s.searcher.Cancel()
		return nil
	}
	if !issued {
		return nil
	}

	// The search outlives a client abort so the shared page resolves to a real outcome.
	// A newer request still cancels it through the searcher.
	resp := s.searcher.Run(context.WithoutCancel(r.Context()), req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Resolve(resp) {
		s.logger.Debug("dropped stale search response", "token", resp.Token)
	} else if resp.Err != nil && !errors.Is(resp.Err, services.ErrNoResults) {
		s.logger.Warn("search failed", "keyword", req.Query.Keyword, "error", resp.Err)
	}
	return nil
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		item  models.Item
		found bool
	)
	for _, result := range s.state.Results() {
		if result.ID == id {
			item, found = result, true
			break
		}
	}
	if !found {
		http.Error(w, "unknown result", http.StatusNotFound)
		return
	}

	if err := s.state.Add(r.Context(), item); err != nil {
		s.logger.Error("failed to add to playlist", "id", id, "error", err)
		http.Error(w, "Could not save the playlist.", http.StatusInternalServerError)
		return
	}
	back(w, r)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Remove(r.Context(), id); err != nil {
		s.logger.Error("failed to remove from playlist", "id", id, "error", err)
		http.Error(w, "Could not save the playlist.", http.StatusInternalServerError)
		return
	}
	back(w, r)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	change := s.state.Play(r.FormValue("url"))
	s.mu.Unlock()

	s.logger.Debug("preview", "url", r.FormValue("url"), "change", change)
	back(w, r)
}

func (s *Server) handlePreviewEnded(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.state.PreviewEnded(r.FormValue("url"))
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.state.ToggleTheme()
	s.mu.Unlock()

	back(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "tuneflow",
		"catalog": s.catalog.Name(),
	})
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	ResultCount int           `json:"resultCount"`
	Results     []models.Item `json:"results"`
	Message     string        `json:"message,omitempty"`
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	keyword := strings.TrimSpace(q.Get("keyword"))
	if keyword == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "keyword is required"})
		return
	}
	media, err := models.ParseMediaType(q.Get("media"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sort, err := models.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := app.Execute(r.Context(), s.catalog, app.Request{Query: models.Query{Keyword: keyword, Media: media, Sort: sort}})
	switch {
	case resp.Err == nil:
		writeJSON(w, http.StatusOK, SearchResponse{ResultCount: len(resp.Items), Results: resp.Items})
	case errors.Is(resp.Err, services.ErrNoResults):
		writeJSON(w, http.StatusOK, SearchResponse{Results: []models.Item{}, Message: app.MsgNoResults})
	default:
		s.logger.Warn("api search failed", "keyword", keyword, "error", resp.Err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": app.MsgUnreachable})
	}
}

func (s *Server) handleAPIPlaylist(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := s.state.Playlist()
	s.mu.Unlock()

	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func formID(r *http.Request) (int64, error) {
	raw := r.FormValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("id must be a number")
	}
	return id, nil
}

// back redirects to the page after a form action.
func back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
