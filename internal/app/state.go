package app

import (
	"context"
	"errors"
	"strings"

	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/services"
	"github.com/desertthunder/tuneflow/internal/shared"
)

// Messages shown in place of results.
const (
	MsgNoResults   = "No results found."
	MsgUnreachable = "Could not reach the server. Please try again."
)

// Playlist is the curated collection the state adds to and removes from.
//
// Implemented by repositories.PlaylistStore.
type Playlist interface {
	Items() []models.Item
	Len() int
	Contains(id int64) bool
	Add(ctx context.Context, item models.Item) (bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

// State is the application state owned by a front end.
type State struct {
	query   models.Query
	token   string
	loading bool
	results []models.Item
	message string

	// searched is the keyword of the last resolved search.
	searched string

	playlist Playlist
	preview  Preview
	theme    Theme

	newToken func() string
}

// NewState creates a state with an empty query and the default sort.
func NewState(playlist Playlist, theme Theme) *State {
	if theme == "" {
		theme = Dark
	}
	return &State{
		query:    models.Query{Media: models.MediaAll, Sort: models.SortReleaseDate},
		playlist: playlist,
		theme:    theme,
		newToken: shared.GenerateID,
	}
}

// Query returns the current search input.
func (s *State) Query() models.Query { return s.query }

// Loading reports whether a search is in flight.
func (s *State) Loading() bool { return s.loading }

// Message returns the error shown in the results panel, or "".
func (s *State) Message() string { return s.message }

// Token returns the token of the newest request, or "" when none is outstanding.
func (s *State) Token() string { return s.token }

// Searched returns the keyword of the last resolved search.
func (s *State) Searched() string { return s.searched }

// Results returns the visible results. Results are hidden while an error is shown.
func (s *State) Results() []models.Item {
	if s.message != "" {
		return nil
	}
	return s.results
}

// SetKeyword records the keyword and starts a new search cycle when it changed.
func (s *State) SetKeyword(keyword string) (Request, bool) {
	if keyword == s.query.Keyword {
		return Request{}, false
	}
	s.query.Keyword = keyword
	return s.Begin()
}

// SetMedia records the media filter and starts a new search cycle when it changed.
func (s *State) SetMedia(media models.MediaType) (Request, bool) {
	if media == s.query.Media {
		return Request{}, false
	}
	s.query.Media = media
	return s.Begin()
}

// SetSort records the sort key and starts a new search cycle when it changed.
func (s *State) SetSort(sort models.SortKey) (Request, bool) {
	if sort == s.query.Sort {
		return Request{}, false
	}
	s.query.Sort = sort
	return s.Begin()
}

// Begin starts a search cycle for the current query.
//
// A blank keyword clears the results panel and yields no request. Any outstanding
// request is superseded either way.
func (s *State) Begin() (Request, bool) {
	s.message = ""

	if s.query.Blank() {
		s.token = ""
		s.loading = false
		s.results = nil
		s.searched = ""
		return Request{}, false
	}

	s.token = s.newToken()
	s.loading = true
	return Request{Token: s.token, Query: s.query}, true
}

// Resolve applies resp if it answers the newest request. Reports whether it was applied.
func (s *State) Resolve(resp Response) bool {
	if s.token == "" || resp.Token != s.token {
		return false
	}

	s.token = ""
	s.loading = false
	s.searched = s.query.Keyword

	switch {
	case resp.Err == nil:
		s.results = resp.Items
		s.message = ""
	case errors.Is(resp.Err, services.ErrNoResults):
		s.results = nil
		s.message = MsgNoResults
	default:
		s.message = MsgUnreachable
	}
	return true
}

// Playlist returns the playlist entries in order.
func (s *State) Playlist() []models.Item { return s.playlist.Items() }

// PlaylistLen returns the number of playlist entries.
func (s *State) PlaylistLen() int { return s.playlist.Len() }

// InPlaylist reports whether an entry with id is in the playlist.
func (s *State) InPlaylist(id int64) bool { return s.playlist.Contains(id) }

// Add puts item in the playlist unless it is already there.
func (s *State) Add(ctx context.Context, item models.Item) error {
	_, err := s.playlist.Add(ctx, item)
	return err
}

// Remove drops the entry with id from the playlist.
func (s *State) Remove(ctx context.Context, id int64) error {
	_, err := s.playlist.Remove(ctx, id)
	return err
}

// Play toggles the preview for url.
func (s *State) Play(url string) Change { return s.preview.Play(url) }

// PreviewEnded handles the natural end of playback for url.
func (s *State) PreviewEnded(url string) bool { return s.preview.Ended(url) }

// StopPreview clears the active preview without waiting for it to end.
func (s *State) StopPreview() { s.preview.Stop() }

// ActivePreview returns the URL being played, or "".
func (s *State) ActivePreview() string { return s.preview.Active() }

// Theme returns the current theme.
func (s *State) Theme() Theme { return s.theme }

// ToggleTheme flips the theme and returns the new one.
func (s *State) ToggleTheme() Theme {
	s.theme = s.theme.Toggle()
	return s.theme
}

// Snapshot is a read-only copy of the state for rendering.
type Snapshot struct {
	Keyword  string
	Media    models.MediaType
	Sort     models.SortKey
	Loading  bool
	Message  string
	Searched string
	Results  []Row
	Playlist []models.Item
	Preview  string
	Theme    Theme
}

// Row is a result with its playlist membership.
type Row struct {
	models.Item
	Added   bool
	Playing bool
}

// Snapshot copies the renderable state.
func (s *State) Snapshot() Snapshot {
	results := s.Results()
	rows := make([]Row, 0, len(results))
	for _, item := range results {
		rows = append(rows, Row{
			Item:    item,
			Added:   s.playlist.Contains(item.ID),
			Playing: s.preview.Playing(item.PreviewURL),
		})
	}

	return Snapshot{
		Keyword:  s.query.Keyword,
		Media:    s.query.Media,
		Sort:     s.query.Sort,
		Loading:  s.loading,
		Message:  s.message,
		Searched: s.searched,
		Results:  rows,
		Playlist: s.playlist.Items(),
		Preview:  s.preview.Active(),
		Theme:    s.theme,
	}
}

// NoMatches reports whether the last search finished with nothing to show and no error.
func (s Snapshot) NoMatches() bool {
	return !s.Loading && s.Message == "" && len(s.Results) == 0 && strings.TrimSpace(s.Searched) != ""
}
