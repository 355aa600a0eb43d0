package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/desertthunder/tuneflow/internal/shared"
)

// PlaylistRecord is the record name the playlist is stored under.
const PlaylistRecord = "musicPlaylist"

type timestamped interface {
	UpdatedAt(ctx context.Context, name string) (time.Time, error)
}

// PlaylistStore is the ordered, id-deduplicated playlist.
//
// Every mutation serializes the whole collection and overwrites the record before returning.
// A PlaylistStore is not safe for concurrent use.
type PlaylistStore struct {
	records RecordStore
	logger  *log.Logger
	items   []models.Item
}

// NewPlaylistStore creates an empty store backed by records. Call [PlaylistStore.Load] to hydrate it.
func NewPlaylistStore(records RecordStore, logger *log.Logger) *PlaylistStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistStore{records: records, logger: logger}
}

// Load hydrates the playlist from its record.
//
// A missing or unparseable record leaves the playlist empty and is not an error.
// Only storage failures are returned.
func (s *PlaylistStore) Load(ctx context.Context) error {
	s.items = nil

	raw, err := s.records.Get(ctx, PlaylistRecord)
	if errors.Is(err, shared.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var items []models.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("ignoring unreadable playlist record", "record", PlaylistRecord, "error", err)
		return nil
	}

	for _, item := range items {
		if !s.Contains(item.ID) {
			s.items = append(s.items, item)
		}
	}
	return nil
}

// Items returns a copy of the playlist in order.
func (s *PlaylistStore) Items() []models.Item {
	return slices.Clone(s.items)
}

// Len returns the number of entries.
func (s *PlaylistStore) Len() int {
	return len(s.items)
}

// Contains reports whether an entry with id exists.
func (s *PlaylistStore) Contains(id int64) bool {
	return s.index(id) >= 0
}

// Get returns the entry with id.
func (s *PlaylistStore) Get(id int64) (models.Item, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return models.Item{}, false
}

// SavedAt reports when the playlist record was last written.
// Stores without write times return [shared.ErrNotImplemented].
func (s *PlaylistStore) SavedAt(ctx context.Context) (time.Time, error) {
	ts, ok := s.records.(timestamped)
	if !ok {
		return time.Time{}, shared.ErrNotImplemented
	}
	return ts.UpdatedAt(ctx, PlaylistRecord)
}

// Add appends item unless an entry with the same id exists. Reports whether the playlist changed.
func (s *PlaylistStore) Add(ctx context.Context, item models.Item) (bool, error) {
	if s.Contains(item.ID) {
		return false, nil
	}

	prev := s.items
	s.items = append(slices.Clone(s.items), item)
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return false, err
	}

	s.logger.Debug("added to playlist", "id", item.ID, "title", item.Title)
	return true, nil
}

// Remove deletes the entry with id if present. Reports whether the playlist changed.
func (s *PlaylistStore) Remove(ctx context.Context, id int64) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	prev := s.items
	s.items = slices.Delete(slices.Clone(s.items), i, i+1)
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return false, err
	}

	s.logger.Debug("removed from playlist", "id", id)
	return true, nil
}

// Clear drops every entry and deletes the record.
func (s *PlaylistStore) Clear(ctx context.Context) error {
	if err := s.records.Delete(ctx, PlaylistRecord); err != nil {
		return err
	}
	s.items = nil
	return nil
}

// Marshal returns the serialized form written to the record.
func (s *PlaylistStore) Marshal() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []models.Item{}
	}
	return json.Marshal(items)
}

func (s *PlaylistStore) persist(ctx context.Context) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize playlist: %w", err)
	}
	return s.records.Put(ctx, PlaylistRecord, string(data))
}

func (s *PlaylistStore) index(id int64) int {
	return slices.IndexFunc(s.items, func(item models.Item) bool { return item.ID == id })
}
