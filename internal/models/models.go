package models

import (
	"fmt"
	"strings"
)

// Kind distinguishes songs from albums.
type Kind string

const (
	KindSong  Kind = "song"
	KindAlbum Kind = "album"
)

// Item is a normalized catalog entry.
type Item struct {
	ID          int64   `json:"id"`
	Kind        Kind    `json:"type"`
	Artwork     string  `json:"artwork"`
	Title       string  `json:"trackName"`
	Artist      string  `json:"artist"`
	Price       float64 `json:"price"`
	PreviewURL  string  `json:"previewUrl"`
	ReleaseDate string  `json:"releaseDate"`
}

// Playable reports whether the item has a preview that can be played.
func (i Item) Playable() bool {
	return i.Kind == KindSong && i.PreviewURL != ""
}

// MediaType is the search filter selected by the user.
type MediaType string

const (
	MediaAll   MediaType = "all"
	MediaSong  MediaType = "song"
	MediaAlbum MediaType = "album"
)

// MediaTypes lists the filters in selector order.
var MediaTypes = []MediaType{MediaAll, MediaSong, MediaAlbum}

// Entity returns the catalog entity parameter for the filter.
func (m MediaType) Entity() string {
	switch m {
	case MediaSong:
		return "song"
	case MediaAlbum:
		return "album"
	default:
		return "song,album"
	}
}

// Label is the human readable name used by selectors.
func (m MediaType) Label() string {
	switch m {
	case MediaSong:
		return "Songs"
	case MediaAlbum:
		return "Albums"
	default:
		return "All"
	}
}

// Next cycles to the following filter.
func (m MediaType) Next() MediaType {
	for i, mt := range MediaTypes {
		if mt == m {
			return MediaTypes[(i+1)%len(MediaTypes)]
		}
	}
	return MediaAll
}

// ParseMediaType validates a filter value. The empty string maps to [MediaAll].
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case "", MediaAll:
		return MediaAll, nil
	case MediaSong:
		return MediaSong, nil
	case MediaAlbum:
		return MediaAlbum, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// SortKey selects result ordering.
type SortKey string

const (
	SortReleaseDate SortKey = "releaseDate"
	SortPrice       SortKey = "price"
)

// SortKeys lists the keys in selector order.
var SortKeys = []SortKey{SortReleaseDate, SortPrice}

// Label is the human readable name used by selectors.
func (k SortKey) Label() string {
	if k == SortPrice {
		return "Price"
	}
	return "Release date"
}

// Next cycles to the other sort key.
func (k SortKey) Next() SortKey {
	if k == SortPrice {
		return SortReleaseDate
	}
	return SortPrice
}

// ParseSortKey validates a sort value. The empty string maps to [SortReleaseDate].
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "releasedate", "release_date", "date":
		return SortReleaseDate, nil
	case "price":
		return SortPrice, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Query is the full set of search inputs.
type Query struct {
	Keyword string
	Media   MediaType
	Sort    SortKey
}

// Term returns the trimmed keyword.
func (q Query) Term() string {
	return strings.TrimSpace(q.Keyword)
}

// Blank reports whether the keyword is empty after trimming.
func (q Query) Blank() bool {
	return q.Term() == ""
}
