package services

import (
	"strings"

	"github.com/desertthunder/tuneflow/internal/models"
)

// PlaceholderArtwork is used when a record has no artwork.
const PlaceholderArtwork = "https://via.placeholder.com/80/333/fff?text=No%20Image"

const (
	lowResArtwork  = "100x100bb"
	highResArtwork = "300x300bb"
)

// CatalogResponse is the search response envelope.
type CatalogResponse struct {
	ResultCount int             `json:"resultCount"`
	Results     []CatalogRecord `json:"results"`
}

// CatalogRecord is a raw search record. Optional numeric fields are pointers so absence can be told apart from zero.
type CatalogRecord struct {
	WrapperType     string   `json:"wrapperType"`
	Kind            string   `json:"kind"`
	TrackID         int64    `json:"trackId"`
	CollectionID    int64    `json:"collectionId"`
	ArtistName      string   `json:"artistName"`
	TrackName       string   `json:"trackName"`
	CollectionName  string   `json:"collectionName"`
	ArtworkURL100   string   `json:"artworkUrl100"`
	TrackPrice      *float64 `json:"trackPrice"`
	CollectionPrice *float64 `json:"collectionPrice"`
	PreviewURL      string   `json:"previewUrl"`
	ReleaseDate     string   `json:"releaseDate"`
}

// Normalize maps a raw record to a [models.Item].
func Normalize(r CatalogRecord) models.Item {
	item := models.Item{
		ID:          r.TrackID,
		Kind:        models.KindAlbum,
		Artwork:     PlaceholderArtwork,
		Title:       r.TrackName,
		Artist:      r.ArtistName,
		PreviewURL:  r.PreviewURL,
		ReleaseDate: r.ReleaseDate,
	}

	if item.ID == 0 {
		item.ID = r.CollectionID
	}
	if r.Kind == "song" {
		item.Kind = models.KindSong
	}
	if r.ArtworkURL100 != "" {
		item.Artwork = strings.Replace(r.ArtworkURL100, lowResArtwork, highResArtwork, 1)
	}
	if item.Title == "" {
		item.Title = r.CollectionName
	}

	switch {
	case r.TrackPrice != nil:
		item.Price = *r.TrackPrice
	case r.CollectionPrice != nil:
		item.Price = *r.CollectionPrice
	}
	// The catalog reports -1 for items that are not for sale.
	if item.Price < 0 {
		item.Price = 0
	}

	if date, _, ok := strings.Cut(r.ReleaseDate, "T"); ok {
		item.ReleaseDate = date
	}

	return item
}

// NormalizeAll maps every record of a response.
func NormalizeAll(records []CatalogRecord) []models.Item {
	items := make([]models.Item, len(records))
	for i, r := range records {
		items[i] = Normalize(r)
	}
	return items
}
