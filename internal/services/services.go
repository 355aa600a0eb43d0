// package services defines interface Catalog for searching the music catalog over HTTP
package services

import (
	"context"
	"errors"

	"github.com/desertthunder/tuneflow/internal/models"
)

// ErrNoResults is returned when the catalog has no matches for a non-empty keyword.
var ErrNoResults = errors.New("no results found")

// Catalog searches a music catalog.
type Catalog interface {
	// Search returns normalized, unsorted items for the query.
	// Returns [ErrNoResults] when nothing matched.
	Search(ctx context.Context, q models.Query) ([]models.Item, error)

	// Name returns the name of the catalog (e.g., "iTunes")
	Name() string
}
