// Package services implements the music catalog client.
//
// # Catalog Interface
//
// Front ends depend on [Catalog], which turns a [models.Query] into normalized [models.Item] values.
// [CatalogService] implements it against the iTunes Search API:
//
//	GET <endpoint>?term=<keyword>&media=music&entity=<song|album|song,album>&limit=20
//
// # Normalization
//
// Raw records are mapped by [Normalize]:
//   - ID is trackId, falling back to collectionId
//   - kind "song" stays a song; every other record is treated as an album
//   - artworkUrl100 is upgraded from 100x100bb to 300x300bb, with a placeholder when absent
//   - title falls back from trackName to collectionName
//   - price falls back from trackPrice to collectionPrice to 0
//   - releaseDate keeps only its date portion
//
// Sorting is left to the caller (see [models.SortItems]).
//
// # Error Handling
//
//   - [ErrNoResults] : the catalog answered with zero matches
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or malformed body
//
// Requests are throttled client-side with a token bucket from golang.org/x/time/rate.
package services
