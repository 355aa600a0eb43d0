// Package repositories implements SQLite persistence for the playlist.
//
// Key Implementations:
//   - [RecordRepository] : named durable records (name → serialized value), the local-storage equivalent
//   - [PlaylistStore] : the ordered, id-deduplicated playlist mirrored to a single record on every change
//
// The playlist record holds the exact JSON serialization of the in-memory collection.
// An absent or unparseable record hydrates to an empty playlist.
package repositories
