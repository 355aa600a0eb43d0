// Package models defines the domain types shared by the catalog client, the playlist store and the front ends.
//
//   - [Item] : a normalized catalog result; playlist entries use the same shape
//   - [Kind] : song or album
//   - [MediaType] : the search filter (all, song, album) and its catalog entity mapping
//   - [SortKey] : result ordering (release date descending or price ascending)
//   - [Query] : the (keyword, media type, sort key) triple that drives a search
//
// Items serialize with the keys id, type, artwork, trackName, artist, price, previewUrl and releaseDate.
// The playlist record stores exactly that form.
package models
