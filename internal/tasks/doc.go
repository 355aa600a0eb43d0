// Package tasks runs long playlist operations with real-time progress reporting.
//
// # Import
//
// [ImportEngine.Import] turns a list of keywords into playlist entries:
//   - Keywords are searched concurrently by a bounded worker pool
//   - Catalog calls are throttled by a shared rate limiter
//   - The first match of each keyword is added to the playlist in input order
//   - Keywords without a match, and matches already in the playlist, are reported
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
