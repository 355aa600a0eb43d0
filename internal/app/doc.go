// Package app holds the application state shared by every front end.
//
// [State] is a plain state machine. Setters record user input and, when a new catalog
// search is needed, return a [Request]. The caller executes the request off the main
// loop (see [Execute] and [Searcher]) and feeds the [Response] back through
// [State.Resolve]. Responses carry the token of the request that produced them, so a
// late answer to a superseded search is dropped instead of overwriting newer results.
//
// The state is not safe for concurrent use. The TUI only touches it from its Update
// loop and the web server guards it with a mutex.
package app
