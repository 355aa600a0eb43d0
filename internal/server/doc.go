// Package server provides the HTTP plumbing shared by the web front end: middleware and a
// server lifecycle bound to a context.
//
// [Middleware] wraps handlers. [Logging] records every request with the charm logger and
// [Recover] turns handler panics into 500 responses. Both plug into any router that
// accepts func(http.Handler) http.Handler, such as chi. [Chain] composes them with alice;
// [Standard] is the chain the web page is served behind.
//
// [Serve] runs an [http.Server] until its context is cancelled, then shuts it down
// gracefully.
package server
