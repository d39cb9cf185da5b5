// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation guarding the admin API. An empty configured
//     key disables the check for local development.
//   - RayID: Assigns a unique request id (RayID) to every incoming request,
//     storing it in the context and echoing it in the response headers so
//     admission decisions can be traced end to end.
//
// Both are registered globally in the serve command; RayID must come first
// so every downstream log line carries the id.
package middleware
