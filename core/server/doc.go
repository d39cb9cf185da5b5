// Package server holds the HTTP server configuration.
//
// The serve command handles the actual server startup; this package only
// defines the configuration structure for it (listen port and API key).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the auth middleware for API key validation.
package server
