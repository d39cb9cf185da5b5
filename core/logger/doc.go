// Package logger builds the Zap logger used across the console.
//
// Level and encoding come from configuration: console encoding for local
// runs and CLI sweeps, json for deployments. Sweep commands and the HTTP
// server share the same construction path so their output interleaves
// consistently in aggregated logs.
//
// # Request correlation
//
// WithRayID reads the request id placed in the Fiber context by the rayid
// middleware and attaches it to the log entry, so every line produced while
// handling one login attempt carries the same id.
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Info("Login denied by admission gate")
package logger
