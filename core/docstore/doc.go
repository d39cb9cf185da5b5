// Package docstore provides access to the schemaless document store holding
// all console data (devices, prompts, countries, users, settings).
//
// # Model
//
// Documents live in named collections and are addressed by collection + id.
// A document's payload is an open map of fields. Child collections nest under
// a parent document (e.g. prompts/<id>/likes) and are addressed through the
// ListChildren / DeleteChild operations.
//
// The store offers NO cross-document atomicity: every operation touches exactly
// one document. Callers that need multi-document consistency get eventual
// consistency repaired by the reconciliation sweeps instead.
//
// # Implementations
//
//   - NewGormClient: documents persisted as JSON payloads in a relational
//     table (MySQL or SQLite via core/database).
//   - NewMemoryClient: in-memory store for tests and local experiments.
//   - mocks.Client: a testify mock for interaction-level tests.
//
// # Errors
//
// Lookups of absent documents return ErrNotFound; Create of an existing id
// returns ErrExists. Delete operations are idempotent and succeed when the
// target is already gone.
package docstore
