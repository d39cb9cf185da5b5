package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrExists is returned by Create when the document already exists.
var ErrExists = errors.New("document already exists")

// Document is a single stored document: its id plus an open field map.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter restricts List to documents whose field equals the given value.
type Filter struct {
	Field  string
	Equals any
}

// Client defines the interface for document store operations.
type Client interface {
	// Ping verifies the store is reachable. Sweep commands treat a failed
	// ping as a fatal setup error.
	Ping(ctx context.Context) error
	// Get returns a single document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// List returns all documents of a collection matching every filter.
	List(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	// ListChildren enumerates a child collection under a parent document.
	ListChildren(ctx context.Context, collection, id, child string) ([]Document, error)
	// Create writes a new document, failing with ErrExists if the id is taken.
	Create(ctx context.Context, collection, id string, fields map[string]any) error
	// Set writes a document, replacing any existing payload.
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	// Update merges fields into an existing document, or ErrNotFound.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, collection, id string) error
	// DeleteChild removes one entry from a child collection. Idempotent.
	DeleteChild(ctx context.Context, collection, id, child, childID string) error
}

// ChildPath returns the collection path of a child collection under a parent
// document, e.g. ChildPath("prompts", "p1", "likes") -> "prompts/p1/likes".
func ChildPath(collection, id, child string) string {
	return collection + "/" + id + "/" + child
}
