package docstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryClient is an in-memory document store. It is safe for concurrent use
// and deep-copies payloads on every read and write so callers can never alias
// stored state. Used by tests and local experiments.
type MemoryClient struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

// NewMemoryClient creates an empty in-memory document store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		collections: make(map[string]map[string]map[string]any),
	}
}

func (c *MemoryClient) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (c *MemoryClient) Get(ctx context.Context, collection, id string) (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fields, ok := c.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Fields: copyFields(fields)}, nil
}

func (c *MemoryClient) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]Document, 0, len(c.collections[collection]))
	for id, fields := range c.collections[collection] {
		doc := Document{ID: id, Fields: copyFields(fields)}
		if matchesFilters(doc, filters) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (c *MemoryClient) ListChildren(ctx context.Context, collection, id, child string) ([]Document, error) {
	return c.List(ctx, ChildPath(collection, id, child))
}

func (c *MemoryClient) Create(ctx context.Context, collection, id string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.collections[collection][id]; ok {
		return ErrExists
	}
	c.put(collection, id, fields)
	return nil
}

func (c *MemoryClient) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.put(collection, id, fields)
	return nil
}

func (c *MemoryClient) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range copyFields(fields) {
		existing[k] = v
	}
	return nil
}

func (c *MemoryClient) Delete(ctx context.Context, collection, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.collections[collection], id)
	return nil
}

func (c *MemoryClient) DeleteChild(ctx context.Context, collection, id, child, childID string) error {
	return c.Delete(ctx, ChildPath(collection, id, child), childID)
}

// put stores a deep copy. Caller must hold the write lock.
func (c *MemoryClient) put(collection, id string, fields map[string]any) {
	if c.collections[collection] == nil {
		c.collections[collection] = make(map[string]map[string]any)
	}
	c.collections[collection][id] = copyFields(fields)
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
