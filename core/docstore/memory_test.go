package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_CRUD(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	t.Run("Get missing", func(t *testing.T) {
		_, err := client.Get(ctx, "prompts", "p1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Create and Get", func(t *testing.T) {
		err := client.Create(ctx, "prompts", "p1", map[string]any{"likesCount": 2})
		require.NoError(t, err)

		doc, err := client.Get(ctx, "prompts", "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", doc.ID)
		assert.Equal(t, 2, doc.Fields["likesCount"])
	})

	t.Run("Create duplicate", func(t *testing.T) {
		err := client.Create(ctx, "prompts", "p1", map[string]any{})
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("Update merges", func(t *testing.T) {
		err := client.Update(ctx, "prompts", "p1", map[string]any{"savesCount": 1})
		require.NoError(t, err)

		doc, err := client.Get(ctx, "prompts", "p1")
		require.NoError(t, err)
		assert.Equal(t, 2, doc.Fields["likesCount"])
		assert.Equal(t, 1, doc.Fields["savesCount"])
	})

	t.Run("Update missing", func(t *testing.T) {
		err := client.Update(ctx, "prompts", "nope", map[string]any{"x": 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		require.NoError(t, client.Delete(ctx, "prompts", "p1"))
		require.NoError(t, client.Delete(ctx, "prompts", "p1"))
		_, err := client.Get(ctx, "prompts", "p1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryClient_Children(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	require.NoError(t, client.Set(ctx, "prompts", "p1", map[string]any{}))
	require.NoError(t, client.Set(ctx, ChildPath("prompts", "p1", "likes"), "u1", map[string]any{}))
	require.NoError(t, client.Set(ctx, ChildPath("prompts", "p1", "likes"), "u2", map[string]any{}))

	children, err := client.ListChildren(ctx, "prompts", "p1", "likes")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "u1", children[0].ID)
	assert.Equal(t, "u2", children[1].ID)

	require.NoError(t, client.DeleteChild(ctx, "prompts", "p1", "likes", "u1"))
	children, err = client.ListChildren(ctx, "prompts", "p1", "likes")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "u2", children[0].ID)
}

func TestMemoryClient_ListFilters(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	require.NoError(t, client.Set(ctx, "users", "u1", map[string]any{"deleted": true}))
	require.NoError(t, client.Set(ctx, "users", "u2", map[string]any{"deleted": false}))
	require.NoError(t, client.Set(ctx, "users", "u3", map[string]any{}))

	docs, err := client.List(ctx, "users", Filter{Field: "deleted", Equals: true})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "u1", docs[0].ID)

	all, err := client.List(ctx, "users")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryClient_NoAliasing(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient()

	fields := map[string]any{"tags": []any{"a"}}
	require.NoError(t, client.Set(ctx, "prompts", "p1", fields))

	// Mutating the caller's map must not touch stored state
	fields["tags"] = []any{"changed"}

	doc, err := client.Get(ctx, "prompts", "p1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, doc.Fields["tags"])

	// Mutating a read result must not touch stored state either
	doc.Fields["tags"].([]any)[0] = "mutated"
	again, err := client.Get(ctx, "prompts", "p1")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, again.Fields["tags"])
}
