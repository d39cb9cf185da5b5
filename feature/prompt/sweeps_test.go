package prompt

import (
	"context"
	"testing"

	"prompt-console/core/docstore"
	"prompt-console/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// seedWorld builds a store with two accounts (one soft-deleted), one prompt
// liked by both plus a hard-deleted account, and a stale likesCount.
func seedWorld(t *testing.T) *docstore.MemoryClient {
	t.Helper()
	ctx := context.Background()
	client := docstore.NewMemoryClient()

	require.NoError(t, client.Set(ctx, CollectionUsers, "alice", map[string]any{
		"displayName": "Alice",
	}))
	require.NoError(t, client.Set(ctx, CollectionUsers, "bob", map[string]any{
		"displayName": "Bob",
		"deleted":     true,
	}))

	require.NoError(t, client.Set(ctx, CollectionPrompts, "p1", map[string]any{
		"title":         "Sunset over the bay",
		FieldLikesCount: float64(5),
	}))

	likes := docstore.ChildPath(CollectionPrompts, "p1", ChildLikes)
	require.NoError(t, client.Set(ctx, likes, "alice", map[string]any{"likedAt": "2026-08-01T00:00:00Z"}))
	require.NoError(t, client.Set(ctx, likes, "bob", map[string]any{"likedAt": "2026-08-02T00:00:00Z"}))
	require.NoError(t, client.Set(ctx, likes, "ghost", map[string]any{"likedAt": "2026-08-03T00:00:00Z"}))

	return client
}

func TestLikesSweep(t *testing.T) {
	ctx := context.Background()
	client := seedWorld(t)
	engine := reconcile.NewEngine(client, zap.NewNop(), nil)

	summary, err := engine.Run(ctx, LikesSweep(client, zap.NewNop()), reconcile.Options{})
	require.NoError(t, err)

	assert.Equal(t, ChildLikes, summary.Sweep)
	assert.Equal(t, 1, summary.ParentsChecked)
	assert.Equal(t, 1, summary.OrphansFound)
	assert.Equal(t, 1, summary.OrphansRemoved)
	assert.Equal(t, 1, summary.CountersDrifted)
	assert.Equal(t, 1, summary.CountersCorrected)
	assert.Equal(t, 0, summary.Failures)

	require.Len(t, summary.Parents, 1)
	assert.Equal(t, []string{"ghost"}, summary.Parents[0].Orphans)

	// The hard-deleted account's like is gone, the soft-deleted one survives.
	likes, err := client.ListChildren(ctx, CollectionPrompts, "p1", ChildLikes)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, "alice", likes[0].ID)
	assert.Equal(t, "bob", likes[1].ID)

	// Counter recomputed from the valid membership.
	prompt, err := client.Get(ctx, CollectionPrompts, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, prompt.Fields[FieldLikesCount])
}

func TestLikesSweep_DryRun(t *testing.T) {
	ctx := context.Background()
	client := seedWorld(t)
	engine := reconcile.NewEngine(client, zap.NewNop(), nil)

	summary, err := engine.Run(ctx, LikesSweep(client, zap.NewNop()), reconcile.Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OrphansFound)
	assert.Equal(t, 0, summary.OrphansRemoved)
	assert.Equal(t, 1, summary.CountersDrifted)
	assert.Equal(t, 0, summary.CountersCorrected)

	// Nothing changed.
	likes, err := client.ListChildren(ctx, CollectionPrompts, "p1", ChildLikes)
	require.NoError(t, err)
	assert.Len(t, likes, 3)

	prompt, err := client.Get(ctx, CollectionPrompts, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, prompt.Fields[FieldLikesCount])
}

func TestLikesSweep_Idempotent(t *testing.T) {
	ctx := context.Background()
	client := seedWorld(t)
	engine := reconcile.NewEngine(client, zap.NewNop(), nil)

	_, err := engine.Run(ctx, LikesSweep(client, zap.NewNop()), reconcile.Options{})
	require.NoError(t, err)

	second, err := engine.Run(ctx, LikesSweep(client, zap.NewNop()), reconcile.Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, second.OrphansFound)
	assert.Equal(t, 0, second.CountersDrifted)
	assert.Equal(t, 0, second.Failures)
}

func TestSavesSweep(t *testing.T) {
	ctx := context.Background()
	client := docstore.NewMemoryClient()

	require.NoError(t, client.Set(ctx, CollectionUsers, "alice", map[string]any{}))
	require.NoError(t, client.Set(ctx, CollectionPrompts, "p1", map[string]any{
		FieldSavesCount: float64(1),
	}))

	saves := docstore.ChildPath(CollectionPrompts, "p1", ChildSaves)
	require.NoError(t, client.Set(ctx, saves, "alice", map[string]any{}))
	require.NoError(t, client.Set(ctx, saves, "vanished", map[string]any{}))

	engine := reconcile.NewEngine(client, zap.NewNop(), nil)
	summary, err := engine.Run(ctx, SavesSweep(client, zap.NewNop()), reconcile.Options{})
	require.NoError(t, err)

	assert.Equal(t, ChildSaves, summary.Sweep)
	assert.Equal(t, 1, summary.OrphansRemoved)
	// 1 was coincidentally right before repair but wrong against the valid
	// set; either way the final value must be the valid cardinality.
	prompt, err := client.Get(ctx, CollectionPrompts, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, prompt.Fields[FieldSavesCount])
}

func TestAccountExists(t *testing.T) {
	ctx := context.Background()
	client := docstore.NewMemoryClient()
	require.NoError(t, client.Set(ctx, CollectionUsers, "alice", map[string]any{}))
	require.NoError(t, client.Set(ctx, CollectionUsers, "bob", map[string]any{"deleted": true}))

	valid := AccountExists(client)

	ok, err := valid(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = valid(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok, "soft-deleted accounts keep their engagement")

	ok, err = valid(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}
