package prompt

import (
	"context"
	"errors"
	"fmt"

	"prompt-console/core/docstore"
	"prompt-console/core/reconcile"

	"go.uber.org/zap"
)

const (
	// CollectionPrompts holds the prompt documents.
	CollectionPrompts = "prompts"

	// CollectionUsers holds the account documents referenced by engagement
	// records.
	CollectionUsers = "users"

	// ChildLikes and ChildSaves are the engagement child collections under
	// each prompt, keyed by account id.
	ChildLikes = "likes"
	ChildSaves = "saves"

	// FieldLikesCount and FieldSavesCount are the cached engagement counters
	// on the prompt document.
	FieldLikesCount = "likesCount"
	FieldSavesCount = "savesCount"
)

// AccountExists reports whether the account document exists at all.
// Soft-deleted accounts (deleted flag set) still count as existing: their
// engagement history is kept so the counts do not shift under a restore.
func AccountExists(client docstore.Client) reconcile.ValidityFunc {
	return func(ctx context.Context, id string) (bool, error) {
		_, err := client.Get(ctx, CollectionUsers, id)
		if errors.Is(err, docstore.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to check account %s: %w", id, err)
		}
		return true, nil
	}
}

// LikesSweep reconciles the likes child collections and the likesCount
// counter of every prompt.
func LikesSweep(client docstore.Client, logger *zap.Logger) reconcile.Spec {
	return engagementSweep(client, logger, ChildLikes, FieldLikesCount)
}

// SavesSweep reconciles the saves child collections and the savesCount
// counter of every prompt.
func SavesSweep(client docstore.Client, logger *zap.Logger) reconcile.Spec {
	return engagementSweep(client, logger, ChildSaves, FieldSavesCount)
}

func engagementSweep(client docstore.Client, logger *zap.Logger, child, counterField string) reconcile.Spec {
	return reconcile.Spec{
		Name:             child,
		ParentCollection: CollectionPrompts,
		Source: func(parent docstore.Document) reconcile.MembershipSource {
			return reconcile.NewChildCollectionSource(client, CollectionPrompts, parent.ID, child, logger)
		},
		Valid:        AccountExists(client),
		CounterField: counterField,
	}
}
