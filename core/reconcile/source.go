package reconcile

import (
	"context"
	"fmt"

	"prompt-console/core/docstore"
	"prompt-console/core/utils"

	"go.uber.org/zap"
)

// MembershipSource abstracts where a parent's membership lives: a child
// collection keyed by member id, or an array field of member ids. The engine
// only ever enumerates candidates and removes orphans through this interface.
type MembershipSource interface {
	// Candidates returns all candidate member ids.
	Candidates(ctx context.Context) ([]string, error)

	// Remove deletes the given orphans from the source and returns how many
	// were actually removed. Implementations decide whether a partial failure
	// is an error or just a shortfall in the returned count.
	Remove(ctx context.Context, orphans []string) (int, error)
}

// ChildCollectionSource enumerates a child collection under a parent document.
// Each child record's id is the candidate member id.
type ChildCollectionSource struct {
	client     docstore.Client
	collection string
	parentID   string
	child      string
	logger     *zap.Logger
}

// NewChildCollectionSource creates a membership source over
// collection/parentID/child.
func NewChildCollectionSource(client docstore.Client, collection, parentID, child string, logger *zap.Logger) *ChildCollectionSource {
	return &ChildCollectionSource{
		client:     client,
		collection: collection,
		parentID:   parentID,
		child:      child,
		logger:     logger,
	}
}

func (s *ChildCollectionSource) Candidates(ctx context.Context) ([]string, error) {
	children, err := s.client.ListChildren(ctx, s.collection, s.parentID, s.child)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s of %s/%s: %w", s.child, s.collection, s.parentID, err)
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// Remove deletes each orphaned child record individually. A failed delete is
// logged and skipped so one bad record cannot block the rest of the parent.
func (s *ChildCollectionSource) Remove(ctx context.Context, orphans []string) (int, error) {
	removed := 0
	for _, id := range orphans {
		if err := s.client.DeleteChild(ctx, s.collection, s.parentID, s.child, id); err != nil {
			s.logger.Warn("Failed to delete orphaned child record",
				zap.String("collection", s.collection),
				zap.String("parent", s.parentID),
				zap.String("child", s.child),
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		removed++
	}
	return removed, nil
}

// ArrayFieldSource reads candidate member ids from an array-valued field on
// the parent document itself.
type ArrayFieldSource struct {
	client     docstore.Client
	collection string
	parentID   string
	field      string
	candidates []string
}

// NewArrayFieldSource creates a membership source over an array field of the
// given parent document. Candidates are taken from the document as loaded by
// the sweep, so detection and repair see the same snapshot.
func NewArrayFieldSource(client docstore.Client, collection string, parent docstore.Document, field string) *ArrayFieldSource {
	return &ArrayFieldSource{
		client:     client,
		collection: collection,
		parentID:   parent.ID,
		field:      field,
		candidates: utils.ToStringSlice(parent.Fields[field]),
	}
}

func (s *ArrayFieldSource) Candidates(ctx context.Context) ([]string, error) {
	return s.candidates, nil
}

// Remove rewrites the array as the candidates minus the orphans, in a single
// field update.
func (s *ArrayFieldSource) Remove(ctx context.Context, orphans []string) (int, error) {
	orphanSet := make(map[string]struct{}, len(orphans))
	for _, id := range orphans {
		orphanSet[id] = struct{}{}
	}

	filtered := make([]string, 0, len(s.candidates))
	for _, id := range s.candidates {
		if _, isOrphan := orphanSet[id]; !isOrphan {
			filtered = append(filtered, id)
		}
	}

	err := s.client.Update(ctx, s.collection, s.parentID, map[string]any{s.field: filtered})
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite %s of %s/%s: %w", s.field, s.collection, s.parentID, err)
	}
	return len(s.candidates) - len(filtered), nil
}
