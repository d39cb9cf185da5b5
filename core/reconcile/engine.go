package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"prompt-console/core/docstore"
	"prompt-console/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine runs reconciliation sweeps against the document store.
type Engine struct {
	client   docstore.Client
	logger   *zap.Logger
	reporter Reporter
}

// NewEngine creates a sweep engine. A nil reporter disables progress events.
func NewEngine(client docstore.Client, logger *zap.Logger, reporter Reporter) *Engine {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Engine{client: client, logger: logger, reporter: reporter}
}

// Run executes one full sweep over the spec's parent collection.
//
// Parents are processed sequentially; within a parent the order is strictly
// detect, repair, recount, so the counter is never derived from a child set
// that is mid-repair. A failure on one parent is recorded and the sweep moves
// on. Only the inability to enumerate the parent collection at all aborts the
// run.
func (e *Engine) Run(ctx context.Context, spec Spec, opts Options) (*RunSummary, error) {
	parents, err := e.client.List(ctx, spec.ParentCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", spec.ParentCollection, err)
	}

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		Sweep:     spec.Name,
		DryRun:    opts.DryRun,
		StartedAt: time.Now().UTC(),
		Parents:   make([]ParentResult, 0, len(parents)),
	}

	e.reporter.SweepStarted(spec, len(parents), opts)

	for _, parent := range parents {
		res := e.reconcileParent(ctx, spec, parent, opts)

		summary.ParentsChecked++
		summary.OrphansFound += res.OrphansFound
		summary.OrphansRemoved += res.OrphansRemoved
		if res.CounterDrift {
			summary.CountersDrifted++
		}
		if res.CounterCorrected {
			summary.CountersCorrected++
		}
		if res.Error != "" {
			summary.Failures++
		}
		summary.Parents = append(summary.Parents, res)

		e.reporter.ParentChecked(res)
	}

	summary.FinishedAt = time.Now().UTC()
	e.reporter.SweepFinished(*summary)

	return summary, nil
}

// reconcileParent handles a single parent: detect orphans, repair the
// membership source, then reconcile the cached counter.
func (e *Engine) reconcileParent(ctx context.Context, spec Spec, parent docstore.Document, opts Options) ParentResult {
	res := ParentResult{ParentID: parent.ID}

	source := spec.Source(parent)

	candidates, err := source.Candidates(ctx)
	if err != nil {
		e.logger.Warn("Skipping parent, cannot enumerate membership",
			zap.String("sweep", spec.Name),
			zap.String("parent", parent.ID),
			zap.Error(err),
		)
		res.Error = err.Error()
		return res
	}
	res.Candidates = len(candidates)

	valid, orphans := e.partition(ctx, spec, candidates, &res)
	res.OrphansFound = len(orphans)
	res.Orphans = orphans

	if !opts.DryRun && len(orphans) > 0 {
		removed, err := source.Remove(ctx, orphans)
		res.OrphansRemoved = removed
		if err != nil {
			e.logger.Warn("Failed to repair membership source",
				zap.String("sweep", spec.Name),
				zap.String("parent", parent.ID),
				zap.Error(err),
			)
			res.Error = err.Error()
			// Counter repair still runs: the valid cardinality is
			// independent of whether orphan removal landed.
		}
	}

	if spec.CounterField != "" {
		e.reconcileCounter(ctx, spec, parent, len(valid), opts, &res)
	}

	return res
}

// partition splits candidates into valid members and orphans. A candidate
// whose validity check fails is retained: deleting on a failed read would turn
// a transient error into data loss.
func (e *Engine) partition(ctx context.Context, spec Spec, candidates []string, res *ParentResult) (valid, orphans []string) {
	for _, id := range candidates {
		ok, err := spec.Valid(ctx, id)
		if err != nil {
			e.logger.Warn("Validity check failed, retaining candidate",
				zap.String("sweep", spec.Name),
				zap.String("parent", res.ParentID),
				zap.String("candidate", id),
				zap.Error(err),
			)
			if res.Error == "" {
				res.Error = err.Error()
			}
			valid = append(valid, id)
			continue
		}
		if ok {
			valid = append(valid, id)
		} else {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return valid, orphans
}

// reconcileCounter compares the cached counter against the post-repair valid
// cardinality and rewrites it on drift. An absent or non-numeric counter
// counts as drift and is created as the actual value.
func (e *Engine) reconcileCounter(ctx context.Context, spec Spec, parent docstore.Document, actual int, opts Options, res *ParentResult) {
	stored, ok := utils.AsInt(parent.Fields[spec.CounterField])
	if ok && stored == actual {
		return
	}
	res.CounterDrift = true

	if opts.DryRun {
		return
	}

	err := e.client.Update(ctx, spec.ParentCollection, parent.ID, map[string]any{
		spec.CounterField: actual,
	})
	if err != nil {
		e.logger.Warn("Failed to correct cached counter",
			zap.String("sweep", spec.Name),
			zap.String("parent", parent.ID),
			zap.String("field", spec.CounterField),
			zap.Int("actual", actual),
			zap.Error(err),
		)
		if res.Error == "" {
			res.Error = err.Error()
		}
		return
	}
	res.CounterCorrected = true
}
