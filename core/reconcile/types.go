package reconcile

import (
	"context"
	"time"

	"prompt-console/core/docstore"
)

// ValidityFunc decides whether a membership candidate still refers to a live
// entity. Implementations must only read; the engine never deletes a candidate
// whose check returned an error.
type ValidityFunc func(ctx context.Context, id string) (bool, error)

// Spec defines one reconciliation sweep: which parents to walk, where their
// membership lives, what makes a member valid, and which cached counter (if
// any) to repair.
type Spec struct {
	// Name identifies the sweep in logs, summaries, and archives.
	Name string

	// ParentCollection is the collection of parent documents to sweep.
	ParentCollection string

	// Source resolves the membership source of one parent document.
	Source func(parent docstore.Document) MembershipSource

	// Valid is the membership validity predicate.
	Valid ValidityFunc

	// CounterField names the parent's cached cardinality field. Empty means
	// the parent has no counter (array-field parents).
	CounterField string
}

// Options controls sweep behavior.
type Options struct {
	// DryRun reports what would change without issuing any writes.
	DryRun bool
}

// ParentResult is the outcome of reconciling a single parent document.
type ParentResult struct {
	// ParentID is the parent document id.
	ParentID string `json:"parent_id"`

	// Candidates is the number of membership candidates examined.
	Candidates int `json:"candidates"`

	// OrphansFound counts candidates that failed the validity predicate.
	OrphansFound int `json:"orphans_found"`

	// OrphansRemoved counts orphans actually removed (0 in dry-run).
	OrphansRemoved int `json:"orphans_removed"`

	// Orphans lists the orphaned ids, sorted for deterministic reports.
	Orphans []string `json:"orphans,omitempty"`

	// CounterDrift indicates the cached counter disagreed with the valid
	// cardinality (or was absent/invalid).
	CounterDrift bool `json:"counter_drift"`

	// CounterCorrected indicates the counter was rewritten (false in dry-run).
	CounterCorrected bool `json:"counter_corrected"`

	// Error holds the failure that made this parent skip, if any.
	Error string `json:"error,omitempty"`
}

// RunSummary aggregates one full sweep.
type RunSummary struct {
	// RunID uniquely identifies this sweep execution.
	RunID string `json:"run_id"`

	// Sweep is the Spec name.
	Sweep string `json:"sweep"`

	// DryRun records the mode the sweep ran in.
	DryRun bool `json:"dry_run"`

	// ParentsChecked is the number of parent documents processed.
	ParentsChecked int `json:"parents_checked"`

	// OrphansFound / OrphansRemoved distinguish detected drift from repaired
	// drift so operators can see partial failures.
	OrphansFound   int `json:"orphans_found"`
	OrphansRemoved int `json:"orphans_removed"`

	// CountersDrifted / CountersCorrected follow the same found-vs-fixed split.
	CountersDrifted   int `json:"counters_drifted"`
	CountersCorrected int `json:"counters_corrected"`

	// Failures counts per-item errors the sweep logged and skipped.
	Failures int `json:"failures"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Parents holds the per-parent results in processing order.
	Parents []ParentResult `json:"parents"`
}
