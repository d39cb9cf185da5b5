package reconcile

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Reporter consumes sweep progress events. The engine emits the events; what
// they become (log lines, JSON, archives) is the reporter's business.
type Reporter interface {
	// SweepStarted fires once, before the first parent.
	SweepStarted(spec Spec, parents int, opts Options)
	// ParentChecked fires after each parent is reconciled.
	ParentChecked(res ParentResult)
	// SweepFinished fires once, with the complete summary.
	SweepFinished(sum RunSummary)
}

type nopReporter struct{}

func (nopReporter) SweepStarted(Spec, int, Options) {}
func (nopReporter) ParentChecked(ParentResult)      {}
func (nopReporter) SweepFinished(RunSummary)        {}

// ZapReporter narrates sweep progress through the structured logger.
type ZapReporter struct {
	logger *zap.Logger
}

// NewZapReporter creates a reporter that logs progress and the final summary.
func NewZapReporter(logger *zap.Logger) *ZapReporter {
	return &ZapReporter{logger: logger}
}

func (r *ZapReporter) SweepStarted(spec Spec, parents int, opts Options) {
	r.logger.Info("Starting reconciliation sweep",
		zap.String("sweep", spec.Name),
		zap.String("collection", spec.ParentCollection),
		zap.Int("parents", parents),
		zap.Bool("dry_run", opts.DryRun),
	)
}

func (r *ZapReporter) ParentChecked(res ParentResult) {
	// Clean parents stay quiet; drift and failures get a line each.
	if res.Error != "" {
		r.logger.Warn("Parent reconciled with errors",
			zap.String("parent", res.ParentID),
			zap.String("error", res.Error),
		)
		return
	}
	if res.OrphansFound > 0 || res.CounterDrift {
		r.logger.Info("Parent reconciled",
			zap.String("parent", res.ParentID),
			zap.Int("candidates", res.Candidates),
			zap.Int("orphans_found", res.OrphansFound),
			zap.Int("orphans_removed", res.OrphansRemoved),
			zap.Bool("counter_drift", res.CounterDrift),
			zap.Bool("counter_corrected", res.CounterCorrected),
		)
	}
}

func (r *ZapReporter) SweepFinished(sum RunSummary) {
	r.logger.Info("Sweep finished",
		zap.String("sweep", sum.Sweep),
		zap.String("run_id", sum.RunID),
		zap.Bool("dry_run", sum.DryRun),
		zap.Int("parents_checked", sum.ParentsChecked),
		zap.Int("orphans_found", sum.OrphansFound),
		zap.Int("orphans_removed", sum.OrphansRemoved),
		zap.Int("counters_drifted", sum.CountersDrifted),
		zap.Int("counters_corrected", sum.CountersCorrected),
		zap.Int("failures", sum.Failures),
		zap.Duration("elapsed", sum.FinishedAt.Sub(sum.StartedAt)),
	)
}

// JSONReporter writes the final summary as indented JSON to a writer,
// for machine consumption of sweep results.
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter creates a reporter that emits the summary on SweepFinished.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

func (r *JSONReporter) SweepStarted(Spec, int, Options) {}
func (r *JSONReporter) ParentChecked(ParentResult)      {}

func (r *JSONReporter) SweepFinished(sum RunSummary) {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		fmt.Fprintf(r.w, `{"error":%q}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(r.w, string(data))
}

// MultiReporter fans events out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) SweepStarted(spec Spec, parents int, opts Options) {
	for _, r := range m {
		r.SweepStarted(spec, parents, opts)
	}
}

func (m MultiReporter) ParentChecked(res ParentResult) {
	for _, r := range m {
		r.ParentChecked(res)
	}
}

func (m MultiReporter) SweepFinished(sum RunSummary) {
	for _, r := range m {
		r.SweepFinished(sum)
	}
}
