// Package reconcile repairs referential drift in the document store.
//
// The store enforces no foreign keys, so cached aggregate counters
// (likesCount, savesCount) and reference arrays (a country's categories)
// drift away from the child records and documents they summarize whenever a
// partial write sequence is interrupted. This package detects and repairs
// that drift with idempotent batch sweeps.
//
// # Model
//
// A sweep walks every parent document of a collection. Each parent exposes a
// MembershipSource: either a child collection (one record per member) or an
// array field (member ids inline). An injected validity predicate partitions
// the candidate ids into valid members and orphans. In apply mode the orphans
// are removed and, when the parent carries a cached counter field, the counter
// is rewritten to the valid cardinality.
//
// # Guarantees
//
//   - Dry-run issues zero writes and reports exactly what apply mode would.
//   - A failing parent is logged and skipped, never aborting the sweep.
//   - A candidate whose validity cannot be determined is retained, never
//     deleted on a failed read.
//   - Apply mode converges: a second sweep reports zero orphans and zero
//     counter corrections.
//
// Specializations live in feature packages (feature/prompt, feature/country),
// which only supply a Spec; they contain no sweep mechanics of their own.
package reconcile
