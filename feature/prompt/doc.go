// Package prompt defines the reconciliation sweeps for prompt engagement
// data: the likes and saves child collections under each prompt, and the
// cached likesCount / savesCount counters. Engagement records reference
// accounts by id with no referential integrity in the store, so deleted
// accounts leave orphaned records behind; these sweeps detect and remove
// them. Soft-deleted accounts keep their engagement (the document still
// exists), only hard-deleted accounts orphan their records.
package prompt
