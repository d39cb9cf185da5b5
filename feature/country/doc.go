// Package country defines the category reconciliation sweep. Each country
// document carries an ordered categories array of category ids; categories
// can be deleted (soft or hard) from the catalog without the arrays being
// updated, leaving dangling references. The sweep removes references to
// categories that are missing or soft-deleted while preserving the order of
// the survivors. Country documents have no cached counter.
package country
