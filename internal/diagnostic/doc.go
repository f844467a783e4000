// Package diagnostic provides structured errors and warnings for schema
// file validation.
//
// Key capabilities:
//   - Per-schema, per-field error attribution with stable codes
//   - Aggregation of every problem in a file into one report
//   - Collapsing a report into a single error for callers
package diagnostic
