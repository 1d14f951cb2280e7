// Package storage persists benchmark run history.
//
// It currently supports:
//   - Append-only run summaries (one record per completed bench run)
//   - Querying the most recent runs for comparison across code changes
package storage
