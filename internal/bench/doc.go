// Package bench measures the scheduling accuracy of a periodic.Executor.
//
// A Runner drives one executor at a configured interval for a fixed window,
// recording a Sample per invocation from inside the callback: elapsed time
// since the run started, the nominal grid position, and the signed difference
// between the two (jitter). Because rescheduling is anchored, jitter stays
// bounded instead of accumulating; the summary makes that measurable.
//
// Samples can be dumped to CSV for offline analysis, and the per-run Summary
// is appended to the run-history store so accuracy can be compared across
// code or kernel changes.
package bench
