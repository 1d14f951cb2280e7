// Package periodic provides a fixed-interval task executor with an
// anti-drift schedule and an explicit lifecycle.
//
// # Overview
//
// An Executor invokes a single user callback at a nominal interval on one
// dedicated worker goroutine. Rescheduling is anchored: the next wake time is
// always previous_anchor + interval, never now + interval, so callback
// latency is absorbed once instead of compounding into phase error across
// iterations.
//
// # Lifecycle
//
// An Executor moves through Idle -> Running -> (Paused <-> Running) ->
// Stopped. Start spawns the worker and arms the first wake at now + interval.
// Pause cancels the pending wait but keeps the worker parked for a
// low-latency Resume; Resume re-arms from a fresh anchor (phase is not
// preserved across a pause). Stop cancels, signals the worker and blocks
// until it has fully exited. After Stop, Start may be called again; a fresh
// worker goroutine is created per Start.
//
// # Overrun policy
//
// When the callback runs longer than the interval the computed anchor lies in
// the past. CatchUpBurst (the default) fires back-to-back invocations until
// the anchor catches up with the present; CatchUpSkip advances the anchor
// past the missed ticks instead. Pick one explicitly with WithCatchUp.
//
// # Concurrency
//
// Start/Pause/Resume/Stop may be called from any goroutine; only Stop blocks.
// Invocations are strictly serialized per Executor and never run while
// Paused or Stopped. Calling Stop from inside the callback would self-join
// the worker goroutine; the Executor detects this and panics instead of
// deadlocking.
package periodic
