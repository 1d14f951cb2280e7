package periodic

import (
	"time"
)

// run is the worker loop. It owns the timer and is the only goroutine that
// invokes the callback, which is what serializes invocations per Executor.
//
// The channels are passed in (rather than re-read from the struct) so the
// worker of a previous Start cycle can never observe the channels of a
// restart.
func (e *Executor) run(stopCh, wakeCh, resumeCh <-chan struct{}, doneCh chan<- struct{}) {
	e.workerID.Store(goroutineID())
	defer func() {
		e.workerID.Store(0)
		close(doneCh)
	}()

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer timer.Stop()

	for {
		// Fast-exit check so a closed stopCh wins over a due timer.
		select {
		case <-stopCh:
			return
		default:
		}

		e.mu.Lock()
		st := e.state
		anchor := e.anchor
		interval := e.interval
		e.mu.Unlock()

		if st == StatePaused {
			// Parked: no wait is pending while paused.
			select {
			case <-stopCh:
				return
			case <-resumeCh:
			}
			continue
		}
		if st != StateRunning {
			return
		}

		timer.Reset(time.Until(anchor))
		select {
		case <-stopCh:
			stopTimer(timer)
			return
		case <-wakeCh:
			// Cancelled. The signal alone doesn't say why; the next pass
			// reads the state and either parks (pause) or exits (stop).
			stopTimer(timer)
			continue
		case <-timer.C:
		}

		// Re-check right before invoking: a Pause or Stop that landed
		// between the timer firing and this point must suppress the tick.
		e.mu.Lock()
		if e.state != StateRunning {
			e.mu.Unlock()
			continue
		}
		cb := e.callback
		e.mu.Unlock()

		cb()

		// Advance by exactly one interval from the previous anchor, never
		// from now: callback latency must not shift the nominal grid.
		next := anchor.Add(interval)
		if e.policy == CatchUpSkip {
			if behind := time.Since(next); behind >= 0 {
				steps := behind/interval + 1
				next = next.Add(steps * interval)
			}
		}

		e.mu.Lock()
		if e.state == StateRunning && e.anchor.Equal(anchor) {
			e.anchor = next
		}
		// else: a concurrent Resume re-anchored the schedule; keep its anchor.
		e.mu.Unlock()
	}
}

// stopTimer stops t and drains a pending fire so a later Reset starts clean.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
