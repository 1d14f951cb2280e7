package periodic

import (
	"sync"
	"sync/atomic"
	"time"

	logx "tickloop/pkg/logx"
)

// State is the lifecycle state of an Executor.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CatchUpPolicy selects what happens after the callback overruns the interval.
type CatchUpPolicy int

const (
	// CatchUpBurst keeps the nominal tick grid: missed ticks fire
	// back-to-back until the anchor catches up with the present.
	CatchUpBurst CatchUpPolicy = iota
	// CatchUpSkip drops missed ticks and re-joins the grid at the next
	// future anchor.
	CatchUpSkip
)

func (p CatchUpPolicy) String() string {
	switch p {
	case CatchUpBurst:
		return "burst"
	case CatchUpSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Executor runs one callback at a fixed interval on a dedicated worker
// goroutine. The zero value is not usable; construct with New.
type Executor struct {
	// Immutable after New.
	name   string
	policy CatchUpPolicy
	log    logx.Logger

	mu       sync.Mutex
	state    State
	stopping bool
	interval time.Duration
	callback func()
	anchor   time.Time // next scheduled wake, monotonic

	// Per Start cycle. The worker only ever observes the generation it was
	// spawned with, so a restart cannot cross signals with an old worker.
	stopCh   chan struct{} // closed once per cycle by Stop
	wakeCh   chan struct{} // cap 1, pinged by Pause to cancel a pending wait
	resumeCh chan struct{} // cap 1, pinged by Resume to unpark the worker
	doneCh   chan struct{} // closed by the worker on exit

	workerID atomic.Uint64 // goroutine id of the live worker
}

type Option func(*Executor)

// WithName attaches a stable name used in log lines.
func WithName(name string) Option {
	return func(e *Executor) { e.name = name }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log logx.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithCatchUp sets the overrun policy. Defaults to CatchUpBurst.
func WithCatchUp(p CatchUpPolicy) Option {
	return func(e *Executor) { e.policy = p }
}

func New(opts ...Option) *Executor {
	e := &Executor{log: logx.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.name != "" {
		e.log = e.log.With(logx.String("task", e.name))
	}
	return e
}

// Start arms the schedule and spawns the worker goroutine.
//
// It returns false, leaving any existing schedule untouched, if the Executor
// is already Running or Paused, or if interval <= 0 or fn is nil. Starting
// again after Stop is supported and creates a fresh worker.
func (e *Executor) Start(interval time.Duration, fn func()) bool {
	if interval <= 0 || fn == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning || e.state == StatePaused {
		return false
	}

	e.interval = interval
	e.callback = fn
	e.anchor = time.Now().Add(interval)
	e.stopping = false
	e.stopCh = make(chan struct{})
	e.wakeCh = make(chan struct{}, 1)
	e.resumeCh = make(chan struct{}, 1)
	e.doneCh = make(chan struct{})
	e.state = StateRunning

	go e.run(e.stopCh, e.wakeCh, e.resumeCh, e.doneCh)

	e.log.Debug("executor started", logx.Duration("interval", interval), logx.String("policy", e.policy.String()))
	return true
}

// Pause cancels the pending wait and suspends invocations. The worker stays
// alive (parked) so Resume is cheap. No-op unless Running.
func (e *Executor) Pause() {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	e.state = StatePaused
	wake := e.wakeCh
	e.mu.Unlock()

	// Doorbell only: the worker decides what to do from the state it reads.
	select {
	case wake <- struct{}{}:
	default:
	}
	e.log.Debug("executor paused")
}

// Resume re-arms the schedule from a fresh anchor at now + interval.
// Phase is not preserved across a pause. No-op unless Paused.
func (e *Executor) Resume() {
	e.mu.Lock()
	if e.state != StatePaused {
		e.mu.Unlock()
		return
	}
	e.state = StateRunning
	e.anchor = time.Now().Add(e.interval)
	resume := e.resumeCh
	e.mu.Unlock()

	select {
	case resume <- struct{}{}:
	default:
	}
	e.log.Debug("executor resumed")
}

// Stop cancels the schedule, signals the worker and blocks until it has
// fully exited. Idempotent; no-op in Idle or Stopped.
//
// Stop must not be called from inside the callback: that would join the
// goroutine it is running on. The misuse is detected and panics rather than
// deadlocking, in the manner of sync package misuse.
func (e *Executor) Stop() {
	if gid := goroutineID(); gid != 0 && gid == e.workerID.Load() {
		panic("periodic: Stop called from inside the callback (self-join)")
	}

	e.mu.Lock()
	if e.state == StateIdle || e.state == StateStopped {
		e.mu.Unlock()
		return
	}
	if !e.stopping {
		e.stopping = true
		close(e.stopCh)
	}
	done := e.doneCh
	e.mu.Unlock()

	<-done

	e.mu.Lock()
	// A second concurrent Stop may land here after a Start already began a
	// new cycle; only the Stop of the current cycle may set the state.
	if e.doneCh == done {
		e.state = StateStopped
	}
	e.mu.Unlock()
	e.log.Debug("executor stopped")
}

// State returns the current lifecycle state.
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Interval returns the interval of the current (or last) Start cycle.
func (e *Executor) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interval
}

func (e *Executor) Name() string { return e.name }

// Policy returns the configured overrun policy.
func (e *Executor) Policy() CatchUpPolicy { return e.policy }
