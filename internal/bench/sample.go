package bench

import (
	"sync"
	"time"
)

// Sample is one callback invocation measured against the nominal grid.
type Sample struct {
	Seq      int64         // 1-based invocation number
	Elapsed  time.Duration // wall time since the run started (monotonic)
	Expected time.Duration // Seq * interval, the grid position
	Jitter   time.Duration // Elapsed - Expected, signed
}

// recorder collects samples from inside the executor callback.
//
// Invocations are serialized per executor, but the summary is read from the
// runner goroutine after Stop; the mutex keeps the recorder honest rather
// than relying on the join's happens-before alone.
type recorder struct {
	mu       sync.Mutex
	start    time.Time
	interval time.Duration
	samples  []Sample
}

func newRecorder(interval, window time.Duration) *recorder {
	capHint := int(window/interval) + 16
	if capHint > 1<<20 {
		capHint = 1 << 20
	}
	return &recorder{
		interval: interval,
		samples:  make([]Sample, 0, capHint),
	}
}

func (r *recorder) reset(start time.Time) {
	r.mu.Lock()
	r.start = start
	r.samples = r.samples[:0]
	r.mu.Unlock()
}

// observe records the current invocation and returns its sample.
func (r *recorder) observe() Sample {
	now := time.Now()
	r.mu.Lock()
	seq := int64(len(r.samples)) + 1
	s := Sample{
		Seq:      seq,
		Elapsed:  now.Sub(r.start),
		Expected: time.Duration(seq) * r.interval,
	}
	s.Jitter = s.Elapsed - s.Expected
	r.samples = append(r.samples, s)
	r.mu.Unlock()
	return s
}

func (r *recorder) snapshot() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}
