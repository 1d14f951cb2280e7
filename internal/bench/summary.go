package bench

import (
	"sort"
	"time"

	"tickloop/internal/storage"
	"tickloop/pkg/periodic"
)

// Summary aggregates one run's samples, excluding the warmup window.
type Summary struct {
	Task     string
	Interval time.Duration
	Window   time.Duration
	Policy   periodic.CatchUpPolicy

	Count    int64 // measured invocations (post warmup)
	Expected int64 // floor(window / interval)
	Warmup   int64 // invocations discarded as warmup

	AvgAbsJitter time.Duration
	MaxAbsJitter time.Duration
	P99AbsJitter time.Duration
	// FinalError is the signed phase error of the last invocation; with an
	// anchored schedule it stays near zero rather than growing by one
	// callback latency per tick.
	FinalError time.Duration
}

func summarize(cfg Config, samples []Sample) Summary {
	sum := Summary{
		Task:     cfg.Name,
		Interval: cfg.Interval,
		Window:   cfg.Duration,
		Policy:   cfg.Policy,
		Expected: int64(cfg.Duration / cfg.Interval),
	}

	// Drop samples from the warmup window.
	i := 0
	for i < len(samples) && samples[i].Elapsed < cfg.Warmup {
		i++
	}
	sum.Warmup = int64(i)
	samples = samples[i:]
	sum.Count = int64(len(samples))
	if len(samples) == 0 {
		return sum
	}

	abs := make([]time.Duration, len(samples))
	var total time.Duration
	for i, s := range samples {
		j := s.Jitter
		if j < 0 {
			j = -j
		}
		abs[i] = j
		total += j
		if j > sum.MaxAbsJitter {
			sum.MaxAbsJitter = j
		}
	}
	sum.AvgAbsJitter = total / time.Duration(len(samples))
	sum.FinalError = samples[len(samples)-1].Jitter

	sort.Slice(abs, func(a, b int) bool { return abs[a] < abs[b] })
	idx := len(abs) * 99 / 100
	if idx >= len(abs) {
		idx = len(abs) - 1
	}
	sum.P99AbsJitter = abs[idx]

	return sum
}

// Record converts the summary into a storage row.
func (s Summary) Record(at time.Time) storage.RunRecord {
	return storage.RunRecord{
		At:           at,
		Task:         s.Task,
		Interval:     int64(s.Interval),
		Policy:       s.Policy.String(),
		Duration:     int64(s.Window),
		Count:        s.Count,
		Expected:     s.Expected,
		AvgAbsJitter: int64(s.AvgAbsJitter),
		MaxAbsJitter: int64(s.MaxAbsJitter),
		P99AbsJitter: int64(s.P99AbsJitter),
		FinalError:   int64(s.FinalError),
	}
}
