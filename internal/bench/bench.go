package bench

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"tickloop/internal/storage"
	logx "tickloop/pkg/logx"
	"tickloop/pkg/periodic"
)

type Config struct {
	Name     string
	Interval time.Duration
	Duration time.Duration
	Warmup   time.Duration
	Output   string // CSV path; empty disables the dump
	Policy   periodic.CatchUpPolicy
}

func (c *Config) withDefaults() {
	if c.Name == "" {
		c.Name = "bench"
	}
	if c.Interval <= 0 {
		c.Interval = time.Millisecond
	}
	if c.Duration <= 0 {
		c.Duration = 10 * time.Second
	}
}

// Runner executes one measured run on a dedicated executor.
type Runner struct {
	cfg   Config
	log   logx.Logger
	store storage.Store // may be nil (history disabled)
}

func New(cfg Config, log logx.Logger, store storage.Store) *Runner {
	cfg.withDefaults()
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{cfg: cfg, log: log, store: store}
}

// Run drives the executor for the configured window (plus warmup) and
// returns the summary. The context only bounds the run; cancelling it ends
// the measurement early but still produces a summary from the samples taken.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	cfg := r.cfg

	rec := newRecorder(cfg.Interval, cfg.Warmup+cfg.Duration)
	// Progress lines come from inside a possibly sub-millisecond callback;
	// sample them down to one per second.
	progress := rate.NewLimiter(rate.Every(time.Second), 1)

	exec := periodic.New(
		periodic.WithName(cfg.Name),
		periodic.WithLogger(r.log),
		periodic.WithCatchUp(cfg.Policy),
	)

	started := time.Now()
	rec.reset(started)
	ok := exec.Start(cfg.Interval, func() {
		s := rec.observe()
		if progress.Allow() {
			r.log.Debug("bench progress",
				logx.Int64("seq", s.Seq),
				logx.Duration("elapsed", s.Elapsed),
				logx.Duration("jitter", s.Jitter),
			)
		}
	})
	if !ok {
		return Summary{}, fmt.Errorf("bench: executor failed to start")
	}

	select {
	case <-ctx.Done():
		r.log.Warn("bench interrupted", logx.Err(ctx.Err()))
	case <-time.After(cfg.Warmup + cfg.Duration):
	}
	exec.Stop()

	samples := rec.snapshot()
	sum := summarize(cfg, samples)

	r.log.Info("bench finished",
		logx.String("task", sum.Task),
		logx.Duration("interval", sum.Interval),
		logx.Duration("window", sum.Window),
		logx.Int64("count", sum.Count),
		logx.Int64("expected", sum.Expected),
		logx.Duration("avg_abs_jitter", sum.AvgAbsJitter),
		logx.Duration("max_abs_jitter", sum.MaxAbsJitter),
		logx.Duration("p99_abs_jitter", sum.P99AbsJitter),
		logx.Duration("final_error", sum.FinalError),
	)

	if cfg.Output != "" {
		if err := WriteCSV(cfg.Output, samples); err != nil {
			return sum, fmt.Errorf("bench: write csv: %w", err)
		}
		r.log.Info("bench samples written", logx.String("path", cfg.Output), logx.Int("samples", len(samples)))
	}

	if r.store != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.store.AppendRun(sctx, sum.Record(started)); err != nil {
			r.log.Warn("bench history append failed", logx.Err(err))
		}
	}

	return sum, nil
}
