package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tickloop/internal/bench"
	"tickloop/internal/config"
	"tickloop/internal/storage"
	logx "tickloop/pkg/logx"
)

func main() {
	var (
		cfgPath  string
		interval string
		duration time.Duration
		warmup   time.Duration
		out      string
		policy   string
		level    string
		recent   int
	)
	flag.StringVar(&cfgPath, "config", "", "optional config file; flags override its bench section")
	flag.StringVar(&interval, "interval", "", "tick interval (e.g. 1ms, @every 2s)")
	flag.DurationVar(&duration, "duration", 0, "measured run window")
	flag.DurationVar(&warmup, "warmup", 0, "warmup window excluded from the summary")
	flag.StringVar(&out, "out", "", "CSV output path (empty disables the dump)")
	flag.StringVar(&policy, "policy", "", "overrun policy: burst or skip")
	flag.StringVar(&level, "log-level", "info", "log level")
	flag.IntVar(&recent, "recent", 0, "print the N most recent runs from history and exit")
	flag.Parse()

	log := logx.NewConsole(level).With(logx.String("comp", "bench"))

	cfg, store, err := setup(cfgPath, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	if recent > 0 {
		if err := printRecent(store, recent); err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			os.Exit(1)
		}
		return
	}

	bc, err := benchConfig(cfg, interval, duration, warmup, out, policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := bench.New(bc, log, store).Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

// setup loads the optional config file and opens the run-history store.
func setup(cfgPath string, log logx.Logger) (*config.Config, storage.Store, error) {
	cfg := &config.Config{}
	if cfgPath != "" {
		loaded, err := config.NewManager(cfgPath).Load()
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

// benchConfig merges the config file's bench section with flag overrides.
func benchConfig(cfg *config.Config, interval string, duration, warmup time.Duration, out, policy string) (bench.Config, error) {
	bc := bench.Config{Name: "bench", Output: cfg.Bench.Output}

	if cfg.Bench.Interval != "" {
		d, err := config.ParseEvery(cfg.Bench.Interval)
		if err != nil {
			return bc, err
		}
		bc.Interval = d
	}
	var err error
	if bc.Duration, err = config.ParseDurationField("bench.duration", cfg.Bench.Duration); err != nil {
		return bc, err
	}
	if bc.Warmup, err = config.ParseDurationField("bench.warmup", cfg.Bench.Warmup); err != nil {
		return bc, err
	}
	if bc.Policy, err = config.ParsePolicy(cfg.Bench.Policy); err != nil {
		return bc, err
	}

	// Flags win over the file.
	if interval != "" {
		d, err := config.ParseEvery(interval)
		if err != nil {
			return bc, err
		}
		bc.Interval = d
	}
	if duration > 0 {
		bc.Duration = duration
	}
	if warmup > 0 {
		bc.Warmup = warmup
	}
	if out != "" {
		bc.Output = out
	}
	if policy != "" {
		p, err := config.ParsePolicy(policy)
		if err != nil {
			return bc, err
		}
		bc.Policy = p
	}
	return bc, nil
}

func printRecent(store storage.Store, n int) error {
	if store == nil {
		return fmt.Errorf("run history is disabled (configure storage.driver)")
	}
	runs, err := store.RecentRuns(context.Background(), n)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  every=%s  policy=%s  count=%d/%d  avg=%s  p99=%s  max=%s  final=%s\n",
			r.At.Format(time.RFC3339), r.Task,
			time.Duration(r.Interval), r.Policy,
			r.Count, r.Expected,
			time.Duration(r.AvgAbsJitter), time.Duration(r.P99AbsJitter),
			time.Duration(r.MaxAbsJitter), time.Duration(r.FinalError),
		)
	}
	return nil
}
