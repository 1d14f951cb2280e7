package config

import (
	"fmt"
	"strings"
	"time"

	"tickloop/pkg/periodic"
)

type Config struct {
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage,omitempty"`
	Tasks   []TaskConfig  `json:"tasks,omitempty"`
	Bench   BenchConfig   `json:"bench,omitempty"`

	// Watchdog enables the systemd watchdog keepalive task in the demo
	// daemon. The keepalive itself runs on a periodic.Executor.
	Watchdog WatchdogConfig `json:"watchdog,omitempty"`
}

type LoggingConfig struct {
	Level   string     `json:"level,omitempty"`
	Console bool       `json:"console,omitempty"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// StorageConfig selects the benchmark run-history backend.
//
// Driver values:
//   - "file": dependency-free JSONL backend
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", run history is disabled.
type StorageConfig struct {
	Driver string `json:"driver,omitempty"`
	Path   string `json:"path,omitempty"`

	// BusyTimeout is a Go duration string; sqlite only, "0s" means default.
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// TaskConfig declares one periodic task for the demo daemon.
type TaskConfig struct {
	Name string `json:"name"`

	// Every accepts a Go duration ("250ms"), an "@every" descriptor
	// ("@every 90s"), or the compact HH:MM form ("01:30" = 90m).
	Every string `json:"every"`

	// Policy is "burst" (default) or "skip"; see periodic.CatchUpPolicy.
	Policy string `json:"policy,omitempty"`

	// Paused tasks are started and immediately paused; flipping this in the
	// config file pauses/resumes the task on hot reload.
	Paused bool `json:"paused,omitempty"`
}

type BenchConfig struct {
	// Interval is a Go duration string; defaults to "1ms".
	Interval string `json:"interval,omitempty"`
	// Duration is the measured run window; defaults to "10s".
	Duration string `json:"duration,omitempty"`
	// Warmup ticks are recorded but excluded from the summary; default "0s".
	Warmup string `json:"warmup,omitempty"`
	// Output is the CSV sample file path; empty disables the CSV dump.
	Output string `json:"output,omitempty"`
	Policy string `json:"policy,omitempty"`
}

type WatchdogConfig struct {
	Enabled bool `json:"enabled,omitempty"`
}

// Validate checks cross-field rules that the strict decoder cannot express.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i, t := range c.Tasks {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("tasks[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("tasks[%d]: duplicate task name %q", i, name)
		}
		seen[name] = true
		if _, err := ParseEvery(t.Every); err != nil {
			return fmt.Errorf("tasks[%d] (%s): %w", i, name, err)
		}
		if _, err := ParsePolicy(t.Policy); err != nil {
			return fmt.Errorf("tasks[%d] (%s): %w", i, name, err)
		}
	}
	if _, err := ParsePolicy(c.Bench.Policy); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	return nil
}

// ParsePolicy maps a config string onto a catch-up policy.
// Empty defaults to burst.
func ParsePolicy(s string) (periodic.CatchUpPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "burst":
		return periodic.CatchUpBurst, nil
	case "skip":
		return periodic.CatchUpSkip, nil
	default:
		return 0, fmt.Errorf("invalid policy %q (use \"burst\" or \"skip\")", s)
	}
}

// Interval returns the parsed task interval.
// Call Validate first; this panics on an unparseable spec.
func (t TaskConfig) Interval() time.Duration {
	d, err := ParseEvery(t.Every)
	if err != nil {
		panic(fmt.Sprintf("config: unvalidated task interval %q: %v", t.Every, err))
	}
	return d
}
