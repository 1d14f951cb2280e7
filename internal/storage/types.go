package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures run-history storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// RunRecord summarizes one completed benchmark run.
// Keep it compact and schema-stable.
type RunRecord struct {
	At       time.Time `json:"at"`
	Task     string    `json:"task"`
	Interval int64     `json:"interval_ns"`
	Policy   string    `json:"policy"`
	Duration int64     `json:"duration_ns"`

	Count    int64 `json:"count"`
	Expected int64 `json:"expected"`

	AvgAbsJitter int64 `json:"avg_abs_jitter_ns"`
	MaxAbsJitter int64 `json:"max_abs_jitter_ns"`
	P99AbsJitter int64 `json:"p99_abs_jitter_ns"`
	FinalError   int64 `json:"final_error_ns"`
}
