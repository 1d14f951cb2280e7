package bench

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tickloop/internal/storage"
	logx "tickloop/pkg/logx"
)

func TestSummarize(t *testing.T) {
	cfg := Config{
		Name:     "unit",
		Interval: 10 * time.Millisecond,
		Duration: 100 * time.Millisecond,
		Warmup:   20 * time.Millisecond,
	}

	mk := func(seq int64, jitter time.Duration) Sample {
		expected := time.Duration(seq) * cfg.Interval
		return Sample{Seq: seq, Elapsed: expected + jitter, Expected: expected, Jitter: jitter}
	}
	samples := []Sample{
		mk(1, 5*time.Millisecond), // warmup (elapsed 15ms < 20ms)
		mk(2, time.Millisecond),
		mk(3, -time.Millisecond),
		mk(4, 3*time.Millisecond),
		mk(5, 2*time.Millisecond),
	}

	sum := summarize(cfg, samples)
	if sum.Warmup != 1 {
		t.Fatalf("Warmup = %d, want 1", sum.Warmup)
	}
	if sum.Count != 4 {
		t.Fatalf("Count = %d, want 4", sum.Count)
	}
	if sum.Expected != 10 {
		t.Fatalf("Expected = %d, want 10", sum.Expected)
	}
	if want := (1 + 1 + 3 + 2) * time.Millisecond / 4; sum.AvgAbsJitter != want {
		t.Fatalf("AvgAbsJitter = %v, want %v", sum.AvgAbsJitter, want)
	}
	if sum.MaxAbsJitter != 3*time.Millisecond {
		t.Fatalf("MaxAbsJitter = %v, want 3ms", sum.MaxAbsJitter)
	}
	if sum.FinalError != 2*time.Millisecond {
		t.Fatalf("FinalError = %v, want 2ms", sum.FinalError)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := summarize(Config{Interval: time.Millisecond, Duration: time.Second}, nil)
	if sum.Count != 0 || sum.AvgAbsJitter != 0 {
		t.Fatalf("unexpected summary for empty run: %+v", sum)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "samples.csv")
	samples := []Sample{
		{Seq: 1, Elapsed: time.Millisecond, Expected: time.Millisecond, Jitter: 0},
		{Seq: 2, Elapsed: 2100 * time.Microsecond, Expected: 2 * time.Millisecond, Jitter: 100 * time.Microsecond},
	}
	if err := WriteCSV(path, samples); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header + 2", len(rows))
	}
	if rows[0][3] != "jitter_ns" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[2][3] != "100000" {
		t.Fatalf("rows[2] jitter = %q, want 100000", rows[2][3])
	}
}

func TestRunnerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(storage.Config{Driver: "file", Path: filepath.Join(dir, "history")}, logx.Nop())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	out := filepath.Join(dir, "samples.csv")
	r := New(Config{
		Name:     "e2e",
		Interval: 10 * time.Millisecond,
		Duration: 300 * time.Millisecond,
		Warmup:   50 * time.Millisecond,
		Output:   out,
	}, logx.Nop(), store)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Count < 15 || sum.Count > 45 {
		t.Fatalf("Count = %d, want roughly 30 (300ms at 10ms)", sum.Count)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("csv not written: %v", err)
	}

	runs, err := store.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Task != "e2e" {
		t.Fatalf("run history not appended: %+v", runs)
	}
}
