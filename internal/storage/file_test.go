package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	logx "tickloop/pkg/logx"
)

func TestOpenDisabled(t *testing.T) {
	for _, driver := range []string{"", "none"} {
		st, err := Open(Config{Driver: driver}, logx.Nop())
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if st != nil {
			t.Fatalf("Open(%q) returned a store, want nil", driver)
		}
	}
	if _, err := Open(Config{Driver: "postgres"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 5; i++ {
		r := RunRecord{
			At:       now.Add(time.Duration(i) * time.Minute),
			Task:     "bench",
			Interval: int64(time.Millisecond),
			Policy:   "burst",
			Duration: int64(10 * time.Second),
			Count:    int64(10000 - i),
			Expected: 10000,
		}
		if err := st.AppendRun(ctx, r); err != nil {
			t.Fatalf("AppendRun: %v", err)
		}
	}

	runs, err := st.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	// Newest first.
	if runs[0].Count != 10000-4 {
		t.Fatalf("runs[0].Count = %d, want newest record first", runs[0].Count)
	}
	if runs[0].Task != "bench" || runs[0].Interval != int64(time.Millisecond) {
		t.Fatalf("unexpected record: %+v", runs[0])
	}
}

func TestFileStoreEmptyHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	runs, err := st.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("len(runs) = %d, want 0", len(runs))
	}
}
