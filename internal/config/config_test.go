package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestManagerLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
logging:
  level: debug
  console: true
storage:
  driver: file
  path: ./runs
tasks:
  - name: heartbeat
    every: 1s
  - name: slow-report
    every: "01:30"
    policy: skip
    paused: true
bench:
  interval: 1ms
  duration: 5s
  output: ./bench.csv
`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if len(cfg.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2", len(cfg.Tasks))
	}
	if got := cfg.Tasks[1].Interval(); got != 90*time.Minute {
		t.Fatalf("Tasks[1].Interval() = %v, want 90m", got)
	}
	if !cfg.Tasks[1].Paused {
		t.Fatal("Tasks[1].Paused = false, want true")
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get() did not return the committed config")
	}
}

func TestManagerRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "config.json", `{"tasks": [], "workers": 4}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestManagerRejectsTrailingData(t *testing.T) {
	path := writeFile(t, "config.json", `{"tasks": []}{"tasks": []}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "empty", cfg: Config{}, ok: true},
		{
			name: "valid tasks",
			cfg: Config{Tasks: []TaskConfig{
				{Name: "a", Every: "1s"},
				{Name: "b", Every: "@every 90s", Policy: "skip"},
			}},
			ok: true,
		},
		{
			name: "missing name",
			cfg:  Config{Tasks: []TaskConfig{{Every: "1s"}}},
		},
		{
			name: "duplicate name",
			cfg: Config{Tasks: []TaskConfig{
				{Name: "a", Every: "1s"},
				{Name: "a", Every: "2s"},
			}},
		},
		{
			name: "bad interval",
			cfg:  Config{Tasks: []TaskConfig{{Name: "a", Every: "@hourly"}}},
		},
		{
			name: "bad policy",
			cfg:  Config{Bench: BenchConfig{Policy: "mystery"}},
		},
		{
			name: "bad busy timeout",
			cfg:  Config{Storage: StorageConfig{BusyTimeout: "soon"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
