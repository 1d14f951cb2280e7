package config

import (
	"testing"
	"time"

	"tickloop/pkg/periodic"
)

func TestParseEveryVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		duration time.Duration
	}{
		{name: "duration", raw: "250ms", duration: 250 * time.Millisecond},
		{name: "compound duration", raw: "2h30m", duration: 2*time.Hour + 30*time.Minute},
		{name: "descriptor", raw: "@every 90s", duration: 90 * time.Second},
		{name: "prefixed", raw: "every:45s", duration: 45 * time.Second},
		{name: "hhmm", raw: "01:30", duration: 90 * time.Minute},
		{name: "hhmm long hours", raw: "100:00", duration: 100 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvery(tt.raw)
			if err != nil {
				t.Fatalf("ParseEvery(%q) error: %v", tt.raw, err)
			}
			if got != tt.duration {
				t.Fatalf("ParseEvery(%q) = %v, want %v", tt.raw, got, tt.duration)
			}
		})
	}
}

func TestParseEveryInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{
		"",
		"not-an-interval",
		"@hourly",        // calendar descriptor, not a fixed interval
		"*/5 * * * *",    // cron expression
		"-5s",            // negative
		"01:75",          // invalid minutes
		"every:",         // empty after prefix
	} {
		if _, err := ParseEvery(raw); err == nil {
			t.Fatalf("ParseEvery(%q): expected error", raw)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()
	if p, err := ParsePolicy(""); err != nil || p != periodic.CatchUpBurst {
		t.Fatalf("ParsePolicy(\"\") = %v, %v; want burst default", p, err)
	}
	if p, err := ParsePolicy("skip"); err != nil || p != periodic.CatchUpSkip {
		t.Fatalf("ParsePolicy(\"skip\") = %v, %v", p, err)
	}
	if _, err := ParsePolicy("drop"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
