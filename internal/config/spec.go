package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	reHHMM = regexp.MustCompile(`^\s*(\d{1,3}):(\d{2})\s*$`)

	// Descriptor-only parser: "@every ..." is the single descriptor that maps
	// onto a fixed delay. Calendar descriptors still parse, so we can reject
	// them with a useful error instead of a generic syntax failure.
	descriptorParser = cron.NewParser(cron.Descriptor)
)

// ParseEvery parses a fixed-interval spec string.
//
// Supported forms:
//   - Go duration: "250ms", "2h30m"
//   - Descriptor: "@every 90s" (robfig/cron semantics: rounded down to whole
//     seconds, minimum 1s — use a plain duration for sub-second intervals)
//   - Compact HH:MM: "01:30" means 1 hour 30 minutes
//
// An optional "every:" prefix is accepted and stripped.
//
// Calendar specs ("@hourly", "*/5 * * * *") are rejected: an anchored
// fixed-interval schedule has no calendar.
func ParseEvery(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("interval required")
	}
	if low := strings.ToLower(s); strings.HasPrefix(low, "every:") {
		s = strings.TrimSpace(s[len("every:"):])
		if s == "" {
			return 0, fmt.Errorf("interval required after \"every:\"")
		}
	}

	if strings.HasPrefix(s, "@") {
		sched, err := descriptorParser.Parse(s)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", raw, err)
		}
		cd, ok := sched.(cron.ConstantDelaySchedule)
		if !ok {
			return 0, fmt.Errorf("%q is a calendar schedule, not a fixed interval (use \"@every <duration>\")", raw)
		}
		if cd.Delay <= 0 {
			return 0, fmt.Errorf("interval must be > 0")
		}
		return cd.Delay, nil
	}

	if reHHMM.MatchString(s) {
		return parseHHMMDuration(s)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf(
			"invalid interval %q (use a duration like \"250ms\", \"@every 90s\", or HH:MM like \"01:30\")", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be > 0")
	}
	return d, nil
}

func parseHHMMDuration(v string) (time.Duration, error) {
	m := reHHMM.FindStringSubmatch(v)
	if len(m) != 3 {
		return 0, fmt.Errorf("invalid HH:MM %q", v)
	}
	var hh int
	for i := 0; i < len(m[1]); i++ {
		hh = hh*10 + int(m[1][i]-'0')
	}
	mm := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if mm > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", v)
	}
	d := time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
	if d <= 0 {
		return 0, fmt.Errorf("interval must be > 0")
	}
	return d, nil
}
