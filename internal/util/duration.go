package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const durationHelp = "\n\nValid formats:\n" +
	"• whole number (e.g., '%s')\n" +
	"• Go duration (e.g., '90s', '2m', '1h30m')"

// ParseDuration parses a session length: a bare integer is minutes, anything
// else must be a Go duration string.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes < 0 {
			return 0, fmt.Errorf("duration must not be negative: %s", input)
		}
		if int64(minutes) > math.MaxInt64/int64(time.Minute) {
			return 0, fmt.Errorf("duration too long: %s minutes", input)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %q"+durationHelp, input, "30 for 30 minutes")
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", input)
	}
	return d, nil
}

// ParseSeconds parses a jiggler setting: a bare non-negative integer is
// seconds, anything else must be a Go duration string, truncated to whole
// seconds.
func ParseSeconds(input string) (uint64, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.ParseUint(input, 10, 64); err == nil {
		return n, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds value: %q"+durationHelp, input, "120 for 120 seconds")
	}
	if d < 0 {
		return 0, fmt.Errorf("value must not be negative: %s", input)
	}
	return uint64(d / time.Second), nil
}

// FormatSeconds renders a setting for display, e.g. "90s (1m30s)".
func FormatSeconds(n uint64) string {
	if n < 60 || n > math.MaxInt64/uint64(time.Second) {
		return fmt.Sprintf("%ds", n)
	}
	return fmt.Sprintf("%ds (%s)", n, time.Duration(n)*time.Second)
}

// FormatRemaining renders a countdown rounded to the second.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Second).String()
}
