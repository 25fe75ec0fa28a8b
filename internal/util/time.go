package util

import (
	"fmt"
	"strings"
	"time"
)

var clockLayouts = []string{"15:04", "3:04PM", "3:04 PM", "03:04PM", "03:04 PM"}

// ParseClockTime parses a wall-clock time in 24-hour ("23:30") or 12-hour
// ("11:30PM", "9:45 AM") form and returns its next occurrence after now.
func ParseClockTime(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(strings.ToUpper(input))

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %q\n\nValid formats:\n"+
		"• 24-hour format: HH:MM (e.g., '23:30', '09:45')\n"+
		"• 12-hour format: HH:MM[AM|PM] (e.g., '11:30PM', '9:45 AM')", input)
}

// Until returns how long from now until the next occurrence of input.
func Until(input string, now time.Time) (time.Duration, error) {
	at, err := ParseClockTime(input, now)
	if err != nil {
		return 0, err
	}
	return at.Sub(now), nil
}
