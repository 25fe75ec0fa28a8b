package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/stigoleg/auraflow/internal/pointer"
	"github.com/stigoleg/auraflow/internal/util"
)

// ValidationError is a single invalid configuration value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is every problem found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks that every value parses. Threshold and interval may be any
// non-negative number of seconds, including zero.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if _, err := util.ParseSeconds(c.IdleThreshold); err != nil {
		errs = append(errs, ValidationError{
			Field:   KeyIdleThreshold,
			Value:   c.IdleThreshold,
			Message: "must be whole seconds or a duration like 2m",
		})
	}
	if _, err := util.ParseSeconds(c.JiggleInterval); err != nil {
		errs = append(errs, ValidationError{
			Field:   KeyJiggleInterval,
			Value:   c.JiggleInterval,
			Message: "must be whole seconds or a duration like 1m",
		})
	}

	if !slices.Contains(pointer.Backends(), c.Backend) {
		errs = append(errs, ValidationError{
			Field:   KeyBackend,
			Value:   c.Backend,
			Message: "must be one of " + strings.Join(pointer.Backends(), ", "),
		})
	}

	if c.Duration != "" && c.Clock != "" {
		errs = append(errs, ValidationError{
			Field:   KeyClock,
			Value:   c.Clock,
			Message: "cannot be combined with duration",
		})
	}
	if c.Duration != "" {
		if _, err := util.ParseDuration(c.Duration); err != nil {
			errs = append(errs, ValidationError{
				Field:   KeyDuration,
				Value:   c.Duration,
				Message: "must be minutes or a duration like 2h30m",
			})
		}
	}
	if c.Clock != "" {
		if _, err := util.ParseClockTime(c.Clock, time.Now()); err != nil {
			errs = append(errs, ValidationError{
				Field:   KeyClock,
				Value:   c.Clock,
				Message: "must be a time like 17:30 or 5:30PM",
			})
		}
	}

	return errs
}
