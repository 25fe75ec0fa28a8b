// Package jiggler implements idle detection and synthetic pointer activity.
package jiggler

import (
	"math"
	"sync"
	"time"
)

// Default settings.
const (
	DefaultIdleThreshold  uint64 = 120
	DefaultJiggleInterval uint64 = 60

	// PollInterval is how often the pointer is checked while the user is active.
	PollInterval = 5 * time.Second

	// MaxOffset bounds each jiggle axis to [-MaxOffset, MaxOffset].
	MaxOffset = 5
)

// Settings holds the idle threshold and jiggle interval, both in seconds.
// It is safe for concurrent use; no bounds are enforced.
type Settings struct {
	mu             sync.RWMutex
	idleThreshold  uint64
	jiggleInterval uint64
}

// NewSettings creates settings with the given values.
func NewSettings(idleThreshold, jiggleInterval uint64) *Settings {
	return &Settings{
		idleThreshold:  idleThreshold,
		jiggleInterval: jiggleInterval,
	}
}

// DefaultSettings returns settings with the default values.
func DefaultSettings() *Settings {
	return NewSettings(DefaultIdleThreshold, DefaultJiggleInterval)
}

// Get returns the idle threshold and jiggle interval as a consistent pair.
func (s *Settings) Get() (idleThreshold, jiggleInterval uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idleThreshold, s.jiggleInterval
}

// Set replaces both values.
func (s *Settings) Set(idleThreshold, jiggleInterval uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idleThreshold = idleThreshold
	s.jiggleInterval = jiggleInterval
}

// IdleThreshold returns the current idle threshold in seconds.
func (s *Settings) IdleThreshold() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idleThreshold
}

// JiggleInterval returns the current jiggle interval in seconds.
func (s *Settings) JiggleInterval() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jiggleInterval
}

// seconds converts a second count to a Duration, saturating instead of
// overflowing for huge values.
func seconds(n uint64) time.Duration {
	if n > uint64(math.MaxInt64/int64(time.Second)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(n) * time.Second
}
