package jiggler

import (
	"context"
	"log"
	"time"

	"github.com/stigoleg/auraflow/internal/event"
	"github.com/stigoleg/auraflow/internal/pointer"
)

// Probe is the pointer access the loop needs. Sample never fails; it returns
// prev when the position cannot be read.
type Probe interface {
	Sample(prev pointer.Point) pointer.Point
	MoveRelative(dx, dy int) error
}

// Loop is one run of the activity loop. It is created per start and owns its
// position and idle tracking exclusively.
type Loop struct {
	settings     *Settings
	state        *RunState
	generation   uint64
	probe        Probe
	events       event.Publisher
	clock        Clock
	rnd          Rand
	pollInterval time.Duration

	lastPosition pointer.Point
	lastActivity time.Time
	idle         bool
}

// Run samples the pointer until the loop's generation is stopped, jiggling
// whenever the idle threshold has been reached. It emits Stopped on exit.
func (l *Loop) Run(ctx context.Context) {
	l.lastPosition = l.probe.Sample(pointer.Point{})
	l.lastActivity = l.clock.Now()
	l.idle = false

	for l.state.Current(l.generation) {
		l.clock.Sleep(ctx, l.step())
	}

	l.events.Publish(event.Stopped(l.clock.Now()))
}

// step runs one iteration and returns how long to sleep before the next.
func (l *Loop) step() time.Duration {
	current := l.probe.Sample(l.lastPosition)
	now := l.clock.Now()

	if current != l.lastPosition {
		l.lastActivity = now
		l.lastPosition = current
		if l.idle {
			l.idle = false
			log.Printf("jiggler: activity detected at %s", current)
			l.events.Publish(event.ActivityDetected(now))
		}
	}

	idleSeconds := wholeSeconds(now.Sub(l.lastActivity))
	if idleSeconds < l.settings.IdleThreshold() {
		return l.pollInterval
	}

	if !l.idle {
		l.idle = true
		log.Printf("jiggler: idle for %ds, starting auto-jiggle", idleSeconds)
		l.events.Publish(event.IdleDetected(now))
	}

	dx, dy := l.offset(), l.offset()
	if err := l.probe.MoveRelative(dx, dy); err != nil {
		log.Printf("jiggler: jiggle skipped: %v", err)
	}
	// Re-read so our own movement is not taken for user activity.
	l.lastPosition = l.probe.Sample(l.lastPosition)
	l.events.Publish(event.Jiggled(now, dx, dy, idleSeconds))

	return seconds(l.settings.JiggleInterval())
}

// offset draws uniformly from [-MaxOffset, MaxOffset].
func (l *Loop) offset() int {
	return l.rnd.Intn(2*MaxOffset+1) - MaxOffset
}

func wholeSeconds(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Second)
}
