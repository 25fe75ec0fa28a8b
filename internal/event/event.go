// Package event defines the status notifications emitted by the jiggler and
// the bus that delivers them to the control surface.
package event

import (
	"fmt"
	"time"
)

// Kind identifies a status notification.
type Kind int

const (
	KindStarted Kind = iota
	KindActivityDetected
	KindIdleDetected
	KindJiggled
	KindStopped
)

func (k Kind) String() string {
	switch k {
	case KindStarted:
		return "started"
	case KindActivityDetected:
		return "activity"
	case KindIdleDetected:
		return "idle"
	case KindJiggled:
		return "jiggle"
	case KindStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is a fire-and-forget status notification. DX, DY and IdleSeconds are
// only set for KindJiggled.
type Event struct {
	Kind        Kind
	Time        time.Time
	DX          int
	DY          int
	IdleSeconds uint64
}

// String renders the event the way the control surface displays it.
func (e Event) String() string {
	switch e.Kind {
	case KindStarted:
		return "Jiggler started"
	case KindActivityDetected:
		return "Activity detected - pausing jiggler"
	case KindIdleDetected:
		return "Idle detected - starting auto-jiggle"
	case KindJiggled:
		return fmt.Sprintf("Jiggled (%+d, %+d) - idle for %ds", e.DX, e.DY, e.IdleSeconds)
	case KindStopped:
		return "Jiggler stopped"
	default:
		return "Unknown event"
	}
}

func Started(t time.Time) Event          { return Event{Kind: KindStarted, Time: t} }
func ActivityDetected(t time.Time) Event { return Event{Kind: KindActivityDetected, Time: t} }
func IdleDetected(t time.Time) Event     { return Event{Kind: KindIdleDetected, Time: t} }
func Stopped(t time.Time) Event          { return Event{Kind: KindStopped, Time: t} }

// Jiggled creates a jiggle notification for the given offsets.
func Jiggled(t time.Time, dx, dy int, idleSeconds uint64) Event {
	return Event{Kind: KindJiggled, Time: t, DX: dx, DY: dy, IdleSeconds: idleSeconds}
}

// Publisher accepts events for delivery. Implementations must not block.
type Publisher interface {
	Publish(Event)
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
