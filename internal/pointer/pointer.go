// Package pointer samples and moves the host pointer.
package pointer

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// ErrUnsupported is returned when no pointer backend works on this host.
var ErrUnsupported = errors.New("pointer: unsupported platform")

const failureWarnEvery = 60 * time.Second

// Point is a pointer coordinate in screen pixels.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Device is the host input subsystem. Calls are synchronous.
type Device interface {
	Location() (Point, error)
	MoveRelative(dx, dy int) error
	Name() string
}

// Probe wraps a Device so that reads never fail the caller and failures are
// tracked for health reporting.
type Probe struct {
	dev Device

	// consecutive failures across Location and MoveRelative
	failures int64

	// last failure warning, unix nanos
	lastWarnNS int64
}

// NewProbe creates a probe over dev.
func NewProbe(dev Device) *Probe {
	return &Probe{dev: dev}
}

// Name returns the backing device name.
func (p *Probe) Name() string {
	return p.dev.Name()
}

// Sample returns the current pointer position, or prev if it cannot be read.
func (p *Probe) Sample(prev Point) Point {
	pt, err := p.dev.Location()
	if err != nil {
		p.recordFailure("sample", err)
		return prev
	}
	atomic.StoreInt64(&p.failures, 0)
	return pt
}

// MoveRelative displaces the pointer by (dx, dy).
func (p *Probe) MoveRelative(dx, dy int) error {
	if err := p.dev.MoveRelative(dx, dy); err != nil {
		p.recordFailure("move", err)
		return fmt.Errorf("%s move: %w", p.dev.Name(), err)
	}
	atomic.StoreInt64(&p.failures, 0)
	return nil
}

// Healthy reports whether the most recent device call succeeded.
func (p *Probe) Healthy() bool {
	return atomic.LoadInt64(&p.failures) == 0
}

// Failures returns the number of consecutive failed device calls.
func (p *Probe) Failures() int64 {
	return atomic.LoadInt64(&p.failures)
}

func (p *Probe) recordFailure(op string, err error) {
	atomic.AddInt64(&p.failures, 1)

	nowNS := time.Now().UnixNano()
	last := atomic.LoadInt64(&p.lastWarnNS)
	if last != 0 && time.Duration(nowNS-last) < failureWarnEvery {
		return
	}
	atomic.StoreInt64(&p.lastWarnNS, nowNS)
	log.Printf("pointer: %s %s failed: %v", p.dev.Name(), op, err)
}
