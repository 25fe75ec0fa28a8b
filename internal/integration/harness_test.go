package integration

import (
	"context"
	"sync"
	"time"

	"github.com/stigoleg/auraflow/internal/event"
	"github.com/stigoleg/auraflow/internal/jiggler"
	"github.com/stigoleg/auraflow/internal/pointer"
)

// virtualClock runs simulated time a thousand times faster than real time:
// each Sleep advances Now by d but blocks for d/1000.
type virtualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newVirtualClock() *virtualClock {
	return &virtualClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) Sleep(ctx context.Context, d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()

	select {
	case <-ctx.Done():
	case <-time.After(d / 1000):
	}
}

// desk is a pointer.Device standing in for the user's mouse.
type desk struct {
	mu    sync.Mutex
	pos   pointer.Point
	moves int
}

func (d *desk) Name() string { return "desk" }

func (d *desk) Location() (pointer.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos, nil
}

func (d *desk) MoveRelative(dx, dy int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos.X += dx
	d.pos.Y += dy
	d.moves++
	return nil
}

// nudge simulates the user moving the mouse.
func (d *desk) nudge() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos.X += 100
	d.pos.Y += 100
}

func (d *desk) Moves() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moves
}

// collect drains a subscription into a slice until it is closed.
type collect struct {
	mu     sync.Mutex
	events []event.Event
	done   chan struct{}
}

func collectFrom(sub *event.Subscription) *collect {
	c := &collect{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		for e := range sub.C() {
			c.mu.Lock()
			c.events = append(c.events, e)
			c.mu.Unlock()
		}
	}()
	return c
}

func (c *collect) Count(kind event.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func newPipeline(idle, interval uint64) (*jiggler.Controller, *event.Bus, *desk) {
	dev := &desk{}
	bus := event.NewBus()
	ctrl := jiggler.NewController(
		jiggler.NewSettings(idle, interval),
		pointer.NewProbe(dev),
		bus,
		jiggler.WithClock(newVirtualClock()),
		jiggler.WithPollInterval(time.Second),
	)
	return ctrl, bus, dev
}
