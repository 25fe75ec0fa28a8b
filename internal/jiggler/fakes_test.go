package jiggler

import (
	"context"
	"sync"
	"time"

	"github.com/stigoleg/auraflow/internal/event"
	"github.com/stigoleg/auraflow/internal/pointer"
)

var epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// stepClock advances simulated time on every Sleep and then calls onSleep
// with the 1-based sleep count.
type stepClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	onSleep func(n int, d time.Duration)
}

func newStepClock() *stepClock {
	return &stepClock{now: epoch}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Sleep(_ context.Context, d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	n := len(c.sleeps)
	hook := c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n, d)
	}
}

func (c *stepClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// parkedClock blocks every Sleep until the loop's context is cancelled, so a
// started loop performs exactly one iteration before Stop.
type parkedClock struct{}

func (parkedClock) Now() time.Time { return epoch }

func (parkedClock) Sleep(ctx context.Context, _ time.Duration) {
	<-ctx.Done()
}

// fakeDevice is a pointer.Device whose position only changes when moved.
type fakeDevice struct {
	mu      sync.Mutex
	pos     pointer.Point
	readErr error
	moveErr error
	moves   int
}

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) Location() (pointer.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.readErr != nil {
		return pointer.Point{}, d.readErr
	}
	return d.pos, nil
}

func (d *fakeDevice) MoveRelative(dx, dy int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.moveErr != nil {
		return d.moveErr
	}
	d.moves++
	d.pos.X += dx
	d.pos.Y += dy
	return nil
}

// MoveTo simulates the user moving the pointer.
func (d *fakeDevice) MoveTo(x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = pointer.Point{X: x, Y: y}
}

func (d *fakeDevice) Moves() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.moves
}

// seqRand returns the scripted values in order, cycling.
type seqRand struct {
	values []int
	i      int
}

func (r *seqRand) Intn(n int) int {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

func (r *recorder) Kinds() []event.Kind {
	var kinds []event.Kind
	for _, e := range r.Events() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (r *recorder) Count(kind event.Kind) int {
	n := 0
	for _, e := range r.Events() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// newTestLoop builds a loop that has already been granted a generation.
func newTestLoop(settings *Settings, dev pointer.Device, clock Clock, rnd Rand) (*Loop, *RunState, *recorder) {
	state := &RunState{}
	generation, _ := state.TryStart()
	rec := &recorder{}

	loop := &Loop{
		settings:     settings,
		state:        state,
		generation:   generation,
		probe:        pointer.NewProbe(dev),
		events:       rec,
		clock:        clock,
		rnd:          rnd,
		pollInterval: PollInterval,
	}
	return loop, state, rec
}
