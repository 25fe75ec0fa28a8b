package jiggler

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/stigoleg/auraflow/internal/event"
)

// Messages returned by the control operations.
const (
	MsgStarted         = "Jiggler started"
	MsgAlreadyRunning  = "Already running"
	MsgStopped         = "Jiggler stopped"
	MsgSettingsUpdated = "Settings updated"
)

// Controller exposes start, stop and settings operations over one shared
// Settings and RunState. At most one loop runs at a time.
type Controller struct {
	settings     *Settings
	state        *RunState
	probe        Probe
	events       event.Publisher
	clock        Clock
	newRand      func() Rand
	pollInterval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	timer   *time.Timer
	endTime time.Time
	loops   sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used by the loop.
func WithClock(c Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithRand sets the factory for each loop's offset source.
func WithRand(newRand func() Rand) Option {
	return func(ctrl *Controller) { ctrl.newRand = newRand }
}

// WithPollInterval overrides PollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(ctrl *Controller) { ctrl.pollInterval = d }
}

// NewController creates a controller. A nil publisher discards events.
func NewController(settings *Settings, probe Probe, events event.Publisher, opts ...Option) *Controller {
	if settings == nil {
		settings = DefaultSettings()
	}
	if events == nil {
		events = event.Discard
	}

	c := &Controller{
		settings:     settings,
		state:        &RunState{},
		probe:        probe,
		events:       events,
		clock:        realClock{},
		pollInterval: PollInterval,
		newRand: func() Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start spawns the activity loop unless one is already running.
func (c *Controller) Start() (string, error) {
	return c.start(0)
}

// StartTimed starts like Start and stops automatically after d.
func (c *Controller) StartTimed(d time.Duration) (string, error) {
	return c.start(d)
}

func (c *Controller) start(d time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	generation, ok := c.state.TryStart()
	if !ok {
		log.Printf("jiggler: start requested while running")
		return MsgAlreadyRunning, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	loop := &Loop{
		settings:     c.settings,
		state:        c.state,
		generation:   generation,
		probe:        c.probe,
		events:       c.events,
		clock:        c.clock,
		rnd:          c.newRand(),
		pollInterval: c.pollInterval,
	}

	if d > 0 {
		c.endTime = time.Now().Add(d)
		c.timer = time.AfterFunc(d, func() {
			c.stopGeneration(generation)
		})
	}

	c.events.Publish(event.Started(c.clock.Now()))

	c.loops.Add(1)
	go func() {
		defer c.loops.Done()
		defer cancel()
		loop.Run(ctx)
	}()

	idle, interval := c.settings.Get()
	if d > 0 {
		log.Printf("jiggler: started (timed=%s, idle=%ds, interval=%ds)", d, idle, interval)
	} else {
		log.Printf("jiggler: started (idle=%ds, interval=%ds)", idle, interval)
	}
	return MsgStarted, nil
}

// Stop signals the loop to exit and returns without waiting for it.
func (c *Controller) Stop() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Stop()
	c.releaseLocked()
	log.Printf("jiggler: stopped")
	return MsgStopped, nil
}

// stopGeneration is the timed-session expiry path; it leaves a newer session alone.
func (c *Controller) stopGeneration(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.StopGeneration(generation) {
		return
	}
	c.releaseLocked()
	log.Printf("jiggler: timed session expired")
}

func (c *Controller) releaseLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.endTime = time.Time{}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Wait blocks until every loop goroutine has exited. It must not be called
// concurrently with Start.
func (c *Controller) Wait() {
	c.loops.Wait()
}

// StopAndWait stops the loop and waits up to timeout for it to exit.
func (c *Controller) StopAndWait(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	_, _ = c.Stop()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Printf("jiggler: loop did not exit within %v", timeout)
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active.
func (c *Controller) IsRunning() bool {
	return c.state.IsRunning()
}

// Settings returns the idle threshold and jiggle interval in seconds.
func (c *Controller) Settings() (idleThreshold, jiggleInterval uint64) {
	return c.settings.Get()
}

// UpdateSettings replaces both settings. The running loop picks them up on its
// next iteration. Values are not validated.
func (c *Controller) UpdateSettings(idleThreshold, jiggleInterval uint64) (string, error) {
	c.settings.Set(idleThreshold, jiggleInterval)
	log.Printf("jiggler: settings updated (idle=%ds, interval=%ds)", idleThreshold, jiggleInterval)
	return MsgSettingsUpdated, nil
}

// TimeRemaining returns the time left in a timed session, or 0.
func (c *Controller) TimeRemaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.endTime.IsZero() || !c.state.IsRunning() {
		return 0
	}
	remaining := time.Until(c.endTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PointerHealthy reports whether the pointer backend's last call succeeded.
// Probes that do not track health are always healthy.
func (c *Controller) PointerHealthy() bool {
	if h, ok := c.probe.(interface{ Healthy() bool }); ok {
		return h.Healthy()
	}
	return true
}
