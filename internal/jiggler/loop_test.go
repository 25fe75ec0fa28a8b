package jiggler

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stigoleg/auraflow/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stopAfter returns an onSleep hook that stops state after n sleeps.
func stopAfter(state *RunState, n int) func(int, time.Duration) {
	return func(count int, _ time.Duration) {
		if count >= n {
			state.Stop()
		}
	}
}

func TestLoopZeroThresholdJigglesImmediately(t *testing.T) {
	clock := newStepClock()
	dev := &fakeDevice{}
	loop, state, rec := newTestLoop(NewSettings(0, 60), dev, clock, &seqRand{values: []int{8, 2}})
	clock.onSleep = stopAfter(state, 1)

	loop.Run(context.Background())

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, event.KindIdleDetected, events[0].Kind)
	assert.Equal(t, event.KindJiggled, events[1].Kind)
	assert.Equal(t, 3, events[1].DX)
	assert.Equal(t, -3, events[1].DY)
	assert.Equal(t, uint64(0), events[1].IdleSeconds)
	assert.Equal(t, event.KindStopped, events[2].Kind)

	assert.Equal(t, []time.Duration{60 * time.Second}, clock.Sleeps())
	assert.Equal(t, 1, dev.Moves())
}

func TestLoopIdleDetectedNoEarlierThanThreshold(t *testing.T) {
	clock := newStepClock()
	loop, state, rec := newTestLoop(NewSettings(3, 60), &fakeDevice{}, clock, rand.New(rand.NewSource(1)))
	clock.onSleep = func(n int, _ time.Duration) {
		if n == 1 {
			assert.Zero(t, rec.Count(event.KindIdleDetected), "no idle before the first poll elapses")
		}
		if n >= 2 {
			state.Stop()
		}
	}

	loop.Run(context.Background())

	events := rec.Events()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, event.KindIdleDetected, events[0].Kind)
	idleAfter := events[0].Time.Sub(epoch)
	assert.GreaterOrEqual(t, idleAfter, 3*time.Second)
	assert.Equal(t, 5*time.Second, idleAfter, "first check after the threshold is the second poll")

	assert.Equal(t, event.KindJiggled, events[1].Kind)
	assert.Equal(t, uint64(5), events[1].IdleSeconds)
	assert.Equal(t, []time.Duration{5 * time.Second, 60 * time.Second}, clock.Sleeps())
}

func TestLoopSelfJiggleIsNotActivity(t *testing.T) {
	clock := newStepClock()
	dev := &fakeDevice{}
	// Offsets of +5/+5 every time so each jiggle visibly moves the pointer.
	loop, state, rec := newTestLoop(NewSettings(0, 1), dev, clock, &seqRand{values: []int{10}})
	clock.onSleep = stopAfter(state, 5)

	loop.Run(context.Background())

	assert.Equal(t, 0, rec.Count(event.KindActivityDetected))
	assert.Equal(t, 1, rec.Count(event.KindIdleDetected))
	assert.Equal(t, 5, rec.Count(event.KindJiggled))
	assert.Equal(t, 5, dev.Moves())
}

func TestLoopActivityThenIdleAgain(t *testing.T) {
	clock := newStepClock()
	dev := &fakeDevice{}
	loop, state, rec := newTestLoop(NewSettings(10, 60), dev, clock, rand.New(rand.NewSource(7)))
	clock.onSleep = func(n int, _ time.Duration) {
		switch n {
		case 3:
			dev.MoveTo(400, 300)
		case 6:
			state.Stop()
		}
	}

	loop.Run(context.Background())

	assert.Equal(t, []event.Kind{
		event.KindIdleDetected,
		event.KindJiggled,
		event.KindActivityDetected,
		event.KindIdleDetected,
		event.KindJiggled,
		event.KindStopped,
	}, rec.Kinds())

	assert.Equal(t, []time.Duration{
		5 * time.Second, 5 * time.Second, 60 * time.Second,
		5 * time.Second, 5 * time.Second, 60 * time.Second,
	}, clock.Sleeps())

	events := rec.Events()
	assert.Equal(t, 70*time.Second, events[2].Time.Sub(epoch))
	assert.Equal(t, 80*time.Second, events[3].Time.Sub(epoch))
}

func TestLoopMovementWhileActiveIsSilent(t *testing.T) {
	clock := newStepClock()
	dev := &fakeDevice{}
	loop, state, rec := newTestLoop(NewSettings(120, 60), dev, clock, rand.New(rand.NewSource(1)))
	clock.onSleep = func(n int, _ time.Duration) {
		dev.MoveTo(n, n)
		if n >= 40 {
			state.Stop()
		}
	}

	loop.Run(context.Background())

	assert.Equal(t, []event.Kind{event.KindStopped}, rec.Kinds())
}

func TestLoopReadsSettingsEveryIteration(t *testing.T) {
	clock := newStepClock()
	settings := NewSettings(100, 30)
	loop, state, rec := newTestLoop(settings, &fakeDevice{}, clock, rand.New(rand.NewSource(3)))
	clock.onSleep = func(n int, _ time.Duration) {
		switch n {
		case 1:
			settings.Set(0, 30)
		case 2:
			settings.Set(0, 7)
		case 3:
			state.Stop()
		}
	}

	loop.Run(context.Background())

	assert.Equal(t, []time.Duration{5 * time.Second, 30 * time.Second, 7 * time.Second}, clock.Sleeps())
	assert.Equal(t, 2, rec.Count(event.KindJiggled))
}

func TestLoopRaisedThresholdEndsJiggling(t *testing.T) {
	clock := newStepClock()
	settings := NewSettings(0, 10)
	loop, state, rec := newTestLoop(settings, &fakeDevice{}, clock, rand.New(rand.NewSource(3)))
	clock.onSleep = func(n int, _ time.Duration) {
		switch n {
		case 1:
			settings.Set(3600, 10)
		case 4:
			state.Stop()
		}
	}

	loop.Run(context.Background())

	assert.Equal(t, 1, rec.Count(event.KindJiggled))
	assert.Equal(t, []time.Duration{10 * time.Second, 5 * time.Second, 5 * time.Second, 5 * time.Second}, clock.Sleeps())
}

func TestLoopOffsetsStayInRange(t *testing.T) {
	clock := newStepClock()
	loop, state, rec := newTestLoop(NewSettings(0, 0), &fakeDevice{}, clock, rand.New(rand.NewSource(time.Now().UnixNano())))
	clock.onSleep = stopAfter(state, 2000)

	loop.Run(context.Background())

	seen := map[int]bool{}
	jiggles := 0
	for _, e := range rec.Events() {
		if e.Kind != event.KindJiggled {
			continue
		}
		jiggles++
		require.GreaterOrEqual(t, e.DX, -MaxOffset)
		require.LessOrEqual(t, e.DX, MaxOffset)
		require.GreaterOrEqual(t, e.DY, -MaxOffset)
		require.LessOrEqual(t, e.DY, MaxOffset)
		seen[e.DX] = true
		seen[e.DY] = true
	}

	assert.Equal(t, 2000, jiggles)
	for v := -MaxOffset; v <= MaxOffset; v++ {
		assert.True(t, seen[v], "offset %d never drawn", v)
	}
}

func TestLoopSurvivesPointerFailures(t *testing.T) {
	clock := newStepClock()
	dev := &fakeDevice{
		readErr: errors.New("cannot open display"),
		moveErr: errors.New("cannot open display"),
	}
	loop, state, rec := newTestLoop(NewSettings(0, 60), dev, clock, rand.New(rand.NewSource(1)))
	clock.onSleep = stopAfter(state, 3)

	loop.Run(context.Background())

	assert.Equal(t, 0, rec.Count(event.KindActivityDetected))
	assert.Equal(t, 3, rec.Count(event.KindJiggled), "a failed move still counts as a jiggle cycle")
	assert.Equal(t, 1, rec.Count(event.KindStopped))
	assert.Equal(t, 0, dev.Moves())
}

func TestLoopSupersededGenerationExits(t *testing.T) {
	clock := newStepClock()
	loop, state, rec := newTestLoop(NewSettings(120, 60), &fakeDevice{}, clock, rand.New(rand.NewSource(1)))
	clock.onSleep = func(n int, _ time.Duration) {
		if n == 1 {
			// A fast stop/start while this loop sleeps hands the flag to a new generation.
			state.Stop()
			_, ok := state.TryStart()
			require.True(t, ok)
		}
	}

	loop.Run(context.Background())

	assert.Len(t, clock.Sleeps(), 1)
	assert.Equal(t, []event.Kind{event.KindStopped}, rec.Kinds())
	assert.True(t, state.IsRunning(), "the newer generation is untouched")
}

func TestWholeSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want uint64
	}{
		{0, 0},
		{-time.Second, 0},
		{999 * time.Millisecond, 0},
		{time.Second, 1},
		{125*time.Second + 900*time.Millisecond, 125},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wholeSeconds(tt.in), "wholeSeconds(%v)", tt.in)
	}
}
