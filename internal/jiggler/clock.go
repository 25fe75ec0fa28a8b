package jiggler

import (
	"context"
	"time"
)

// Clock abstracts time so the loop can be driven by simulated seconds.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration)
}

// Rand is the offset source. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
