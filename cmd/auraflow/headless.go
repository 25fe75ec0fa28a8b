package main

import (
	"context"
	"fmt"
	"io"

	"github.com/stigoleg/auraflow/internal/event"
)

// runner is what the headless loop needs from the controller.
type runner interface {
	IsRunning() bool
}

// runHeadless prints every event as "[15:04:05] text" until ctx is done, the
// event channel closes, or the jiggler stops on its own (a timed session
// expiring).
func runHeadless(ctx context.Context, ctrl runner, events <-chan event.Event, out io.Writer) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(out, "[%s] %s\n", e.Time.Format("15:04:05"), e)
			if e.Kind == event.KindStopped && !ctrl.IsRunning() {
				return
			}
		}
	}
}
