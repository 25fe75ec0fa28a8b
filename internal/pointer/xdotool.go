package pointer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// commandTimeout bounds a single xdotool invocation so a wedged X server
// cannot stall the activity loop.
const commandTimeout = 2 * time.Second

// xdotoolDevice drives the pointer through the xdotool command (X11 only).
type xdotoolDevice struct {
	cmd string
	run func(ctx context.Context, name string, args ...string) (string, error)
}

func newXdotoolDevice() *xdotoolDevice {
	return &xdotoolDevice{cmd: "xdotool", run: runVerbose}
}

func (x *xdotoolDevice) Name() string {
	return BackendXdotool
}

func (x *xdotoolDevice) Location() (Point, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := x.run(ctx, x.cmd, "getmouselocation", "--shell")
	if err != nil {
		return Point{}, fmt.Errorf("getmouselocation: %w (output: %q)", err, out)
	}
	return parseShellLocation(out)
}

func (x *xdotoolDevice) MoveRelative(dx, dy int) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// "--" keeps negative offsets from being read as options.
	out, err := x.run(ctx, x.cmd, "mousemove_relative", "--", strconv.Itoa(dx), strconv.Itoa(dy))
	if err != nil {
		return fmt.Errorf("mousemove_relative: %w (output: %q)", err, out)
	}
	return nil
}

// parseShellLocation parses `xdotool getmouselocation --shell` output:
//
//	X=812
//	Y=443
//	SCREEN=0
//	WINDOW=65011713
func parseShellLocation(out string) (Point, error) {
	var pt Point
	var haveX, haveY bool

	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "X":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Point{}, fmt.Errorf("invalid X coordinate %q", value)
			}
			pt.X, haveX = n, true
		case "Y":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Point{}, fmt.Errorf("invalid Y coordinate %q", value)
			}
			pt.Y, haveY = n, true
		}
	}

	if !haveX || !haveY {
		return Point{}, fmt.Errorf("coordinates missing in output %q", out)
	}
	return pt, nil
}

// runVerbose executes a command and returns the combined output (stdout+stderr) and any error.
func runVerbose(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return strings.TrimSpace(buf.String()), fmt.Errorf("%s timed out after %s", name, commandTimeout)
	}
	return strings.TrimSpace(buf.String()), err
}
