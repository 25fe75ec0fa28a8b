package pointer

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	"github.com/stigoleg/auraflow/internal/util"
)

// Backend names accepted by Open.
const (
	BackendAuto    = "auto"
	BackendRobotgo = "robotgo"
	BackendXdotool = "xdotool"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("pointer: unknown backend")

// Backends lists the names accepted by Open.
func Backends() []string {
	return []string{BackendAuto, BackendRobotgo, BackendXdotool}
}

// Open returns the device for the named backend. "auto" prefers robotgo and
// falls back to xdotool on Linux.
func Open(name string) (Device, error) {
	switch name {
	case BackendRobotgo:
		return newRobotgoDevice()
	case BackendXdotool:
		return openXdotool()
	case BackendAuto, "":
		return openAuto()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

func openAuto() (Device, error) {
	dev, err := newRobotgoDevice()
	if err == nil {
		return dev, nil
	}
	log.Printf("pointer: robotgo unavailable: %v", err)

	if runtime.GOOS != "linux" {
		return nil, ErrUnsupported
	}
	return openXdotool()
}

func openXdotool() (Device, error) {
	if !util.HasCommand("xdotool") {
		if hint := InstallHint(); hint != "" {
			return nil, fmt.Errorf("xdotool not found in PATH (install with: %s): %w", hint, ErrUnsupported)
		}
		return nil, fmt.Errorf("xdotool not found in PATH: %w", ErrUnsupported)
	}
	if DisplayServer() == DisplayServerWayland {
		log.Printf("pointer: running under Wayland, xdotool only sees XWayland windows")
	}
	return newXdotoolDevice(), nil
}
