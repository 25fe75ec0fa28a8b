//go:build !cgo

package pointer

import "fmt"

func newRobotgoDevice() (Device, error) {
	return nil, fmt.Errorf("robotgo backend requires cgo: %w", ErrUnsupported)
}
