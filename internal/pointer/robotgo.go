//go:build cgo

package pointer

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// robotgoDevice drives the pointer through robotgo's native bindings.
type robotgoDevice struct{}

func newRobotgoDevice() (Device, error) {
	return robotgoDevice{}, nil
}

func (robotgoDevice) Name() string {
	return BackendRobotgo
}

func (robotgoDevice) Location() (pt Point, err error) {
	defer recoverInto(&err)
	x, y := robotgo.Location()
	return Point{X: x, Y: y}, nil
}

func (robotgoDevice) MoveRelative(dx, dy int) (err error) {
	defer recoverInto(&err)
	robotgo.MoveRelative(dx, dy)
	return nil
}

// recoverInto turns a panic in the native layer into an error.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("robotgo: %v", r)
	}
}
