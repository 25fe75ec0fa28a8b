package ui

// state is the screen currently shown.
type state int

const (
	stateControl state = iota
	stateSettings
)

func (s state) String() string {
	switch s {
	case stateControl:
		return "Control"
	case stateSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// menu entries on the control screen, in display order
const (
	itemStart = iota
	itemStop
	itemSettings
	itemQuit
)

var menuItems = []string{
	itemStart:    "Start",
	itemStop:     "Stop",
	itemSettings: "Settings",
	itemQuit:     "Quit",
}
