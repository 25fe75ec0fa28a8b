// Package ui provides the terminal control surface for the jiggler.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Warning:   lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#F2C94C"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// Style is the set of styles used by the views.
type Style struct {
	Title          lipgloss.Style
	ActiveStatus   lipgloss.Style
	InactiveStatus lipgloss.Style
	Selected       lipgloss.Style
	Unselected     lipgloss.Style
	Label          lipgloss.Style
	InputBox       lipgloss.Style
	FocusedInput   lipgloss.Style
	Help           lipgloss.Style
	Warning        lipgloss.Style
	Error          lipgloss.Style
	Countdown      lipgloss.Style
	LogTime        lipgloss.Style
	LogBox         lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		ActiveStatus: base.
			Bold(true).
			Foreground(defaultColors.Special),

		InactiveStatus: base.
			Foreground(defaultColors.Subtle),

		Selected: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Unselected: base,

		Label: base.
			Foreground(defaultColors.Subtle).
			Width(18),

		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Subtle).
			Padding(0, 1),

		FocusedInput: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Highlight).
			Padding(0, 1),

		Help: base.
			Foreground(defaultColors.Subtle),

		Warning: base.
			Foreground(defaultColors.Warning),

		Error: base.
			Foreground(defaultColors.Error),

		Countdown: base.
			Foreground(defaultColors.Highlight).
			Bold(true),

		LogTime: lipgloss.NewStyle().
			Foreground(defaultColors.Subtle),

		LogBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(defaultColors.Subtle).
			PaddingLeft(1),
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()

// FormatError renders a command line error. Errors carrying a "\n\n" section
// get a bordered box with the details dimmed.
func FormatError(err error) string {
	msg := err.Error()
	parts := strings.SplitN(msg, "\n\n", 2)
	if len(parts) != 2 {
		return Current.Error.Render(msg)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(defaultColors.Error).
		Padding(0, 1)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(defaultColors.Error).
		Render(parts[0])

	details := lipgloss.NewStyle().
		Foreground(defaultColors.Subtle).
		Render(parts[1])

	return box.Render(fmt.Sprintf("%s\n\n%s", header, details))
}
