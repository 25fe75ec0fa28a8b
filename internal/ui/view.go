package ui

import (
	"fmt"
	"strings"

	"github.com/stigoleg/auraflow/internal/util"
)

// visibleLogLines is how many log entries the control screen shows.
const visibleLogLines = 10

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView(m)
	}

	switch m.State {
	case stateControl:
		return controlView(m)
	case stateSettings:
		return settingsView(m)
	}

	return ""
}

func controlView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Auraflow"))
	b.WriteString("\n\n")

	if m.Ctrl.IsRunning() {
		activity := "waiting for idle"
		if m.Jiggling {
			activity = "jiggling"
		}
		b.WriteString(Current.ActiveStatus.Render("● Active"))
		b.WriteString(Current.Help.Render(activity))
	} else {
		b.WriteString(Current.InactiveStatus.Render("○ Inactive"))
	}
	b.WriteString("\n")

	if remaining := m.Ctrl.TimeRemaining(); remaining > 0 {
		minutes := int(remaining.Minutes())
		seconds := int(remaining.Seconds()) % 60
		b.WriteString(Current.Countdown.Render(fmt.Sprintf("%d:%02d remaining", minutes, seconds)))
		b.WriteString("\n")
	}

	idle, interval := m.Ctrl.Settings()
	b.WriteString("\n")
	b.WriteString(Current.Label.Render("Idle threshold") + util.FormatSeconds(idle) + "\n")
	b.WriteString(Current.Label.Render("Jiggle interval") + util.FormatSeconds(interval) + "\n")

	if !m.Ctrl.PointerHealthy() {
		b.WriteString("\n" + Current.Warning.Render("⚠ Pointer backend is failing, check the log file"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for i, item := range menuItems {
		if i == m.Selected {
			b.WriteString(Current.Selected.Render("> " + item))
		} else {
			b.WriteString(Current.Unselected.Render("  " + item))
		}
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString("\n" + Current.Help.Render(m.Status))
	}
	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}

	b.WriteString("\n\n" + logView(m))
	b.WriteString("\n" + m.help.View(m.keys.ForState(m.State)))
	return b.String()
}

func logView(m Model) string {
	var b strings.Builder
	b.WriteString(Current.Title.Render("Recent events"))
	b.WriteString("\n")

	if len(m.Log) == 0 {
		b.WriteString(Current.Help.Render("No events yet"))
		return Current.LogBox.Render(b.String())
	}

	for i, entry := range m.Log {
		if i == visibleLogLines {
			b.WriteString(Current.Help.Render(fmt.Sprintf("… %d older", len(m.Log)-visibleLogLines)))
			break
		}
		b.WriteString(Current.LogTime.Render(entry.Time.Format("15:04:05")))
		b.WriteString(" " + entry.Text + "\n")
	}
	return Current.LogBox.Render(strings.TrimRight(b.String(), "\n"))
}

func settingsView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Settings"))
	b.WriteString("\n\n")

	labels := []string{
		fieldIdle:     "Idle threshold",
		fieldInterval: "Jiggle interval",
	}
	for i, label := range labels {
		box := Current.InputBox
		if i == m.focus {
			box = Current.FocusedInput
		}
		b.WriteString(Current.Unselected.Render(label + " (seconds or duration):"))
		b.WriteString("\n")
		b.WriteString(box.Render(m.inputs[i].View()))
		b.WriteString("\n")
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys.ForState(m.State)))
	return b.String()
}

func helpView(m Model) string {
	help := `Auraflow Help

Usage:
  auraflow [flags]

Flags:
  -i, --idle-threshold string    Seconds without pointer movement before jiggling (default "120")
  -j, --jiggle-interval string   Seconds between jiggles while idle (default "60")
  -b, --backend string           Pointer backend: auto, robotgo, xdotool (default "auto")
  -s, --autostart                Start jiggling immediately
  -d, --duration string          Stop automatically after this long (e.g., "2h30m" or "150")
  -c, --clock string             Stop automatically at this time (e.g., "22:00" or "10:00PM")
      --headless                 Run without the TUI and log events to stderr
      --metrics-addr string      Serve prometheus metrics on this address
      --config string            Config file (default $HOME/.config/auraflow/config.yaml)
  -v, --version                  Show version information

Keys:
  s          : Start jiggler
  x          : Stop jiggler
  e          : Edit settings
  ↑/k, ↓/j   : Navigate menu
  Enter      : Select option
  h/?        : Toggle this help
  q/Ctrl+C   : Quit

Press 'h' or 'Esc' to close help`

	if m.Version != "" {
		help = strings.Replace(help, "Auraflow Help", "Auraflow Help (version "+m.Version+")", 1)
	}
	return Current.Help.Render(help)
}
