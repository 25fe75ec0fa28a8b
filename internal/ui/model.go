package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/auraflow/internal/event"
)

// MaxLogEntries is how many event log lines are kept.
const MaxLogEntries = 50

// Controller is the part of jiggler.Controller the UI drives.
type Controller interface {
	Start() (string, error)
	Stop() (string, error)
	IsRunning() bool
	Settings() (idleThreshold, jiggleInterval uint64)
	UpdateSettings(idleThreshold, jiggleInterval uint64) (string, error)
	TimeRemaining() time.Duration
	PointerHealthy() bool
}

// LogEntry is one line of the event log.
type LogEntry struct {
	Time time.Time
	Text string
}

// settings editor fields
const (
	fieldIdle = iota
	fieldInterval
	fieldCount
)

// Model holds the UI state. The jiggler itself lives behind Ctrl.
type Model struct {
	State        state
	Selected     int
	Ctrl         Controller
	Log          []LogEntry
	Status       string
	ErrorMessage string
	ShowHelp     bool
	// Jiggling is true between IdleDetected and the next ActivityDetected or Stopped.
	Jiggling bool
	Version  string

	events <-chan event.Event
	inputs []textinput.Model
	focus  int
	keys   KeyMap
	help   help.Model
}

// NewModel returns the control screen for ctrl. Events received on events
// are appended to the log; a nil channel disables the log feed.
func NewModel(ctrl Controller, events <-chan event.Event) Model {
	m := Model{
		State:  stateControl,
		Ctrl:   ctrl,
		events: events,
		keys:   DefaultKeys(),
		help:   NewHelpModel(),
		inputs: make([]textinput.Model, fieldCount),
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 20
		ti.Width = 20
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	m.inputs[fieldIdle].Placeholder = "120 or 2m"
	m.inputs[fieldInterval].Placeholder = "60 or 1m"
	return m
}

// SetVersion sets the version shown in the help view.
func (m *Model) SetVersion(v string) {
	m.Version = v
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// appendLog records an entry, newest first, keeping at most MaxLogEntries.
func (m *Model) appendLog(t time.Time, text string) {
	entry := LogEntry{Time: t, Text: text}
	m.Log = append([]LogEntry{entry}, m.Log...)
	if len(m.Log) > MaxLogEntries {
		m.Log = m.Log[:MaxLogEntries]
	}
}

// openSettings fills the editor with the current values and focuses the
// first field.
func (m *Model) openSettings() tea.Cmd {
	idle, interval := m.Ctrl.Settings()
	m.ownInputs()
	m.inputs[fieldIdle].SetValue(strconv.FormatUint(idle, 10))
	m.inputs[fieldInterval].SetValue(strconv.FormatUint(interval, 10))
	m.State = stateSettings
	m.ErrorMessage = ""
	return m.focusField(fieldIdle)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.ownInputs()
	m.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) blurAll() {
	m.ownInputs()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// ownInputs copies the inputs so edits never reach an earlier Model value.
func (m *Model) ownInputs() {
	m.inputs = append([]textinput.Model(nil), m.inputs...)
}
