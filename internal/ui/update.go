package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/auraflow/internal/event"
	"github.com/stigoleg/auraflow/internal/util"
)

// tickMsg refreshes the countdown and pointer health once a second.
type tickMsg time.Time

// eventMsg carries one status event from the bus.
type eventMsg event.Event

// eventsClosedMsg is sent once the event channel has been closed.
type eventsClosedMsg struct{}

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()

	case eventMsg:
		e := event.Event(msg)
		switch e.Kind {
		case event.KindIdleDetected:
			m.Jiggling = true
		case event.KindActivityDetected, event.KindStopped:
			m.Jiggling = false
		}
		m.appendLog(e.Time, e.String())
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.events = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.State == stateSettings {
			return updateSettings(msg, m)
		}
		return updateControl(msg, m)
	}

	if m.State == stateSettings {
		return m.updateInputs(msg)
	}
	return m, nil
}

func updateControl(msg tea.KeyMsg, m Model) (Model, tea.Cmd) {
	if m.ShowHelp {
		switch {
		case key.Matches(msg, m.keys.ToggleHelp), msg.String() == "esc":
			m.ShowHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Selected < len(menuItems)-1 {
			m.Selected++
		}
	case key.Matches(msg, m.keys.Select):
		return m.activate(m.Selected)
	case key.Matches(msg, m.keys.Start):
		return m.activate(itemStart)
	case key.Matches(msg, m.keys.Stop):
		return m.activate(itemStop)
	case key.Matches(msg, m.keys.Settings):
		return m.activate(itemSettings)
	case key.Matches(msg, m.keys.ToggleHelp):
		m.ShowHelp = true
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}
	return m, nil
}

func (m Model) activate(item int) (Model, tea.Cmd) {
	m.ErrorMessage = ""

	switch item {
	case itemStart:
		msg, err := m.Ctrl.Start()
		if err != nil {
			m.ErrorMessage = err.Error()
			return m, nil
		}
		m.Status = msg
	case itemStop:
		msg, err := m.Ctrl.Stop()
		if err != nil {
			m.ErrorMessage = err.Error()
			return m, nil
		}
		m.Status = msg
		m.Jiggling = false
	case itemSettings:
		cmd := m.openSettings()
		return m, cmd
	case itemQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.Ctrl.IsRunning() {
		if _, err := m.Ctrl.Stop(); err != nil {
			m.ErrorMessage = err.Error()
			return m, nil
		}
	}
	return m, tea.Quit
}

func updateSettings(msg tea.KeyMsg, m Model) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.State = stateControl
		m.ErrorMessage = ""
		m.blurAll()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m.saveSettings()
	case key.Matches(msg, m.keys.NextField):
		cmd := m.focusField(m.focus + 1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.focusField(m.focus - 1)
		return m, cmd
	}
	return m.updateInputs(msg)
}

func (m Model) saveSettings() (Model, tea.Cmd) {
	idle, err := util.ParseSeconds(m.inputs[fieldIdle].Value())
	if err != nil {
		m.ErrorMessage = fmt.Sprintf("Idle threshold: invalid value %q", m.inputs[fieldIdle].Value())
		cmd := m.focusField(fieldIdle)
		return m, cmd
	}
	interval, err := util.ParseSeconds(m.inputs[fieldInterval].Value())
	if err != nil {
		m.ErrorMessage = fmt.Sprintf("Jiggle interval: invalid value %q", m.inputs[fieldInterval].Value())
		cmd := m.focusField(fieldInterval)
		return m, cmd
	}

	status, err := m.Ctrl.UpdateSettings(idle, interval)
	if err != nil {
		m.ErrorMessage = err.Error()
		return m, nil
	}
	m.Status = status
	m.ErrorMessage = ""
	m.State = stateControl
	m.blurAll()
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	inputs := make([]textinput.Model, len(m.inputs))
	copy(inputs, m.inputs)

	var cmds []tea.Cmd
	for i := range inputs {
		var cmd tea.Cmd
		inputs[i], cmd = inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	m.inputs = inputs
	return m, tea.Batch(cmds...)
}

// waitForEvent blocks on the next bus event. A nil channel yields no command.
func waitForEvent(events <-chan event.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
