package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/imageinput"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/session"
	"github.com/julianstephens/nutrilog/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case submittedMsg:
		return m.handleSubmitted(msg)
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.busy {
		return m, nil
	}

	view := m.ctrl.Snapshot()
	switch view.State {
	case session.AwaitingInput:
		return m.updateForm(msg, view)
	case session.MisuseBlocked:
		return m.updateBlocked(msg)
	case session.Analyzing:
		return m, nil
	}
	return m.updateLog(msg, view)
}

func (m Model) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.form = nil

	switch {
	case msg.err == nil:
		m.cursor = 0
		m.setStatus(fmt.Sprintf("✓ Logged %s (%s kcal)", msg.entry.Name, cli.FormatAmount(msg.entry.Calories)), false)
		return m, nil
	case errors.Is(msg.err, session.ErrMisuseBlocked):
		return m, nil
	}

	logger.Debug("submission failed", "error", msg.err)
	view := m.ctrl.Snapshot()
	if view.State == session.AwaitingInput {
		return m.newForm(view.Mode)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg, view session.View) (tea.Model, tea.Cmd) {
	// The controller may have switched modes, e.g. to text after an image failure
	if m.form == nil || m.formMode != view.Mode {
		return m.newForm(view.Mode)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m.cancelForm()
		case keyMsg.String() == "ctrl+t" && view.Mode == session.ModeImage:
			if err := m.ctrl.UseText(); err != nil {
				return m, nil
			}
			m.inputErr = ""
			return m.newForm(session.ModeText)
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		value := strings.TrimSpace(*m.formValue)
		if m.formMode == session.ModeImage {
			img, err := imageinput.Load(utils.ExpandHome(value))
			if err != nil {
				m.inputErr = err.Error()
				return m.newForm(session.ModeImage)
			}
			m.inputErr = ""
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, submitImage(m.ctrl, img))
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, submitText(m.ctrl, value))
	case huh.StateAborted:
		return m.cancelForm()
	}
	return m, cmd
}

// cancelForm steps back: text returns to the photo form, photo closes the capture.
func (m Model) cancelForm() (tea.Model, tea.Cmd) {
	m.inputErr = ""
	if err := m.ctrl.Cancel(); err != nil {
		m.form = nil
		return m, nil
	}
	view := m.ctrl.Snapshot()
	if view.State == session.AwaitingInput {
		return m.newForm(view.Mode)
	}
	m.form = nil
	return m, nil
}

func (m Model) updateBlocked(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "enter", "esc", "q", " ":
		if err := m.ctrl.AcknowledgeMisuse(); err != nil {
			logger.Warn("failed to leave misuse screen", "error", err)
		}
		m.form = nil
	}
	return m, nil
}

func (m Model) updateLog(msg tea.Msg, view session.View) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.screen {
	case screenConfirmDelete:
		return m.confirmDelete(keyMsg), nil
	case screenConfirmNewDay:
		return m.confirmNewDay(keyMsg), nil
	}

	if view.ResetNotice {
		m.ctrl.DismissResetNotice()
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(view.Entries)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Photo):
		if err := m.ctrl.Open(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.status = ""
		return m.newForm(session.ModeImage)
	case key.Matches(keyMsg, m.keys.Text):
		if err := m.ctrl.Open(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		if err := m.ctrl.UseText(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.status = ""
		return m.newForm(session.ModeText)
	case key.Matches(keyMsg, m.keys.Delete):
		if len(view.Entries) == 0 {
			return m, nil
		}
		m.pendingDelete = view.Entries[min(m.cursor, len(view.Entries)-1)]
		m.screen = screenConfirmDelete
	case key.Matches(keyMsg, m.keys.NewDay):
		m.screen = screenConfirmNewDay
	}
	return m, nil
}

func (m Model) confirmDelete(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		if err := m.ctrl.DeleteItem(m.pendingDelete.ID); err != nil {
			m.setStatus(fmt.Sprintf("Delete failed: %v", err), true)
		} else {
			m.setStatus(fmt.Sprintf("Deleted %s", m.pendingDelete.Name), false)
			if n := len(m.ctrl.Snapshot().Entries); m.cursor >= n && n > 0 {
				m.cursor = n - 1
			}
		}
		m.screen = screenLog
	case "n", "N", "esc":
		m.screen = screenLog
	}
	return m
}

func (m Model) confirmNewDay(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		if _, err := m.ctrl.NewDay(); err != nil {
			m.setStatus(fmt.Sprintf("New day failed: %v", err), true)
		} else {
			m.status = ""
			m.cursor = 0
		}
		m.screen = screenLog
	case "n", "N", "esc":
		m.screen = screenLog
	}
	return m
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}
