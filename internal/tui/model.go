// Package tui is the interactive food log: a bubbletea program driven by a
// session.Controller.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/session"
)

// Clock supplies the day boundary used for display.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type screen int

const (
	screenLog screen = iota
	screenConfirmDelete
	screenConfirmNewDay
)

// submittedMsg carries the outcome of an analysis started from the UI.
type submittedMsg struct {
	entry models.Entry
	err   error
}

type Model struct {
	ctrl    *session.Controller
	clock   Clock
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	form      *huh.Form
	formMode  session.Mode
	formValue *string
	// inputErr is a local problem with the form value, e.g. an unreadable image path
	inputErr string
	// busy is set between dispatching a submission and receiving its result
	busy bool

	screen        screen
	cursor        int
	pendingDelete models.Entry
	status        string
	statusErr     bool

	width    int
	height   int
	quitting bool
}

func New(ctrl *session.Controller, clock Clock) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctrl:    ctrl,
		clock:   clock,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// newForm builds the input form for mode and returns its init command.
func (m Model) newForm(mode session.Mode) (Model, tea.Cmd) {
	value := ""
	m.formValue = &value
	m.formMode = mode

	if mode == session.ModeText {
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title("What did you eat?").
					Description("Be specific, e.g. \"200g grilled chicken breast with rice\".").
					CharLimit(1000).
					Value(m.formValue),
			),
		).WithShowHelp(false)
	} else {
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Photo of your meal").
					Description("Path to a jpeg, png, gif or webp image.").
					Placeholder("~/Pictures/lunch.jpg").
					Value(m.formValue),
			),
		).WithShowHelp(false)
	}
	return m, m.form.Init()
}

func submitText(ctrl *session.Controller, description string) tea.Cmd {
	return func() tea.Msg {
		entry, err := ctrl.SubmitText(context.Background(), description)
		return submittedMsg{entry: entry, err: err}
	}
}

func submitImage(ctrl *session.Controller, img analyzer.Image) tea.Cmd {
	return func() tea.Msg {
		entry, err := ctrl.SubmitImage(context.Background(), img)
		return submittedMsg{entry: entry, err: err}
	}
}
