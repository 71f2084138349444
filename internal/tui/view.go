package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/session"
	"github.com/julianstephens/nutrilog/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	view := m.ctrl.Snapshot()

	var content string
	switch {
	case m.busy || view.State == session.Analyzing:
		content = m.viewAnalyzing()
	case view.State == session.AwaitingInput:
		content = m.viewForm(view)
	case view.State == session.MisuseBlocked:
		content = m.viewBlocked()
	case m.screen == screenConfirmDelete:
		content = m.viewConfirm(dangerStyle.Render(fmt.Sprintf("Delete %s?", m.pendingDelete.Name)))
	case m.screen == screenConfirmNewDay:
		content = m.viewConfirm(warningStyle.Render("Start a new day? Today's entries will be removed."))
	default:
		content = m.viewLog(view)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewBanners(view),
		content,
		"",
		m.help.View(m.keys),
	))
}

func (m Model) viewHeader() string {
	now := m.clock.Now().In(m.clock.Location())
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(constants.AppName),
		mutedStyle.Render("  "+now.Format("Monday, January 2")),
	)
}

func (m Model) viewBanners(view session.View) string {
	var lines []string
	if view.APIKeyMissing {
		lines = append(lines, warningStyle.Render("⚠ No API key configured. Set NUTRILOG_API_KEY or run 'nutrilog key set'."))
	}
	if view.ResetNotice {
		lines = append(lines, successStyle.Render("✓ New day started. Today's entries were cleared."))
	}
	if view.Uncertain && view.State == session.Idle {
		lines = append(lines, warningStyle.Render("⚠ Could not confirm the last description was about food; it was logged anyway."))
	}
	if m.status != "" {
		if m.statusErr {
			lines = append(lines, dangerStyle.Render(m.status))
		} else {
			lines = append(lines, successStyle.Render(m.status))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m Model) viewLog(view session.View) string {
	s := view.Stats
	stats := []string{
		fmt.Sprintf("Today: %s kcal from %d entries", cli.FormatAmount(s.Calories), s.Count),
		cli.FormatMacros(s.Protein, s.Carbs, s.Fat),
	}
	if s.Count > 0 {
		stats = append(stats, cli.FormatSplit(s.Split))
	}
	stats = append(stats, mutedStyle.Render("Last reset: "+utils.FormatLastReset(view.LastReset, m.clock.Now(), m.clock.Location())))

	var list strings.Builder
	if len(view.Entries) == 0 {
		list.WriteString(mutedStyle.Render("Nothing logged yet. Press a to add a photo or t to describe a meal."))
	}
	for i, e := range view.Entries {
		line := cli.FormatEntry(e, m.clock.Location())
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		list.WriteString(line + "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		panelStyle.Render(strings.Join(stats, "\n")),
		"",
		list.String(),
	)
}

func (m Model) viewForm(view session.View) string {
	var b strings.Builder
	b.WriteString("\n")
	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n")
	}
	if view.Error != "" {
		b.WriteString(dangerStyle.Render(view.Error) + "\n")
	}
	if m.inputErr != "" {
		b.WriteString(dangerStyle.Render(m.inputErr) + "\n")
	}
	if view.Mode == session.ModeImage {
		b.WriteString(mutedStyle.Render("enter analyze · ctrl+t describe in text instead · esc cancel"))
	} else {
		b.WriteString(mutedStyle.Render("enter analyze · esc back to photo"))
	}
	return b.String()
}

func (m Model) viewAnalyzing() string {
	return fmt.Sprintf("\n%s Analyzing your meal...", m.spinner.View())
}

func (m Model) viewBlocked() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		dangerStyle.Render("That doesn't look like a food or nutrition description."),
		"Nothing was logged. Describe a meal, snack or drink to estimate its nutrition.",
		"",
		mutedStyle.Render("press enter to return"),
	)
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		question,
		"",
		"[y] Yes",
		"[n] No",
	)
}
