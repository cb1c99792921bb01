package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/transitoria/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(m.settings.AppName))
	b.WriteString("  ")
	b.WriteString(m.theme.Subtitle.Render(m.filterLine()))
	b.WriteString("\n")
	b.WriteString(m.summaryLine())
	b.WriteString("\n\n")

	switch m.mode {
	case ModeIssues:
		b.WriteString(m.issuesView())
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	if m.mode == ModeComment {
		b.WriteString(m.theme.Box.Render(m.input.View()))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(m.theme.Error.Render("✗ " + m.err.Error()))
	case m.status != "":
		b.WriteString(m.theme.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) filterLine() string {
	small := "alle bedragen"
	if m.criteria.HideSmall {
		small = "kleine bedragen verborgen"
	}
	return fmt.Sprintf("periode %s | %s | %d regels", m.criteria.Preset, small, len(m.ids))
}

func (m Model) summaryLine() string {
	s := m.store.Summary()
	parts := []string{
		fmt.Sprintf("Open %d", s.Pending),
		m.theme.Success.Render(fmt.Sprintf("Goedgekeurd %d", s.Approved)),
		m.theme.Error.Render(fmt.Sprintf("Correctie %d", s.Corrected)),
		fmt.Sprintf("Hoog risico %d", s.HighRisk),
	}
	if m.analyzing {
		parts = append(parts, m.theme.Status.Render("analyse bezig"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) issuesView() string {
	issues := m.store.CompletenessIssues()
	if len(issues) == 0 {
		return m.theme.Subtitle.Render("Geen ontbrekende posten gevonden.")
	}
	lines := make([]string, 0, len(issues)+1)
	lines = append(lines, m.theme.Title.Render("Volledigheidscontrole"))
	for _, issue := range issues {
		lines = append(lines, issueLine(issue))
	}
	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func issueLine(issue model.CompletenessIssue) string {
	return fmt.Sprintf("• %s (%s, %.0f%%)", issue.Description, issue.ExpectedPeriod, issue.Confidence*100)
}
