package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/transitoria/internal/config"
)

// Theme holds the styles of the review screen.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Box       lipgloss.Style
	Table     table.Styles
	Primary   lipgloss.Color
	Muted     lipgloss.Color
	Secondary lipgloss.Color
}

// NewTheme builds the styles from a palette.
func NewTheme(p config.Palette) Theme {
	primary := lipgloss.Color(p.Primary)
	secondary := lipgloss.Color(p.Secondary)
	muted := lipgloss.Color(p.Muted)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true).
		Foreground(primary)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(primary).
		Bold(false)

	return Theme{
		Primary:   primary,
		Secondary: secondary,
		Muted:     muted,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtitle:  lipgloss.NewStyle().Foreground(muted),
		Status:    lipgloss.NewStyle().Foreground(secondary),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#BA3B31")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7B57")),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		Table:     ts,
	}
}
