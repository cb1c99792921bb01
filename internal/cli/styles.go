// Package cli renders the review state for the terminal using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/transitoria/internal/config"
)

var (
	// PrimaryColor follows the configured theme.
	PrimaryColor = lipgloss.Color("#52939D")
	// AccentColor follows the configured theme.
	AccentColor = lipgloss.Color("#E8B04B")
	// SuccessColor indicates approved items and successful operations.
	SuccessColor = lipgloss.Color("#2E7B57")
	// WarningColor indicates pending items and warnings.
	WarningColor = lipgloss.Color("#E8B04B")
	// ErrorColor indicates high risk, corrections and failures.
	ErrorColor = lipgloss.Color("#BA3B31")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#8A8A8A")

	// Styles below are rebuilt by ApplyTheme.
	TitleStyle       lipgloss.Style
	SubtitleStyle    lipgloss.Style
	SuccessStyle     lipgloss.Style
	WarningStyle     lipgloss.Style
	ErrorStyle       lipgloss.Style
	InfoStyle        lipgloss.Style
	SubtleStyle      lipgloss.Style
	BoldStyle        lipgloss.Style
	BoxStyle         lipgloss.Style
	TableHeaderStyle lipgloss.Style
	BookedBarStyle   lipgloss.Style
	AllocBarStyle    lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyTheme recolours all styles with a theme palette.
func ApplyTheme(p config.Palette) {
	PrimaryColor = lipgloss.Color(p.Primary)
	AccentColor = lipgloss.Color(p.Accent)
	SubtleColor = lipgloss.Color(p.Muted)
	buildStyles()
}

func buildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle = lipgloss.NewStyle().Foreground(PrimaryColor)
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle = lipgloss.NewStyle().Bold(true)
	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2)
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).Padding(0, 1)
	BookedBarStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	AllocBarStyle = lipgloss.NewStyle().Foreground(PrimaryColor)
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
	LedgerIcon  = "📒"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(LedgerIcon + " " + title)
}

// RenderBox renders content in a bordered box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
