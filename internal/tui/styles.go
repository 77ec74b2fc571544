package tui

import "github.com/charmbracelet/lipgloss"

// CursorMarker is the prefix shown on the selected record row.
const CursorMarker = "▸ "

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	draftColor  = lipgloss.AdaptiveColor{Light: "208", Dark: "208"}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	mutedText     = lipgloss.NewStyle().Foreground(dimColor)
	draftBadge    = lipgloss.NewStyle().Foreground(draftColor)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)

// DetailBorder returns the rounded border drawn around the selected record.
func DetailBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1)
}

// DraftBadge renders the marker shown next to an unvalidated phone.
func DraftBadge(draft string) string {
	return draftBadge.Render("draft: " + draft)
}
