package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for identifiable nouns: component names, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "generated" component status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "skipped" component status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" component status.
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (component names, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleBold is used for tree roots.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleMuted is used for tree descriptions.
	StyleMuted = lipgloss.NewStyle().Faint(true)
)

// Component status constants.
const (
	StatusGenerated = "generated"
	StatusPlanned   = "planned"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// StatusStyle returns the style for a component status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusGenerated:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusPlanned:
		return lipgloss.NewStyle().Faint(true)
	case StatusSkipped:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minComponentColumnWidth keeps status words aligned.
const minComponentColumnWidth = 40

// FormatComponentLine renders "c:<kind>/<name>" with a right-aligned status.
func FormatComponentLine(kind, name, status string) string {
	path := fmt.Sprintf("%s/%s", kind, name)

	padding := minComponentColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("c:") + StyleNoun.Render(path) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
