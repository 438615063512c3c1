package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// confirmModal is a yes/no question drawn over the screen
type confirmModal struct {
	question string
	hint     string
	yes      bool
	accent   string
}

// render places the modal in the middle of a width x height screen
func (c confirmModal) render(width, height int) string {
	var content strings.Builder
	content.WriteString(c.question)
	content.WriteString("\n\n")

	yesStyle := lipgloss.NewStyle().Padding(0, 2)
	noStyle := lipgloss.NewStyle().Padding(0, 2)
	if c.yes {
		yesStyle = yesStyle.
			Background(lipgloss.Color(ColorAccentBright)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
	} else {
		noStyle = noStyle.
			Background(lipgloss.Color(ColorError)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
	}

	content.WriteString(lipgloss.JoinHorizontal(
		lipgloss.Center,
		yesStyle.Render("Yes"),
		"   ",
		noStyle.Render("No"),
	))
	content.WriteString("\n\n")
	content.WriteString("← → or Y/N to choose, Enter to confirm")
	if c.hint != "" {
		content.WriteString("\n")
		content.WriteString(c.hint)
	}

	accent := c.accent
	if accent == "" {
		accent = ColorAccentBright
	}
	modal := lipgloss.NewStyle().
		Width(54).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accent)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center).
		Render(content.String())

	if width <= 0 || height <= 0 {
		return modal
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
