package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// clockInterval is how often the clock panel re-reads elapsed time
const clockInterval = 100 * time.Millisecond

// clockTickMsg asks the model to re-read the session stopwatch
type clockTickMsg time.Time

// tickClock schedules the next clock poll. It only produces messages;
// the model reads elapsed time when handling them.
func tickClock() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// bigDigits are 5x5 glyphs for the session clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// clockText formats a session duration as HH:MM:SS
func clockText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// renderBigClock draws d with block glyphs
func renderBigClock(d time.Duration) string {
	var lines [5]strings.Builder
	for _, r := range clockText(d) {
		glyph, ok := bigDigits[r]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rows := make([]string, len(lines))
	for i := range lines {
		rows[i] = style.Render(lines[i].String())
	}
	return strings.Join(rows, "\n")
}

// clockPanel is everything the clock panel shows
type clockPanel struct {
	elapsed     time.Duration
	attemptTime time.Duration
	attempt     int
	submitted   int
	modelID     string
	projectID   string
	startedAt   time.Time
}

// render draws the panel centred in width x height. height <= 0 means
// no vertical padding.
func (c clockPanel) render(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	header := center.
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render("⏱  SHIFT IN PROGRESS  ⏱")

	var components []string
	components = append(components, header)

	if c.modelID != "" {
		components = append(components, center.
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Bold(true).
			Render(fmt.Sprintf("%s · %s", c.modelID, c.projectID)))
	}

	clockLines := strings.Split(renderBigClock(c.elapsed), "\n")
	for i, line := range clockLines {
		clockLines[i] = center.Render(line)
	}
	components = append(components, strings.Join(clockLines, "\n"))

	secondary := center.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)

	var info []string
	if !c.startedAt.IsZero() {
		info = append(info, fmt.Sprintf("Clocked in at %s", c.startedAt.Format("15:04:05")))
	}
	if c.attempt > 0 {
		info = append(info, fmt.Sprintf("Task %d · %s on this task", c.attempt, clockText(c.attemptTime)))
	}
	info = append(info, fmt.Sprintf("%d submitted", c.submitted))
	components = append(components, secondary.Render(strings.Join(info, "\n")))

	content := strings.Join(components, "\n\n")
	if height <= 0 {
		return content
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
