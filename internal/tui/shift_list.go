package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/shyft/internal/models"
)

// ShiftRow is one shift shown in the list
type ShiftRow struct {
	ID     string
	Record models.ShiftRecord
}

// SortedRows returns the shifts ordered by id
func SortedRows(shifts map[string]models.ShiftRecord) []ShiftRow {
	rows := make([]ShiftRow, 0, len(shifts))
	for id, rec := range shifts {
		rows = append(rows, ShiftRow{ID: id, Record: rec})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// ShiftListModel browses logged shifts
type ShiftListModel struct {
	width  int
	height int

	all      []ShiftRow
	visible  []ShiftRow
	selected int

	searching bool
	query     string

	page    int
	perPage int
}

// NewShiftListModel starts with the newest shift selected
func NewShiftListModel(rows []ShiftRow) ShiftListModel {
	m := ShiftListModel{all: rows, visible: rows, perPage: 10}
	if len(rows) > 0 {
		m.selected = len(rows) - 1
		m.page = m.selected / m.perPage
	}
	return m
}

// Init does nothing; the list is static
func (m ShiftListModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ShiftListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.perPage = max(m.height-10, 3)
		m.page = m.selected / m.perPage
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg), nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.query != "" {
				m.query = ""
				m = m.applyFilter()
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
		case "left", "h":
			if m.page > 0 {
				m.selected = (m.page - 1) * m.perPage
			}
		case "right", "l":
			if next := (m.page + 1) * m.perPage; next < len(m.visible) {
				m.selected = next
			}
		case "/":
			m.searching = true
		}
		m.page = m.selected / max(m.perPage, 1)
	}
	return m, nil
}

func (m ShiftListModel) handleSearchKeys(msg tea.KeyMsg) ShiftListModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
	}
	return m.applyFilter()
}

// applyFilter keeps the shifts whose id, date, model or project contain the query
func (m ShiftListModel) applyFilter() ShiftListModel {
	q := strings.ToLower(strings.TrimSpace(m.query))
	if q == "" {
		m.visible = m.all
	} else {
		m.visible = nil
		for _, row := range m.all {
			haystack := strings.ToLower(strings.Join([]string{
				row.ID, row.Record.Date, row.Record.ModelID, row.Record.ProjectID,
			}, " "))
			if strings.Contains(haystack, q) {
				m.visible = append(m.visible, row)
			}
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
	m.page = m.selected / max(m.perPage, 1)
	return m
}

// Selected returns the highlighted shift
func (m ShiftListModel) Selected() (ShiftRow, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return ShiftRow{}, false
	}
	return m.visible[m.selected], true
}

// View renders the list
func (m ShiftListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTable(leftWidth),
		" ",
		m.renderDetails(rightWidth),
	)

	bottom := m.renderHelpBar()
	if m.searching {
		bottom = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorBorder)).
			Padding(0, 1).
			Width(m.width - 2).
			Render("Search: " + m.query + "█")
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

func (m ShiftListModel) renderTable(width int) string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(header.Render("📋 Shifts"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("No shifts found"))
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}

	b.WriteString(header.Render(fmt.Sprintf("%-5s %-10s %-14s %-14s %6s %9s", "ID", "DATE", "MODEL", "PROJECT", "HOURS", "GROSS")))
	b.WriteString("\n")

	start := m.page * m.perPage
	end := min(start+m.perPage, len(m.visible))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	selStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	for i := start; i < end; i++ {
		row := m.visible[i]
		line := fmt.Sprintf("%-5s %-10s %-14s %-14s %6s %9s",
			row.ID,
			row.Record.Date,
			truncate(row.Record.ModelID, 14),
			truncate(row.Record.ProjectID, 14),
			row.Record.DurationHours.String(),
			"$"+row.Record.GrossPay.String())
		if i == m.selected {
			b.WriteString(selStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	pages := (len(m.visible) + m.perPage - 1) / m.perPage
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(fmt.Sprintf("\nPage %d/%d · %d shifts", m.page+1, pages, len(m.visible))))

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Render(b.String())
}

func (m ShiftListModel) renderDetails(width int) string {
	row, ok := m.Selected()
	if !ok {
		return ""
	}
	rec := row.Record

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render("Shift " + row.ID))
	b.WriteString("\n\n")

	fields := [][2]string{
		{"Date", rec.Date},
		{"Model", rec.ModelID},
		{"Project", rec.ProjectID},
		{"In / Out", rec.ClockIn + " → " + rec.ClockOut},
		{"Hours", rec.DurationHours.String()},
		{"Rate", "$" + rec.HourlyRate.String()},
		{"Gross", "$" + rec.GrossPay.String()},
		{"Tasks", fmt.Sprint(int(rec.TasksCompleted))},
	}
	for _, f := range fields {
		b.WriteString(label.Render(fmt.Sprintf("%-9s", f[0])))
		b.WriteString(value.Render(f[1]))
		b.WriteString("\n")
	}

	if len(rec.TaskDurations) > 0 {
		b.WriteString("\n")
		b.WriteString(label.Render("Task durations"))
		b.WriteString("\n")
		for i, td := range rec.TaskDurations {
			b.WriteString(fmt.Sprintf("  %2d. %s\n", i+1, td.Duration))
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(0, 1).
		Render(b.String())
}

func (m ShiftListModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/↓ nav · ←/→ page · / filter · q/esc quit")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
