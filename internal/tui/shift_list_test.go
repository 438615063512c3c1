package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/shyft/internal/models"
)

func secondsToDuration(s int64) time.Duration {
	return time.Duration(s) * time.Second
}

func sampleRows() []ShiftRow {
	return SortedRows(map[string]models.ShiftRecord{
		"0002": {Date: "2024-06-02", ModelID: "GPT-X", ProjectID: "ALPHA", DurationHours: 2, GrossPay: 40},
		"0001": {Date: "2024-06-01", ModelID: "CLAUDE", ProjectID: "BETA", DurationHours: 1, GrossPay: 20},
		"0003": {Date: "2024-06-03", ModelID: "GPT-X", ProjectID: "BETA", DurationHours: 3, GrossPay: 60},
	})
}

func TestSortedRows(t *testing.T) {
	rows := sampleRows()
	if rows[0].ID != "0001" || rows[2].ID != "0003" {
		t.Fatalf("rows not sorted: %v %v %v", rows[0].ID, rows[1].ID, rows[2].ID)
	}
}

func TestShiftListNavigationAndFilter(t *testing.T) {
	var m tea.Model = NewShiftListModel(sampleRows())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	sel, _ := m.(ShiftListModel).Selected()
	if sel.ID != "0003" {
		t.Fatalf("initial selection = %s, want newest", sel.ID)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if sel, _ := m.(ShiftListModel).Selected(); sel.ID != "0002" {
		t.Fatalf("after up = %s", sel.ID)
	}

	for _, msg := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("beta")},
		tea.KeyMsg{Type: tea.KeyEnter},
	} {
		m, _ = m.Update(msg)
	}
	lm := m.(ShiftListModel)
	if len(lm.visible) != 2 {
		t.Fatalf("filter kept %d rows, want 2", len(lm.visible))
	}
	if lm.View() == "" {
		t.Error("empty view")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := len(m.(ShiftListModel).visible); got != 3 {
		t.Errorf("esc should clear the filter, got %d rows", got)
	}
}
