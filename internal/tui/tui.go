package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/shyft/internal/session"
)

// SessionOutcome is how a session screen ended
type SessionOutcome struct {
	Result  *session.Finalized
	Err     error
	Aborted bool
}

// RunSession runs the guided session screen. The controller must already
// be collecting shared fields.
func RunSession(ctrl *session.Controller, opts SessionOptions) (SessionOutcome, error) {
	model := NewSessionModel(ctrl, opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return SessionOutcome{}, err
	}

	m, ok := finalModel.(SessionModel)
	if !ok {
		return SessionOutcome{}, fmt.Errorf("unexpected model %T", finalModel)
	}
	return SessionOutcome{Result: m.Result(), Err: m.Err(), Aborted: m.Aborted()}, nil
}

// RunShiftList opens the interactive shift browser
func RunShiftList(rows []ShiftRow) error {
	p := tea.NewProgram(NewShiftListModel(rows), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
