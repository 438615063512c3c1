package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/shyft/internal/models"
	"github.com/balkashynov/shyft/internal/session"
)

// phase is what the session screen is showing
type phase int

const (
	phaseShared phase = iota
	phaseAttempt
	phaseAnother
	phaseConfirmCancel
	phaseDone
)

// Shared field steps
const (
	sharedModel = iota
	sharedProject
	sharedRate
	sharedFieldCount
)

// Attempt field steps; the first four are text inputs
const (
	fieldPlatform = iota
	fieldPermalink
	fieldResponse1
	fieldResponse2
	fieldRank
	fieldJustification
	attemptFieldCount
)

var sharedLabels = [sharedFieldCount]string{"Model ID", "Project ID", "Hourly rate"}

var attemptLabels = [attemptFieldCount]string{
	"Platform ID", "Permalink", "Response 1 ID", "Response 2 ID", "Rank", "Justification",
}

// fieldForError maps a controller validation field to a form step
var fieldForError = map[string]int{
	"platform_id":   fieldPlatform,
	"permalink":     fieldPermalink,
	"response_1_id": fieldResponse1,
	"response_2_id": fieldResponse2,
	"rank":          fieldRank,
	"justification": fieldJustification,
}

// SessionOptions tune the session screen
type SessionOptions struct {
	// TimerTopmost pins the clock panel above the form
	TimerTopmost bool
	Prefill      session.SharedInput
}

// SessionModel is the guided session screen. It only calls controller
// operations and renders their results.
type SessionModel struct {
	ctrl *session.Controller
	opts SessionOptions
	now  func() time.Time

	width  int
	height int
	phase  phase

	shared     []textinput.Model
	sharedStep int

	inputs        []textinput.Model
	justification textarea.Model
	rankCursor    int // index into models.Ranks, -1 when nothing is chosen
	step          int

	attempt       int
	elapsed       time.Duration
	attemptTime   time.Duration
	modalYes      bool
	skipped       bool // the last attempt ended in a skip
	validationErr string

	result  *session.Finalized
	err     error
	aborted bool
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Width = 60
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return in
}

// NewSessionModel builds the screen for a controller that has already begun
// collecting shared fields
func NewSessionModel(ctrl *session.Controller, opts SessionOptions) SessionModel {
	shared := []textinput.Model{
		newInput("Model ID, e.g. GPT-4O (required)", 50),
		newInput("Project ID (required)", 50),
		newInput("Hourly rate, e.g. 20 or $22.50 (required)", 12),
	}
	shared[sharedModel].SetValue(opts.Prefill.ModelID)
	shared[sharedProject].SetValue(opts.Prefill.ProjectID)
	shared[sharedRate].SetValue(opts.Prefill.Rate)
	shared[sharedModel].Focus()

	inputs := []textinput.Model{
		newInput("Task ID from the platform (required)", 100),
		newInput("Link to the task (required)", 500),
		newInput("ID of response 1 (required)", 100),
		newInput("ID of response 2 (required)", 100),
	}

	ta := textarea.New()
	ta.Placeholder = "Why this rank? (required unless rejected)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 5000
	ta.SetWidth(60)
	ta.SetHeight(6)

	return SessionModel{
		ctrl:          ctrl,
		opts:          opts,
		now:           time.Now,
		phase:         phaseShared,
		shared:        shared,
		inputs:        inputs,
		justification: ta,
		rankCursor:    -1,
	}
}

// Result is the finalized session, nil when aborted before finalization
func (m SessionModel) Result() *session.Finalized {
	return m.result
}

// Err is the error that ended the session, if any
func (m SessionModel) Err() error {
	return m.err
}

// Aborted reports whether the session ended during shared fields
func (m SessionModel) Aborted() bool {
	return m.aborted
}

// Init starts the cursor blink and the clock poll
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickClock())
}

// Update handles messages
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		if m.phase == phaseDone {
			return m, nil
		}
		m.refreshClock()
		return m, tickClock()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputWidth := m.width/2 - 10
		if inputWidth < 30 {
			inputWidth = 30
		}
		if inputWidth > 80 {
			inputWidth = 80
		}
		for i := range m.shared {
			m.shared[i].Width = inputWidth
		}
		for i := range m.inputs {
			m.inputs[i].Width = inputWidth
		}
		m.justification.SetWidth(inputWidth)
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case phaseShared:
			return m.updateShared(msg)
		case phaseAttempt:
			return m.updateAttempt(msg)
		case phaseAnother, phaseConfirmCancel:
			return m.updateModal(msg)
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *SessionModel) refreshClock() {
	m.elapsed = m.ctrl.Elapsed()
	if start := m.ctrl.AttemptStartedAt(); !start.IsZero() {
		m.attemptTime = m.now().Sub(start)
	} else {
		m.attemptTime = 0
	}
}

func (m SessionModel) updateShared(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if err := m.ctrl.AbortSharedFields(); err != nil {
			m.err = err
		}
		m.aborted = true
		m.phase = phaseDone
		return m, tea.Quit

	case "enter", "tab", "down":
		if m.sharedStep < sharedFieldCount-1 {
			m.shared[m.sharedStep].Blur()
			m.sharedStep++
			m.shared[m.sharedStep].Focus()
			return m, textinput.Blink
		}
		return m.submitShared()

	case "shift+tab", "up":
		if m.sharedStep > 0 {
			m.shared[m.sharedStep].Blur()
			m.sharedStep--
			m.shared[m.sharedStep].Focus()
		}
		return m, textinput.Blink
	}

	return m.updateFocused(msg)
}

// submitShared hands the shared fields to the controller. A rejected
// field ends the session since the controller has already aborted it.
func (m SessionModel) submitShared() (tea.Model, tea.Cmd) {
	err := m.ctrl.SubmitSharedFields(session.SharedInput{
		ModelID:   m.shared[sharedModel].Value(),
		ProjectID: m.shared[sharedProject].Value(),
		Rate:      m.shared[sharedRate].Value(),
	})
	if err != nil {
		m.err = err
		m.phase = phaseDone
		return m, tea.Quit
	}
	return m.startAttempt()
}

func (m SessionModel) startAttempt() (tea.Model, tea.Cmd) {
	n, err := m.ctrl.StartAttempt()
	if err != nil {
		m.err = err
		m.phase = phaseDone
		return m, tea.Quit
	}
	m.attempt = n
	m.resetAttemptForm()
	m.phase = phaseAttempt
	m.refreshClock()
	return m, textinput.Blink
}

func (m *SessionModel) resetAttemptForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.justification.Reset()
	m.rankCursor = -1
	m.validationErr = ""
	m.focusStep(fieldPlatform)
}

// focusStep moves keyboard focus to one attempt field
func (m *SessionModel) focusStep(step int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.justification.Blur()

	m.step = step
	switch {
	case step < len(m.inputs):
		m.inputs[step].Focus()
	case step == fieldJustification:
		m.justification.Focus()
	}
}

func (m SessionModel) updateAttempt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "esc":
		m.phase = phaseConfirmCancel
		m.modalYes = false
		return m, nil
	case "ctrl+s":
		return m.submitAttempt()
	case "ctrl+k":
		return m.skipAttempt()
	case "tab":
		m.focusStep((m.step + 1) % attemptFieldCount)
		return m, textinput.Blink
	case "shift+tab":
		m.focusStep((m.step + attemptFieldCount - 1) % attemptFieldCount)
		return m, textinput.Blink
	}

	if m.step == fieldRank {
		switch key {
		case "up", "k":
			if m.rankCursor > 0 {
				m.rankCursor--
			} else {
				m.rankCursor = 0
			}
		case "down", "j":
			if m.rankCursor < len(models.Ranks)-1 {
				m.rankCursor++
			}
		case "1", "2", "3", "4", "5", "6":
			m.rankCursor = int(key[0] - '1')
		case "enter":
			m.focusStep(fieldJustification)
			return m, textarea.Blink
		}
		return m, nil
	}

	if m.step < len(m.inputs) {
		switch key {
		case "enter", "down":
			m.focusStep(m.step + 1)
			return m, textinput.Blink
		case "up":
			if m.step > 0 {
				m.focusStep(m.step - 1)
			}
			return m, textinput.Blink
		}
	}

	return m.updateFocused(msg)
}

func (m SessionModel) selectedRank() models.Rank {
	if m.rankCursor < 0 || m.rankCursor >= len(models.Ranks) {
		return models.RankNone
	}
	return models.Ranks[m.rankCursor]
}

func (m SessionModel) submitAttempt() (tea.Model, tea.Cmd) {
	_, err := m.ctrl.Submit(session.AttemptInput{
		PlatformID:    m.inputs[fieldPlatform].Value(),
		Permalink:     m.inputs[fieldPermalink].Value(),
		Response1ID:   m.inputs[fieldResponse1].Value(),
		Response2ID:   m.inputs[fieldResponse2].Value(),
		Rank:          m.selectedRank(),
		Justification: m.justification.Value(),
	})
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			m.validationErr = verr.Err.Error()
			if step, ok := fieldForError[verr.Field]; ok {
				m.focusStep(step)
			}
			return m, nil
		}
		m.err = err
		m.phase = phaseDone
		return m, tea.Quit
	}

	m.validationErr = ""
	m.skipped = false
	m.phase = phaseAnother
	m.modalYes = true
	return m, nil
}

func (m SessionModel) skipAttempt() (tea.Model, tea.Cmd) {
	if err := m.ctrl.Skip(); err != nil {
		m.err = err
		m.phase = phaseDone
		return m, tea.Quit
	}
	m.validationErr = ""
	m.skipped = true
	m.phase = phaseAnother
	m.modalYes = true
	m.refreshClock()
	return m, nil
}

func (m SessionModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab":
		m.modalYes = !m.modalYes
		return m, nil
	case "y", "Y":
		m.modalYes = true
		return m.chooseModal()
	case "n", "N":
		m.modalYes = false
		return m.chooseModal()
	case "enter":
		return m.chooseModal()
	case "esc":
		if m.phase == phaseConfirmCancel {
			m.modalYes = false
			return m.chooseModal()
		}
	case "ctrl+c":
		// Another task? -> no; end session? -> yes
		m.modalYes = m.phase == phaseConfirmCancel
		return m.chooseModal()
	}
	return m, nil
}

func (m SessionModel) chooseModal() (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseAnother:
		if m.modalYes {
			return m.startAttempt()
		}
		m.result, m.err = m.ctrl.Finish()
		m.phase = phaseDone
		return m, tea.Quit

	case phaseConfirmCancel:
		res, err := m.ctrl.Cancel(m.modalYes)
		if err != nil {
			m.err = err
			m.phase = phaseDone
			return m, tea.Quit
		}
		if res == nil {
			m.phase = phaseAttempt
			return m, textinput.Blink
		}
		m.result = res
		m.phase = phaseDone
		return m, tea.Quit
	}
	return m, nil
}

// updateFocused forwards a message to whichever field has focus
func (m SessionModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.phase {
	case phaseShared:
		m.shared[m.sharedStep], cmd = m.shared[m.sharedStep].Update(msg)
	case phaseAttempt:
		switch {
		case m.step < len(m.inputs):
			m.inputs[m.step], cmd = m.inputs[m.step].Update(msg)
		case m.step == fieldJustification:
			m.justification, cmd = m.justification.Update(msg)
		}
	}
	return m, cmd
}

// View renders the screen
func (m SessionModel) View() string {
	if m.phase == phaseDone {
		return ""
	}

	switch m.phase {
	case phaseAnother:
		verb, hint := "saved", "No ends the shift and saves it"
		if m.skipped {
			verb = "skipped"
		}
		if len(m.ctrl.Attempts()) == 0 {
			hint = "No ends the session without saving a shift"
		}
		return confirmModal{
			question: fmt.Sprintf("Task %d %s. Attempt another task?", m.attempt, verb),
			hint:     hint,
			yes:      m.modalYes,
		}.render(m.width, m.height)
	case phaseConfirmCancel:
		return confirmModal{
			question: "Cancel? This ends the whole session.",
			hint:     "Nothing from this session will be saved. Esc to go back",
			yes:      m.modalYes,
			accent:   ColorWarning,
		}.render(m.width, m.height)
	}

	form := m.renderForm()
	help := m.renderHelpBar()

	if m.opts.TimerTopmost || m.width < 90 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.clock().render(max(m.width, 40), 0),
			"",
			form,
			help,
		)
	}

	leftWidth := m.width/2 - 2
	rightWidth := m.width - leftWidth - 4
	contentHeight := m.height - 3

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(contentHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1).
		Render(form)
	right := m.clock().render(rightWidth, contentHeight)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
		help,
	)
}

func (m SessionModel) clock() clockPanel {
	shared := m.ctrl.Shared()
	c := clockPanel{
		elapsed:     m.elapsed,
		attemptTime: m.attemptTime,
		submitted:   len(m.ctrl.Attempts()),
		modelID:     shared.ModelID,
		projectID:   shared.ProjectID,
	}
	if m.phase == phaseAttempt {
		c.attempt = m.attempt
	}
	if m.elapsed > 0 {
		c.startedAt = m.now().Add(-m.elapsed)
	}
	return c
}

func (m SessionModel) renderForm() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	var labels []string
	var current int
	var done func(int) bool
	if m.phase == phaseShared {
		b.WriteString(titleStyle.Render("🧾 Shift setup"))
		labels = sharedLabels[:]
		current = m.sharedStep
		done = func(i int) bool { return strings.TrimSpace(m.shared[i].Value()) != "" }
	} else {
		b.WriteString(titleStyle.Render(fmt.Sprintf("📝 Task %d", m.attempt)))
		labels = attemptLabels[:]
		current = m.step
		done = m.attemptStepHasValue
	}
	b.WriteString("\n\n")

	currentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	for i, label := range labels {
		switch {
		case i == current:
			b.WriteString(currentStyle.Render("▶ " + label))
		case done(i):
			b.WriteString(doneStyle.Render("✓ " + label))
		default:
			b.WriteString(pendingStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	b.WriteString(labelStyle.Render(labels[current]))
	b.WriteString("\n")

	switch {
	case m.phase == phaseShared:
		b.WriteString(m.shared[m.sharedStep].View())
	case m.step < len(m.inputs):
		b.WriteString(m.inputs[m.step].View())
	case m.step == fieldRank:
		b.WriteString(m.renderRankPicker())
	case m.step == fieldJustification:
		b.WriteString(m.justification.View())
	}

	if m.validationErr != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			MarginTop(1)
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("❌ " + m.validationErr))
	}

	return b.String()
}

func (m SessionModel) attemptStepHasValue(step int) bool {
	switch {
	case step < len(m.inputs):
		return strings.TrimSpace(m.inputs[step].Value()) != ""
	case step == fieldRank:
		return m.rankCursor >= 0
	case step == fieldJustification:
		return strings.TrimSpace(m.justification.Value()) != ""
	}
	return false
}

func (m SessionModel) renderRankPicker() string {
	selected := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	plain := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	var rows []string
	for i, r := range models.Ranks {
		line := fmt.Sprintf("%d. %s", i+1, r)
		if i == m.rankCursor {
			rows = append(rows, selected.Render("▶ "+line))
		} else {
			rows = append(rows, plain.Render("  "+line))
		}
	}
	return strings.Join(rows, "\n")
}

func (m SessionModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)

	text := "enter next · shift+tab back · esc abort"
	if m.phase == phaseAttempt {
		text = "tab next · shift+tab back · ↑/↓ or 1-6 rank · ctrl+s submit · ctrl+k skip · esc end session"
	}
	return helpStyle.Render(text)
}
