package session

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/shyft/internal/models"
	"github.com/balkashynov/shyft/internal/parser"
	"github.com/balkashynov/shyft/internal/pay"
	"github.com/balkashynov/shyft/internal/sleepguard"
	"github.com/balkashynov/shyft/internal/stopwatch"
)

// ShiftStore is the subset of the store a session writes to
type ShiftStore interface {
	NextID() string
	Add(id string, rec models.ShiftRecord) error
}

// Exporter renders a finished shift to disk
type Exporter interface {
	Export(id string, attempts []models.TaskAttempt) (string, error)
}

// Archiver mirrors finished attempts somewhere searchable
type Archiver interface {
	Record(shiftID, sessionID string, attempts []models.TaskAttempt) error
}

// SleepGuard keeps the machine awake while a session runs
type SleepGuard interface {
	Acquire() *sleepguard.Handle
	Release(h *sleepguard.Handle)
}

// Deps are the collaborators of a Controller. Store and Exporter are
// required; the rest may be left nil.
type Deps struct {
	Store    ShiftStore
	Exporter Exporter
	Archive  Archiver
	Guard    SleepGuard
	Logger   *slog.Logger
	Now      func() time.Time

	// Stopwatch, when set, is reused instead of creating one per session
	Stopwatch *stopwatch.Stopwatch
}

// Shared holds the fields collected once per session
type Shared struct {
	ModelID   string
	ProjectID string
	Rate      float64
}

// SharedInput is the raw user input for the shared fields
type SharedInput struct {
	ModelID   string
	ProjectID string
	Rate      string
}

// AttemptInput is the raw user input for one task attempt
type AttemptInput struct {
	PlatformID    string
	Permalink     string
	Response1ID   string
	Response2ID   string
	Rank          models.Rank
	Justification string
}

// Finalized is the outcome of ending a session
type Finalized struct {
	SessionID string
	Cancelled bool

	// Persisted is false for cancelled or empty sessions, and when the store failed
	Persisted bool
	ID        string
	Record    models.ShiftRecord
	Attempts  []models.TaskAttempt
	Elapsed   time.Duration

	MarkdownPath string
	ExportErr    error
	ArchiveErr   error
}

// Controller drives one guided session at a time from a single goroutine.
// A poller on another goroutine should hold the *Stopwatch returned by
// Stopwatch and call its Elapsed, which is safe for concurrent use.
type Controller struct {
	deps Deps
	base *slog.Logger
	log  *slog.Logger
	now  func() time.Time

	state     State
	sessionID string
	shared    Shared
	sw        *stopwatch.Stopwatch
	handle    *sleepguard.Handle

	// per-session arena, dropped wholesale at finalization
	attempts     []models.TaskAttempt
	attemptStart time.Time
}

// New creates an idle controller
func New(deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	base := logger.With("component", "session")
	return &Controller{
		deps:  deps,
		base:  base,
		log:   base,
		now:   now,
		state: Idle,
	}
}

// State returns the current step
func (c *Controller) State() State {
	return c.state
}

// SessionID returns the correlation id of the running session, or "" when idle
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Shared returns the shared fields of the running session
func (c *Controller) Shared() Shared {
	return c.shared
}

// Attempts returns a copy of the attempts submitted so far
func (c *Controller) Attempts() []models.TaskAttempt {
	out := make([]models.TaskAttempt, len(c.attempts))
	copy(out, c.attempts)
	return out
}

// Stopwatch returns the session stopwatch, or nil before the first attempt
func (c *Controller) Stopwatch() *stopwatch.Stopwatch {
	return c.sw
}

// Elapsed returns the running session time
func (c *Controller) Elapsed() time.Duration {
	if sw := c.sw; sw != nil {
		return sw.Elapsed()
	}
	return 0
}

// AttemptStartedAt returns when the current attempt began; zero outside Justifying
func (c *Controller) AttemptStartedAt() time.Time {
	return c.attemptStart
}

// Begin starts collecting the shared fields of a new session
func (c *Controller) Begin() error {
	if c.state != Idle {
		return fmt.Errorf("%w (%s)", ErrSessionActive, c.state)
	}
	c.sessionID = uuid.NewString()
	c.log = c.base.With("session", c.sessionID)
	c.state = CollectingSharedFields
	c.log.Info("session started")
	return nil
}

// SubmitSharedFields validates the session-wide fields. Any failure aborts
// the session back to Idle; nothing has been persisted at this point.
func (c *Controller) SubmitSharedFields(in SharedInput) error {
	if c.state != CollectingSharedFields {
		return transitionErr("submit shared fields", c.state)
	}

	shared, err := validateShared(in)
	if err != nil {
		c.log.Warn("shared fields rejected, session aborted", "error", err)
		c.discard()
		return err
	}

	c.shared = shared
	if c.deps.Guard != nil {
		c.handle = c.deps.Guard.Acquire()
	}
	c.state = AttemptingTask
	c.log.Info("shared fields accepted", "model", shared.ModelID, "project", shared.ProjectID, "rate", shared.Rate)
	return nil
}

// AbortSharedFields cancels the session before any attempt
func (c *Controller) AbortSharedFields() error {
	if c.state != CollectingSharedFields {
		return transitionErr("abort shared fields", c.state)
	}
	c.log.Info("session aborted during shared fields")
	c.discard()
	return nil
}

// StartAttempt opens a new task attempt and returns its 1-based number.
// The stopwatch is started on the first attempt and keeps running.
func (c *Controller) StartAttempt() (int, error) {
	if c.state != AttemptingTask {
		return 0, transitionErr("start attempt", c.state)
	}

	if c.sw == nil {
		if c.deps.Stopwatch != nil {
			c.sw = c.deps.Stopwatch
		} else {
			c.sw = stopwatch.NewWithClock(c.now)
		}
	}
	c.sw.Start()

	c.attemptStart = c.now()
	c.state = Justifying
	n := len(c.attempts) + 1
	c.log.Debug("attempt started", "attempt", n)
	return n, nil
}

// Submit records the current attempt. A ValidationError leaves the
// controller in Justifying with nothing changed.
func (c *Controller) Submit(in AttemptInput) (models.TaskAttempt, error) {
	if c.state != Justifying {
		return models.TaskAttempt{}, transitionErr("submit attempt", c.state)
	}

	attempt, err := validateAttempt(in)
	if err != nil {
		c.log.Debug("attempt rejected", "error", err)
		return models.TaskAttempt{}, err
	}
	attempt.StartedAt = c.attemptStart
	attempt.ResolvedAt = c.now()

	c.attempts = append(c.attempts, attempt)
	c.attemptStart = time.Time{}
	c.state = AttemptingTask
	c.log.Info("attempt submitted",
		"attempt", len(c.attempts),
		"platform_id", attempt.PlatformID,
		"duration", models.FormatHHMM(attempt.Duration()))
	return attempt, nil
}

// Skip discards the current attempt. The stopwatch keeps running.
func (c *Controller) Skip() error {
	if c.state != Justifying {
		return transitionErr("skip attempt", c.state)
	}
	c.attemptStart = time.Time{}
	c.state = AttemptingTask
	c.log.Info("attempt skipped", "attempt", len(c.attempts)+1)
	return nil
}

// Cancel ends the whole session from Justifying. Without confirmation it
// does nothing and returns a nil result. A confirmed cancel persists nothing.
func (c *Controller) Cancel(confirmed bool) (*Finalized, error) {
	if c.state != Justifying {
		return nil, transitionErr("cancel", c.state)
	}
	if !confirmed {
		return nil, nil
	}
	return c.finalize(true)
}

// Finish ends the session after the last attempt and persists the shift
func (c *Controller) Finish() (*Finalized, error) {
	if c.state != AttemptingTask {
		return nil, transitionErr("finish", c.state)
	}
	return c.finalize(false)
}

func (c *Controller) finalize(cancel bool) (*Finalized, error) {
	c.state = Finalizing
	defer c.cleanup()

	res := &Finalized{
		SessionID: c.sessionID,
		Cancelled: cancel,
	}
	if !cancel {
		res.Attempts = c.Attempts()
	}

	if cancel || len(c.attempts) == 0 {
		c.log.Info("session ended without a shift", "cancelled", cancel, "attempts", len(c.attempts))
		return res, nil
	}

	c.sw.Stop()
	elapsed := c.sw.Elapsed()
	now := c.now()
	hours := elapsed.Seconds() / 3600

	durations := make(models.TaskDurations, 0, len(c.attempts))
	for _, a := range c.attempts {
		durations = append(durations, models.TaskDuration{Duration: models.FormatHHMM(a.Duration())})
	}

	rec := models.ShiftRecord{
		Date:           now.Format(parser.DateLayout),
		ModelID:        c.shared.ModelID,
		ProjectID:      c.shared.ProjectID,
		ClockIn:        now.Add(-elapsed).Format(pay.ClockLayout),
		ClockOut:       now.Format(pay.ClockLayout),
		DurationHours:  models.Decimal(pay.Round2(hours)),
		HourlyRate:     models.Decimal(c.shared.Rate),
		GrossPay:       models.Decimal(pay.GrossPay(hours, c.shared.Rate)),
		TasksCompleted: models.Count(len(c.attempts)),
		TaskDurations:  durations,
	}
	res.Elapsed = elapsed
	res.Record = rec

	id := c.deps.Store.NextID()
	res.ID = id
	if err := c.deps.Store.Add(id, rec); err != nil {
		c.log.Error("failed to persist shift", "id", id, "error", err)
		return res, fmt.Errorf("failed to save shift %s: %w", id, err)
	}
	res.Persisted = true
	c.log.Info("shift saved", "id", id, "hours", rec.DurationHours.String(), "tasks", len(c.attempts))

	path, err := c.deps.Exporter.Export(id, res.Attempts)
	if err != nil {
		c.log.Error("markdown export failed", "id", id, "error", err)
		res.ExportErr = err
	} else {
		res.MarkdownPath = path
		c.log.Debug("markdown exported", "id", id, "path", path)
	}

	if c.deps.Archive != nil {
		if err := c.deps.Archive.Record(id, c.sessionID, res.Attempts); err != nil {
			c.log.Warn("attempt archive failed", "id", id, "error", err)
			res.ArchiveErr = err
		}
	}

	return res, nil
}

// cleanup releases the session resources and returns to Idle
func (c *Controller) cleanup() {
	if c.sw != nil {
		c.sw.Reset()
	}
	if c.deps.Guard != nil && c.handle != nil {
		c.deps.Guard.Release(c.handle)
	}
	c.discard()
}

// discard drops all per-session state
func (c *Controller) discard() {
	c.state = Idle
	c.sessionID = ""
	c.shared = Shared{}
	c.sw = nil
	c.handle = nil
	c.attempts = nil
	c.attemptStart = time.Time{}
	c.log = c.base
}

func validateShared(in SharedInput) (Shared, error) {
	model, err := parser.NormalizeID("model ID", in.ModelID)
	if err != nil {
		return Shared{}, &ValidationError{Field: "model_id", Err: err}
	}
	project, err := parser.NormalizeID("project ID", in.ProjectID)
	if err != nil {
		return Shared{}, &ValidationError{Field: "project_id", Err: err}
	}
	rate, err := pay.ParseRate(in.Rate)
	if err != nil {
		return Shared{}, &ValidationError{Field: "hourly_rate", Err: err}
	}
	return Shared{ModelID: model, ProjectID: project, Rate: rate}, nil
}

func validateAttempt(in AttemptInput) (models.TaskAttempt, error) {
	a := models.TaskAttempt{
		PlatformID:    strings.TrimSpace(in.PlatformID),
		Permalink:     strings.TrimSpace(in.Permalink),
		Response1ID:   strings.TrimSpace(in.Response1ID),
		Response2ID:   strings.TrimSpace(in.Response2ID),
		Rank:          in.Rank,
		Justification: strings.TrimSpace(in.Justification),
	}

	switch {
	case a.PlatformID == "":
		return a, invalid("platform_id", "platform ID is required")
	case a.Permalink == "":
		return a, invalid("permalink", "permalink is required")
	case a.Response1ID == "":
		return a, invalid("response_1_id", "response 1 ID is required")
	case a.Response2ID == "":
		return a, invalid("response_2_id", "response 2 ID is required")
	case !a.Rank.Valid():
		return a, invalid("rank", "select a rank")
	case a.Justification == "" && a.Rank != models.RankRejected:
		return a, invalid("justification", "justification is required")
	}
	return a, nil
}
