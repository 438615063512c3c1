package session

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/balkashynov/shyft/internal/models"
	"github.com/balkashynov/shyft/internal/sleepguard"
	"github.com/balkashynov/shyft/internal/stopwatch"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeStore struct {
	next  string
	err   error
	added map[string]models.ShiftRecord
	calls int
}

func (s *fakeStore) NextID() string { return s.next }

func (s *fakeStore) Add(id string, rec models.ShiftRecord) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if s.added == nil {
		s.added = map[string]models.ShiftRecord{}
	}
	s.added[id] = rec
	return nil
}

type fakeExporter struct {
	err      error
	calls    int
	attempts []models.TaskAttempt
}

func (e *fakeExporter) Export(id string, attempts []models.TaskAttempt) (string, error) {
	e.calls++
	e.attempts = attempts
	if e.err != nil {
		return "", e.err
	}
	return "/logs/" + id + ".md", nil
}

type fakeArchive struct {
	shiftID   string
	sessionID string
	count     int
}

func (a *fakeArchive) Record(shiftID, sessionID string, attempts []models.TaskAttempt) error {
	a.shiftID, a.sessionID, a.count = shiftID, sessionID, len(attempts)
	return nil
}

type fakeGuard struct {
	acquired int
	released int
}

func (g *fakeGuard) Acquire() *sleepguard.Handle {
	g.acquired++
	return &sleepguard.Handle{}
}

func (g *fakeGuard) Release(h *sleepguard.Handle) {
	if h != nil {
		g.released++
	}
}

type harness struct {
	c       *Controller
	clock   *fakeClock
	store   *fakeStore
	export  *fakeExporter
	archive *fakeArchive
	guard   *fakeGuard
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:   &fakeClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		store:   &fakeStore{next: "0001"},
		export:  &fakeExporter{},
		archive: &fakeArchive{},
		guard:   &fakeGuard{},
	}
	h.c = New(Deps{
		Store:    h.store,
		Exporter: h.export,
		Archive:  h.archive,
		Guard:    h.guard,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      h.clock.Now,
	})
	return h
}

func validShared() SharedInput {
	return SharedInput{ModelID: " gpt-x ", ProjectID: "proj-1", Rate: "20"}
}

func validAttempt(platformID string) AttemptInput {
	return AttemptInput{
		PlatformID:    platformID,
		Permalink:     "https://example.test/" + platformID,
		Response1ID:   "r1",
		Response2ID:   "r2",
		Rank:          models.RankFirstSlightlyBetter,
		Justification: "More complete answer.",
	}
}

// startSession brings the controller to AttemptingTask
func (h *harness) startSession(t *testing.T) {
	t.Helper()
	if err := h.c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := h.c.SubmitSharedFields(validShared()); err != nil {
		t.Fatalf("SubmitSharedFields: %v", err)
	}
}

func (h *harness) attempt(t *testing.T, id string, d time.Duration) {
	t.Helper()
	if _, err := h.c.StartAttempt(); err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	h.clock.Advance(d)
	if _, err := h.c.Submit(validAttempt(id)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestFullSession(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)

	if got := h.c.Shared(); got.ModelID != "GPT-X" || got.ProjectID != "PROJ-1" || got.Rate != 20 {
		t.Fatalf("Shared() = %+v", got)
	}
	if h.guard.acquired != 1 {
		t.Fatalf("guard acquired %d times, want 1", h.guard.acquired)
	}

	h.attempt(t, "T1", 10*time.Minute)
	h.attempt(t, "T2", 5*time.Minute)
	sessionID := h.c.SessionID()

	res, err := h.c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !res.Persisted || res.ID != "0001" || res.Cancelled {
		t.Fatalf("result = %+v", res)
	}

	rec, ok := h.store.added["0001"]
	if !ok {
		t.Fatal("record not added to store")
	}
	want := models.ShiftRecord{
		Date:           "2024-06-01",
		ModelID:        "GPT-X",
		ProjectID:      "PROJ-1",
		ClockIn:        "09:00",
		ClockOut:       "09:15",
		DurationHours:  0.25,
		HourlyRate:     20,
		GrossPay:       5,
		TasksCompleted: 2,
		TaskDurations:  models.TaskDurations{{Duration: "00:10"}, {Duration: "00:05"}},
	}
	if rec.Date != want.Date || rec.ClockIn != want.ClockIn || rec.ClockOut != want.ClockOut ||
		rec.DurationHours != want.DurationHours || rec.GrossPay != want.GrossPay ||
		rec.TasksCompleted != want.TasksCompleted || len(rec.TaskDurations) != 2 ||
		rec.TaskDurations[0] != want.TaskDurations[0] || rec.TaskDurations[1] != want.TaskDurations[1] {
		t.Errorf("record = %+v\nwant     %+v", rec, want)
	}

	if h.export.calls != 1 || len(h.export.attempts) != 2 {
		t.Errorf("exporter calls = %d with %d attempts", h.export.calls, len(h.export.attempts))
	}
	if res.MarkdownPath != "/logs/0001.md" {
		t.Errorf("MarkdownPath = %s", res.MarkdownPath)
	}
	if h.archive.shiftID != "0001" || h.archive.sessionID != sessionID || h.archive.count != 2 {
		t.Errorf("archive = %+v, session %s", h.archive, sessionID)
	}
	if h.guard.released != 1 {
		t.Errorf("guard released %d times, want 1", h.guard.released)
	}
	if h.c.State() != Idle || len(h.c.Attempts()) != 0 || h.c.Stopwatch() != nil {
		t.Errorf("controller not reset: state %s, %d attempts", h.c.State(), len(h.c.Attempts()))
	}
}

func TestSharedFieldFailureAbortsSession(t *testing.T) {
	tests := []struct {
		name  string
		input SharedInput
		field string
	}{
		{"missing model", SharedInput{ModelID: " ", ProjectID: "P", Rate: "20"}, "model_id"},
		{"bad project", SharedInput{ModelID: "M", ProjectID: "has space", Rate: "20"}, "project_id"},
		{"bad rate", SharedInput{ModelID: "M", ProjectID: "P", Rate: "abc"}, "hourly_rate"},
		{"negative rate", SharedInput{ModelID: "M", ProjectID: "P", Rate: "-5"}, "hourly_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.c.Begin(); err != nil {
				t.Fatal(err)
			}
			err := h.c.SubmitSharedFields(tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
			if h.c.State() != Idle {
				t.Errorf("State() = %s, want idle", h.c.State())
			}
			if h.guard.acquired != 0 {
				t.Error("guard acquired for an aborted session")
			}
		})
	}
}

func TestAbortSharedFields(t *testing.T) {
	h := newHarness(t)
	if err := h.c.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := h.c.AbortSharedFields(); err != nil {
		t.Fatalf("AbortSharedFields: %v", err)
	}
	if h.c.State() != Idle || h.store.calls != 0 {
		t.Fatalf("state %s, store calls %d", h.c.State(), h.store.calls)
	}
	// A new session can begin right away
	if err := h.c.Begin(); err != nil {
		t.Fatalf("Begin after abort: %v", err)
	}
}

func TestConfirmedCancelPersistsNothing(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)
	h.attempt(t, "T1", time.Minute)

	if _, err := h.c.StartAttempt(); err != nil {
		t.Fatal(err)
	}
	res, err := h.c.Cancel(true)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !res.Cancelled || res.Persisted {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Attempts) != 0 {
		t.Errorf("cancelled result carries %d discarded attempts", len(res.Attempts))
	}
	if h.store.calls != 0 {
		t.Fatalf("store.Add called %d times on a cancelled session", h.store.calls)
	}
	if h.export.calls != 0 {
		t.Fatal("exporter called on a cancelled session")
	}
	if h.guard.released != 1 {
		t.Errorf("guard released %d times, want 1", h.guard.released)
	}
	if h.c.State() != Idle || len(h.c.Attempts()) != 0 {
		t.Errorf("state %s with %d attempts after cancel", h.c.State(), len(h.c.Attempts()))
	}
}

func TestCancelFromFirstAttemptHasNoAttempts(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)
	if _, err := h.c.StartAttempt(); err != nil {
		t.Fatal(err)
	}
	res, err := h.c.Cancel(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Attempts) != 0 || h.store.calls != 0 {
		t.Fatalf("attempts %d, store calls %d", len(res.Attempts), h.store.calls)
	}
}

func TestUnconfirmedCancelIsNoop(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)
	if _, err := h.c.StartAttempt(); err != nil {
		t.Fatal(err)
	}
	res, err := h.c.Cancel(false)
	if err != nil || res != nil {
		t.Fatalf("Cancel(false) = %v, %v", res, err)
	}
	if h.c.State() != Justifying {
		t.Fatalf("State() = %s, want justifying", h.c.State())
	}
}

func TestSkipKeepsStopwatchAndUsesOwnStart(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)

	if _, err := h.c.StartAttempt(); err != nil {
		t.Fatal(err)
	}
	h.clock.Advance(3 * time.Minute)
	if err := h.c.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if len(h.c.Attempts()) != 0 {
		t.Fatal("skipped attempt was recorded")
	}
	if !h.c.Stopwatch().Running() {
		t.Fatal("stopwatch stopped by skip")
	}

	h.clock.Advance(2 * time.Minute)
	h.attempt(t, "T2", 4*time.Minute)

	got := h.c.Attempts()
	if len(got) != 1 || got[0].Duration() != 4*time.Minute {
		t.Fatalf("attempts = %+v, want one of 4m", got)
	}
	if got := h.c.Elapsed(); got != 9*time.Minute {
		t.Fatalf("Elapsed() = %v, want 9m", got)
	}

	res, err := h.c.Finish()
	if err != nil {
		t.Fatal(err)
	}
	// Task durations and shift duration are stored independently
	if res.Record.TaskDurations[0].Duration != "00:04" {
		t.Errorf("task duration = %s, want 00:04", res.Record.TaskDurations[0].Duration)
	}
	if res.Record.DurationHours != 0.15 {
		t.Errorf("DurationHours = %v, want 0.15", res.Record.DurationHours)
	}
}

func TestSubmitValidationKeepsState(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)
	if _, err := h.c.StartAttempt(); err != nil {
		t.Fatal(err)
	}
	started := h.c.AttemptStartedAt()

	tests := []struct {
		name  string
		edit  func(*AttemptInput)
		field string
	}{
		{"platform id", func(a *AttemptInput) { a.PlatformID = "" }, "platform_id"},
		{"permalink", func(a *AttemptInput) { a.Permalink = "  " }, "permalink"},
		{"response 1", func(a *AttemptInput) { a.Response1ID = "" }, "response_1_id"},
		{"response 2", func(a *AttemptInput) { a.Response2ID = "" }, "response_2_id"},
		{"rank", func(a *AttemptInput) { a.Rank = models.RankNone }, "rank"},
		{"justification", func(a *AttemptInput) { a.Justification = "" }, "justification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validAttempt("T1")
			tt.edit(&in)
			_, err := h.c.Submit(in)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("Submit error = %v, want ValidationError on %s", err, tt.field)
			}
			if h.c.State() != Justifying || len(h.c.Attempts()) != 0 || !h.c.AttemptStartedAt().Equal(started) {
				t.Fatal("state changed after validation failure")
			}
		})
	}
}

func TestRejectedRankNeedsNoJustification(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)
	if _, err := h.c.StartAttempt(); err != nil {
		t.Fatal(err)
	}
	in := validAttempt("T1")
	in.Rank = models.RankRejected
	in.Justification = ""
	if _, err := h.c.Submit(in); err != nil {
		t.Fatalf("Submit rejected task: %v", err)
	}
}

func TestFinishWithoutAttempts(t *testing.T) {
	h := newHarness(t)
	h.startSession(t)

	res, err := h.c.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if res.Persisted || h.store.calls != 0 {
		t.Fatalf("empty session persisted: %+v", res)
	}
	if h.guard.released != 1 {
		t.Errorf("guard released %d times, want 1", h.guard.released)
	}
}

func TestStoreFailure(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("disk full")
	h.startSession(t)
	h.attempt(t, "T1", time.Minute)

	res, err := h.c.Finish()
	if err == nil || !errors.Is(err, h.store.err) {
		t.Fatalf("Finish error = %v, want wrapped store error", err)
	}
	if res.Persisted || h.export.calls != 0 {
		t.Fatalf("persisted=%v exporter calls=%d", res.Persisted, h.export.calls)
	}
	if h.c.State() != Idle || h.guard.released != 1 {
		t.Errorf("cleanup skipped: state %s, released %d", h.c.State(), h.guard.released)
	}
}

func TestExportFailureKeepsRecord(t *testing.T) {
	h := newHarness(t)
	h.export.err = errors.New("read-only")
	h.startSession(t)
	h.attempt(t, "T1", time.Minute)

	res, err := h.c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !res.Persisted || res.ExportErr == nil {
		t.Fatalf("result = %+v", res)
	}
	if _, ok := h.store.added["0001"]; !ok {
		t.Fatal("record reverted after export failure")
	}
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t)

	if _, err := h.c.Submit(validAttempt("T1")); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Submit while idle = %v", err)
	}
	if _, err := h.c.StartAttempt(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("StartAttempt while idle = %v", err)
	}
	if _, err := h.c.Finish(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Finish while idle = %v", err)
	}

	h.startSession(t)
	if err := h.c.Begin(); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Begin = %v, want ErrSessionActive", err)
	}
	if err := h.c.SubmitSharedFields(validShared()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("shared fields twice = %v", err)
	}
	if _, err := h.c.Cancel(true); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Cancel outside Justifying = %v", err)
	}
}

func TestReusesInjectedStopwatch(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)}
	sw := stopwatch.NewWithClock(clock.Now)
	store := &fakeStore{next: "0042"}
	c := New(Deps{
		Store:     store,
		Exporter:  &fakeExporter{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       clock.Now,
		Stopwatch: sw,
	})

	if err := c.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := c.SubmitSharedFields(validShared()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.StartAttempt(); err != nil {
		t.Fatal(err)
	}
	if c.Stopwatch() != sw || !sw.Running() {
		t.Fatal("injected stopwatch not used")
	}
	clock.Advance(90 * time.Minute)
	if _, err := c.Submit(validAttempt("T1")); err != nil {
		t.Fatal(err)
	}
	res, err := c.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if res.Record.ClockIn != "22:00" || res.Record.ClockOut != "23:30" || res.Record.GrossPay != 30 {
		t.Errorf("record = %+v", res.Record)
	}
	if sw.Running() || sw.Elapsed() != 0 {
		t.Error("stopwatch not reset at finalization")
	}
}
