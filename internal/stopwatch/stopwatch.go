package stopwatch

import (
	"sync/atomic"
	"time"
)

// snapshot is the published stopwatch state. It is never mutated after
// being stored, so readers always see a matching reference/total pair.
type snapshot struct {
	running   bool
	reference time.Time
	total     time.Duration
}

// Stopwatch measures accumulated running time. It has no notion of a
// display; callers poll Elapsed at whatever cadence they like.
type Stopwatch struct {
	now   func() time.Time
	state atomic.Pointer[snapshot]
}

// New creates a stopped stopwatch using the wall clock
func New() *Stopwatch {
	return NewWithClock(time.Now)
}

// NewWithClock creates a stopped stopwatch that reads time from now
func NewWithClock(now func() time.Time) *Stopwatch {
	sw := &Stopwatch{now: now}
	sw.state.Store(&snapshot{})
	return sw
}

// Start begins measuring. Calling Start on a running stopwatch does nothing.
func (s *Stopwatch) Start() {
	cur := s.state.Load()
	if cur.running {
		return
	}
	s.state.Store(&snapshot{
		running:   true,
		reference: s.now(),
		total:     cur.total,
	})
}

// Stop folds the current run into the accumulated total.
// Calling Stop on a stopped stopwatch does nothing.
func (s *Stopwatch) Stop() {
	cur := s.state.Load()
	if !cur.running {
		return
	}
	s.state.Store(&snapshot{
		total: cur.total + s.now().Sub(cur.reference),
	})
}

// Reset stops the stopwatch and zeroes the accumulated total
func (s *Stopwatch) Reset() {
	s.state.Store(&snapshot{})
}

// Elapsed returns the accumulated total plus the current run, if any.
// Safe to call from any goroutine.
func (s *Stopwatch) Elapsed() time.Duration {
	cur := s.state.Load()
	if !cur.running {
		return cur.total
	}
	return cur.total + s.now().Sub(cur.reference)
}

// Running reports whether the stopwatch is currently measuring
func (s *Stopwatch) Running() bool {
	return s.state.Load().running
}
