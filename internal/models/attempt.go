package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rank is the closed set of judgements a task attempt can receive
type Rank int

const (
	RankNone Rank = iota
	RankFirstMuchBetter
	RankFirstSlightlyBetter
	RankEqual
	RankSecondSlightlyBetter
	RankSecondMuchBetter
	RankRejected
)

// Ranks lists the selectable ranks in display order
var Ranks = []Rank{
	RankFirstMuchBetter,
	RankFirstSlightlyBetter,
	RankEqual,
	RankSecondSlightlyBetter,
	RankSecondMuchBetter,
	RankRejected,
}

var rankText = map[Rank]string{
	RankFirstMuchBetter:      "(1) is much better than (2).",
	RankFirstSlightlyBetter:  "(1) is slightly better than (2).",
	RankEqual:                "The responses are of equal quality.",
	RankSecondSlightlyBetter: "(2) is slightly better than (1).",
	RankSecondMuchBetter:     "(2) is much better than (1).",
	RankRejected:             "Task rejected for containing unratable content.",
}

// String returns the text written to exports
func (r Rank) String() string {
	if s, ok := rankText[r]; ok {
		return s
	}
	return ""
}

// Valid reports whether r is one of the six selectable ranks
func (r Rank) Valid() bool {
	_, ok := rankText[r]
	return ok
}

// ParseRank accepts a menu number ("1".."6") or the full rank text
func ParseRank(input string) (Rank, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return RankNone, fmt.Errorf("rank is required")
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(Ranks) {
			return Ranks[n-1], nil
		}
		return RankNone, fmt.Errorf("rank must be between 1 and %d", len(Ranks))
	}
	for _, r := range Ranks {
		if strings.EqualFold(r.String(), input) {
			return r, nil
		}
	}
	return RankNone, fmt.Errorf("unknown rank '%s'", input)
}

// TaskAttempt is one judged and justified unit of work within a shift
type TaskAttempt struct {
	PlatformID    string
	Permalink     string
	Response1ID   string
	Response2ID   string
	Rank          Rank
	Justification string

	StartedAt  time.Time
	ResolvedAt time.Time
}

// Duration is the time between the attempt starting and being submitted
func (a TaskAttempt) Duration() time.Duration {
	if a.ResolvedAt.Before(a.StartedAt) {
		return 0
	}
	return a.ResolvedAt.Sub(a.StartedAt)
}

// FormatHHMM renders a duration as zero-padded hours and minutes,
// truncating seconds
func FormatHHMM(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
