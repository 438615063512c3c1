package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ShiftRecord is one logged work session as persisted in data.json.
// Field names are part of the on-disk format and must not change.
type ShiftRecord struct {
	Date           string        `json:"Date"`
	ModelID        string        `json:"Model ID"`
	ProjectID      string        `json:"Project ID"`
	ClockIn        string        `json:"In (hh:mm)"`
	ClockOut       string        `json:"Out (hh:mm)"`
	DurationHours  Decimal       `json:"Duration (hrs)"`
	HourlyRate     Decimal       `json:"Hourly rate"`
	GrossPay       Decimal       `json:"Gross pay"`
	TasksCompleted Count         `json:"Tasks completed"`
	TaskDurations  TaskDurations `json:"Task durations,omitempty"`
}

// TaskDuration is the per-task entry under "Task durations"
type TaskDuration struct {
	Duration string `json:"Duration (hh:mm)"`
}

// FormatID renders a shift id the way it is stored (zero-padded to 4 digits)
func FormatID(id int) string {
	return fmt.Sprintf("%04d", id)
}

// ParseID accepts "7", "0007" etc. and returns the stored form
func ParseID(raw string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid shift ID '%s'", raw)
	}
	return FormatID(n), nil
}

// Decimal is a two-decimal quantity (hours, money). It is written as a
// "%.2f" string and read from either a string or a JSON number.
type Decimal float64

// MarshalJSON writes the value as a two-decimal string
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "8.50" or 8.5
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*d = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		*d = Decimal(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

// String formats with two decimals
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', 2, 64)
}

// Count is the tasks-completed counter. Autologged shifts store an
// integer, manual entries historically stored a string; both are read.
type Count int

// UnmarshalJSON accepts 3 or "3"
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*c = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid task count %q: %w", s, err)
		}
		*c = Count(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Count(n)
	return nil
}

// TaskDurations holds per-task durations in insertion order. On disk it
// is an object keyed "1".."N"; encoding/json would sort those keys as
// strings ("10" before "2"), so the order is written by hand.
type TaskDurations []TaskDuration

// MarshalJSON writes {"1": {...}, "2": {...}} in index order
func (t TaskDurations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, td := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(strconv.Itoa(i + 1))
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(td)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the keyed object back into index order
func (t *TaskDurations) UnmarshalJSON(data []byte) error {
	var raw map[string]TaskDuration
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	type indexed struct {
		n  int
		td TaskDuration
	}
	entries := make([]indexed, 0, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid task index %q", k)
		}
		entries = append(entries, indexed{n: n, td: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n < entries[j].n })

	out := make(TaskDurations, len(entries))
	for i, e := range entries {
		out[i] = e.td
	}
	*t = out
	return nil
}
