package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestShiftRecordFieldNames(t *testing.T) {
	rec := ShiftRecord{
		Date:           "2024-06-01",
		ModelID:        "GPT-X",
		ProjectID:      "P1",
		ClockIn:        "09:00",
		ClockOut:       "17:30",
		DurationHours:  8.5,
		HourlyRate:     20,
		GrossPay:       170,
		TasksCompleted: 2,
		TaskDurations:  TaskDurations{{Duration: "00:10"}, {Duration: "01:05"}},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)

	for _, want := range []string{
		`"Date":"2024-06-01"`,
		`"Model ID":"GPT-X"`,
		`"Project ID":"P1"`,
		`"In (hh:mm)":"09:00"`,
		`"Out (hh:mm)":"17:30"`,
		`"Duration (hrs)":"8.50"`,
		`"Hourly rate":"20.00"`,
		`"Gross pay":"170.00"`,
		`"Tasks completed":2`,
		`"Task durations":{"1":{"Duration (hh:mm)":"00:10"},"2":{"Duration (hh:mm)":"01:05"}}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("encoded record missing %s\n%s", want, got)
		}
	}
}

func TestTaskDurationsKeepNumericOrder(t *testing.T) {
	var tds TaskDurations
	for i := 0; i < 12; i++ {
		tds = append(tds, TaskDuration{Duration: FormatHHMM(time.Duration(i) * time.Minute)})
	}

	data, err := json.Marshal(tds)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if i2, i10 := strings.Index(string(data), `"2":`), strings.Index(string(data), `"10":`); i2 > i10 {
		t.Fatalf("key 2 written after key 10: %s", data)
	}

	var back TaskDurations
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 12 {
		t.Fatalf("len = %d, want 12", len(back))
	}
	if back[10].Duration != "00:10" {
		t.Errorf("entry 11 = %s, want 00:10", back[10].Duration)
	}
}

func TestLegacyManualEntryValues(t *testing.T) {
	raw := `{
		"Date": "2024-05-02",
		"Model ID": "M",
		"Project ID": "P",
		"In (hh:mm)": "23:00",
		"Out (hh:mm)": "01:00",
		"Duration (hrs)": 2,
		"Hourly rate": "18",
		"Gross pay": "36.00",
		"Tasks completed": "4"
	}`

	var rec ShiftRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.DurationHours != 2 || rec.HourlyRate != 18 || rec.GrossPay != 36 {
		t.Errorf("decimals = %v %v %v", rec.DurationHours, rec.HourlyRate, rec.GrossPay)
	}
	if rec.TasksCompleted != 4 {
		t.Errorf("TasksCompleted = %d, want 4", rec.TasksCompleted)
	}
	if len(rec.TaskDurations) != 0 {
		t.Errorf("TaskDurations = %v, want empty", rec.TaskDurations)
	}
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		input   string
		want    Rank
		wantErr bool
	}{
		{"1", RankFirstMuchBetter, false},
		{"3", RankEqual, false},
		{"6", RankRejected, false},
		{"(2) is much better than (1).", RankSecondMuchBetter, false},
		{"  the responses are of equal quality.  ", RankEqual, false},
		{"0", RankNone, true},
		{"7", RankNone, true},
		{"", RankNone, true},
		{"better", RankNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRank(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRank(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRank(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatHHMM(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:00"},
		{61 * time.Minute, "01:01"},
		{25*time.Hour + 5*time.Minute, "25:05"},
		{-time.Minute, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatHHMM(tt.d); got != tt.want {
			t.Errorf("FormatHHMM(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestParseID(t *testing.T) {
	if got, err := ParseID("7"); err != nil || got != "0007" {
		t.Errorf("ParseID(7) = %q, %v", got, err)
	}
	if got, err := ParseID("0042"); err != nil || got != "0042" {
		t.Errorf("ParseID(0042) = %q, %v", got, err)
	}
	if _, err := ParseID("abc"); err == nil {
		t.Error("ParseID(abc) should fail")
	}
	if _, err := ParseID("0"); err == nil {
		t.Error("ParseID(0) should fail")
	}
}
