package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedShift holds the fields extracted from a one-line shift entry
type ParsedShift struct {
	ModelID   string
	ProjectID string
	ClockIn   string
	ClockOut  string
	Rate      string
	Tasks     string
	Date      string
	Errors    []string
}

// ParseEntry extracts shift fields from a compact one-liner
// Syntax: "MODEL @project 09:00-17:30 $20 x4 on:yesterday"
func ParseEntry(input string, now time.Time) ParsedShift {
	result := ParsedShift{Errors: []string{}}

	// Extract clock range (pattern: HH:MM-HH:MM)
	rangeRegex := regexp.MustCompile(`\b(\d{1,2}:\d{2})-(\d{1,2}:\d{2})\b`)
	if m := rangeRegex.FindStringSubmatch(input); m != nil {
		result.ClockIn, result.ClockOut = padClock(m[1]), padClock(m[2])
		input = rangeRegex.ReplaceAllString(input, "")
	}

	// Extract project (@PROJ)
	projectRegex := regexp.MustCompile(`@(\S+)`)
	if m := projectRegex.FindStringSubmatch(input); m != nil {
		if id, err := NormalizeID("project ID", m[1]); err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.ProjectID = id
		}
		input = projectRegex.ReplaceAllString(input, "")
	}

	// Extract rate ($20 or $18.50)
	rateRegex := regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)
	if m := rateRegex.FindStringSubmatch(input); m != nil {
		result.Rate = m[1]
		input = rateRegex.ReplaceAllString(input, "")
	}

	// Extract task count (x4)
	tasksRegex := regexp.MustCompile(`(?i)\bx(\d+)\b`)
	if m := tasksRegex.FindStringSubmatch(input); m != nil {
		if _, err := strconv.Atoi(m[1]); err == nil {
			result.Tasks = m[1]
		}
		input = tasksRegex.ReplaceAllString(input, "")
	}

	// Extract date (on:2024-06-01, on:yesterday)
	dateRegex := regexp.MustCompile(`(?i)\bon:(\S+)`)
	if m := dateRegex.FindStringSubmatch(input); m != nil {
		if d, err := ParseShiftDate(m[1], now); err != nil {
			result.Errors = append(result.Errors, "Invalid date: "+m[1])
		} else {
			result.Date = d
		}
		input = dateRegex.ReplaceAllString(input, "")
	}

	// Whatever is left is the model id
	rest := strings.Join(strings.Fields(input), " ")
	if rest != "" {
		if id, err := NormalizeID("model ID", rest); err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.ModelID = id
		}
	}

	return result
}

// padClock turns "9:00" into "09:00"
func padClock(s string) string {
	if len(s) == 4 {
		return "0" + s
	}
	return s
}
