package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is how shift dates are stored
const DateLayout = "2006-01-02"

// ParseShiftDate parses the date of a manually entered shift
// Supported formats:
// - yyyy-mm-dd (e.g., "2024-12-15")
// - dd/mm/yyyy (e.g., "15/12/2024")
// - "today", "yesterday"
// - X days ago (e.g., "3 days ago", "1 day ago")
func ParseShiftDate(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || input == "today" {
		return now.Format(DateLayout), nil
	}
	if input == "yesterday" {
		return now.AddDate(0, 0, -1).Format(DateLayout), nil
	}

	// Try ISO first, it is what we store
	if t, err := time.Parse(DateLayout, input); err == nil {
		return t.Format(DateLayout), nil
	}

	if d, err := parseDateFormat(input); err == nil {
		return d.Format(DateLayout), nil
	}

	if d, err := parseDaysAgo(input, now); err == nil {
		return d.Format(DateLayout), nil
	}

	return "", fmt.Errorf("invalid date format. Use: yyyy-mm-dd, dd/mm/yyyy, today, yesterday, or X days ago")
}

// parseDateFormat parses dd/mm/yyyy format
func parseDateFormat(input string) (time.Time, error) {
	dateRegex := regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	matches := dateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	// Validate date ranges
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)

	// Check if date is valid (handles leap years, etc.)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return d, nil
}

// parseDaysAgo parses "X days ago"
func parseDaysAgo(input string, now time.Time) (time.Time, error) {
	agoRegex := regexp.MustCompile(`^(\d+)\s+(day|days)\s+ago$`)
	matches := agoRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid relative date format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount > 365 {
		return time.Time{}, fmt.Errorf("days must be between 0 and 365")
	}
	return now.AddDate(0, 0, -amount), nil
}
