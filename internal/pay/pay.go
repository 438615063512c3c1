package pay

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ClockLayout is the HH:MM layout used for clock-in and clock-out
const ClockLayout = "15:04"

// ValidateClock checks s is a 24h HH:MM time
func ValidateClock(s string) error {
	if _, err := time.Parse(ClockLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid time format '%s'. Please use HH:MM format", s)
	}
	return nil
}

// CalculateDuration returns the hours between two HH:MM clock times.
// An end time earlier than the start is taken to be on the next day.
func CalculateDuration(start, end string) (float64, error) {
	s, err := time.Parse(ClockLayout, strings.TrimSpace(start))
	if err != nil {
		return 0, fmt.Errorf("invalid start time '%s'. Please use HH:MM format", start)
	}
	e, err := time.Parse(ClockLayout, strings.TrimSpace(end))
	if err != nil {
		return 0, fmt.Errorf("invalid end time '%s'. Please use HH:MM format", end)
	}

	d := e.Sub(s)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d.Hours(), nil
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GrossPay multiplies unrounded hours by the rate and rounds only the product
func GrossPay(hours, rate float64) float64 {
	return Round2(hours * rate)
}

// FormatTwoDecimals renders v as "%.2f"
func FormatTwoDecimals(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseRate parses a positive hourly rate
func ParseRate(input string) (float64, error) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "$"))
	rate, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("invalid hourly rate '%s'", input)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("hourly rate must be positive")
	}
	return rate, nil
}

// ParseTaxRate parses a decimal tax rate in [0,1]
func ParseTaxRate(input string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tax rate '%s'", input)
	}
	if err := ValidateTaxRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}

// ValidateTaxRate checks rate is within [0,1]
func ValidateTaxRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return fmt.Errorf("tax rate must be between 0 and 1, got %v", rate)
	}
	return nil
}
