package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/balkashynov/shyft/internal/models"
	"github.com/balkashynov/shyft/internal/parser"
	"github.com/balkashynov/shyft/internal/pay"
)

// shiftFields is a manually entered shift before validation
type shiftFields struct {
	Date      string
	ModelID   string
	ProjectID string
	ClockIn   string
	ClockOut  string
	Rate      string
	Tasks     string
}

// byFlag maps flag names to their field
func (f *shiftFields) byFlag() map[string]*string {
	return map[string]*string{
		"date":    &f.Date,
		"model":   &f.ModelID,
		"project": &f.ProjectID,
		"in":      &f.ClockIn,
		"out":     &f.ClockOut,
		"rate":    &f.Rate,
		"tasks":   &f.Tasks,
	}
}

// manualPrompts is the order missing fields are asked in
var manualPrompts = []struct {
	flag  string
	label string
}{
	{"date", "Date (YYYY-MM-DD, dd/mm/yyyy, today, yesterday)"},
	{"model", "Model ID"},
	{"project", "Project ID"},
	{"in", "In (HH:MM)"},
	{"out", "Out (HH:MM)"},
	{"rate", "Hourly rate"},
	{"tasks", "Tasks completed"},
}

func registerShiftFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("date", "d", "", "Shift date: YYYY-MM-DD, dd/mm/yyyy, today, yesterday")
	cmd.Flags().StringP("model", "m", "", "Model ID")
	cmd.Flags().StringP("project", "p", "", "Project ID")
	cmd.Flags().String("in", "", "Clock-in time (HH:MM)")
	cmd.Flags().String("out", "", "Clock-out time (HH:MM)")
	cmd.Flags().StringP("rate", "r", "", "Hourly rate")
	cmd.Flags().StringP("tasks", "t", "", "Tasks completed")
}

// applyFlags copies every shift flag the user set onto f and reports how
// many there were
func (f *shiftFields) applyFlags(flags *pflag.FlagSet) int {
	fields := f.byFlag()
	n := 0
	flags.Visit(func(fl *pflag.Flag) {
		if dst, ok := fields[fl.Name]; ok {
			*dst = fl.Value.String()
			n++
		}
	})
	return n
}

// missing lists the flags of empty fields, in prompt order
func (f *shiftFields) missing() []string {
	fields := f.byFlag()
	var out []string
	for _, q := range manualPrompts {
		if strings.TrimSpace(*fields[q.flag]) == "" {
			out = append(out, q.flag)
		}
	}
	return out
}

// fieldsFromEntry converts a parsed one-liner
func fieldsFromEntry(p parser.ParsedShift) shiftFields {
	return shiftFields{
		Date:      p.Date,
		ModelID:   p.ModelID,
		ProjectID: p.ProjectID,
		ClockIn:   p.ClockIn,
		ClockOut:  p.ClockOut,
		Rate:      p.Rate,
		Tasks:     p.Tasks,
	}
}

// fieldsFromRecord is the editable form of a stored shift
func fieldsFromRecord(rec models.ShiftRecord) shiftFields {
	return shiftFields{
		Date:      rec.Date,
		ModelID:   rec.ModelID,
		ProjectID: rec.ProjectID,
		ClockIn:   rec.ClockIn,
		ClockOut:  rec.ClockOut,
		Rate:      rec.HourlyRate.String(),
		Tasks:     strconv.Itoa(int(rec.TasksCompleted)),
	}
}

// buildRecord validates f and computes duration and gross pay. An out time
// earlier than the in time wraps past midnight.
func buildRecord(f shiftFields, now time.Time) (models.ShiftRecord, error) {
	var errs []error

	date, err := parser.ParseShiftDate(f.Date, now)
	if err != nil {
		errs = append(errs, err)
	}
	modelID, err := parser.NormalizeID("model ID", f.ModelID)
	if err != nil {
		errs = append(errs, err)
	}
	projectID, err := parser.NormalizeID("project ID", f.ProjectID)
	if err != nil {
		errs = append(errs, err)
	}
	clockIn, clockOut := strings.TrimSpace(f.ClockIn), strings.TrimSpace(f.ClockOut)
	hours, err := pay.CalculateDuration(clockIn, clockOut)
	if err != nil {
		errs = append(errs, err)
	}
	rate, err := pay.ParseRate(f.Rate)
	if err != nil {
		errs = append(errs, err)
	}
	tasks, err := strconv.Atoi(strings.TrimSpace(f.Tasks))
	if err != nil || tasks < 0 {
		errs = append(errs, fmt.Errorf("tasks completed must be a whole number, got '%s'", f.Tasks))
	}

	if len(errs) > 0 {
		return models.ShiftRecord{}, errors.Join(errs...)
	}

	return models.ShiftRecord{
		Date:           date,
		ModelID:        modelID,
		ProjectID:      projectID,
		ClockIn:        clockIn,
		ClockOut:       clockOut,
		DurationHours:  models.Decimal(pay.Round2(hours)),
		HourlyRate:     models.Decimal(rate),
		GrossPay:       models.Decimal(pay.GrossPay(hours, rate)),
		TasksCompleted: models.Count(tasks),
	}, nil
}

var errNothingToEdit = errors.New("nothing to change; pass at least one of --date --model --project --in --out --rate --tasks")

// editRecord applies the changed flags to a stored shift. The stored duration
// survives unless --in or --out changed, since autologged shifts may run past
// what their clock times can express. Per-task durations are always kept.
func editRecord(current models.ShiftRecord, flags *pflag.FlagSet, now time.Time) (models.ShiftRecord, error) {
	fields := fieldsFromRecord(current)
	if fields.applyFlags(flags) == 0 {
		return models.ShiftRecord{}, errNothingToEdit
	}

	rec, err := buildRecord(fields, now)
	if err != nil {
		return models.ShiftRecord{}, err
	}
	rec.TaskDurations = current.TaskDurations

	if flags.Changed("in") || flags.Changed("out") {
		return rec, nil
	}
	rec.DurationHours = current.DurationHours
	if flags.Changed("rate") {
		rec.GrossPay = models.Decimal(pay.GrossPay(float64(current.DurationHours), float64(rec.HourlyRate)))
	} else {
		rec.GrossPay = current.GrossPay
	}
	return rec, nil
}

// fillMissing prompts for every empty field
func fillMissing(p *prompter, f *shiftFields) error {
	fields := f.byFlag()
	for _, q := range manualPrompts {
		dst := fields[q.flag]
		if strings.TrimSpace(*dst) != "" {
			continue
		}
		answer, err := p.ask(q.label, "")
		if err != nil {
			return fmt.Errorf("input ended before %s was entered", q.flag)
		}
		*dst = answer
	}
	return nil
}
