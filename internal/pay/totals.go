package pay

import (
	"github.com/balkashynov/shyft/internal/models"
)

// Totals summarises a set of shifts
type Totals struct {
	Shifts       int
	Hours        float64
	Tasks        int
	GrossPay     float64
	TaxRate      float64
	TaxLiability float64
	NetIncome    float64
}

// Summarize adds up shifts and estimates tax at taxRate
func Summarize(shifts map[string]models.ShiftRecord, taxRate float64) Totals {
	t := Totals{Shifts: len(shifts), TaxRate: taxRate}
	for _, s := range shifts {
		t.Hours += float64(s.DurationHours)
		t.GrossPay += float64(s.GrossPay)
		t.Tasks += int(s.TasksCompleted)
	}
	t.TaxLiability = t.GrossPay * taxRate
	t.NetIncome = t.GrossPay - t.TaxLiability
	return t
}
