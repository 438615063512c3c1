package pay

import (
	"errors"
	"math"
)

// ErrIncomeInputs is returned when Simulate gets a combination it cannot solve
var ErrIncomeInputs = errors.New("provide hours+rate, gross+rate, net+rate, or gross+net")

// IncomeInput holds the known quantities; nil means unknown
type IncomeInput struct {
	Hours   *float64
	Rate    *float64
	TaxRate float64
	Gross   *float64
	Net     *float64
}

// Income is a fully solved simulation
type Income struct {
	Hours   float64
	Rate    float64
	TaxRate float64
	Gross   float64
	Tax     float64
	Net     float64
}

// Simulate solves for the unknown quantities. Supported combinations, in
// order of precedence: hours+rate, gross+rate, net+rate, gross+net.
// gross+net derives the tax rate; hours are solved too when the rate is known.
func Simulate(in IncomeInput) (Income, error) {
	out := Income{TaxRate: in.TaxRate}

	switch {
	case in.Hours != nil && in.Rate != nil:
		out.Hours, out.Rate = *in.Hours, *in.Rate
		out.Gross = Round2(out.Hours * out.Rate)
		out.Tax = Round2(out.Gross * out.TaxRate)
		out.Net = Round2(out.Gross - out.Tax)

	case in.Gross != nil && in.Rate != nil:
		if *in.Rate <= 0 {
			return Income{}, errors.New("rate must be positive")
		}
		out.Gross, out.Rate = *in.Gross, *in.Rate
		out.Hours = Round2(out.Gross / out.Rate)
		out.Tax = Round2(out.Gross * out.TaxRate)
		out.Net = Round2(out.Gross - out.Tax)

	case in.Net != nil && in.Rate != nil:
		if *in.Rate <= 0 {
			return Income{}, errors.New("rate must be positive")
		}
		if out.TaxRate >= 1 {
			return Income{}, errors.New("tax rate must be below 1 to solve from net income")
		}
		out.Net, out.Rate = *in.Net, *in.Rate
		out.Gross = Round2(out.Net / (1 - out.TaxRate))
		out.Hours = Round2(out.Gross / out.Rate)
		out.Tax = Round2(out.Gross * out.TaxRate)

	case in.Gross != nil && in.Net != nil:
		if *in.Gross <= 0 {
			return Income{}, errors.New("gross must be positive")
		}
		out.Gross, out.Net = *in.Gross, *in.Net
		out.TaxRate = Round4(1 - out.Net/out.Gross)
		out.Tax = Round2(out.Gross - out.Net)
		if in.Rate != nil && *in.Rate > 0 {
			out.Rate = *in.Rate
			out.Hours = Round2(out.Gross / out.Rate)
		}

	default:
		return Income{}, ErrIncomeInputs
	}
	return out, nil
}

// Round4 rounds half away from zero to four decimals
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
