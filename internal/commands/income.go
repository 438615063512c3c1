package commands

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/balkashynov/shyft/internal/pay"
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Simulate income from hours, rate, gross or net",
	Long: `Solve for the missing quantities of a hypothetical shift.

Supported combinations:
  --hours and --rate    gross, tax and net
  --gross and --rate    hours, tax and net
  --net and --rate      gross, hours and tax
  --gross and --net     tax and the implied tax rate (hours too with --rate)

Tax uses settings.tax_rate unless --tax-rate is given.

Examples:
  shyft income --hours 30 --rate 22
  shyft income --net 1000 --rate 20 --tax-rate 0.3`,
	Args: cobra.NoArgs,
	RunE: withApp(runIncome),
}

// incomeInput reads the amounts that were passed on the command line
func incomeInput(flags *pflag.FlagSet, defaultTax float64) (pay.IncomeInput, error) {
	in := pay.IncomeInput{TaxRate: defaultTax}
	targets := map[string]**float64{
		"hours": &in.Hours,
		"rate":  &in.Rate,
		"gross": &in.Gross,
		"net":   &in.Net,
	}

	var firstErr error
	flags.Visit(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		raw := f.Value.String()
		if f.Name == "tax-rate" {
			rate, err := pay.ParseTaxRate(raw)
			if err != nil {
				firstErr = err
				return
			}
			in.TaxRate = rate
			return
		}
		dst, ok := targets[f.Name]
		if !ok {
			return
		}
		v, err := parseAmount(raw)
		if err != nil {
			firstErr = fmt.Errorf("--%s: %w", f.Name, err)
			return
		}
		*dst = &v
	})
	return in, firstErr
}

// parseAmount accepts plain or $-prefixed non-negative numbers
func parseAmount(raw string) (float64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number '%s'", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return v, nil
}

func runIncome(cmd *cobra.Command, args []string, app *App) error {
	in, err := incomeInput(cmd.Flags(), app.Config.Config().Settings.TaxRate)
	if err != nil {
		return err
	}
	out, err := pay.Simulate(in)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	headerColor.Fprintln(w, "💵 Income simulation")
	if out.Hours > 0 {
		fmt.Fprintf(w, "Hours\t%s\n", pay.FormatTwoDecimals(out.Hours))
	}
	if out.Rate > 0 {
		fmt.Fprintf(w, "Hourly rate\t$%s\n", pay.FormatTwoDecimals(out.Rate))
	}
	fmt.Fprintf(w, "Gross pay\t$%s\n", pay.FormatTwoDecimals(out.Gross))
	fmt.Fprintf(w, "Tax (%s%%)\t$%s\n", formatPercent(out.TaxRate), pay.FormatTwoDecimals(out.Tax))
	goodColor.Fprintf(w, "Net income\t$%s\n", pay.FormatTwoDecimals(out.Net))
	return nil
}

func init() {
	incomeCmd.Flags().String("hours", "", "Hours worked")
	incomeCmd.Flags().String("rate", "", "Hourly rate")
	incomeCmd.Flags().String("gross", "", "Gross pay")
	incomeCmd.Flags().String("net", "", "Net income")
	incomeCmd.Flags().String("tax-rate", "", "Tax rate between 0 and 1 (default from config)")
}
