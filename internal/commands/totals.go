package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/balkashynov/shyft/internal/pay"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show totals across logged shifts",
	Long: `Show shifts worked, hours, tasks, gross pay, estimated tax and net income.

Tax is estimated at settings.tax_rate unless --tax-rate is given.

Example output:
  Shifts worked      12
  Total hours        41.25
  Tasks completed    96
  Gross pay          $825.00
  Tax (27%)          $222.75
  Net income         $602.25`,
	Args: cobra.NoArgs,
	RunE: withApp(runTotals),
}

func runTotals(cmd *cobra.Command, args []string, app *App) error {
	taxRate := app.Config.Config().Settings.TaxRate
	if cmd.Flags().Changed("tax-rate") {
		raw, _ := cmd.Flags().GetString("tax-rate")
		rate, err := pay.ParseTaxRate(raw)
		if err != nil {
			return err
		}
		taxRate = rate
	}

	project, _ := cmd.Flags().GetString("project")
	model, _ := cmd.Flags().GetString("model")
	t := pay.Summarize(filterShifts(app.Store.All(), model, project), taxRate)

	if t.Shifts == 0 {
		fmt.Println("No shifts logged yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	headerColor.Fprintln(w, "📊 Totals")
	fmt.Fprintf(w, "Shifts worked\t%d\n", t.Shifts)
	fmt.Fprintf(w, "Total hours\t%s\n", pay.FormatTwoDecimals(t.Hours))
	fmt.Fprintf(w, "Tasks completed\t%d\n", t.Tasks)
	fmt.Fprintf(w, "Gross pay\t$%s\n", pay.FormatTwoDecimals(t.GrossPay))
	fmt.Fprintf(w, "Tax (%s%%)\t$%s\n", formatPercent(t.TaxRate), pay.FormatTwoDecimals(t.TaxLiability))
	goodColor.Fprintf(w, "Net income\t$%s\n", pay.FormatTwoDecimals(t.NetIncome))
	return nil
}

// formatPercent renders 0.275 as 27.5
func formatPercent(rate float64) string {
	s := fmt.Sprintf("%.2f", rate*100)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

func init() {
	totalsCmd.Flags().String("tax-rate", "", "Tax rate between 0 and 1 (default from config)")
	totalsCmd.Flags().StringP("model", "m", "", "Only shifts for this model ID")
	totalsCmd.Flags().StringP("project", "p", "", "Only shifts for this project ID")
}
