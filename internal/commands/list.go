package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/balkashynov/shyft/internal/models"
	"github.com/balkashynov/shyft/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List logged shifts",
	Long:    "List logged shifts in an interactive browser, a plain table (--no-ui) or JSON (--json)",
	Args:    cobra.NoArgs,
	RunE:    withApp(runList),
}

func runList(cmd *cobra.Command, args []string, app *App) error {
	shifts := app.Store.All()
	project, _ := cmd.Flags().GetString("project")
	model, _ := cmd.Flags().GetString("model")
	shifts = filterShifts(shifts, model, project)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(shifts)
	}

	if len(shifts) == 0 {
		fmt.Println("No shifts found. Use 'shyft log' to start a session or 'shyft add' to log one manually.")
		return nil
	}

	rows := tui.SortedRows(shifts)
	noUI, _ := cmd.Flags().GetBool("no-ui")
	if noUI || !term.IsTerminal(int(os.Stdout.Fd())) {
		renderShiftTable(rows)
		return nil
	}
	return tui.RunShiftList(rows)
}

// filterShifts keeps shifts matching the model and project ids, when given
func filterShifts(shifts map[string]models.ShiftRecord, model, project string) map[string]models.ShiftRecord {
	if model == "" && project == "" {
		return shifts
	}
	out := make(map[string]models.ShiftRecord)
	for id, rec := range shifts {
		if model != "" && !strings.EqualFold(rec.ModelID, strings.TrimSpace(model)) {
			continue
		}
		if project != "" && !strings.EqualFold(rec.ProjectID, strings.TrimSpace(project)) {
			continue
		}
		out[id] = rec
	}
	return out
}

// renderShiftTable prints shifts for 80-column terminals
func renderShiftTable(rows []tui.ShiftRow) {
	headerColor.Printf("%-5s %-10s %-14s %-14s %-11s %6s %5s %9s\n",
		"ID", "DATE", "MODEL", "PROJECT", "IN-OUT", "HRS", "TASKS", "GROSS")
	fmt.Println(strings.Repeat("-", 80))

	for _, row := range rows {
		r := row.Record
		fmt.Printf("%-5s %-10s %-14s %-14s %-11s %6s %5d %9s\n",
			row.ID,
			r.Date,
			clip(r.ModelID, 14),
			clip(r.ProjectID, 14),
			r.ClockIn+"-"+r.ClockOut,
			r.DurationHours,
			r.TasksCompleted,
			"$"+r.GrossPay.String())
	}
}

// clip shortens s to n runes with an ellipsis
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeJSON prints v indented, in the store's own encoding
func writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	listCmd.Flags().Bool("no-ui", false, "Simple text output")
	listCmd.Flags().Bool("json", false, "JSON output")
	listCmd.Flags().StringP("model", "m", "", "Only shifts for this model ID")
	listCmd.Flags().StringP("project", "p", "", "Only shifts for this project ID")
}
