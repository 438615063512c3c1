package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/balkashynov/shyft/internal/parser"
)

var addCmd = &cobra.Command{
	Use:   "add [entry]",
	Short: "Log a shift manually",
	Long: `Log a shift without running a session.

Fields come from flags, from a one-line entry, or from prompts for anything
still missing. Duration and gross pay are computed; an out time earlier than
the in time is taken to be after midnight.

Quick entry syntax:
  MODEL         - Model ID (whatever is left over)
  @project      - Project ID
  09:00-17:30   - Clock in and out
  $20           - Hourly rate
  x4            - Tasks completed
  on:yesterday  - Date (YYYY-MM-DD, dd/mm/yyyy, today, yesterday, 3 days ago)

Examples:
  shyft add "gpt-4o @alpha 09:00-17:30 $20 x4 on:yesterday"
  shyft add --model gpt-4o --project alpha --in 22:00 --out 01:30 --rate 20 --tasks 3`,
	Args: cobra.ArbitraryArgs,
	RunE: withApp(runAdd),
}

func runAdd(cmd *cobra.Command, args []string, app *App) error {
	now := time.Now()

	var fields shiftFields
	if len(args) > 0 {
		parsed := parser.ParseEntry(strings.Join(args, " "), now)
		if len(parsed.Errors) > 0 {
			warnColor.Printf("⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
		}
		fields = fieldsFromEntry(parsed)
	}
	fields.applyFlags(cmd.Flags())
	if fields.Date == "" {
		fields.Date = "today"
	}

	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	if missing := fields.missing(); len(missing) > 0 {
		if noPrompt || !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
		}
		if err := fillMissing(newPrompter(os.Stdin, os.Stdout), &fields); err != nil {
			return err
		}
	}

	rec, err := buildRecord(fields, now)
	if err != nil {
		return err
	}

	id := app.Store.NextID()
	if err := app.Store.Add(id, rec); err != nil {
		return err
	}
	app.Log.Info("manual shift added", "id", id, "date", rec.Date, "hours", float64(rec.DurationHours))

	goodColor.Printf("✅ Shift %s saved\n", id)
	printRecord(rec)
	return nil
}

func init() {
	registerShiftFlags(addCmd)
	addCmd.Flags().Bool("no-prompt", false, "Fail instead of prompting for missing fields")
}
