package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/shyft/internal/models"
)

var editCmd = &cobra.Command{
	Use:   "edit <shift_id>",
	Short: "Edit a logged shift",
	Long: `Replace fields of a logged shift. Only the flags you pass change.
Duration is recomputed only when --in or --out is given; a new --rate
recomputes gross pay from the stored duration. Per-task durations of
autologged shifts are kept.

Usage:
  shyft edit 12 --out 18:15
  shyft edit 0007 --rate 22.50 --tasks 5`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runEdit),
}

func runEdit(cmd *cobra.Command, args []string, app *App) error {
	id, err := models.ParseID(args[0])
	if err != nil {
		return err
	}
	current, err := app.Store.Get(id)
	if err != nil {
		return err
	}

	rec, err := editRecord(current, cmd.Flags(), time.Now())
	if err != nil {
		return err
	}

	if err := app.Store.Update(id, rec); err != nil {
		return err
	}
	app.Log.Info("shift edited", "id", id)

	goodColor.Printf("✅ Shift %s updated\n", id)
	printRecord(rec)
	return nil
}

func init() {
	registerShiftFlags(editCmd)
}
