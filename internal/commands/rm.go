package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/shyft/internal/models"
)

var rmCmd = &cobra.Command{
	Use:     "rm <shift_id>",
	Aliases: []string{"delete"},
	Short:   "Delete a logged shift",
	Long: `Delete a shift, its markdown export and its archived attempts.

Asks for confirmation unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runRemove),
}

func runRemove(cmd *cobra.Command, args []string, app *App) error {
	id, err := models.ParseID(args[0])
	if err != nil {
		return err
	}
	rec, err := app.Store.Get(id)
	if err != nil {
		return err
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		question := fmt.Sprintf("Delete shift %s (%s, %s @ %s)?", id, rec.Date, rec.ModelID, rec.ProjectID)
		ok, err := newPrompter(os.Stdin, os.Stdout).confirm(question, false)
		if err != nil || !ok {
			fmt.Println("Nothing deleted.")
			return nil
		}
	}

	if err := app.Store.Delete(id); err != nil {
		return err
	}
	if app.Archive != nil {
		n, err := app.Archive.DeleteShift(id)
		if err != nil {
			warnColor.Printf("⚠️  Archived attempts not removed: %v\n", err)
		} else {
			app.Log.Debug("archived attempts removed", "id", id, "count", n)
		}
	}

	goodColor.Printf("🗑️  Shift %s deleted\n", id)
	return nil
}

func init() {
	rmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
