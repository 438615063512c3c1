package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/balkashynov/shyft/internal/session"
	"github.com/balkashynov/shyft/internal/tui"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Start a guided shift session",
	Long: `Start a guided session. Enter the model, project and hourly rate once,
then fill one form per task attempt. The shift clock runs until you finish;
the shift is saved with a markdown record of every submitted task.

Opens the interactive screen by default. --no-ui, or a non-terminal stdin,
uses plain line prompts instead.

Examples:
  shyft log
  shyft log --model gpt-4o --project alpha --rate 22.50
  shyft log --no-ui`,
	Args: cobra.NoArgs,
	RunE: withApp(runLog),
}

func runLog(cmd *cobra.Command, args []string, app *App) error {
	prefill := session.SharedInput{}
	prefill.ModelID, _ = cmd.Flags().GetString("model")
	prefill.ProjectID, _ = cmd.Flags().GetString("project")
	prefill.Rate, _ = cmd.Flags().GetString("rate")
	noUI, _ := cmd.Flags().GetBool("no-ui")

	ctrl := app.NewController()
	if err := ctrl.Begin(); err != nil {
		return err
	}
	app.Log.Info("session begun", "session", ctrl.SessionID(), "ui", !noUI)

	if noUI || !term.IsTerminal(int(os.Stdin.Fd())) {
		res, err := runLineSession(ctrl, newPrompter(os.Stdin, os.Stdout), prefill)
		if errors.Is(err, errSessionAborted) {
			warnColor.Println("Session aborted. Nothing was saved.")
			return nil
		}
		if err != nil {
			return err
		}
		printFinalized(res)
		return nil
	}

	outcome, err := tui.RunSession(ctrl, tui.SessionOptions{
		TimerTopmost: app.Config.Config().Theme.TimerTopmost,
		Prefill:      prefill,
	})
	if err != nil {
		return fmt.Errorf("session screen failed: %w", err)
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	if outcome.Aborted {
		warnColor.Println("Session aborted. Nothing was saved.")
		return nil
	}
	printFinalized(outcome.Result)
	return nil
}

// printFinalized reports how a session ended
func printFinalized(res *session.Finalized) {
	if res == nil {
		return
	}
	switch {
	case res.Cancelled:
		warnColor.Println("Session cancelled. Nothing was saved.")
		return
	case !res.Persisted:
		warnColor.Println("No tasks were submitted, so no shift was saved.")
		return
	}

	goodColor.Printf("✅ Shift %s saved\n", res.ID)
	printRecord(res.Record)

	if res.ExportErr != nil {
		warnColor.Printf("⚠️  Markdown export failed: %v\n", res.ExportErr)
	} else if res.MarkdownPath != "" {
		labelColor.Print("  Export:   ")
		fmt.Println(res.MarkdownPath)
	}
	if res.ArchiveErr != nil {
		warnColor.Printf("⚠️  Attempt archive not updated: %v\n", res.ArchiveErr)
	}
}

func init() {
	logCmd.Flags().StringP("model", "m", "", "Prefill the model ID")
	logCmd.Flags().StringP("project", "p", "", "Prefill the project ID")
	logCmd.Flags().StringP("rate", "r", "", "Prefill the hourly rate")
	logCmd.Flags().Bool("no-ui", false, "Use line prompts instead of the interactive screen")
}
