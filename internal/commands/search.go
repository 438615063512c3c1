package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/shyft/internal/models"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search archived task attempts",
	Long: `Search every archived attempt by platform id, permalink, response ids,
rank, justification or shift id. Matching is case-insensitive and newest
attempts come first.

Examples:
  shyft search "hallucinat"
  shyft search T-1042 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(runSearch),
}

func runSearch(cmd *cobra.Command, args []string, app *App) error {
	if app.Archive == nil {
		return errors.New("the attempt archive is unavailable; see the application log")
	}

	query := strings.Join(args, " ")
	limit, _ := cmd.Flags().GetInt("limit")
	attempts, err := app.Archive.Search(query, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(struct {
			Query    string                   `json:"query"`
			Count    int                      `json:"count"`
			Attempts []models.ArchivedAttempt `json:"attempts"`
		}{query, len(attempts), attempts})
	}

	renderSearchTable(attempts, query)
	return nil
}

// renderSearchTable outputs search results as a formatted table
func renderSearchTable(attempts []models.ArchivedAttempt, query string) {
	fmt.Printf("Search results for '%s' (%d found):\n", query, len(attempts))
	if len(attempts) == 0 {
		fmt.Println("No attempts found matching your search.")
		return
	}
	fmt.Println()

	headerColor.Printf("%-5s %-3s %-16s %-10s %-6s %s\n", "SHIFT", "#", "PLATFORM ID", "DATE", "TIME", "JUSTIFICATION")
	fmt.Println(strings.Repeat("-", 80))

	for _, a := range attempts {
		fmt.Printf("%-5s %-3d %-16s %-10s %-6s %s\n",
			a.ShiftID,
			a.Index,
			clip(a.PlatformID, 16),
			a.ResolvedAt.Format("2006-01-02"),
			models.FormatHHMM(time.Duration(a.DurationSeconds)*time.Second),
			clip(strings.Join(strings.Fields(a.Justification), " "), 34))
	}
}

func init() {
	searchCmd.Flags().IntP("limit", "l", 50, "Limit number of results (0 for all)")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
}
