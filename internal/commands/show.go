package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/balkashynov/shyft/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show <shift_id>",
	Short: "Show one shift",
	Long: `Show a logged shift with its per-task durations and archived attempts.

Examples:
  shyft show 3
  shyft show 0003 --yaml
  shyft show 0003 --json`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runShow),
}

// shiftDocument is the YAML view of a shift, labelled like data.json
type shiftDocument struct {
	ID             string   `yaml:"ID"`
	Date           string   `yaml:"Date"`
	ModelID        string   `yaml:"Model ID"`
	ProjectID      string   `yaml:"Project ID"`
	ClockIn        string   `yaml:"In (hh:mm)"`
	ClockOut       string   `yaml:"Out (hh:mm)"`
	DurationHours  string   `yaml:"Duration (hrs)"`
	HourlyRate     string   `yaml:"Hourly rate"`
	GrossPay       string   `yaml:"Gross pay"`
	TasksCompleted int      `yaml:"Tasks completed"`
	TaskDurations  []string `yaml:"Task durations,omitempty"`
}

func newShiftDocument(id string, rec models.ShiftRecord) shiftDocument {
	doc := shiftDocument{
		ID:             id,
		Date:           rec.Date,
		ModelID:        rec.ModelID,
		ProjectID:      rec.ProjectID,
		ClockIn:        rec.ClockIn,
		ClockOut:       rec.ClockOut,
		DurationHours:  rec.DurationHours.String(),
		HourlyRate:     rec.HourlyRate.String(),
		GrossPay:       rec.GrossPay.String(),
		TasksCompleted: int(rec.TasksCompleted),
	}
	for _, td := range rec.TaskDurations {
		doc.TaskDurations = append(doc.TaskDurations, td.Duration)
	}
	return doc
}

func runShow(cmd *cobra.Command, args []string, app *App) error {
	id, err := models.ParseID(args[0])
	if err != nil {
		return err
	}
	rec, err := app.Store.Get(id)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(map[string]models.ShiftRecord{id: rec})
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		out, err := yaml.Marshal(newShiftDocument(id, rec))
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	headerColor.Printf("Shift %s\n", id)
	printRecord(rec)
	for i, td := range rec.TaskDurations {
		fmt.Printf("    task %d: %s\n", i+1, td.Duration)
	}

	if md := app.Exporter.Path(id); fileExists(md) {
		labelColor.Print("  Export:   ")
		fmt.Println(md)
	}

	if app.Archive != nil {
		attempts, err := app.Archive.ForShift(id)
		if err != nil {
			app.Log.Warn("archive lookup failed", "id", id, "error", err)
		}
		if len(attempts) > 0 {
			headerColor.Println("\nArchived attempts")
			for _, a := range attempts {
				fmt.Printf("  %d. %s  %s\n", a.Index, a.PlatformID, a.Rank)
			}
		}
	}
	return nil
}

// printRecord prints the stored fields of a shift
func printRecord(r models.ShiftRecord) {
	labelColor.Print("  Date:     ")
	fmt.Printf("%s  %s-%s\n", r.Date, r.ClockIn, r.ClockOut)
	labelColor.Print("  Model:    ")
	fmt.Printf("%s @ %s\n", r.ModelID, r.ProjectID)
	labelColor.Print("  Duration: ")
	fmt.Printf("%s hrs (%d tasks)\n", r.DurationHours, r.TasksCompleted)
	labelColor.Print("  Pay:      ")
	fmt.Printf("$%s at $%s/hr\n", r.GrossPay, r.HourlyRate)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	showCmd.Flags().Bool("json", false, "JSON output in the data file's format")
	showCmd.Flags().Bool("yaml", false, "YAML output")
}
