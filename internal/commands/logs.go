package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/shyft/internal/logging"
	"github.com/balkashynov/shyft/internal/models"
)

var logsCmd = &cobra.Command{
	Use:   "logs [shift_id|app]",
	Short: "List or print exported shift logs",
	Long: `Without arguments, list the markdown exports newest first, followed by
the application log. With a shift id, print that shift's export; with 'app',
print the application log.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runLogs),
}

// logFile is one file in the logs directory
type logFile struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// listLogFiles returns markdown exports newest first, then app.log if present
func listLogFiles(dir string) ([]logFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read logs directory: %w", err)
	}

	var exports []logFile
	var appLog *logFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		f := logFile{Name: e.Name(), ModTime: info.ModTime(), Size: info.Size()}
		switch {
		case e.Name() == logging.FileName:
			appLog = &f
		case strings.HasSuffix(e.Name(), ".md"):
			exports = append(exports, f)
		}
	}

	sort.SliceStable(exports, func(i, j int) bool {
		if !exports[i].ModTime.Equal(exports[j].ModTime) {
			return exports[i].ModTime.After(exports[j].ModTime)
		}
		return exports[i].Name > exports[j].Name
	})
	if appLog != nil {
		exports = append(exports, *appLog)
	}
	return exports, nil
}

func runLogs(cmd *cobra.Command, args []string, app *App) error {
	dir := app.LogsDir()

	if len(args) == 1 {
		name := logging.FileName
		if args[0] != "app" {
			id, err := models.ParseID(args[0])
			if err != nil {
				return err
			}
			name = id + ".md"
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("no log named %s in %s", name, dir)
			}
			return err
		}
		fmt.Print(string(raw))
		return nil
	}

	files, err := listLogFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No logs yet.")
		return nil
	}

	headerColor.Printf("Logs in %s\n", dir)
	for _, f := range files {
		fmt.Printf("  %-12s %s  %6d bytes\n", f.Name, f.ModTime.Format("2006-01-02 15:04"), f.Size)
	}
	return nil
}
