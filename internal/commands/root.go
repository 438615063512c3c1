package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/balkashynov/shyft/internal/config"
	"github.com/balkashynov/shyft/internal/db"
	"github.com/balkashynov/shyft/internal/export"
	"github.com/balkashynov/shyft/internal/logging"
	"github.com/balkashynov/shyft/internal/session"
	"github.com/balkashynov/shyft/internal/sleepguard"
	"github.com/balkashynov/shyft/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed)
	labelColor  = color.New(color.Bold)
)

// Persistent flags
var (
	configPath string
	dataDir    string
	verbose    bool
	noColor    bool
)

// Data directory layout
const (
	dataFile    = "data.json"
	logsDir     = "logs"
	archiveFile = "archive.db"
)

var rootCmd = &cobra.Command{
	Use:   "shyft",
	Short: "A terminal work-session logger",
	Long: `shyft logs work shifts made of task attempts. A guided session times the
shift, collects one form per task, and saves the shift with its pay and a
markdown record of every task.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// App is everything a command needs, opened from config
type App struct {
	Config   *config.Manager
	Log      *logging.Logger
	Store    *store.Store
	Exporter *export.Markdown
	Archive  *db.Archive // nil when the archive could not be opened
	DataDir  string
}

// openApp loads config, logging, the store and the archive
func openApp() (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dir := dataDir
	if dir == "" {
		dir = cfg.Config().Paths.DataDir
	}
	logs := filepath.Join(dir, logsDir)

	logger, err := logging.New(logging.Options{Dir: logs, ConsoleEnabled: verbose})
	if err != nil {
		return nil, err
	}
	logger.Debug("starting", "version", version, "data_dir", dir, "config", cfg.Path())

	st, err := store.Open(filepath.Join(dir, dataFile), logs, logger.Logger)
	if err != nil {
		logger.Close()
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Log:      logger,
		Store:    st,
		Exporter: export.NewMarkdown(logs),
		DataDir:  dir,
	}

	// The archive is a convenience; a broken database must not block logging
	archive, err := db.Open(filepath.Join(dir, archiveFile))
	if err != nil {
		logger.Warn("attempt archive unavailable", "error", err)
	} else {
		app.Archive = archive
	}
	return app, nil
}

// Close releases the archive and the log file
func (a *App) Close() {
	if err := a.Archive.Close(); err != nil {
		a.Log.Warn("failed to close archive", "error", err)
	}
	a.Log.Close()
}

// LogsDir is where exports and app.log live
func (a *App) LogsDir() string {
	return filepath.Join(a.DataDir, logsDir)
}

// NewController wires a session controller to the app's collaborators
func (a *App) NewController() *session.Controller {
	deps := session.Deps{
		Store:    a.Store,
		Exporter: a.Exporter,
		Guard:    sleepguard.New(a.Log.Logger),
		Logger:   a.Log.Logger,
		Now:      time.Now,
	}
	// A nil *db.Archive inside the interface would not compare equal to nil
	if a.Archive != nil {
		deps.Archive = a.Archive
	}
	return session.New(deps)
}

// withApp opens the app around a command and closes it afterwards
func withApp(fn func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, args, app)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		badColor.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shyft %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.shyft/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides paths.data_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also print log records to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(incomeCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
