package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/shyft/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Show the configuration file and its values.

Keys:
  settings.tax_rate     tax rate used by totals and income (0 to 1)
  theme.timer_topmost   keep the session clock above the form
  paths.data_dir        where shifts, logs and the archive live

Every key can also be set with an environment variable such as
SHYFT_SETTINGS_TAX_RATE.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadConfig()
		if err != nil {
			return err
		}
		headerColor.Printf("Config: %s\n", m.Path())
		for _, kv := range m.Settings() {
			labelColor.Printf("  %-20s", kv[0])
			fmt.Printf(" %s\n", kv[1])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadConfig()
		if err != nil {
			return err
		}
		if err := m.Set(args[0], args[1]); err != nil {
			return err
		}
		goodColor.Printf("✅ %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println(m.Path())
		return nil
	},
}

// loadConfig reads the config without opening the data directory
func loadConfig() (*config.Manager, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
