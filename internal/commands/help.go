package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show comprehensive help for shyft",
	Long:  `Display detailed help for all shyft commands, or the help of one command.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			target, _, err := rootCmd.Find(args)
			if err != nil || target == rootCmd {
				fmt.Printf("Unknown help topic %q\n", args)
				return
			}
			_ = target.Help()
			return
		}
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
███████╗██╗  ██╗██╗   ██╗███████╗████████╗
██╔════╝██║  ██║╚██╗ ██╔╝██╔════╝╚══██╔══╝
███████╗███████║ ╚████╔╝ █████╗     ██║
╚════██║██╔══██║  ╚██╔╝  ██╔══╝     ██║
███████║██║  ██║   ██║   ██║        ██║
╚══════╝╚═╝  ╚═╝   ╚═╝   ╚═╝        ╚═╝

shyft - terminal work-session logger

COMMANDS:

  log                     Start a guided shift session
    -m, --model           Prefill the model ID
    -p, --project         Prefill the project ID
    -r, --rate            Prefill the hourly rate
    --no-ui               Line prompts instead of the interactive screen

    Session keys:
      tab/shift+tab   Move between fields
      1-6, ↑/↓        Pick a rank
      ctrl+s          Submit the task
      ctrl+k          Skip the task (the shift clock keeps running)
      esc             End the session (asks first, saves nothing)

  add [entry]             Log a shift manually
    --date --model --project --in --out --rate --tasks
    --no-prompt           Fail instead of asking for missing fields

    Quick entry:
      shyft add "gpt-4o @alpha 09:00-17:30 $20 x4 on:yesterday"

  edit <id>               Change fields of a shift (same flags as add)
  rm <id>                 Delete a shift, its export and archived attempts
    -y, --yes             Do not ask for confirmation

  ls                      Browse shifts
    --no-ui               Simple text output
    --json                JSON output
    -m, -p                Filter by model or project

  show <id>               Show one shift
    --yaml, --json        Structured output

  totals                  Hours, tasks, gross, tax and net across shifts
    --tax-rate            Override settings.tax_rate

  income                  Simulate income
    --hours --rate --gross --net --tax-rate

  logs [id|app]           List exports, or print one (or the app log)
  search <query>          Search archived attempts
    -l, --limit           Maximum results
    --json                JSON output

  config                  Show configuration
  config set <key> <val>  Change a value
  config path             Print the config file path

  version                 Show version information
  help [command]          Show this help

GLOBAL FLAGS:
  --config <file>         Config file (default ~/.shyft/config.yaml)
  --data-dir <dir>        Data directory
  -v, --verbose           Also print log records to stderr
  --no-color              Disable colored output

`)
}
