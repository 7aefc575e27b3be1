package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse boreholes in an interactive terminal UI",
	Long: `Browse the project boreholes in an interactive terminal user interface.

Controls:
  ↑/k, ↓/j   - Navigate boreholes
  Enter      - Show the selected borehole
  Tab        - Colour by the next attribute
  l          - Toggle the legend
  r          - Reload from the store
  Esc        - Back
  ?          - Toggle help
  q          - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	project, err := requireProject()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(project))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(commandContext(cmd)).Run()
}
