package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/legends"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/services"
)

var legendBoreholes bool

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Show and watch attribute legends",
}

var legendShowCmd = &cobra.Command{
	Use:   "show [attribute]",
	Short: "Show the resolved legend of an attribute",
	Long: `Shows the legend resolved for the display attribute, or for the given
attribute, which then becomes the display attribute.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLegendShow,
}

var legendWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload legends whenever the legend directory changes",
	RunE:  runLegendWatch,
}

func init() {
	legendShowCmd.Flags().BoolVar(&legendBoreholes, "boreholes", false, "also show each borehole's values")
	legendCmd.AddCommand(legendShowCmd)
	legendCmd.AddCommand(legendWatchCmd)
	rootCmd.AddCommand(legendCmd)
}

func runLegendShow(cmd *cobra.Command, args []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	if len(args) == 1 && args[0] != project.ReprAttribute() {
		if err := project.SetReprAttribute(commandContext(cmd), args[0]); err != nil {
			return fmt.Errorf("failed to switch attribute: %w", err)
		}
	}
	attr := project.ReprAttribute()

	spec, ok := project.LegendDict().Get(attr)
	if !ok || len(spec.Legend) == 0 {
		cmd.Printf("No legend for %s.\n", attr)
		return nil
	}
	printLegend(cmd.OutOrStdout(), attr, spec)

	if legendBoreholes {
		perBorehole := project.BoreholeLegends()
		cmd.Println()
		for _, id := range sortedKeys(perBorehole) {
			bhSpec, ok := perBorehole[id].Get(attr)
			if !ok {
				continue
			}
			cmd.Printf("  %-12s %v\n", id, bhSpec.Values)
		}
	}
	return nil
}

func printLegend(w io.Writer, attr string, spec domain.LegendSpec) {
	fmt.Fprintln(w, styles.Title.Render("Legend "+attr))
	annotations := services.AttribAnnotations(spec)
	for i, entry := range spec.Legend {
		label := entry.Value
		if i < len(annotations.Labels) {
			label = annotations.Labels[i]
		}
		fmt.Fprintf(w, "  %s %-20s %s\n",
			swatch(entry.Colour, 4), label, styles.Muted.Render(entry.Colour))
	}
}

func runLegendWatch(cmd *cobra.Command, _ []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	if deps.LegendDir == "" {
		return errors.New("legend directory not configured (set legend.dir)")
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", deps.LegendDir)
	watcher := legends.NewWatcher(legends.NewLoader(), deps.LegendDir)
	return watcher.Run(ctx, func(dict domain.LegendDict, err error) {
		if err != nil {
			cmd.PrintErrln(styles.Error.Render("reload failed: " + err.Error()))
			return
		}
		if err := project.SetDefaultLegends(ctx, dict); err != nil {
			cmd.PrintErrln(styles.Error.Render("resolve failed: " + err.Error()))
			return
		}
		attr := project.ReprAttribute()
		spec, ok := project.LegendDict().Get(attr)
		if !ok {
			cmd.Printf("Reloaded %d legend(s); none for %s.\n", len(dict), attr)
			return
		}
		printLegend(cmd.OutOrStdout(), attr, spec)
	})
}
