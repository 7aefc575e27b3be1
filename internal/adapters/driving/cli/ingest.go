package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

var (
	ingestAverageZ float64
	ingestDiameter float64
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest borehole logs from CSV or Excel files",
	Long: `Reads borehole logs from CSV, TXT or XLSX files and stores them.

Each file (or Excel sheet) becomes a frame. Rows are grouped by borehole ID;
lithology and sample columns are normalised through the lexicons and
pollutant concentrations are classified into contamination levels.

Boreholes already in the store, or with unreadable cells, are skipped and
reported. Invalid geometry aborts the whole run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Float64Var(&ingestAverageZ, "average-z", 0, "collar elevation for boreholes without Z")
	ingestCmd.Flags().Float64Var(&ingestDiameter, "diameter", 0, "diameter for boreholes without one, in meters")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	if deps.Frames == nil {
		return errors.New("frame reader not configured")
	}
	ctx := commandContext(cmd)

	var frames []domain.Frame
	for _, path := range args {
		read, err := deps.Frames.Read(ctx, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		frames = append(frames, read...)
	}

	opts, err := ingestOptions(cmd)
	if err != nil {
		return err
	}

	report, err := project.IngestFrames(ctx, frames, opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

// ingestOptions starts from the settings and applies flags that were set.
func ingestOptions(cmd *cobra.Command) (domain.IngestOptions, error) {
	opts := domain.IngestOptions{DefaultDiameter: domain.DefaultDiameter}
	if deps.Settings != nil {
		settings, err := deps.Settings.Get()
		if err != nil {
			return opts, fmt.Errorf("failed to get settings: %w", err)
		}
		opts.DefaultDiameter = settings.Ingest.DefaultDiameter
		opts.AverageZ = settings.Ingest.AverageZ
	}
	if cmd.Flags().Changed("average-z") {
		opts.AverageZ = domain.Float(ingestAverageZ)
	}
	if cmd.Flags().Changed("diameter") {
		if ingestDiameter <= 0 {
			return opts, fmt.Errorf("%w: diameter must be positive", domain.ErrInvalidInput)
		}
		opts.DefaultDiameter = ingestDiameter
	}
	return opts, nil
}

func printReport(w io.Writer, report *domain.IngestReport) {
	fmt.Fprintf(w, "%s %d borehole(s), %d interval(s), %d new component(s)\n",
		styles.Success.Render("Ingested"),
		len(report.Boreholes), report.Intervals, report.NewComponents)
	fmt.Fprintln(w, styles.Muted.Render("run "+report.RunID))

	if len(report.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Warning.Render(fmt.Sprintf("%d warning(s)", len(report.Warnings))))
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Borehole", "Kind", "Message"})
		for _, warn := range report.Warnings {
			t.AppendRow(table.Row{warn.Borehole, string(warn.Kind), warn.Message})
		}
		t.Render()
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Warning.Render(fmt.Sprintf("%d borehole(s) skipped", len(report.Skipped))))
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Borehole", "Reason"})
		for _, id := range sortedKeys(report.Skipped) {
			t.AppendRow(table.Row{id, report.Skipped[id].Error()})
		}
		t.Render()
	}
}
