package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <pollutant> <concentration>",
	Short: "Classify a pollutant concentration",
	Long: `Resolves the pollutant name (abbreviation, full name or close match) and
prints the contamination level of the concentration. Comma decimal
separators are accepted.`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

var pollutantsCmd = &cobra.Command{
	Use:   "pollutants",
	Short: "List the pollutant threshold table",
	RunE:  runPollutants,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(pollutantsCmd)
}

// pollutantLister is implemented by classifiers that expose their table.
type pollutantLister interface {
	Pollutants() []domain.Pollutant
}

func runClassify(cmd *cobra.Command, args []string) error {
	if deps == nil || deps.Classifier == nil {
		return errors.New("classifier not configured")
	}
	canonical, level, err := deps.Classifier.Classify(args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to classify: %w", err)
	}
	cmd.Printf("%s %s: %s\n", canonical, args[1], level)
	return nil
}

func runPollutants(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Classifier == nil {
		return errors.New("classifier not configured")
	}
	lister, ok := deps.Classifier.(pollutantLister)
	if !ok {
		return errors.New("classifier does not expose its table")
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Abbreviation", "Name", "Levels"})
	for _, p := range lister.Pollutants() {
		levels := ""
		for i, l := range p.Levels {
			if i > 0 {
				levels += ", "
			}
			levels += fmt.Sprintf("%s >= %g", l.Token, l.Threshold)
		}
		t.AppendRow(table.Row{p.Abbreviation, p.Name, levels})
	}
	t.Render()
	return nil
}
