package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/render"
)

var (
	exportOutput    string
	exportAttribute string
	exportTitle     string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export the project geometry",
	Long: `Exports every borehole, coloured by the display attribute.

Formats:
  pdf  - strip log, one column per borehole
  json - vertices, segments, scalars and legends for 3D viewers`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: render.Formats(),
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportAttribute, "attribute", "", "display attribute (default current)")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "document title (pdf)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	renderer, err := render.New(strings.ToLower(args[0]), exportTitle)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if exportAttribute != "" && exportAttribute != project.ReprAttribute() {
		if err := project.SetReprAttribute(ctx, exportAttribute); err != nil {
			return fmt.Errorf("failed to switch attribute: %w", err)
		}
	}
	scene, err := project.Scene()
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()
		w = f
	}
	if err := renderer.Render(ctx, scene, w); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if exportOutput != "" {
		cmd.Printf("Exported %d borehole(s) to %s.\n", len(scene.Boreholes), exportOutput)
	}
	return nil
}
