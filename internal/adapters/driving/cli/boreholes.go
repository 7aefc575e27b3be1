package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List boreholes",
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <borehole-id>",
	Short: "Show a borehole and its intervals",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var (
	addType     string
	addLength   float64
	addDiameter float64
	addX        float64
	addY        float64
	addZ        float64
)

var addCmd = &cobra.Command{
	Use:   "add <borehole-id>",
	Short: "Add a borehole described by its type",
	Long: `Adds a borehole with a single interval spanning its full length.
The interval carries one component, {"borehole_type": <type>}.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	insertTop        float64
	insertBase       float64
	insertType       string
	insertComponents []string
)

var insertCmd = &cobra.Command{
	Use:   "insert <borehole-id>",
	Short: "Insert an interval into a borehole",
	Long: `Appends an interval to an existing borehole. Depths are measured
below the collar. Components are given as attribute=value pairs:

  borehole insert B1 --top 2 --base 3 --component lithology=sand`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <borehole-id>",
	Short: "Delete a borehole and its intervals",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "List the attributes present in the project",
	RunE:  runAttributes,
}

func init() {
	addCmd.Flags().StringVar(&addType, "type", "", "borehole type (required)")
	addCmd.Flags().Float64Var(&addLength, "length", 0, "length in meters (required)")
	addCmd.Flags().Float64Var(&addDiameter, "diameter", 0, "diameter in meters")
	addCmd.Flags().Float64Var(&addX, "x", 0, "collar easting")
	addCmd.Flags().Float64Var(&addY, "y", 0, "collar northing")
	addCmd.Flags().Float64Var(&addZ, "z", 0, "collar elevation")
	_ = addCmd.MarkFlagRequired("type")
	_ = addCmd.MarkFlagRequired("length")

	insertCmd.Flags().Float64Var(&insertTop, "top", 0, "top depth in meters")
	insertCmd.Flags().Float64Var(&insertBase, "base", 0, "base depth in meters (required)")
	insertCmd.Flags().StringVar(&insertType, "type", string(domain.IntervalLithology), "interval type: lithology or sample")
	insertCmd.Flags().StringArrayVar(&insertComponents, "component", nil, "attribute=value component, repeatable")
	_ = insertCmd.MarkFlagRequired("base")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(attributesCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	boreholes := project.Boreholes()
	if len(boreholes) == 0 {
		cmd.Println("No boreholes.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "X", "Y", "Z", "Length", "Diameter", "Intervals", "Date"})
	for _, b := range boreholes {
		t.AppendRow(table.Row{
			b.ID, formatOptional(b.X), formatOptional(b.Y), formatOptional(b.Z),
			formatFloat(b.Length), formatFloat(b.Diameter), len(b.Intervals), formatDate(b.Date),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d borehole(s)", len(boreholes))})
	t.Render()
	return nil
}

func findBorehole(id string) (domain.Borehole, error) {
	project, err := requireProject()
	if err != nil {
		return domain.Borehole{}, err
	}
	for _, b := range project.Boreholes() {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Borehole{}, fmt.Errorf("borehole %q: %w", id, domain.ErrNotFound)
}

func runShow(cmd *cobra.Command, args []string) error {
	b, err := findBorehole(args[0])
	if err != nil {
		return err
	}

	cmd.Println(styles.Title.Render("Borehole " + b.ID))
	cmd.Printf("  Collar:   %s, %s, %s\n", formatOptional(b.X), formatOptional(b.Y), formatOptional(b.Z))
	cmd.Printf("  Length:   %s m\n", formatFloat(b.Length))
	cmd.Printf("  Diameter: %s m\n", formatFloat(b.Diameter))
	cmd.Printf("  Date:     %s\n", formatDate(b.Date))
	cmd.Println()

	zRef := b.ZRef()
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Type", "Top (m)", "Base (m)", "Components"})
	for _, intv := range b.Intervals {
		t.AppendRow(table.Row{
			intv.Number, string(intv.Type),
			formatFloat(intv.Top.Depth(zRef)), formatFloat(intv.Base.Depth(zRef)),
			domain.JoinDescriptions(intv.Components),
		})
	}
	t.Render()
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	spec := domain.BoreholeSpec{
		ID:           args[0],
		BoreholeType: addType,
		Length:       addLength,
		Diameter:     addDiameter,
	}
	if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
		spec.X = domain.Float(addX)
		spec.Y = domain.Float(addY)
	}
	if cmd.Flags().Changed("z") {
		spec.Z = domain.Float(addZ)
	}
	if err := project.AddBoreholeSpec(commandContext(cmd), spec); err != nil {
		return fmt.Errorf("failed to add borehole: %w", err)
	}
	cmd.Printf("Borehole %s added.\n", spec.ID)
	return nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	typ, err := domain.ParseIntervalType(insertType)
	if err != nil {
		return err
	}
	components, err := parseComponents(commandContext(cmd), deps.Normalisers, insertComponents)
	if err != nil {
		return err
	}
	spec := domain.IntervalSpec{
		Top:        insertTop,
		Base:       insertBase,
		Type:       typ,
		Components: components,
	}
	if err := project.InsertIntervalInBorehole(commandContext(cmd), args[0], spec); err != nil {
		return fmt.Errorf("failed to insert interval: %w", err)
	}
	cmd.Printf("Interval %s-%s m inserted into %s.\n", formatFloat(insertTop), formatFloat(insertBase), args[0])
	return nil
}

// parseComponents reads attribute=value pairs, one component each. Values
// go through the attribute normaliser of registry when there is one.
func parseComponents(ctx context.Context, registry driven.NormaliserRegistry, pairs []string) ([]domain.Component, error) {
	components := make([]domain.Component, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%w: component %q is not attribute=value", domain.ErrInvalidInput, pair)
		}
		if registry != nil {
			if n, ok := registry.ForAttribute(name); ok {
				c, err := n.Normalise(ctx, name, value)
				if err != nil {
					return nil, fmt.Errorf("component %q: %w", pair, err)
				}
				components = append(components, c)
				continue
			}
		}
		components = append(components, domain.NewComponent(name, domain.NormaliseValue(value)))
	}
	return components, nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	if err := project.DeleteBorehole(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete borehole: %w", err)
	}
	cmd.Printf("Borehole %s deleted.\n", args[0])
	return nil
}

func runAttributes(cmd *cobra.Command, _ []string) error {
	project, err := requireProject()
	if err != nil {
		return err
	}
	current := project.ReprAttribute()
	for _, attr := range project.Attributes() {
		if strings.EqualFold(attr, current) {
			cmd.Printf("* %s\n", attr)
			continue
		}
		cmd.Printf("  %s\n", attr)
	}
	return nil
}
