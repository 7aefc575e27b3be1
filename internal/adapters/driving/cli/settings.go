package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driving"
	"github.com/custodia-labs/borehole-cli/internal/core/services"
)

// Settings commands run without opening the store, so a broken storage
// configuration can still be repaired.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure storage, ingestion and legend settings.

Use subcommands to change a single setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its key. Available keys:

  ` + strings.Join(services.SettingKeys, "\n  "),
	Args:      cobra.ExactArgs(2),
	ValidArgs: services.SettingKeys,
	RunE:      runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	for _, c := range []*cobra.Command{settingsCmd, settingsShowCmd, settingsSetCmd, settingsWizardCmd} {
		c.Annotations = map[string]string{settingsOnly: ""}
	}
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func requireSettings() (driving.SettingsService, error) {
	if deps == nil || deps.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return deps.Settings, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := requireSettings()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	switch settings.Storage.Backend {
	case domain.StoragePostgres:
		if settings.Storage.PostgresDSN != "" {
			cmd.Printf("  DSN: %s\n", maskSecret(settings.Storage.PostgresDSN))
		} else {
			cmd.Printf("  DSN: (not set)\n")
		}
	default:
		cmd.Printf("  Data dir: %s\n", orDefault(settings.Storage.DataDir, "~/.borehole/data"))
	}
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Default diameter: %s m\n", formatFloat(settings.Ingest.DefaultDiameter))
	cmd.Printf("  Average Z: %s\n", formatOptional(settings.Ingest.AverageZ))
	cmd.Println()

	cmd.Println("[Legend]")
	cmd.Printf("  Directory: %s\n", orDefault(settings.Legend.Dir, "(not set)"))
	cmd.Printf("  Alpha: %s\n", formatFloat(settings.Legend.Alpha))
	cmd.Println()

	cmd.Println("[Display]")
	cmd.Printf("  Attribute: %s\n", settings.Display.ReprAttribute)
	cmd.Println()

	cmd.Println("[Data files]")
	cmd.Printf("  Thresholds: %s\n", orDefault(settings.Pollutants.ThresholdsFile, "(built-in)"))
	cmd.Printf("  Lexicons: %s\n", orDefault(settings.Lexicon.File, "(built-in)"))

	if err := svc.Validate(); err != nil {
		cmd.Println()
		cmd.Println(styles.Warning.Render("Invalid: " + err.Error()))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := requireSettings()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	svc, err := requireSettings()
	if err != nil {
		return err
	}
	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	if err := wizard(cmd, reader, settings, readPassword); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := svc.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

// wizard walks through every setting, keeping the current value on empty
// input. secret reads the postgres DSN.
func wizard(cmd *cobra.Command, reader *bufio.Reader, settings *domain.AppSettings, secret func(*bufio.Reader) string) error {
	cmd.Println("Select Storage Backend")
	backends := domain.AllStorageBackends()
	current := 1
	for i, b := range backends {
		if b == settings.Storage.Backend {
			current = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Storage.Backend = backends[parseChoice(readLine(reader), len(backends), current)-1]

	if settings.Storage.Backend == domain.StoragePostgres {
		cmd.Print("Enter PostgreSQL DSN: ")
		if dsn := secret(reader); dsn != "" {
			settings.Storage.PostgresDSN = dsn
		}
		cmd.Println()
		if settings.Storage.PostgresDSN == "" {
			return errors.New("a DSN is required for the postgres backend")
		}
	} else {
		settings.Storage.DataDir = prompt(cmd, reader, "Data directory", settings.Storage.DataDir)
	}

	diameter, err := promptFloat(cmd, reader, "Default diameter (m)", settings.Ingest.DefaultDiameter)
	if err != nil {
		return err
	}
	settings.Ingest.DefaultDiameter = diameter

	avg := prompt(cmd, reader, "Average Z (empty for none, - to clear)", formatOptional(settings.Ingest.AverageZ))
	switch avg {
	case "-":
		settings.Ingest.AverageZ = nil
	default:
		f, err := strconv.ParseFloat(avg, 64)
		if err != nil {
			return fmt.Errorf("%w: average Z %q", domain.ErrInvalidInput, avg)
		}
		settings.Ingest.AverageZ = domain.Float(f)
	}

	settings.Legend.Dir = prompt(cmd, reader, "Legend directory", settings.Legend.Dir)
	alpha, err := promptFloat(cmd, reader, "Legend alpha", settings.Legend.Alpha)
	if err != nil {
		return err
	}
	settings.Legend.Alpha = alpha
	settings.Display.ReprAttribute = prompt(cmd, reader, "Display attribute", settings.Display.ReprAttribute)
	return nil
}

// Helper functions.

func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	cmd.Printf("%s [%s]: ", label, current)
	if input := readLine(reader); input != "" {
		return input
	}
	return current
}

func promptFloat(cmd *cobra.Command, reader *bufio.Reader, label string, current float64) (float64, error) {
	input := prompt(cmd, reader, label, formatFloat(current))
	f, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, strings.ToLower(label), input)
	}
	return f, nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
