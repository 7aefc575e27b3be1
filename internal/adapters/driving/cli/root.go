// Package cli implements the borehole command line.
//
// Commands reach the core through the services installed with SetServices,
// or built lazily by the Bootstrap hook before the first command runs.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driving"
	"github.com/custodia-labs/borehole-cli/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services holds the collaborators commands depend on.
type Services struct {
	Project    driving.ProjectService
	Settings   driving.SettingsService
	Frames     driven.FrameReader
	Legends    driven.LegendLoader
	Classifier driven.ContaminationClassifier

	// Normalisers maps --component values to canonical components. May be
	// nil, in which case values are only trimmed and singularised.
	Normalisers driven.NormaliserRegistry

	// LegendDir is the directory watched by "legend watch".
	LegendDir string

	// Metrics writes the Prometheus textfile named by --metrics-file.
	Metrics MetricsWriter

	// Close releases the store. May be nil.
	Close func() error
}

// MetricsWriter dumps collected metrics to a file.
type MetricsWriter interface {
	WriteTextfile(path string) error
}

// Bootstrap builds the services from the configuration directory. When
// withProject is false only Settings is required.
type Bootstrap func(ctx context.Context, configDir string, withProject bool) (*Services, error)

var (
	deps      *Services
	bootstrap Bootstrap

	verbose     bool
	configDir   string
	metricsFile string
)

// Command annotations consulted by setup.
const (
	skipBootstrap = "skip-bootstrap"
	settingsOnly  = "settings-only"
)

var rootCmd = &cobra.Command{
	Use:   "borehole",
	Short: "Manage borehole logs and their legends",
	Long: `borehole ingests borehole logs from CSV and Excel files, stores them in
SQLite or PostgreSQL, and colours their intervals with attribute legends.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if metricsFile == "" || deps == nil || deps.Metrics == nil {
			return nil
		}
		if err := deps.Metrics.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.borehole)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
}

// SetServices installs the services used by commands.
func SetServices(s *Services) {
	deps = s
}

// SetBootstrap installs the hook that builds services on first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command and releases the services.
func Execute() error {
	err := rootCmd.Execute()
	if deps != nil && deps.Close != nil {
		if cerr := deps.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if _, ok := cmd.Annotations[skipBootstrap]; ok {
		return nil
	}
	if deps != nil || bootstrap == nil {
		return nil
	}
	_, onlySettings := cmd.Annotations[settingsOnly]
	s, err := bootstrap(commandContext(cmd), configDir, !onlySettings)
	if err != nil {
		return err
	}
	deps = s
	return nil
}

func requireProject() (driving.ProjectService, error) {
	if deps == nil || deps.Project == nil {
		return nil, errors.New("project not configured")
	}
	return deps.Project, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
