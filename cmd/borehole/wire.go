package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/frames"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/legends"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/metrics"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/core/services"
	"github.com/custodia-labs/borehole-cli/internal/logger"
	"github.com/custodia-labs/borehole-cli/internal/normalisers"
	"github.com/custodia-labs/borehole-cli/internal/pollutants"
)

// bootstrap wires the adapters into the core services.
func bootstrap(ctx context.Context, configDir string, withProject bool) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	s := &cli.Services{Settings: settingsService}
	if !withProject {
		return s, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings (see 'borehole settings'): %w", err)
	}

	classifier := pollutants.NewDefault()
	if settings.Pollutants.ThresholdsFile != "" {
		if classifier, err = pollutants.NewFromFile(settings.Pollutants.ThresholdsFile); err != nil {
			return nil, fmt.Errorf("loading thresholds: %w", err)
		}
	}
	registry, err := normalisers.NewDefaultRegistry(classifier, settings.Lexicon.File)
	if err != nil {
		return nil, fmt.Errorf("loading lexicons: %w", err)
	}

	loader := legends.NewLoader()
	defaults := domain.LegendDict{}
	if settings.Legend.Dir != "" {
		if defaults, err = loader.LoadDir(ctx, settings.Legend.Dir); err != nil {
			return nil, fmt.Errorf("loading legends: %w", err)
		}
	}

	store, err := openStore(ctx, settings.Storage)
	if err != nil {
		return nil, err
	}
	session, err := store.Open(ctx)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("opening session: %w", err), store.Close())
	}

	m := metrics.New()
	project := services.NewProject(session,
		services.NewIngestor(registry, m),
		services.NewLegendResolver(classifier, m, settings.Legend.Alpha),
		services.ProjectOptions{
			ReprAttribute:   settings.Display.ReprAttribute,
			Legends:         defaults,
			DefaultDiameter: settings.Ingest.DefaultDiameter,
		})
	if err := project.Refresh(ctx, true, true); err != nil {
		return nil, errors.Join(err, project.Close(), store.Close())
	}
	logger.Debug("Project loaded from %s store", settings.Storage.Backend)

	s.Project = project
	s.Frames = frames.NewDefaultReader()
	s.Legends = loader
	s.Classifier = classifier
	s.Normalisers = registry
	s.LegendDir = settings.Legend.Dir
	s.Metrics = m
	s.Close = func() error {
		return errors.Join(project.Close(), store.Close())
	}
	return s, nil
}

func openStore(ctx context.Context, settings domain.StorageSettings) (driven.BoreholeStore, error) {
	switch settings.Backend {
	case domain.StoragePostgres:
		store, err := postgres.NewStore(ctx, settings.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return store, nil
	default:
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	}
}
