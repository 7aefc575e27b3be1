package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStorageBackend  = "storage.backend"
	keyStorageDataDir  = "storage.data_dir"
	keyStoragePGDSN    = "storage.postgres_dsn"
	keyDefaultDiameter = "ingest.default_diameter"
	keyAverageZ        = "ingest.average_z"
	keyLegendDir       = "legend.dir"
	keyLegendAlpha     = "legend.alpha"
	keyReprAttribute   = "display.repr_attribute"
	keyThresholdsFile  = "pollutants.thresholds_file"
	keyLexiconFile     = "lexicon.file"
)

// SettingKeys lists the keys accepted by Set, in display order.
var SettingKeys = []string{
	keyStorageBackend, keyStorageDataDir, keyStoragePGDSN,
	keyDefaultDiameter, keyAverageZ,
	keyLegendDir, keyLegendAlpha,
	keyReprAttribute, keyThresholdsFile, keyLexiconFile,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend:     s.getBackend(defaults.Storage.Backend),
			DataDir:     s.configStore.GetString(keyStorageDataDir),
			PostgresDSN: s.configStore.GetString(keyStoragePGDSN),
		},
		Ingest: domain.IngestSettings{
			DefaultDiameter: s.getFloat(keyDefaultDiameter, defaults.Ingest.DefaultDiameter),
			AverageZ:        s.getOptionalFloat(keyAverageZ),
		},
		Legend: domain.LegendSettings{
			Dir:   s.configStore.GetString(keyLegendDir),
			Alpha: s.getFloat(keyLegendAlpha, defaults.Legend.Alpha),
		},
		Display: domain.DisplaySettings{
			ReprAttribute: s.getString(keyReprAttribute, defaults.Display.ReprAttribute),
		},
		Pollutants: domain.PollutantSettings{
			ThresholdsFile: s.configStore.GetString(keyThresholdsFile),
		},
		Lexicon: domain.LexiconSettings{
			File: s.configStore.GetString(keyLexiconFile),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageDataDir, settings.Storage.DataDir},
		{keyStoragePGDSN, settings.Storage.PostgresDSN},
		{keyDefaultDiameter, settings.Ingest.DefaultDiameter},
		{keyLegendDir, settings.Legend.Dir},
		{keyLegendAlpha, settings.Legend.Alpha},
		{keyReprAttribute, settings.Display.ReprAttribute},
		{keyThresholdsFile, settings.Pollutants.ThresholdsFile},
		{keyLexiconFile, settings.Lexicon.File},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// TOML has no null, so an unset average Z is an absent key
	if settings.Ingest.AverageZ == nil {
		if err := s.configStore.Delete(keyAverageZ); err != nil {
			return fmt.Errorf("save %s: %w", keyAverageZ, err)
		}
	} else if err := s.configStore.Set(keyAverageZ, *settings.Ingest.AverageZ); err != nil {
		return fmt.Errorf("save %s: %w", keyAverageZ, err)
	}

	return s.configStore.Save()
}

// Set updates a single setting by key. Values are validated before saving.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case keyStorageBackend:
		settings.Storage.Backend = domain.StorageBackend(strings.ToLower(value))
	case keyStorageDataDir:
		settings.Storage.DataDir = value
	case keyStoragePGDSN:
		settings.Storage.PostgresDSN = value
	case keyDefaultDiameter:
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		settings.Ingest.DefaultDiameter = f
	case keyAverageZ:
		if value == "" {
			settings.Ingest.AverageZ = nil
			break
		}
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		settings.Ingest.AverageZ = &f
	case keyLegendDir:
		settings.Legend.Dir = value
	case keyLegendAlpha:
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		settings.Legend.Alpha = f
	case keyReprAttribute:
		settings.Display.ReprAttribute = value
	case keyThresholdsFile:
		settings.Pollutants.ThresholdsFile = value
	case keyLexiconFile:
		settings.Lexicon.File = value
	default:
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(SettingKeys, ", "))
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	return s.Save(settings)
}

// SetReprAttribute updates the default display attribute.
func (s *SettingsService) SetReprAttribute(attribute string) error {
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		return fmt.Errorf("%w: repr attribute is empty", domain.ErrInvalidInput)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Display.ReprAttribute = attribute
	return s.Save(settings)
}

// SetAverageZ updates the fallback collar elevation. Nil clears it.
func (s *SettingsService) SetAverageZ(z *float64) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Ingest.AverageZ = z
	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if val, ok := s.configStore.GetFloat(key); ok {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getOptionalFloat(key string) *float64 {
	if val, ok := s.configStore.GetFloat(key); ok {
		return &val
	}
	return nil
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
	}
	return f, nil
}
