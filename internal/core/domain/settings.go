package domain

import "fmt"

const unknownDescription = "Unknown"

// StorageBackend selects the relational store.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite is a local SQLite file (default).
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres is a PostgreSQL database reached through a DSN.
	StoragePostgres StorageBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StoragePostgres:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (local file)"
	case StoragePostgres:
		return "PostgreSQL (server)"
	default:
		return unknownDescription
	}
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend is the relational store in use.
	Backend StorageBackend

	// DataDir holds the SQLite database. Empty means ~/.borehole/data.
	DataDir string

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string
}

// IngestSettings holds ingestion defaults.
type IngestSettings struct {
	// DefaultDiameter is used when input carries no diameter, in meters.
	DefaultDiameter float64

	// AverageZ is the fallback collar elevation. Nil leaves Z unset.
	AverageZ *float64
}

// LegendSettings holds legend configuration.
type LegendSettings struct {
	// Dir is a directory of legend CSV files.
	Dir string

	// Alpha is the colormap opacity in [0, 1].
	Alpha float64
}

// DisplaySettings holds display configuration.
type DisplaySettings struct {
	// ReprAttribute is the attribute used for colouring.
	ReprAttribute string
}

// PollutantSettings holds contamination classification configuration.
type PollutantSettings struct {
	// ThresholdsFile overrides the built-in threshold table (YAML).
	ThresholdsFile string
}

// LexiconSettings holds attribute lexicon configuration.
type LexiconSettings struct {
	// File overrides the built-in lexicons (YAML).
	File string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Storage    StorageSettings
	Ingest     IngestSettings
	Legend     LegendSettings
	Display    DisplaySettings
	Pollutants PollutantSettings
	Lexicon    LexiconSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Ingest: IngestSettings{
			DefaultDiameter: DefaultDiameter,
		},
		Legend: LegendSettings{
			Alpha: 1.0,
		},
		Display: DisplaySettings{
			ReprAttribute: AttributeLithology,
		},
	}
}

// Validate checks the settings for consistency.
func (s AppSettings) Validate() error {
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", ErrInvalidInput, s.Storage.Backend)
	}
	if s.Storage.Backend == StoragePostgres && s.Storage.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres backend requires storage.postgres_dsn", ErrInvalidInput)
	}
	if s.Legend.Alpha < 0 || s.Legend.Alpha > 1 {
		return fmt.Errorf("%w: legend alpha %.2f outside [0, 1]", ErrInvalidInput, s.Legend.Alpha)
	}
	if s.Ingest.DefaultDiameter <= 0 {
		return fmt.Errorf("%w: default diameter must be positive", ErrInvalidInput)
	}
	if s.Display.ReprAttribute == "" {
		return fmt.Errorf("%w: repr attribute is empty", ErrInvalidInput)
	}
	return nil
}

// AllStorageBackends returns the backends in display order.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageSQLite, StoragePostgres}
}
