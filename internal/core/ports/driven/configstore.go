package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation matching the TOML tables (e.g. "ingest.average_z").
// Settings only need strings and numbers; other value types read as absent.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetFloat retrieves a float configuration value.
	// Integers are converted. Returns false if key doesn't exist or isn't numeric.
	GetFloat(key string) (float64, bool)

	// Set stores a configuration value. File-backed stores persist immediately.
	Set(key string, value any) error

	// Delete removes a configuration value.
	Delete(key string) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
