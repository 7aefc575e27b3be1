package driving

import "github.com/custodia-labs/borehole-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dot-notation key, converting the
	// textual value to the setting's type.
	Set(key, value string) error

	// SetReprAttribute updates the default display attribute.
	SetReprAttribute(attribute string) error

	// SetAverageZ updates the fallback collar elevation. Nil clears it.
	SetAverageZ(z *float64) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
