// Package driving defines the services the CLI and TUI call into.
// These are the "driving" ports of the hexagonal layout.
//
//   - ProjectService: the borehole project aggregate
//   - IngestService: frames to staged boreholes
//   - SettingsService: application settings
//
// Implementations live in internal/core/services.
package driving
