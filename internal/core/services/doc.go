// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - Ingestor: tabular frames to boreholes, components and links
//   - LegendResolver: per-borehole and project legends and colormaps
//   - Borehole3D: geometry and scalar view over one borehole
//   - Project: session lifecycle and refresh of the above
//   - SettingsService: application settings
//
// Services are pure Go with no CGO. They reach storage, files and
// classification only through driven ports.
package services
