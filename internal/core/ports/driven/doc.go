// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BoreholeStore, Session: Relational persistence with staged commits
//   - ContaminationClassifier: Pollutant concentration to level
//   - AttributeNormaliser, NormaliserRegistry: Cell value to component
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - FrameReader: Tabular file input (CSV, XLSX)
//   - LegendLoader: Legend CSV files
//   - Renderer: Geometry consumers (strip-log PDF, JSON)
//   - Metrics: Operational counters (NopMetrics when absent)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
