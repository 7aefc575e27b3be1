// Package file stores application settings on the local filesystem.
//
// ConfigStore keeps a flat dot-notation view in memory and writes it back as
// TOML tables to ~/.borehole/config.toml (or --config-dir).
package file
