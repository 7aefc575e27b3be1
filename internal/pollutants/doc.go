// Package pollutants classifies pollutant concentrations into contamination
// levels.
//
// The threshold table ships embedded (thresholds.yaml) and can be replaced
// by a YAML file of the same shape. Names resolve by abbreviation, then by
// full name, then by the closest full name (difflib ratio >= 0.6).
package pollutants
