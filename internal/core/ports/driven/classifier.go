package driven

import "github.com/custodia-labs/borehole-cli/internal/core/domain"

// ContaminationClassifier maps pollutant concentrations to contamination
// levels.
type ContaminationClassifier interface {
	// IsPollutant reports whether name is an exact abbreviation or full name
	// (case-insensitive). Close matches are not considered.
	IsPollutant(name string) bool

	// Resolve returns the canonical name: exact abbreviation, then exact full
	// name, then the closest full name above the similarity cutoff.
	// Fails with domain.ErrUnknownPollutant.
	Resolve(name string) (string, error)

	// Classify resolves the pollutant and assigns the level of value.
	// Comma decimal separators are accepted.
	Classify(pollutant, value string) (canonical, level string, err error)

	// Pollutant returns the table entry for a canonical name.
	Pollutant(canonical string) (domain.Pollutant, bool)

	// LevelLegend returns the default legend of contamination levels.
	LevelLegend() domain.Legend
}
