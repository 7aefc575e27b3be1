package normalisers

import (
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/normalisers/lexicon"
	"github.com/custodia-labs/borehole-cli/internal/normalisers/pollutant"
)

// RegisterDefaults registers the pollutant normaliser and one lexicon
// normaliser per entry of lexicons.
// Call this during application initialisation.
func RegisterDefaults(r *Registry, classifier driven.ContaminationClassifier, lexicons *lexicon.Set) {
	if classifier != nil {
		r.Register(pollutant.New(classifier))
	}
	if lexicons == nil {
		return
	}
	for _, n := range lexicons.Normalisers() {
		r.Register(n)
	}
}

// NewDefaultRegistry builds a registry with the built-in lexicons, or the
// lexicons of lexiconFile when set.
func NewDefaultRegistry(classifier driven.ContaminationClassifier, lexiconFile string) (*Registry, error) {
	set, err := lexicon.LoadSet(lexiconFile)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	RegisterDefaults(r, classifier, set)
	return r, nil
}
