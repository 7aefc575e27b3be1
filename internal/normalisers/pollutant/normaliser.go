// Package pollutant normalises pollutant concentration columns into
// contamination level components.
package pollutant

import (
	"context"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.AttributeNormaliser = (*Normaliser)(nil)

// Normaliser classifies concentrations of recognised pollutants.
type Normaliser struct {
	classifier driven.ContaminationClassifier
}

// New creates a pollutant normaliser over classifier.
func New(classifier driven.ContaminationClassifier) *Normaliser {
	return &Normaliser{classifier: classifier}
}

// Kind returns the attribute kind handled.
func (n *Normaliser) Kind() domain.AttributeKind {
	return domain.AttributeKindPollutant
}

// Accepts reports whether attribute is a pollutant abbreviation or full name.
func (n *Normaliser) Accepts(attribute string) bool {
	return n.classifier.IsPollutant(attribute)
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 20 // Pollutant columns win over lexicons
}

// Normalise classifies raw and returns {abbreviation: level}, the key
// lowercased like every attribute name.
func (n *Normaliser) Normalise(_ context.Context, attribute, raw string) (domain.Component, error) {
	canonical, level, err := n.classifier.Classify(attribute, raw)
	if err != nil {
		return domain.Component{}, err
	}
	return domain.NewComponent(strings.ToLower(canonical), domain.NormaliseValue(level)), nil
}
