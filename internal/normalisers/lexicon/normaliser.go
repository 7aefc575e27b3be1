package lexicon

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.AttributeNormaliser = (*Normaliser)(nil)

// Normaliser maps raw values of one attribute to canonical lexicon terms.
type Normaliser struct {
	attribute   string
	aliases     []string
	kind        domain.AttributeKind
	passthrough bool
	terms       map[string]string
	order       []string
}

func newNormaliser(def Definition) (*Normaliser, error) {
	attr := domain.CanonicalAttributeName(def.Attribute)
	if attr == "" {
		return nil, fmt.Errorf("%w: lexicon without attribute", domain.ErrInvalidInput)
	}
	kind := domain.AttributeKind(strings.ToLower(def.Kind))
	if kind == "" {
		kind = domain.AttributeKindLithology
	}
	if !kind.IsValid() || kind == domain.AttributeKindPollutant {
		return nil, fmt.Errorf("%w: lexicon %s has kind %q", domain.ErrInvalidInput, attr, def.Kind)
	}
	n := &Normaliser{
		attribute:   attr,
		kind:        kind,
		passthrough: def.Passthrough,
		terms:       make(map[string]string),
	}
	for _, a := range def.Aliases {
		n.aliases = append(n.aliases, domain.CanonicalAttributeName(a))
	}
	for _, t := range def.Terms {
		canonical := domain.NormaliseValue(t.Value)
		if canonical == "" {
			return nil, fmt.Errorf("%w: lexicon %s has an empty term", domain.ErrInvalidInput, attr)
		}
		n.order = append(n.order, canonical)
		for _, raw := range append([]string{t.Value}, t.Synonyms...) {
			n.terms[key(raw)] = canonical
		}
	}
	return n, nil
}

// Attribute returns the canonical attribute name.
func (n *Normaliser) Attribute() string {
	return n.attribute
}

// Terms returns the canonical values in lexicon order.
func (n *Normaliser) Terms() []string {
	return append([]string(nil), n.order...)
}

// Kind returns the attribute kind handled.
func (n *Normaliser) Kind() domain.AttributeKind {
	return n.kind
}

// Accepts reports whether attribute is the lexicon attribute or an alias.
func (n *Normaliser) Accepts(attribute string) bool {
	a := domain.CanonicalAttributeName(attribute)
	for _, name := range n.names() {
		if a == name {
			return true
		}
	}
	return false
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	if n.passthrough {
		return 5
	}
	return 10
}

// Normalise returns the component of raw. Components carry the canonical
// attribute name whatever alias the column used.
func (n *Normaliser) Normalise(_ context.Context, _ string, raw string) (domain.Component, error) {
	value := domain.NormaliseValue(raw)
	if value == "" {
		return domain.Component{}, fmt.Errorf("%w: empty %s value", domain.ErrUnknownAttributeValue, n.attribute)
	}
	if canonical, ok := n.terms[key(value)]; ok {
		return domain.NewComponent(n.attribute, canonical), nil
	}
	if n.passthrough {
		return domain.NewComponent(n.attribute, value), nil
	}
	return domain.Component{}, fmt.Errorf("%w: %s %q", domain.ErrUnknownAttributeValue, n.attribute, raw)
}

func (n *Normaliser) names() []string {
	return append([]string{n.attribute}, n.aliases...)
}
