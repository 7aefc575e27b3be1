package driven

import (
	"context"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// AttributeNormaliser turns a raw cell of an attribute column into a
// canonical component. Each normaliser handles one attribute kind.
type AttributeNormaliser interface {
	// Kind returns the attribute kind handled.
	Kind() domain.AttributeKind

	// Accepts reports whether the normaliser recognises the attribute.
	Accepts(attribute string) bool

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Normalise returns the component for a raw value. Unknown values fail
	// with domain.ErrUnknownAttributeValue.
	Normalise(ctx context.Context, attribute, raw string) (domain.Component, error)
}

// NormaliserRegistry selects the normaliser of an attribute.
type NormaliserRegistry interface {
	// Register adds a normaliser to the registry.
	Register(normaliser AttributeNormaliser)

	// ForAttribute returns the highest-priority normaliser accepting the
	// attribute.
	ForAttribute(attribute string) (AttributeNormaliser, bool)

	// Kind returns the attribute kind of the selected normaliser.
	Kind(attribute string) (domain.AttributeKind, bool)
}
