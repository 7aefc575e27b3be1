package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/pollutants"
)

type stubNormaliser struct {
	attr     string
	priority int
	kind     domain.AttributeKind
}

func (s stubNormaliser) Kind() domain.AttributeKind    { return s.kind }
func (s stubNormaliser) Accepts(attribute string) bool { return attribute == s.attr }
func (s stubNormaliser) Priority() int                 { return s.priority }
func (s stubNormaliser) Normalise(_ context.Context, attr, raw string) (domain.Component, error) {
	return domain.NewComponent(attr, raw), nil
}

func TestRegistry_ForAttribute_PriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(stubNormaliser{attr: "x", priority: 1, kind: domain.AttributeKindSample})
	r.Register(stubNormaliser{attr: "x", priority: 9, kind: domain.AttributeKindLithology})

	n, ok := r.ForAttribute("x")
	require.True(t, ok)
	assert.Equal(t, 9, n.Priority())

	kind, ok := r.Kind("x")
	require.True(t, ok)
	assert.Equal(t, domain.AttributeKindLithology, kind)

	_, ok = r.ForAttribute("y")
	assert.False(t, ok)
}

func TestNewDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry(pollutants.NewDefault(), "")
	require.NoError(t, err)

	tests := map[string]domain.AttributeKind{
		"lithology":     domain.AttributeKindLithology,
		"As":            domain.AttributeKindPollutant,
		"Plomb":         domain.AttributeKindPollutant,
		"sample_type":   domain.AttributeKindSample,
		"borehole_type": domain.AttributeKindLithology,
	}
	for attr, want := range tests {
		kind, ok := r.Kind(attr)
		require.True(t, ok, attr)
		assert.Equal(t, want, kind, attr)
	}

	_, ok := r.Kind("comment")
	assert.False(t, ok)
}

func TestNewDefaultRegistry_MissingLexiconFile(t *testing.T) {
	_, err := NewDefaultRegistry(pollutants.NewDefault(), "/nonexistent/lexicons.yaml")
	assert.Error(t, err)
}
