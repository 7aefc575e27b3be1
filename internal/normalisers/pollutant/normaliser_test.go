package pollutant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/pollutants"
)

func TestNormaliser_Normalise(t *testing.T) {
	n := New(pollutants.NewDefault())

	tests := []struct {
		attribute string
		raw       string
		want      string
	}{
		{"As", "5", "VR"},
		{"Arsenic", "30", "VS"},
		{"AS", "300", "VI"},
		{"as", "20", "VS"},
	}
	for _, tt := range tests {
		t.Run(tt.attribute+"="+tt.raw, func(t *testing.T) {
			c, err := n.Normalise(context.Background(), tt.attribute, tt.raw)
			require.NoError(t, err)
			got, ok := c.Get("as")
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "as", c.Attributes[0].Name)
		})
	}
}

func TestNormaliser_Accepts(t *testing.T) {
	n := New(pollutants.NewDefault())

	assert.True(t, n.Accepts("Pb"))
	assert.True(t, n.Accepts("plomb"))
	assert.False(t, n.Accepts("lithology"))
	assert.Equal(t, domain.AttributeKindPollutant, n.Kind())
}

func TestNormaliser_Normalise_InvalidValue(t *testing.T) {
	n := New(pollutants.NewDefault())

	_, err := n.Normalise(context.Background(), "As", "<LQ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
