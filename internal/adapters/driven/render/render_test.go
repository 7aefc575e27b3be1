package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	for _, format := range Formats() {
		r, err := New(format, "")
		require.NoError(t, err)
		assert.Equal(t, format, r.Name())
	}

	_, err := New("svg", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
