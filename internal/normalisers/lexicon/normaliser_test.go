package lexicon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

func lithology(t *testing.T) *Normaliser {
	t.Helper()
	n, ok := Default().Lookup("lithology")
	require.True(t, ok)
	return n
}

func TestNormaliser_Normalise_Lithology(t *testing.T) {
	n := lithology(t)

	tests := []struct {
		raw  string
		want string
	}{
		{"sand", "sand"},
		{"Sands", "sand"},
		{"Sable", "sand"},
		{"sables", "sand"},
		{"ARGILE", "clay"},
		{"Gneiss", "gneiss"},
		{"Grès", "sandstone"},
		{"Remblais", "fill"},
		{"  craie ", "chalk"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, err := n.Normalise(context.Background(), "Lithology", tt.raw)
			require.NoError(t, err)
			got, ok := c.Get(domain.AttributeLithology)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormaliser_Normalise_Unknown(t *testing.T) {
	n := lithology(t)

	_, err := n.Normalise(context.Background(), "lithology", "kimberlite")
	assert.ErrorIs(t, err, domain.ErrUnknownAttributeValue)

	_, err = n.Normalise(context.Background(), "lithology", "  ")
	assert.ErrorIs(t, err, domain.ErrUnknownAttributeValue)
}

func TestNormaliser_Accepts_Aliases(t *testing.T) {
	n := lithology(t)

	assert.True(t, n.Accepts("LITHOLOGIE"))
	assert.True(t, n.Accepts("litho"))
	assert.False(t, n.Accepts("As"))
	assert.Equal(t, domain.AttributeKindLithology, n.Kind())
}

func TestNormaliser_Passthrough(t *testing.T) {
	n, ok := Default().Lookup("borehole_type")
	require.True(t, ok)

	c, err := n.Normalise(context.Background(), "borehole_type", "Piezometers")
	require.NoError(t, err)
	got, _ := c.Get(domain.AttributeBoreholeType)
	assert.Equal(t, "Piezometer", got)
	assert.Less(t, n.Priority(), lithology(t).Priority())
}

func TestNormaliser_SampleKind(t *testing.T) {
	n, ok := Default().Lookup("échantillon")
	require.True(t, ok)
	assert.Equal(t, domain.AttributeKindSample, n.Kind())

	c, err := n.Normalise(context.Background(), "echantillon", "Eaux")
	require.NoError(t, err)
	got, _ := c.Get("sample_type")
	assert.Equal(t, "water", got)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"no attribute":  "lexicons:\n  - kind: lithology\n",
		"pollutant":     "lexicons:\n  - {attribute: x, kind: pollutant}\n",
		"duplicate":     "lexicons:\n  - {attribute: x}\n  - {attribute: y, aliases: [X]}\n",
		"empty term":    "lexicons:\n  - attribute: x\n    terms:\n      - {value: \"\"}\n",
		"not yaml list": "lexicons: 3\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadSet(t *testing.T) {
	set, err := LoadSet("")
	require.NoError(t, err)
	assert.NotEmpty(t, set.Normalisers())

	path := filepath.Join(t.TempDir(), "lexicons.yaml")
	data := "lexicons:\n  - attribute: colour\n    terms:\n      - {value: red, synonyms: [rouge]}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	set, err = LoadSet(path)
	require.NoError(t, err)
	n, ok := set.Lookup("Colour")
	require.True(t, ok)
	assert.Equal(t, []string{"red"}, n.Terms())
}
