package geometry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

func testScene() domain.Scene {
	spec := domain.LegendSpec{
		Legend: domain.Legend{{Value: "sand", Colour: "#ffff00", Width: 3}},
		Cmap:   &domain.Colormap{Colors: []domain.RGBA{{R: 1, G: 1, B: 0, A: 0.5}}},
		Values: []string{"sand"},
	}
	return domain.Scene{
		Attribute: "lithology",
		Legend:    spec,
		Boreholes: []domain.BoreholeGeometry{{
			Name:     "B1",
			Diameter: 0.1,
			Collar:   domain.Vertex{X: 1, Y: 2, Z: 50},
			Vertices: []domain.Vertex{{X: 1, Y: 2, Z: 50}, {X: 1, Y: 2, Z: 48}},
			Segments: []domain.Segment{{0, 1}},
			Scalars:  map[string][]int{"lithology": {0}},
			Legends:  map[string]domain.LegendSpec{"lithology": spec},
		}},
	}
}

func TestRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	r := New(true)
	assert.Equal(t, "json", r.Name())
	require.NoError(t, r.Render(context.Background(), testScene(), &buf))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "lithology", doc.Attribute)
	require.Len(t, doc.Boreholes, 1)

	b := doc.Boreholes[0]
	assert.Equal(t, "B1", b.Name)
	assert.Equal(t, [3]float64{1, 2, 50}, b.Collar)
	assert.Equal(t, [][2]int{{0, 1}}, b.Segments)
	assert.Equal(t, []int{0}, b.Scalars["lithology"])
	assert.Equal(t, "#ffff00", b.Legends["lithology"].Entries[0].Colour)
	assert.Equal(t, [4]float64{1, 1, 0, 0.5}, doc.Legend.Colors[0])
}

func TestConvert_EmptyScene(t *testing.T) {
	doc := Convert(domain.Scene{Attribute: "As"})
	assert.Empty(t, doc.Boreholes)
	assert.NotNil(t, doc.Boreholes)
	assert.Empty(t, doc.Legend.Colors)
}

func TestRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.ErrorIs(t, New(false).Render(ctx, testScene(), &buf), context.Canceled)
	assert.Zero(t, buf.Len())
}
