package striplog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

func testScene(t *testing.T) domain.Scene {
	t.Helper()
	legend := domain.Legend{
		{Value: "sand", Colour: "#ffff00", Width: 3},
		{Value: "clay", Colour: "#aaaaaa", Width: 3},
	}
	cmap, err := domain.ColormapFromLegend(legend, 1)
	require.NoError(t, err)
	spec := domain.LegendSpec{Legend: legend, Cmap: cmap, Values: []string{"sand", "clay"}}
	return domain.Scene{
		Attribute: "lithology",
		Legend:    spec,
		Boreholes: []domain.BoreholeGeometry{{
			Name:     "B1",
			Diameter: 0.1,
			Vertices: []domain.Vertex{{Z: 50}, {Z: 48}, {Z: 45}},
			Segments: []domain.Segment{{0, 1}, {1, 2}},
			Scalars:  map[string][]int{"lithology": {0, 1}},
			Legends:  map[string]domain.LegendSpec{"lithology": spec},
		}},
	}
}

func TestRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	r := New("")
	assert.Equal(t, "pdf", r.Name())

	require.NoError(t, r.Render(context.Background(), testScene(t), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderer_EmptyScene(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New("Site").Render(context.Background(), domain.Scene{Attribute: "lithology"}, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.ErrorIs(t, New("").Render(ctx, testScene(t), &buf), context.Canceled)
}

func TestElevationRange(t *testing.T) {
	top, bottom := elevationRange(testScene(t))
	assert.InDelta(t, 50.0, top, 1e-9)
	assert.InDelta(t, 45.0, bottom, 1e-9)

	top, bottom = elevationRange(domain.Scene{})
	assert.Greater(t, top, bottom)
}

func TestProject(t *testing.T) {
	assert.InDelta(t, marginTop, project(50, 50, 45), 1e-9)
	assert.InDelta(t, marginTop+columnHeight, project(45, 50, 45), 1e-9)
}
