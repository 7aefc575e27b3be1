package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/pollutants"
)

func s3Legends() domain.LegendDict {
	return domain.LegendDict{
		"lithology": {Legend: domain.Legend{
			{Value: "clay", Colour: "#aaaaaa", Width: 2},
			{Value: "sand", Colour: "#ffff00", Width: 3},
			{Value: "silt", Colour: "#884400", Width: 1},
		}},
	}
}

func hexes(cmap *domain.Colormap) []string {
	out := make([]string, 0, cmap.Len())
	for _, c := range cmap.Colors {
		out = append(out, c.Hex())
	}
	return out
}

func TestLegendResolver_S3_OnlyObservedValues(t *testing.T) {
	b := testBorehole("B1", 0, 0, 10,
		[]any{0.0, 1.0, lith("sand")},
		[]any{1.0, 2.0, lith("clay")},
	)
	views := []*Borehole3D{NewBorehole3D(b, domain.AttributeLithology, nil)}
	metrics := &recordingMetrics{}
	resolver := NewLegendResolver(nil, metrics, 1)

	res, err := resolver.Resolve(views, s3Legends(), ResolveOptions{Attributes: []string{"lithology"}})
	require.NoError(t, err)

	spec := res.Project["lithology"]
	assert.Equal(t, []string{"sand", "clay"}, spec.Values)
	assert.Equal(t, []string{"#ffff00", "#aaaaaa"}, hexes(spec.Cmap))
	assert.Equal(t, []string{"sand", "clay"}, spec.Legend.Values())
	assert.InDelta(t, 3.0, spec.Legend[0].Width, 1e-9)

	bh := res.Boreholes["B1"]["lithology"]
	assert.Equal(t, []string{"sand", "clay"}, bh.Values)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"lithology"}, metrics.resolutions)
}

func TestLegendResolver_PerBoreholeAndProject(t *testing.T) {
	b1 := testBorehole("B1", 0, 0, 10, []any{0.0, 1.0, lith("clay")})
	b2 := testBorehole("B2", 5, 5, 10,
		[]any{0.0, 1.0, lith("silt")},
		[]any{1.0, 2.0, lith("sand")},
	)
	views := []*Borehole3D{
		NewBorehole3D(b1, domain.AttributeLithology, nil),
		NewBorehole3D(b2, domain.AttributeLithology, nil),
	}
	resolver := NewLegendResolver(nil, nil, 0.5)

	res, err := resolver.Resolve(views, s3Legends(), ResolveOptions{ComputeAll: true, UpdateViews: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"clay"}, res.Boreholes["B1"]["lithology"].Values)
	assert.Equal(t, []string{"silt", "sand"}, res.Boreholes["B2"]["lithology"].Values)
	project := res.Project["lithology"]
	assert.Equal(t, []string{"clay", "silt", "sand"}, project.Values)
	assert.InDelta(t, 0.5, project.Cmap.Colors[0].A, 1e-9)

	spec, ok := views[1].Legends().Get("lithology")
	require.True(t, ok)
	assert.Equal(t, []string{"silt", "sand"}, spec.Values)
}

func TestLegendResolver_DoesNotModifyDefaults(t *testing.T) {
	b := testBorehole("B1", 0, 0, 10, []any{0.0, 1.0, lith("sand")})
	views := []*Borehole3D{NewBorehole3D(b, domain.AttributeLithology, nil)}
	defaults := s3Legends()

	_, err := NewLegendResolver(nil, nil, 1).Resolve(views, defaults, ResolveOptions{ComputeAll: true})
	require.NoError(t, err)
	assert.Len(t, defaults["lithology"].Legend, 3)
	assert.Nil(t, defaults["lithology"].Cmap)
	assert.Empty(t, views[0].Legends())
}

func TestLegendResolver_FirstEntryWins(t *testing.T) {
	b := testBorehole("B1", 0, 0, 10, []any{0.0, 1.0, lith("sand")})
	views := []*Borehole3D{NewBorehole3D(b, domain.AttributeLithology, nil)}
	defaults := domain.LegendDict{"lithology": {Legend: domain.Legend{
		{Value: "Sands", Colour: "#111111"},
		{Value: "sand", Colour: "#222222"},
	}}}

	res, err := NewLegendResolver(nil, nil, 1).Resolve(views, defaults, ResolveOptions{Attributes: []string{"lithology"}})
	require.NoError(t, err)
	spec := res.Project["lithology"]
	require.Len(t, spec.Legend, 1)
	assert.Equal(t, "#111111", spec.Legend[0].Colour)
	assert.InDelta(t, domain.DefaultLegendWidth, spec.Legend[0].Width, 1e-9)
}

func TestLegendResolver_SentinelWithoutLegendEntry(t *testing.T) {
	b := testBorehole("B1", 0, 0, 10,
		[]any{0.0, 1.0, domain.NewComponent("as", "VS")},
		[]any{1.0, 2.0, lith("sand")},
	)
	views := []*Borehole3D{NewBorehole3D(b, domain.AttributeLithology, nil)}

	res, err := NewLegendResolver(nil, nil, 1).Resolve(views, s3Legends(), ResolveOptions{Attributes: []string{"lithology"}})
	require.NoError(t, err)
	spec := res.Project["lithology"]
	assert.Equal(t, []string{"sand", domain.DefaultAttributeValue}, spec.Values)
	assert.Equal(t, []string{"sand"}, spec.Legend.Values())
}

func TestLegendResolver_PollutantLevelLegend(t *testing.T) {
	b := testBorehole("B1", 0, 0, 10,
		[]any{0.0, 1.0, domain.NewComponent("as", "VI")},
		[]any{1.0, 2.0, domain.NewComponent("as", "VR")},
		[]any{2.0, 3.0, lith("sand")},
	)
	views := []*Borehole3D{NewBorehole3D(b, "As", nil)}

	res, err := NewLegendResolver(pollutants.NewDefault(), nil, 1).Resolve(views, nil, ResolveOptions{Attributes: []string{"As"}})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	spec := res.Project["As"]
	assert.Equal(t, []string{"VI", "VR", domain.DefaultAttributeValue}, spec.Values)
	assert.Equal(t, []string{"#d62728", "#2ca02c", "#a0a0a0"}, hexes(spec.Cmap))
}

func TestLegendResolver_MissingLegendFallsBackToRandom(t *testing.T) {
	b := testBorehole("B1", 0, 0, 10,
		[]any{0.0, 1.0, domain.NewComponent("colour", "red")},
		[]any{1.0, 2.0, domain.NewComponent("colour", "blue")},
	)
	views := []*Borehole3D{NewBorehole3D(b, "colour", nil)}

	res, err := NewLegendResolver(nil, nil, 1).Resolve(views, nil, ResolveOptions{Attributes: []string{"colour"}})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarningMissingLegend, res.Warnings[0].Kind)

	spec := res.Project["colour"]
	assert.Equal(t, []string{"red", "blue"}, spec.Values)
	assert.Len(t, spec.Legend, 2)
}

func TestRandomLegend_Deterministic(t *testing.T) {
	a := RandomLegend([]string{"sand", "clay"})
	b := RandomLegend([]string{"clay", "Sands"})

	require.Len(t, a, 2)
	assert.Equal(t, a[0].Colour, b[1].Colour)
	assert.Equal(t, a[1].Colour, b[0].Colour)
	assert.NotEqual(t, a[0].Colour, a[1].Colour)
}

func TestCmapValuesAlignment_Property(t *testing.T) {
	legend := domain.Legend{
		{Value: "clay", Colour: "#aaaaaa"},
		{Value: "sand", Colour: "#ffff00"},
		{Value: "silt", Colour: "#884400"},
	}
	cmap, err := domain.ColormapFromLegend(legend, 1)
	require.NoError(t, err)
	spec := domain.LegendSpec{
		Legend: legend,
		Cmap:   cmap,
		Values: []string{"Inconnu", "silt", "sand", "clay"},
	}

	aligned := CmapValuesAlignment(spec)
	assert.Equal(t, []string{"clay", "sand", "silt", "Inconnu"}, aligned.Values)
	for i, c := range aligned.Cmap.Colors {
		for _, e := range aligned.Legend {
			if e.Matches(aligned.Values[i]) {
				assert.Equal(t, e.Colour, c.Hex())
			}
		}
	}
	assert.Equal(t, []string{"Inconnu", "silt", "sand", "clay"}, spec.Values, "input untouched")
}

func TestCmapValuesAlignment_NoColormap(t *testing.T) {
	spec := domain.LegendSpec{Values: []string{"b", "a"}}
	assert.Equal(t, []string{"b", "a"}, CmapValuesAlignment(spec).Values)
}

func TestAttribAnnotations(t *testing.T) {
	legend := domain.Legend{
		{Value: "sand", Colour: "#ffff00"},
		{Value: "clay", Colour: "#aaaaaa"},
	}
	cmap, err := domain.ColormapFromLegend(legend, 1)
	require.NoError(t, err)

	ann := AttribAnnotations(domain.LegendSpec{
		Legend: legend,
		Cmap:   cmap,
		Values: []string{"sand", "clay", "silt"},
	})
	// incr = (3-1)/2 = 1, bounds 0, 1, 2.
	assert.InDeltaSlice(t, []float64{0.5, 1.5}, ann.Positions, 1e-9)
	assert.Equal(t, []string{"Sand", "Clay", "Silt"}, ann.Labels)

	assert.Empty(t, AttribAnnotations(domain.LegendSpec{}).Positions)
}

func TestAttribAnnotations_Labels(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"sand", "Sand"},
		{"sable fin", "Sable fin"},
		{"élevé", "Élevé"},
		{"VI", "VI"},
		{"", ""},
	}

	cmap, err := domain.ColormapFromLegend(domain.Legend{{Value: "x", Colour: "#000000"}}, 1)
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ann := AttribAnnotations(domain.LegendSpec{Cmap: cmap, Values: []string{tt.value}})
			assert.Equal(t, []string{tt.want}, ann.Labels)
		})
	}
}
