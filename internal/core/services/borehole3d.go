package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// Borehole3D is a read-only view over one borehole: its ordered intervals,
// the display attribute and a per-attribute legend snapshot.
type Borehole3D struct {
	borehole      domain.Borehole
	reprAttribute string
	legends       domain.LegendDict
}

// NewBorehole3D creates a view. The borehole and legends are copied.
func NewBorehole3D(borehole domain.Borehole, reprAttribute string, legends domain.LegendDict) *Borehole3D {
	b := borehole.Clone()
	b.SortIntervals()
	return &Borehole3D{
		borehole:      b,
		reprAttribute: reprAttribute,
		legends:       legends.Clone(),
	}
}

// Name returns the borehole id.
func (v *Borehole3D) Name() string {
	return v.borehole.ID
}

// Borehole returns a copy of the underlying borehole.
func (v *Borehole3D) Borehole() domain.Borehole {
	return v.borehole.Clone()
}

// ReprAttribute returns the display attribute.
func (v *Borehole3D) ReprAttribute() string {
	return v.reprAttribute
}

// Legends returns a copy of the legend snapshot.
func (v *Borehole3D) Legends() domain.LegendDict {
	return v.legends.Clone()
}

// SetLegends replaces the legend snapshot with a copy of legends.
func (v *Borehole3D) SetLegends(legends domain.LegendDict) {
	v.legends = legends.Clone()
}

// Clone returns a deep copy of the view.
func (v *Borehole3D) Clone() *Borehole3D {
	return &Borehole3D{
		borehole:      v.borehole.Clone(),
		reprAttribute: v.reprAttribute,
		legends:       v.legends.Clone(),
	}
}

// ComponentsByAttribute selects one component per interval: the first one
// carrying attr, else a sentinel holding domain.DefaultAttributeValue.
func (v *Borehole3D) ComponentsByAttribute(attr string) ([]domain.Component, error) {
	out := make([]domain.Component, 0, len(v.borehole.Intervals))
	for _, intv := range v.borehole.Intervals {
		idx, err := domain.FindComponentFromAttrib(intv, attr)
		if err != nil {
			return nil, fmt.Errorf("borehole %q: %w", v.borehole.ID, err)
		}
		if idx < 0 {
			out = append(out, sentinelComponent(attr))
			continue
		}
		out = append(out, intv.Components[idx])
	}
	return out, nil
}

// Values returns the distinct values of attr in interval order.
func (v *Borehole3D) Values(attr string) ([]string, error) {
	components, err := v.ComponentsByAttribute(attr)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, c := range components {
		values = domain.AppendUnique(values, attributeValue(c, attr))
	}
	return values, nil
}

// ComponentIndices returns, per segment, the index of the interval's value
// of attr within values. Values absent from the list map to -1.
func (v *Borehole3D) ComponentIndices(attr string, values []string) ([]int, error) {
	components, err := v.ComponentsByAttribute(attr)
	if err != nil {
		return nil, err
	}
	if values == nil {
		if values, err = v.Values(attr); err != nil {
			return nil, err
		}
	}
	out := make([]int, len(components))
	for i, c := range components {
		out[i] = domain.IndexOfValue(values, attributeValue(c, attr))
	}
	return out, nil
}

// Geometry returns the vertices and the (top, base) segments of the
// intervals. Identical coordinates share a vertex.
func (v *Borehole3D) Geometry() ([]domain.Vertex, []domain.Segment) {
	var vertices []domain.Vertex
	index := make(map[domain.Vertex]int)
	vertexOf := func(p domain.Position) int {
		vx := v.vertex(p)
		if i, ok := index[vx]; ok {
			return i
		}
		index[vx] = len(vertices)
		vertices = append(vertices, vx)
		return len(vertices) - 1
	}

	segments := make([]domain.Segment, 0, len(v.borehole.Intervals))
	for _, intv := range v.borehole.Intervals {
		top := vertexOf(intv.Top)
		base := vertexOf(intv.Base)
		segments = append(segments, domain.Segment{top, base})
	}
	return vertices, segments
}

// vertex places a position. Positions store absolute elevations; planimetric
// coordinates fall back to the collar.
func (v *Borehole3D) vertex(p domain.Position) domain.Vertex {
	if p.HasXY() {
		return domain.Vertex{X: *p.X, Y: *p.Y, Z: p.Middle}
	}
	c := v.Collar()
	return domain.Vertex{X: c.X, Y: c.Y, Z: p.Middle}
}

// Collar returns the collar position, unknown coordinates as 0.
func (v *Borehole3D) Collar() domain.Vertex {
	var c domain.Vertex
	if v.borehole.X != nil {
		c.X = *v.borehole.X
	}
	if v.borehole.Y != nil {
		c.Y = *v.borehole.Y
	}
	c.Z = v.borehole.ZRef()
	return c
}

// UpdateZCollarFromIntervals sets the collar elevation to the highest
// interval top.
func (v *Borehole3D) UpdateZCollarFromIntervals() {
	if len(v.borehole.Intervals) == 0 {
		return
	}
	top := math.Inf(-1)
	for _, intv := range v.borehole.Intervals {
		top = math.Max(top, intv.Top.Middle)
	}
	v.borehole.Z = domain.Float(top)
}

// BoreholeGeometry returns what rendering collaborators consume: geometry,
// scalar indices and legends for every attribute of the snapshot and for
// the display attribute.
func (v *Borehole3D) BoreholeGeometry() (domain.BoreholeGeometry, error) {
	vertices, segments := v.Geometry()
	g := domain.BoreholeGeometry{
		Name:      v.borehole.ID,
		Diameter:  v.borehole.Diameter,
		Vertices:  vertices,
		Segments:  segments,
		Scalars:   make(map[string][]int),
		Legends:   make(map[string]domain.LegendSpec),
		Collar:    v.Collar(),
		Attribute: v.reprAttribute,
	}
	attrs := v.legends.Attributes()
	if v.reprAttribute != "" {
		if _, ok := v.legends.Get(v.reprAttribute); !ok {
			attrs = append(attrs, v.reprAttribute)
		}
	}
	for _, attr := range attrs {
		spec, ok := v.legends.Get(attr)
		var values []string
		if ok {
			values = spec.Values
		}
		indices, err := v.ComponentIndices(attr, values)
		if err != nil {
			return domain.BoreholeGeometry{}, err
		}
		g.Scalars[attr] = indices
		if ok {
			g.Legends[attr] = spec.Clone()
		}
	}
	return g, nil
}

// Attributes returns the attribute names carried by the borehole's
// components in first-occurrence order.
func (v *Borehole3D) Attributes() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, intv := range v.borehole.Intervals {
		for _, c := range intv.Components {
			for _, a := range c.Attributes {
				key := strings.ToLower(a.Name)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, a.Name)
			}
		}
	}
	return out
}

func sentinelComponent(attr string) domain.Component {
	return domain.NewComponent(attr, domain.DefaultAttributeValue)
}

func attributeValue(c domain.Component, attr string) string {
	if value, ok := c.Get(attr); ok {
		return value
	}
	return domain.DefaultAttributeValue
}
