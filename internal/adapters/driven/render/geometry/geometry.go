// Package geometry renders a scene as a JSON document for 3D viewers.
package geometry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Document is the top-level JSON shape.
type Document struct {
	Attribute string     `json:"attribute"`
	Legend    Legend     `json:"legend"`
	Boreholes []Borehole `json:"boreholes"`
}

// Borehole is one borehole's geometry.
type Borehole struct {
	Name     string            `json:"name"`
	Diameter float64           `json:"diameter"`
	Collar   [3]float64        `json:"collar"`
	Vertices [][3]float64      `json:"vertices"`
	Segments [][2]int          `json:"segments"`
	Scalars  map[string][]int  `json:"scalars"`
	Legends  map[string]Legend `json:"legends"`
}

// Legend is a serialised legend spec.
type Legend struct {
	Values  []string      `json:"values"`
	Entries []LegendEntry `json:"entries"`
	Colors  [][4]float64  `json:"colors"`
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Value  string  `json:"value"`
	Colour string  `json:"colour"`
	Width  float64 `json:"width"`
}

// Renderer writes scenes as JSON.
type Renderer struct {
	indent bool
}

// New creates a JSON renderer. indent pretty-prints the output.
func New(indent bool) *Renderer {
	return &Renderer{indent: indent}
}

// Name returns the renderer name.
func (r *Renderer) Name() string {
	return "json"
}

// Render writes the scene to w.
func (r *Renderer) Render(ctx context.Context, scene domain.Scene, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if r.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(Convert(scene)); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return nil
}

// Convert maps a scene onto its JSON document.
func Convert(scene domain.Scene) Document {
	doc := Document{
		Attribute: scene.Attribute,
		Legend:    convertLegend(scene.Legend),
		Boreholes: make([]Borehole, 0, len(scene.Boreholes)),
	}
	for _, g := range scene.Boreholes {
		b := Borehole{
			Name:     g.Name,
			Diameter: g.Diameter,
			Collar:   [3]float64{g.Collar.X, g.Collar.Y, g.Collar.Z},
			Vertices: make([][3]float64, len(g.Vertices)),
			Segments: make([][2]int, len(g.Segments)),
			Scalars:  g.Scalars,
			Legends:  make(map[string]Legend, len(g.Legends)),
		}
		for i, v := range g.Vertices {
			b.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
		}
		for i, s := range g.Segments {
			b.Segments[i] = [2]int(s)
		}
		for attr, spec := range g.Legends {
			b.Legends[attr] = convertLegend(spec)
		}
		doc.Boreholes = append(doc.Boreholes, b)
	}
	return doc
}

func convertLegend(spec domain.LegendSpec) Legend {
	out := Legend{
		Values:  append([]string{}, spec.Values...),
		Entries: make([]LegendEntry, 0, len(spec.Legend)),
		Colors:  make([][4]float64, 0, spec.Cmap.Len()),
	}
	for _, e := range spec.Legend {
		out.Entries = append(out.Entries, LegendEntry{Value: e.Value, Colour: e.Colour, Width: e.Width})
	}
	if spec.Cmap != nil {
		for _, c := range spec.Cmap.Colors {
			out.Colors = append(out.Colors, [4]float64{c.R, c.G, c.B, c.A})
		}
	}
	return out
}
