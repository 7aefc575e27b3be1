// Package striplog renders a scene as a 2D strip log PDF: one coloured
// column per borehole on a shared elevation scale, with the legend below.
package striplog

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Page layout in millimetres.
const (
	marginX        = 20.0
	marginTop      = 30.0
	columnHeight   = 180.0
	columnWidth    = 12.0
	columnGap      = 14.0
	columnsPerPage = 8
	swatchSize     = 5.0
)

// missingColour draws intervals whose value has no legend colour.
var missingColour = domain.RGBA{R: 0.85, G: 0.85, B: 0.85, A: 1}

// Renderer writes strip log PDFs.
type Renderer struct {
	title string
}

// New creates a strip log renderer. title heads every page.
func New(title string) *Renderer {
	if title == "" {
		title = "Borehole logs"
	}
	return &Renderer{title: title}
}

// Name returns the renderer name.
func (r *Renderer) Name() string {
	return "pdf"
}

// Render writes the scene as a PDF to w.
func (r *Renderer) Render(ctx context.Context, scene domain.Scene, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.title, true)
	top, bottom := elevationRange(scene)

	if len(scene.Boreholes) == 0 {
		r.header(pdf, scene)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, "No boreholes")
	}
	for start := 0; start < len(scene.Boreholes); start += columnsPerPage {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.header(pdf, scene)
		r.scale(pdf, top, bottom)
		end := min(start+columnsPerPage, len(scene.Boreholes))
		for i, g := range scene.Boreholes[start:end] {
			x := marginX + 12 + float64(i)*(columnWidth+columnGap)
			r.column(pdf, g, scene.Attribute, x, top, bottom)
		}
		r.legend(pdf, scene.Legend)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering strip log: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) header(pdf *gofpdf.Fpdf, scene domain.Scene) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, r.title)
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Attribute: "+scene.Attribute)
	pdf.Ln(6)
}

// scale draws the elevation axis.
func (r *Renderer) scale(pdf *gofpdf.Fpdf, top, bottom float64) {
	pdf.SetFont("Arial", "", 7)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(marginX+8, marginTop, marginX+8, marginTop+columnHeight)
	steps := 5
	for k := 0; k <= steps; k++ {
		z := top - (top-bottom)*float64(k)/float64(steps)
		y := project(z, top, bottom)
		pdf.Line(marginX+6, y, marginX+8, y)
		pdf.Text(marginX-8, y+1, fmt.Sprintf("%.1f", z))
	}
}

func (r *Renderer) column(pdf *gofpdf.Fpdf, g domain.BoreholeGeometry, attr string, x, top, bottom float64) {
	pdf.SetFont("Arial", "B", 7)
	pdf.Text(x, marginTop-3, g.Name)

	scalars := g.Scalars[attr]
	spec := g.Legends[attr]
	for i, seg := range g.Segments {
		zTop := g.Vertices[seg[0]].Z
		zBase := g.Vertices[seg[1]].Z
		colour := missingColour
		if i < len(scalars) && scalars[i] >= 0 && scalars[i] < spec.Cmap.Len() {
			colour = spec.Cmap.Colors[scalars[i]]
		}
		red, green, blue := rgb(colour)
		pdf.SetFillColor(red, green, blue)
		y0 := project(zTop, top, bottom)
		y1 := project(zBase, top, bottom)
		pdf.Rect(x, y0, columnWidth, math.Max(y1-y0, 0.2), "FD")
	}
}

func (r *Renderer) legend(pdf *gofpdf.Fpdf, spec domain.LegendSpec) {
	y := marginTop + columnHeight + 10
	pdf.SetFont("Arial", "", 8)
	x := marginX
	for i, entry := range spec.Legend {
		colour := missingColour
		if i < spec.Cmap.Len() {
			colour = spec.Cmap.Colors[i]
		}
		red, green, blue := rgb(colour)
		pdf.SetFillColor(red, green, blue)
		pdf.Rect(x, y, swatchSize, swatchSize, "FD")
		pdf.Text(x+swatchSize+2, y+swatchSize-1, pdf.UnicodeTranslatorFromDescriptor("")(entry.Value))
		x += 40
		if x > 170 {
			x = marginX
			y += swatchSize + 3
		}
	}
}

// elevationRange returns the highest and lowest vertex elevations.
func elevationRange(scene domain.Scene) (float64, float64) {
	top, bottom := math.Inf(-1), math.Inf(1)
	for _, g := range scene.Boreholes {
		for _, v := range g.Vertices {
			top = math.Max(top, v.Z)
			bottom = math.Min(bottom, v.Z)
		}
	}
	if math.IsInf(top, 0) || top == bottom {
		return top + 1, top - 1
	}
	return top, bottom
}

// project maps an elevation to a page ordinate.
func project(z, top, bottom float64) float64 {
	return marginTop + (top-z)/(top-bottom)*columnHeight
}

func rgb(c domain.RGBA) (int, int, int) {
	return int(math.Round(c.R * 255)), int(math.Round(c.G * 255)), int(math.Round(c.B * 255))
}
