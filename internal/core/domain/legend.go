package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultLegendWidth is the width given to legend entries without one.
const DefaultLegendWidth = 3.0

// LegendEntry binds an attribute value to a display colour.
type LegendEntry struct {
	// Value is the attribute value the entry decorates.
	Value string

	// Colour is a #RRGGBB hex colour.
	Colour string

	// Width is the display width of the entry.
	Width float64
}

// Matches reports whether the entry decorates value (case-insensitive,
// exact after normalisation).
func (e LegendEntry) Matches(value string) bool {
	return strings.EqualFold(NormaliseValue(e.Value), NormaliseValue(value))
}

// Legend is an ordered sequence of entries.
type Legend []LegendEntry

// Clone returns a copy of the legend.
func (l Legend) Clone() Legend {
	if l == nil {
		return nil
	}
	out := make(Legend, len(l))
	copy(out, l)
	return out
}

// Values returns the entry values in legend order.
func (l Legend) Values() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Value
	}
	return out
}

// RGBA is a colour with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// ParseHexColour parses a #RRGGBB (or RRGGBB) colour.
func ParseHexColour(hex string, alpha float64) (RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return RGBA{}, fmt.Errorf("%w: colour %q is not #RRGGBB", ErrInvalidInput, hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: colour %q: %v", ErrInvalidInput, hex, err)
	}
	return RGBA{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: alpha,
	}, nil
}

// Hex returns the #rrggbb form, ignoring alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Colormap is the RGBA colour list derived from a legend, indexed by an
// attribute's unique-values list.
type Colormap struct {
	Colors []RGBA
}

// Len returns the number of colours.
func (c *Colormap) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Colors)
}

// ColormapFromLegend lifts each entry colour to RGBA with alpha.
func ColormapFromLegend(legend Legend, alpha float64) (*Colormap, error) {
	cmap := &Colormap{Colors: make([]RGBA, 0, len(legend))}
	for _, e := range legend {
		c, err := ParseHexColour(e.Colour, alpha)
		if err != nil {
			return nil, fmt.Errorf("legend value %q: %w", e.Value, err)
		}
		cmap.Colors = append(cmap.Colors, c)
	}
	return cmap, nil
}

// LegendSpec groups a legend, its colormap and the ordered attribute values
// the colormap indices refer to.
type LegendSpec struct {
	Legend Legend
	Cmap   *Colormap
	Values []string
}

// Clone returns a deep copy.
func (s LegendSpec) Clone() LegendSpec {
	out := LegendSpec{Legend: s.Legend.Clone()}
	if s.Cmap != nil {
		out.Cmap = &Colormap{Colors: append([]RGBA(nil), s.Cmap.Colors...)}
	}
	if s.Values != nil {
		out.Values = append([]string(nil), s.Values...)
	}
	return out
}

// IndexOf returns the index of value in Values (case-insensitive after
// normalisation), or -1.
func (s LegendSpec) IndexOf(value string) int {
	return IndexOfValue(s.Values, value)
}

// LegendDict maps attribute names to legend specs.
type LegendDict map[string]LegendSpec

// Clone returns a deep copy. Collaborators always receive copies.
func (d LegendDict) Clone() LegendDict {
	if d == nil {
		return LegendDict{}
	}
	out := make(LegendDict, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// Get looks an attribute up case-insensitively.
func (d LegendDict) Get(attribute string) (LegendSpec, bool) {
	if s, ok := d[attribute]; ok {
		return s, true
	}
	for k, v := range d {
		if strings.EqualFold(k, attribute) {
			return v, true
		}
	}
	return LegendSpec{}, false
}

// Attributes returns the attribute names in sorted order.
func (d LegendDict) Attributes() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IndexOfValue returns the index of value in values, comparing
// case-insensitively after normalisation, or -1.
func IndexOfValue(values []string, value string) int {
	target := NormaliseValue(value)
	for i, v := range values {
		if strings.EqualFold(NormaliseValue(v), target) {
			return i
		}
	}
	return -1
}

// AppendUnique appends value unless already present (see IndexOfValue).
func AppendUnique(values []string, value string) []string {
	if IndexOfValue(values, value) >= 0 {
		return values
	}
	return append(values, value)
}
