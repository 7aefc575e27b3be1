package services

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/logger"
)

// ResolveOptions selects the attributes a resolution covers.
type ResolveOptions struct {
	// Attributes lists the attributes to resolve, in order.
	Attributes []string

	// ComputeAll adds every attribute present in the views.
	ComputeAll bool

	// UpdateViews stores each borehole's legends in its view.
	UpdateViews bool
}

// Resolution is the output of LegendResolver.Resolve.
type Resolution struct {
	// Boreholes maps a borehole id to its per-attribute legend specs.
	Boreholes map[string]domain.LegendDict

	// Project is the project-wide synthesis.
	Project domain.LegendDict

	// Warnings lists attributes that fell back to a random legend.
	Warnings []domain.Warning
}

// LegendResolver computes, per borehole and project-wide, the legend
// entries that occur, the colormap and the ordered attribute values.
type LegendResolver struct {
	classifier driven.ContaminationClassifier
	metrics    driven.Metrics
	alpha      float64
}

// NewLegendResolver creates a resolver. The classifier supplies level
// legends for pollutant attributes and may be nil.
func NewLegendResolver(classifier driven.ContaminationClassifier, metrics driven.Metrics, alpha float64) *LegendResolver {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	return &LegendResolver{classifier: classifier, metrics: metrics, alpha: alpha}
}

// Alpha returns the colormap opacity.
func (r *LegendResolver) Alpha() float64 {
	return r.alpha
}

// Resolve resolves the legends of views against defaults. Neither the views'
// snapshots nor defaults are modified unless opts.UpdateViews is set.
func (r *LegendResolver) Resolve(
	views []*Borehole3D,
	defaults domain.LegendDict,
	opts ResolveOptions,
) (*Resolution, error) {
	defaults = defaults.Clone()
	res := &Resolution{
		Boreholes: make(map[string]domain.LegendDict, len(views)),
		Project:   make(domain.LegendDict),
	}
	for _, v := range views {
		res.Boreholes[v.Name()] = make(domain.LegendDict)
	}

	for _, attr := range resolveAttributes(views, opts) {
		if err := r.resolveAttribute(views, defaults, attr, res); err != nil {
			return nil, err
		}
		r.metrics.ObserveLegendResolution(attr)
	}

	if opts.UpdateViews {
		for _, v := range views {
			v.SetLegends(res.Boreholes[v.Name()])
		}
	}
	return res, nil
}

func (r *LegendResolver) resolveAttribute(
	views []*Borehole3D,
	defaults domain.LegendDict,
	attr string,
	res *Resolution,
) error {
	perBorehole := make([][]string, len(views))
	var global []string
	for i, v := range views {
		values, err := v.Values(attr)
		if err != nil {
			return err
		}
		perBorehole[i] = values
		for _, value := range values {
			global = domain.AppendUnique(global, value)
		}
	}

	legend := r.defaultLegend(defaults, attr, global, res)

	for i, v := range views {
		spec, err := r.build(legend, perBorehole[i])
		if err != nil {
			return fmt.Errorf("borehole %q, attribute %s: %w", v.Name(), attr, err)
		}
		res.Boreholes[v.Name()][attr] = CmapValuesAlignment(spec)
	}
	spec, err := r.build(legend, global)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", attr, err)
	}
	res.Project[attr] = CmapValuesAlignment(spec)
	logger.Debug("Legend %s: %d value(s), %d legend entries", attr, len(global), len(spec.Legend))
	return nil
}

// defaultLegend returns the configured legend of attr, else the level legend
// of a pollutant, else a random legend with a MissingLegend warning.
func (r *LegendResolver) defaultLegend(
	defaults domain.LegendDict,
	attr string,
	values []string,
	res *Resolution,
) domain.Legend {
	if spec, ok := defaults.Get(attr); ok && len(spec.Legend) > 0 {
		return spec.Legend.Clone()
	}
	if r.classifier != nil && r.classifier.IsPollutant(attr) {
		return r.classifier.LevelLegend()
	}
	msg := fmt.Sprintf("%v for %s, using random colours", domain.ErrMissingLegend, attr)
	res.Warnings = append(res.Warnings, domain.Warning{Kind: domain.WarningMissingLegend, Message: msg})
	logger.Warn("%s", msg)
	return RandomLegend(values)
}

// build binds legend entries to values: each entry matching a value is
// indexed by the value's position, the first entry for an index wins, and
// the legend is emitted in index order.
func (r *LegendResolver) build(legend domain.Legend, values []string) (domain.LegendSpec, error) {
	decor := make(map[int]domain.LegendEntry)
	for _, entry := range legend {
		idx := domain.IndexOfValue(values, entry.Value)
		if idx < 0 {
			continue
		}
		if _, taken := decor[idx]; taken {
			continue
		}
		if entry.Width <= 0 {
			entry.Width = domain.DefaultLegendWidth
		}
		decor[idx] = entry
	}

	keys := make([]int, 0, len(decor))
	for k := range decor {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make(domain.Legend, 0, len(keys))
	for _, k := range keys {
		out = append(out, decor[k])
	}

	cmap, err := domain.ColormapFromLegend(out, r.alpha)
	if err != nil {
		return domain.LegendSpec{}, err
	}
	return domain.LegendSpec{
		Legend: out,
		Cmap:   cmap,
		Values: append([]string(nil), values...),
	}, nil
}

// CmapValuesAlignment reorders spec.Values so that Values[i] is the value of
// the legend entry coloured Cmap.Colors[i]. Values without a legend entry
// keep their relative order after the coloured ones.
func CmapValuesAlignment(spec domain.LegendSpec) domain.LegendSpec {
	out := spec.Clone()
	if out.Cmap.Len() == 0 {
		return out
	}

	used := make([]bool, len(out.Values))
	aligned := make([]string, 0, len(out.Values))
	for _, colour := range out.Cmap.Colors {
		hex := colour.Hex()
		for _, entry := range out.Legend {
			c, err := domain.ParseHexColour(entry.Colour, colour.A)
			if err != nil || c.Hex() != hex {
				continue
			}
			idx := indexUnused(out.Values, used, entry.Value)
			if idx < 0 {
				continue
			}
			used[idx] = true
			aligned = append(aligned, out.Values[idx])
			break
		}
	}
	for i, value := range out.Values {
		if !used[i] {
			aligned = append(aligned, value)
		}
	}
	out.Values = aligned
	return out
}

func indexUnused(values []string, used []bool, value string) int {
	target := domain.NormaliseValue(value)
	for i, v := range values {
		if !used[i] && strings.EqualFold(domain.NormaliseValue(v), target) {
			return i
		}
	}
	return -1
}

// RandomLegend builds a legend for values with colours derived from a hash
// of each value, so a value is always drawn the same colour.
func RandomLegend(values []string) domain.Legend {
	legend := make(domain.Legend, 0, len(values))
	for _, v := range values {
		h := fnv.New64a()
		_, _ = h.Write([]byte(strings.ToLower(domain.NormaliseValue(v))))
		rng := rand.New(rand.NewSource(int64(h.Sum64())))
		// Keep channels off pure black so entries stay distinguishable.
		colour := domain.RGBA{
			R: 0.15 + 0.85*rng.Float64(),
			G: 0.15 + 0.85*rng.Float64(),
			B: 0.15 + 0.85*rng.Float64(),
			A: 1,
		}
		legend = append(legend, domain.LegendEntry{
			Value:  v,
			Colour: colour.Hex(),
			Width:  domain.DefaultLegendWidth,
		})
	}
	return legend
}

// Annotations are the colorbar labels of a legend spec.
type Annotations struct {
	Positions []float64
	Labels    []string
}

// AttribAnnotations spreads the values of spec over its colormap: with
// n colours and m values, bounds are k*(m-1)/n for k < n then n, and labels
// sit at the middle of consecutive bounds.
func AttribAnnotations(spec domain.LegendSpec) Annotations {
	nCol := spec.Cmap.Len()
	m := len(spec.Values)
	if nCol == 0 || m == 0 {
		return Annotations{}
	}
	incr := float64(m-1) / float64(nCol)
	bounds := make([]float64, 0, nCol+1)
	for k := 0; k < nCol; k++ {
		bounds = append(bounds, float64(k)*incr)
	}
	bounds = append(bounds, float64(nCol))

	upper := cases.Upper(language.Und)
	out := Annotations{
		Positions: make([]float64, nCol),
		Labels:    make([]string, 0, m),
	}
	for i := 0; i < nCol; i++ {
		out.Positions[i] = (bounds[i] + bounds[i+1]) / 2
	}
	for _, v := range spec.Values {
		out.Labels = append(out.Labels, capitalise(upper, v))
	}
	return out
}

// capitalise upper-cases the first rune of v and keeps the rest.
func capitalise(upper cases.Caser, v string) string {
	_, size := utf8.DecodeRuneInString(v)
	if size == 0 {
		return v
	}
	return upper.String(v[:size]) + v[size:]
}

// resolveAttributes lists opts.Attributes, then with ComputeAll the
// attributes of the views, without duplicates.
func resolveAttributes(views []*Borehole3D, opts ResolveOptions) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(attr string) {
		key := strings.ToLower(strings.TrimSpace(attr))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, attr)
	}
	for _, a := range opts.Attributes {
		add(a)
	}
	if opts.ComputeAll {
		for _, v := range views {
			for _, a := range v.Attributes() {
				add(a)
			}
		}
	}
	return out
}
