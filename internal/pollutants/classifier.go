package pollutants

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// DefaultCutoff is the minimum similarity ratio of a fuzzy name match.
const DefaultCutoff = 0.6

// Ensure Classifier implements the interface.
var _ driven.ContaminationClassifier = (*Classifier)(nil)

// Classifier resolves pollutant names and assigns contamination levels.
// It is read-only after construction.
type Classifier struct {
	pollutants []domain.Pollutant
	byAbbr     map[string]int
	byName     map[string]int
	levels     []LevelDef
	cutoff     float64
}

// New builds a classifier over table.
func New(table *Table) *Classifier {
	c := &Classifier{
		byAbbr: make(map[string]int, len(table.Pollutants)),
		byName: make(map[string]int, len(table.Pollutants)),
		levels: append([]LevelDef(nil), table.Levels...),
		cutoff: DefaultCutoff,
	}
	for i, def := range table.Pollutants {
		c.pollutants = append(c.pollutants, def.toDomain())
		c.byAbbr[lower(def.Abbreviation)] = i
		c.byName[lower(def.Name)] = i
	}
	return c
}

// NewDefault builds a classifier over the embedded table.
func NewDefault() *Classifier {
	return New(DefaultTable())
}

// NewFromFile builds a classifier from path, or the embedded table when
// path is empty.
func NewFromFile(path string) (*Classifier, error) {
	if path == "" {
		return NewDefault(), nil
	}
	t, err := LoadTable(path)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// IsPollutant reports whether name is a known abbreviation or full name.
func (c *Classifier) IsPollutant(name string) bool {
	_, ok := c.exact(name)
	return ok
}

// Resolve returns the canonical abbreviation of name.
func (c *Classifier) Resolve(name string) (string, error) {
	if i, ok := c.exact(name); ok {
		return c.pollutants[i].Abbreviation, nil
	}
	if i, ok := c.closest(name); ok {
		return c.pollutants[i].Abbreviation, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownPollutant, name)
}

// Classify resolves pollutant and returns the level of value.
func (c *Classifier) Classify(pollutant, value string) (string, string, error) {
	canonical, err := c.Resolve(pollutant)
	if err != nil {
		return "", "", err
	}
	v, err := ParseConcentration(value)
	if err != nil {
		return "", "", err
	}
	p, _ := c.Pollutant(canonical)
	return canonical, p.Classify(v), nil
}

// Pollutant returns the entry of a canonical abbreviation.
func (c *Classifier) Pollutant(canonical string) (domain.Pollutant, bool) {
	i, ok := c.byAbbr[lower(canonical)]
	if !ok {
		return domain.Pollutant{}, false
	}
	return c.pollutants[i], true
}

// Pollutants returns every table entry in table order.
func (c *Classifier) Pollutants() []domain.Pollutant {
	return append([]domain.Pollutant(nil), c.pollutants...)
}

// LevelLegend returns one legend entry per declared level.
func (c *Classifier) LevelLegend() domain.Legend {
	legend := make(domain.Legend, 0, len(c.levels))
	for _, l := range c.levels {
		legend = append(legend, domain.LegendEntry{
			Value:  l.Token,
			Colour: l.Colour,
			Width:  domain.DefaultLegendWidth,
		})
	}
	return legend
}

// LevelColours returns the level tokens and their colours.
func (c *Classifier) LevelColours() []domain.LevelColour {
	out := make([]domain.LevelColour, 0, len(c.levels))
	for _, l := range c.levels {
		out = append(out, domain.LevelColour{Token: l.Token, Colour: l.Colour})
	}
	return out
}

func (c *Classifier) exact(name string) (int, bool) {
	key := lower(name)
	if i, ok := c.byAbbr[key]; ok {
		return i, true
	}
	i, ok := c.byName[key]
	return i, ok
}

// closest returns the full name with the best similarity ratio, ties going
// to table order.
func (c *Classifier) closest(name string) (int, bool) {
	word := chars(lower(name))
	if len(word) == 0 {
		return 0, false
	}
	best, bestRatio := -1, 0.0
	m := difflib.NewMatcher(nil, word)
	for i, p := range c.pollutants {
		m.SetSeq1(chars(lower(p.Name)))
		if m.RealQuickRatio() < c.cutoff || m.QuickRatio() < c.cutoff {
			continue
		}
		if r := m.Ratio(); r >= c.cutoff && r > bestRatio {
			best, bestRatio = i, r
		}
	}
	return best, best >= 0
}

// ParseConcentration parses a concentration, accepting a comma decimal
// separator.
func ParseConcentration(value string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: concentration %q", domain.ErrInvalidInput, value)
	}
	return v, nil
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
