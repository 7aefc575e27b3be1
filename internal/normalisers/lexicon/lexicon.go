// Package lexicon normalises lithology and sample attributes through
// term lexicons.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

//go:embed lexicons.yaml
var defaultLexicons []byte

type fileShape struct {
	Lexicons []Definition `yaml:"lexicons"`
}

// Definition is the YAML shape of one attribute lexicon.
type Definition struct {
	Attribute   string   `yaml:"attribute"`
	Kind        string   `yaml:"kind"`
	Aliases     []string `yaml:"aliases"`
	Passthrough bool     `yaml:"passthrough"`
	Terms       []Term   `yaml:"terms"`
}

// Term is a canonical value and the raw spellings mapping to it.
type Term struct {
	Value    string   `yaml:"value"`
	Synonyms []string `yaml:"synonyms"`
}

// Set is an ordered collection of lexicons.
type Set struct {
	normalisers []*Normaliser
}

// Parse decodes a lexicon file.
func Parse(data []byte) (*Set, error) {
	var f fileShape
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicons: %w", err)
	}
	set := &Set{}
	seen := make(map[string]struct{})
	for _, def := range f.Lexicons {
		n, err := newNormaliser(def)
		if err != nil {
			return nil, err
		}
		for _, name := range n.names() {
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: attribute %q declared twice", domain.ErrInvalidInput, name)
			}
			seen[name] = struct{}{}
		}
		set.normalisers = append(set.normalisers, n)
	}
	return set, nil
}

// Default returns the embedded lexicons.
func Default() *Set {
	set, err := Parse(defaultLexicons)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicons: %v", err))
	}
	return set
}

// LoadSet reads lexicons from path, or returns the embedded ones when path
// is empty.
func LoadSet(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicons: %w", err)
	}
	return Parse(data)
}

// Normalisers returns one normaliser per lexicon, in file order.
func (s *Set) Normalisers() []*Normaliser {
	return append([]*Normaliser(nil), s.normalisers...)
}

// Lookup returns the normaliser of attribute.
func (s *Set) Lookup(attribute string) (*Normaliser, bool) {
	for _, n := range s.normalisers {
		if n.Accepts(attribute) {
			return n, true
		}
	}
	return nil, false
}

func key(s string) string {
	return strings.ToLower(domain.NormaliseValue(s))
}
