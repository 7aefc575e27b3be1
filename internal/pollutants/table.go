package pollutants

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

//go:embed thresholds.yaml
var defaultTable []byte

// Table is the YAML shape of a threshold table.
type Table struct {
	Levels     []LevelDef     `yaml:"levels"`
	Pollutants []PollutantDef `yaml:"pollutants"`
}

// LevelDef is a contamination level and its legend colour.
type LevelDef struct {
	Token  string `yaml:"token"`
	Colour string `yaml:"colour"`
}

// PollutantDef is one pollutant row.
type PollutantDef struct {
	Abbreviation string         `yaml:"abbreviation"`
	Name         string         `yaml:"name"`
	Thresholds   []ThresholdDef `yaml:"thresholds"`
}

// ThresholdDef is the lowest concentration of a level.
type ThresholdDef struct {
	Level string  `yaml:"level"`
	Value float64 `yaml:"value"`
}

// ParseTable decodes and validates a threshold table.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse threshold table: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTable reads a threshold table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read threshold table: %w", err)
	}
	return ParseTable(data)
}

// DefaultTable returns the embedded threshold table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded threshold table: %v", err))
	}
	return t
}

func (t *Table) validate() error {
	if len(t.Pollutants) == 0 {
		return fmt.Errorf("%w: threshold table has no pollutants", domain.ErrInvalidInput)
	}
	levels := make(map[string]struct{}, len(t.Levels))
	for _, l := range t.Levels {
		if l.Token == "" {
			return fmt.Errorf("%w: level without token", domain.ErrInvalidInput)
		}
		if _, err := domain.ParseHexColour(l.Colour, 1); err != nil {
			return fmt.Errorf("level %s: %w", l.Token, err)
		}
		levels[l.Token] = struct{}{}
	}
	seen := make(map[string]struct{}, len(t.Pollutants))
	for _, p := range t.Pollutants {
		if p.Abbreviation == "" || p.Name == "" {
			return fmt.Errorf("%w: pollutant needs abbreviation and name", domain.ErrInvalidInput)
		}
		if _, dup := seen[lower(p.Abbreviation)]; dup {
			return fmt.Errorf("%w: duplicate pollutant %s", domain.ErrInvalidInput, p.Abbreviation)
		}
		seen[lower(p.Abbreviation)] = struct{}{}
		for _, th := range p.Thresholds {
			if _, ok := levels[th.Level]; len(levels) > 0 && !ok {
				return fmt.Errorf("%w: pollutant %s uses undeclared level %s",
					domain.ErrInvalidInput, p.Abbreviation, th.Level)
			}
		}
	}
	return nil
}

func (d PollutantDef) toDomain() domain.Pollutant {
	p := domain.Pollutant{Abbreviation: d.Abbreviation, Name: d.Name}
	for _, th := range d.Thresholds {
		p.Levels = append(p.Levels, domain.ContaminationLevel{Token: th.Level, Threshold: th.Value})
	}
	return p
}
