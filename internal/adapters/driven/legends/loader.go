package legends

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/frames"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.LegendLoader = (*Loader)(nil)

var (
	colourColumn    = regexp.MustCompile(`(?i)^colou?r$`)
	widthColumn     = regexp.MustCompile(`(?i)^width$`)
	componentColumn = regexp.MustCompile(`(?i)^component\s+(\S.*)$`)
)

// Loader reads legend CSV files.
type Loader struct{}

// NewLoader creates a legend loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads one legend file and returns its attribute and entries.
func (l *Loader) LoadFile(_ context.Context, path string) (string, domain.Legend, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	frame, err := frames.ReadCSV(f)
	if err != nil {
		return "", nil, fmt.Errorf("legend %s: %w", path, err)
	}
	attr, legend, err := parseLegend(frame)
	if err != nil {
		return "", nil, fmt.Errorf("legend %s: %w", path, err)
	}
	return attr, legend, nil
}

// LoadDir reads every *.csv legend in dir, in file name order. When two
// files define the same attribute the first one wins.
func (l *Loader) LoadDir(ctx context.Context, dir string) (domain.LegendDict, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	dict := make(domain.LegendDict, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attr, legend, err := l.LoadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		if _, dup := dict.Get(attr); dup {
			logger.Warn("legend %s: attribute %s already defined, ignored", p, attr)
			continue
		}
		dict[attr] = domain.LegendSpec{Legend: legend}
		logger.Debug("Loaded legend %s: %d entries from %s", attr, len(legend), filepath.Base(p))
	}
	return dict, nil
}

func parseLegend(frame domain.Frame) (string, domain.Legend, error) {
	colourCol, widthCol, valueCol := -1, -1, -1
	var attr string
	for i, c := range frame.Columns {
		switch {
		case colourColumn.MatchString(c):
			colourCol = i
		case widthColumn.MatchString(c):
			widthCol = i
		case componentColumn.MatchString(c):
			valueCol = i
			attr = domain.CanonicalAttributeName(componentColumn.FindStringSubmatch(c)[1])
		}
	}
	if colourCol < 0 || valueCol < 0 {
		return "", nil, fmt.Errorf("%w: header needs colour and component <attribute> columns",
			domain.ErrInvalidInput)
	}

	legend := make(domain.Legend, 0, frame.Len())
	for row := 0; row < frame.Len(); row++ {
		value := frame.Cell(row, valueCol)
		if value == "" {
			continue
		}
		colour := frame.Cell(row, colourCol)
		if _, err := domain.ParseHexColour(colour, 1); err != nil {
			return "", nil, fmt.Errorf("row %d: %w", row+2, err)
		}
		width := domain.DefaultLegendWidth
		if cell := frame.Cell(row, widthCol); cell != "" {
			w, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
			if err != nil || w <= 0 {
				return "", nil, fmt.Errorf("%w: row %d width %q", domain.ErrInvalidInput, row+2, cell)
			}
			width = w
		}
		legend = append(legend, domain.LegendEntry{
			Value:  value,
			Colour: strings.ToLower(colour),
			Width:  width,
		})
	}
	return attr, legend, nil
}
