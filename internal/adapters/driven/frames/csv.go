package frames

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure CSVReader implements the interface.
var _ driven.FrameReader = (*CSVReader)(nil)

const utf8BOM = "\ufeff"

// CSVReader reads delimited text files. The first row is the header.
type CSVReader struct{}

// NewCSVReader creates a CSV reader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Supports reports whether path has a .csv or .txt extension.
func (r *CSVReader) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return true
	default:
		return false
	}
}

// Read returns one frame named after the file.
func (r *CSVReader) Read(_ context.Context, path string) ([]domain.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frame, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	frame.Kind = stem(path)
	frame.Source = path
	return []domain.Frame{frame}, nil
}

// ReadCSV parses delimited text from r. The delimiter is sniffed from the
// header line.
func ReadCSV(r io.Reader) (domain.Frame, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return domain.Frame{}, err
	}
	first := strings.TrimPrefix(firstLine(string(header)), utf8BOM)
	if strings.TrimSpace(first) == "" {
		return domain.Frame{}, fmt.Errorf("%w: empty table", domain.ErrSchemaViolation)
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(first)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return domain.Frame{}, fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
	}
	columns := records[0]
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], utf8BOM)
	}
	return newFrame(columns, records[1:]), nil
}

// sniffDelimiter picks the most frequent of ";", "," and tab in line,
// preferring ";" on ties since "," doubles as a decimal separator.
func sniffDelimiter(line string) rune {
	best, bestCount := ';', strings.Count(line, ";")
	for _, d := range []rune{',', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// newFrame trims headers and drops blank rows.
func newFrame(columns []string, rows [][]string) domain.Frame {
	frame := domain.Frame{Columns: make([]string, len(columns))}
	for i, c := range columns {
		frame.Columns[i] = strings.TrimSpace(c)
	}
	for _, row := range rows {
		if blank(row) {
			continue
		}
		frame.Rows = append(frame.Rows, row)
	}
	return frame
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
