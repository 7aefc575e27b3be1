package frames

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/logger"
)

// Ensure XLSXReader implements the interface.
var _ driven.FrameReader = (*XLSXReader)(nil)

// XLSXReader reads workbooks. Each non-empty sheet is a frame whose Kind is
// the sheet name, so a workbook with "Lithology" and "Samples" sheets is a
// complete ingestion input.
type XLSXReader struct{}

// NewXLSXReader creates a workbook reader.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Supports reports whether path is an .xlsx workbook.
func (r *XLSXReader) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// Read returns one frame per non-empty sheet in workbook order.
func (r *XLSXReader) Read(_ context.Context, path string) ([]domain.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Debug("closing %s: %v", path, err)
		}
	}()

	var frames []domain.Frame
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, path, err)
		}
		if len(rows) == 0 || blank(rows[0]) {
			logger.Debug("%s: sheet %q is empty, skipped", path, sheet)
			continue
		}
		frame := newFrame(rows[0], rows[1:])
		frame.Kind = sheet
		frame.Source = path + "#" + sheet
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s has no data sheet", domain.ErrSchemaViolation, path)
	}
	return frames, nil
}
