package frames

import (
	"context"
	"fmt"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.FrameReader = (*Reader)(nil)

// Reader dispatches to the first registered reader supporting a path.
type Reader struct {
	readers []driven.FrameReader
}

// NewReader creates a reader over readers, tried in order.
func NewReader(readers ...driven.FrameReader) *Reader {
	return &Reader{readers: readers}
}

// NewDefaultReader handles CSV and XLSX files.
func NewDefaultReader() *Reader {
	return NewReader(NewCSVReader(), NewXLSXReader())
}

// Supports reports whether any reader handles path.
func (r *Reader) Supports(path string) bool {
	_, ok := r.find(path)
	return ok
}

// Read reads path with the first supporting reader.
func (r *Reader) Read(ctx context.Context, path string) ([]domain.Frame, error) {
	reader, ok := r.find(path)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported input file %s", domain.ErrInvalidInput, path)
	}
	return reader.Read(ctx, path)
}

// ReadAll reads every path and concatenates the frames in argument order.
func (r *Reader) ReadAll(ctx context.Context, paths []string) ([]domain.Frame, error) {
	var frames []domain.Frame
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fs, err := r.Read(ctx, p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, fs...)
	}
	return frames, nil
}

func (r *Reader) find(path string) (driven.FrameReader, bool) {
	for _, reader := range r.readers {
		if reader.Supports(path) {
			return reader, true
		}
	}
	return nil, false
}
