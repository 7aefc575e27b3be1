package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrSessionClosed indicates the session was used after Close.
	ErrSessionClosed = errors.New("session closed")

	// Ingestion Errors.

	// ErrSchemaViolation indicates tabular input is missing a required role
	// or a column could not be mapped. Fatal for the affected borehole.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrGeometryInvalid indicates an interval with base <= top or base == 0.
	// Fatal for the row.
	ErrGeometryInvalid = errors.New("invalid interval geometry")

	// ErrUnknownPollutant indicates a pollutant name that cannot be resolved,
	// not even by a close match.
	ErrUnknownPollutant = errors.New("unknown pollutant")

	// ErrUnknownAttributeValue indicates a value absent from the attribute's
	// lexicon. The component is skipped.
	ErrUnknownAttributeValue = errors.New("unknown attribute value")

	// Legend Errors.

	// ErrMissingLegend indicates no legend was supplied for an attribute and
	// none could be synthesised. A random legend is used instead.
	ErrMissingLegend = errors.New("missing legend")

	// ErrEmptyInterval indicates an interval without any component.
	ErrEmptyInterval = errors.New("interval has no components")
)

// RowError carries the location of a row-level ingestion failure.
// It unwraps to the underlying sentinel so callers can use errors.Is.
type RowError struct {
	// Borehole is the borehole identifier of the offending row.
	Borehole string

	// Kind is the data kind of the frame the row came from.
	Kind IntervalType

	// Row is the 0-based row index inside its source frame.
	Row int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("borehole %q, %s row %d: %v", e.Borehole, e.Kind, e.Row, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}
