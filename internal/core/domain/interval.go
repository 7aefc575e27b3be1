package domain

import (
	"fmt"
	"strings"
)

// IntervalType distinguishes lithological descriptions from samples.
type IntervalType string

// Available interval types.
const (
	// IntervalLithology is a lithological log interval.
	IntervalLithology IntervalType = "lithology"

	// IntervalSample is a sample (measurement) interval.
	IntervalSample IntervalType = "sample"
)

// IsValid returns true if the interval type is recognised.
func (t IntervalType) IsValid() bool {
	return t == IntervalLithology || t == IntervalSample
}

// String returns the string representation.
func (t IntervalType) String() string {
	return string(t)
}

// ParseIntervalType parses an interval type case-insensitively.
func ParseIntervalType(s string) (IntervalType, error) {
	t := IntervalType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: interval type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// Interval is a depth band of a borehole.
//
// Top and Base are exclusively owned: deleting the interval deletes both.
// Components are shared through the registry and attached via Link rows.
type Interval struct {
	// ID is the surrogate identifier.
	ID int

	// BoreholeID is the owning borehole.
	BoreholeID string

	// Number is the 0-based insertion rank within the borehole.
	Number int

	// Top is the upper bounding position.
	Top Position

	// Base is the lower bounding position.
	Base Position

	// Description is the comma-joined component descriptions.
	Description string

	// Type is lithology or sample.
	Type IntervalType

	// Components are the linked components, in link rank order.
	Components []Component
}

// Thickness returns the positive thickness for a well-formed interval.
func (i Interval) Thickness() float64 {
	return i.Top.Middle - i.Base.Middle
}

// Validate checks the positive thickness invariant.
func (i Interval) Validate() error {
	if !i.Type.IsValid() {
		return fmt.Errorf("%w: interval %d has type %q", ErrInvalidInput, i.ID, i.Type)
	}
	if i.Thickness() <= 0 {
		return fmt.Errorf("%w: interval %d top %.3f is not above base %.3f",
			ErrGeometryInvalid, i.ID, i.Top.Middle, i.Base.Middle)
	}
	return nil
}

// FindComponentFromAttrib returns the index of the first component whose keys
// include attribute (case-insensitive), or -1 when none does.
func FindComponentFromAttrib(interval Interval, attribute string) (int, error) {
	if len(interval.Components) == 0 {
		return -1, fmt.Errorf("%w: interval %d", ErrEmptyInterval, interval.ID)
	}
	for i, c := range interval.Components {
		if c.HasAttribute(attribute) {
			return i, nil
		}
	}
	return -1, nil
}

// Clone returns a deep copy.
func (i Interval) Clone() Interval {
	out := i
	out.Components = make([]Component, len(i.Components))
	for k, c := range i.Components {
		out.Components[k] = c.Clone()
	}
	return out
}

// Link is the many-to-many edge between an Interval and a Component.
// (IntervalID, ComponentID) is the primary key.
type Link struct {
	// IntervalID references the interval.
	IntervalID int

	// ComponentID references the component.
	ComponentID int

	// ExtraData is optional free-form payload.
	ExtraData string

	// Rank orders the components inside the interval.
	Rank int
}

// LinkKey identifies a link.
type LinkKey struct {
	IntervalID  int
	ComponentID int
}

// Key returns the composite primary key.
func (l Link) Key() LinkKey {
	return LinkKey{IntervalID: l.IntervalID, ComponentID: l.ComponentID}
}

// EntityKind names a table with surrogate integer ids.
type EntityKind string

// Entity kinds with integer ids.
const (
	EntityPosition  EntityKind = "position"
	EntityInterval  EntityKind = "interval"
	EntityComponent EntityKind = "component"
)

// IsValid returns true if the entity kind is recognised.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityPosition, EntityInterval, EntityComponent:
		return true
	default:
		return false
	}
}
