package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultDiameter is used when a borehole carries no diameter, in meters.
const DefaultDiameter = 0.1

// Borehole is a persistent borehole record and its ordered intervals.
//
// Deleting a borehole cascades to its intervals and their positions, never to
// components, which are shared.
type Borehole struct {
	// ID is the user-supplied borehole name.
	ID string

	// Date is the optional drilling date.
	Date *time.Time

	// Length is the derived length in meters.
	Length float64

	// Diameter is the borehole diameter in meters.
	Diameter float64

	// X is the collar easting, nil when unknown.
	X *float64

	// Y is the collar northing, nil when unknown.
	Y *float64

	// Z is the collar elevation, nil when unknown.
	Z *float64

	// Intervals are ordered by interval number (insertion order).
	Intervals []Interval
}

// ZRef returns the reference elevation depths are measured from.
func (b Borehole) ZRef() float64 {
	if b.Z != nil {
		return *b.Z
	}
	return 0
}

// IntervalByID returns the interval with the given id.
func (b Borehole) IntervalByID(id int) (Interval, bool) {
	for _, intv := range b.Intervals {
		if intv.ID == id {
			return intv, true
		}
	}
	return Interval{}, false
}

// IntervalIDs returns interval ids in insertion order.
func (b Borehole) IntervalIDs() []int {
	ids := make([]int, len(b.Intervals))
	for i, intv := range b.Intervals {
		ids[i] = intv.ID
	}
	return ids
}

// SortIntervals orders intervals by interval number.
func (b *Borehole) SortIntervals() {
	sort.SliceStable(b.Intervals, func(i, j int) bool {
		return b.Intervals[i].Number < b.Intervals[j].Number
	})
}

// DeriveLength computes the length from intervals: the deepest lithology base
// if any lithology interval exists, else the deepest sample base.
func (b Borehole) DeriveLength() float64 {
	zRef := b.ZRef()
	deepest := func(t IntervalType) (float64, bool) {
		found := false
		maxDepth := math.Inf(-1)
		for _, intv := range b.Intervals {
			if intv.Type != t {
				continue
			}
			found = true
			maxDepth = math.Max(maxDepth, intv.Base.Depth(zRef))
		}
		return maxDepth, found
	}
	if d, ok := deepest(IntervalLithology); ok {
		return d
	}
	if d, ok := deepest(IntervalSample); ok {
		return d
	}
	return 0
}

// UpdateCollarFromIntervals fills the missing collar fields from the
// intervals: X and Y from the first interval top carrying coordinates, Z from
// the highest top. Fields already set are kept.
func (b *Borehole) UpdateCollarFromIntervals() {
	if len(b.Intervals) == 0 {
		return
	}
	top := math.Inf(-1)
	for _, intv := range b.Intervals {
		top = math.Max(top, intv.Top.Middle)
		if b.X == nil && intv.Top.HasXY() {
			b.X = Float(*intv.Top.X)
			b.Y = Float(*intv.Top.Y)
		}
	}
	if b.Z == nil {
		b.Z = Float(top)
	}
}

// Validate checks the interval invariants: dense numbering from 0, positive
// thickness, and no overlap between intervals of the same type.
func (b Borehole) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: borehole id is empty", ErrInvalidInput)
	}
	numbers := make([]int, len(b.Intervals))
	for i, intv := range b.Intervals {
		if err := intv.Validate(); err != nil {
			return fmt.Errorf("borehole %q: %w", b.ID, err)
		}
		numbers[i] = intv.Number
	}
	sort.Ints(numbers)
	for i, n := range numbers {
		if n != i {
			return fmt.Errorf("%w: borehole %q interval numbers are not a dense prefix", ErrInvalidInput, b.ID)
		}
	}
	return CheckOverlap(b.Intervals)
}

// CheckOverlap reports an error when two intervals of the same type overlap.
// Ranges are half-open in depth, i.e. (base, top] in elevation.
func CheckOverlap(intervals []Interval) error {
	for i := range intervals {
		for j := i + 1; j < len(intervals); j++ {
			a, c := intervals[i], intervals[j]
			if a.Type != c.Type {
				continue
			}
			if a.Base.Middle < c.Top.Middle && c.Base.Middle < a.Top.Middle {
				return fmt.Errorf("%w: intervals %d and %d overlap in borehole %q",
					ErrGeometryInvalid, a.ID, c.ID, a.BoreholeID)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (b Borehole) Clone() Borehole {
	out := b
	if b.Date != nil {
		d := *b.Date
		out.Date = &d
	}
	out.X = cloneFloat(b.X)
	out.Y = cloneFloat(b.Y)
	out.Z = cloneFloat(b.Z)
	out.Intervals = make([]Interval, len(b.Intervals))
	for i, intv := range b.Intervals {
		out.Intervals[i] = intv.Clone()
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	return Float(*f)
}
