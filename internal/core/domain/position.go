package domain

// Position is a vertical location with measurement uncertainty.
//
// Upper, Middle and Lower hold absolute elevations (z_ref - depth), so for a
// well-formed position Upper >= Middle >= Lower. Middle is the canonical value.
// X and Y are the projected planimetric coordinates; nil when unknown.
type Position struct {
	// ID is the surrogate identifier.
	ID int

	// Upper is the shallow uncertainty bound.
	Upper float64

	// Middle is the canonical elevation.
	Middle float64

	// Lower is the deep uncertainty bound.
	Lower float64

	// X is the projected easting.
	X *float64

	// Y is the projected northing.
	Y *float64
}

// NewPosition creates a position without uncertainty at the given elevation.
func NewPosition(id int, elevation float64, x, y *float64) Position {
	return Position{
		ID:     id,
		Upper:  elevation,
		Middle: elevation,
		Lower:  elevation,
		X:      x,
		Y:      y,
	}
}

// Depth returns the depth below zRef of the canonical elevation.
func (p Position) Depth(zRef float64) float64 {
	return zRef - p.Middle
}

// IsOrdered reports whether the uncertainty band brackets the canonical value.
func (p Position) IsOrdered() bool {
	return p.Upper >= p.Middle && p.Middle >= p.Lower
}

// HasXY reports whether the position carries intrinsic planimetric coordinates.
func (p Position) HasXY() bool {
	return p.X != nil && p.Y != nil
}

// Float returns a pointer to v. Handy for optional coordinates.
func Float(v float64) *float64 {
	return &v
}
