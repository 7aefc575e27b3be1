// Package domain defines the core business entities for borehole data.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Borehole: A borehole record owning ordered intervals
//   - Interval: A depth band bounded by two Positions
//   - Component: A content-addressed attribute-value mapping
//   - Link: The interval/component many-to-many edge
//   - Legend, Colormap, LegendSpec: Attribute-driven colouring
//   - Frame: Tabular input handed to the ingestor
//
// # Elevations
//
// Positions store absolute elevations: z_ref - depth, where z_ref is the
// collar elevation, else the configured average Z, else 0. Depth invariants
// (positive thickness, non-overlap) are expressed on depths.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
