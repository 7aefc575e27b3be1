package domain

// Vertex is a 3D point.
type Vertex struct {
	X, Y, Z float64
}

// Segment joins two vertices by index: top then base.
type Segment [2]int

// BoreholeGeometry is what rendering collaborators consume for one borehole.
type BoreholeGeometry struct {
	Name      string
	Diameter  float64
	Vertices  []Vertex
	Segments  []Segment
	Scalars   map[string][]int
	Legends   map[string]LegendSpec
	Collar    Vertex
	Attribute string
}

// Scene is the geometry of a whole project for one display attribute.
type Scene struct {
	Attribute string
	Boreholes []BoreholeGeometry
	Legend    LegendSpec
}
