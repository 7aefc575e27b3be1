package domain

// ContaminationLevel is one step of a pollutant threshold table.
type ContaminationLevel struct {
	// Token is the level name (e.g. "VR", "VS", "VI").
	Token string

	// Threshold is the lowest concentration of the level.
	Threshold float64
}

// Pollutant describes a regulated substance and its ordered thresholds.
type Pollutant struct {
	// Abbreviation is the short name (e.g. "As"). It is the canonical name.
	Abbreviation string

	// Name is the full name (e.g. "Arsenic").
	Name string

	// Levels are ordered by increasing threshold.
	Levels []ContaminationLevel
}

// Classify returns the level with the highest threshold not exceeding value.
// Values below every threshold fall in the lowest level; a pollutant without
// thresholds yields UnknownLevel.
func (p Pollutant) Classify(value float64) string {
	if len(p.Levels) == 0 {
		return UnknownLevel
	}
	best := -1
	for i, l := range p.Levels {
		if value >= l.Threshold && (best < 0 || l.Threshold > p.Levels[best].Threshold) {
			best = i
		}
	}
	if best < 0 {
		return p.lowest().Token
	}
	return p.Levels[best].Token
}

func (p Pollutant) lowest() ContaminationLevel {
	low := p.Levels[0]
	for _, l := range p.Levels[1:] {
		if l.Threshold < low.Threshold {
			low = l
		}
	}
	return low
}

// LevelColour binds a contamination level token to a legend colour.
type LevelColour struct {
	Token  string
	Colour string
}
