package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(id, number int, top, base float64, typ IntervalType, components ...Component) Interval {
	return Interval{
		ID:         id,
		BoreholeID: "B1",
		Number:     number,
		Top:        NewPosition(2*id, top, nil, nil),
		Base:       NewPosition(2*id+1, base, nil, nil),
		Type:       typ,
		Components: components,
	}
}

func TestBorehole_ZRef(t *testing.T) {
	assert.InDelta(t, 0.0, Borehole{}.ZRef(), 1e-12)
	assert.InDelta(t, 50.0, Borehole{Z: Float(50)}.ZRef(), 1e-12)
}

func TestBorehole_DeriveLength(t *testing.T) {
	b := Borehole{ID: "B1", Z: Float(50), Intervals: []Interval{
		interval(1, 0, 50, 48, IntervalLithology),
		interval(2, 1, 48, 42, IntervalLithology),
		interval(3, 2, 50, 30, IntervalSample),
	}}
	assert.InDelta(t, 8.0, b.DeriveLength(), 1e-9)

	samplesOnly := Borehole{ID: "B2", Z: Float(10), Intervals: []Interval{interval(1, 0, 9, 4, IntervalSample)}}
	assert.InDelta(t, 6.0, samplesOnly.DeriveLength(), 1e-9)

	assert.Zero(t, Borehole{ID: "B3"}.DeriveLength())
}

func TestBorehole_UpdateCollarFromIntervals(t *testing.T) {
	first := interval(1, 0, 48, 45, IntervalLithology)
	second := interval(2, 1, 50, 48, IntervalLithology)
	second.Top.X, second.Top.Y = Float(100), Float(200)

	b := Borehole{ID: "B1", Intervals: []Interval{first, second}}
	b.UpdateCollarFromIntervals()

	require.NotNil(t, b.Z)
	assert.InDelta(t, 50.0, *b.Z, 1e-12)
	require.NotNil(t, b.X)
	assert.InDelta(t, 100.0, *b.X, 1e-12)
	assert.InDelta(t, 200.0, *b.Y, 1e-12)

	empty := Borehole{ID: "B2"}
	empty.UpdateCollarFromIntervals()
	assert.Nil(t, empty.Z)

	// A stored collar wins over the interval tops.
	stored := Borehole{ID: "B3", Z: Float(50), X: Float(1), Y: Float(2), Intervals: []Interval{second}}
	stored.UpdateCollarFromIntervals()
	assert.InDelta(t, 50.0, *stored.Z, 1e-12)
	assert.InDelta(t, 1.0, *stored.X, 1e-12)
	assert.InDelta(t, 2.0, *stored.Y, 1e-12)
}

func TestBorehole_Validate(t *testing.T) {
	sand := NewComponent("lithology", "sand")
	tests := []struct {
		name      string
		intervals []Interval
		err       error
	}{
		{
			name: "valid",
			intervals: []Interval{
				interval(1, 0, 50, 48, IntervalLithology, sand),
				interval(2, 1, 48, 45, IntervalLithology, sand),
				interval(3, 2, 49, 47, IntervalSample),
			},
		},
		{
			name:      "zero thickness",
			intervals: []Interval{interval(1, 0, 50, 50, IntervalLithology)},
			err:       ErrGeometryInvalid,
		},
		{
			name: "overlap",
			intervals: []Interval{
				interval(1, 0, 50, 47, IntervalLithology),
				interval(2, 1, 48, 45, IntervalLithology),
			},
			err: ErrGeometryInvalid,
		},
		{
			name:      "sparse numbering",
			intervals: []Interval{interval(1, 1, 50, 48, IntervalLithology)},
			err:       ErrInvalidInput,
		},
		{
			name:      "unknown type",
			intervals: []Interval{interval(1, 0, 50, 48, "core")},
			err:       ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Borehole{ID: "B1", Intervals: tt.intervals}.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.ErrorIs(t, Borehole{}.Validate(), ErrInvalidInput)
}

func TestCheckOverlap_TouchingIntervals(t *testing.T) {
	assert.NoError(t, CheckOverlap([]Interval{
		interval(1, 0, 50, 48, IntervalLithology),
		interval(2, 1, 48, 45, IntervalLithology),
	}))
}

func TestBorehole_SortAndLookup(t *testing.T) {
	b := Borehole{ID: "B1", Intervals: []Interval{
		interval(7, 1, 48, 45, IntervalLithology),
		interval(3, 0, 50, 48, IntervalLithology),
	}}
	b.SortIntervals()
	assert.Equal(t, []int{3, 7}, b.IntervalIDs())

	intv, ok := b.IntervalByID(7)
	assert.True(t, ok)
	assert.Equal(t, 1, intv.Number)
	_, ok = b.IntervalByID(99)
	assert.False(t, ok)
}

func TestBorehole_CloneIsDeep(t *testing.T) {
	b := Borehole{ID: "B1", X: Float(1), Intervals: []Interval{
		interval(1, 0, 50, 48, IntervalLithology, NewComponent("lithology", "sand")),
	}}
	clone := b.Clone()
	*clone.X = 9
	clone.Intervals[0].Components[0].Attributes[0].Value = "clay"

	assert.InDelta(t, 1.0, *b.X, 1e-12)
	assert.Equal(t, "sand", b.Intervals[0].Components[0].Attributes[0].Value)
}

func TestFindComponentFromAttrib(t *testing.T) {
	intv := interval(1, 0, 50, 48, IntervalLithology,
		NewComponent("as", "VI"), NewComponent("lithology", "sand"))

	idx, err := FindComponentFromAttrib(intv, "Lithology")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = FindComponentFromAttrib(intv, "colour")
	require.NoError(t, err)
	assert.Equal(t, -1, idx)

	_, err = FindComponentFromAttrib(interval(2, 0, 1, 0, IntervalLithology), "lithology")
	assert.ErrorIs(t, err, ErrEmptyInterval)
}

func TestPosition(t *testing.T) {
	p := NewPosition(1, 45, Float(1), nil)
	assert.InDelta(t, 5.0, p.Depth(50), 1e-12)
	assert.True(t, p.IsOrdered())
	assert.False(t, p.HasXY())

	p.Upper = 40
	assert.False(t, p.IsOrdered())
}

func TestParseIntervalType(t *testing.T) {
	typ, err := ParseIntervalType(" Sample ")
	require.NoError(t, err)
	assert.Equal(t, IntervalSample, typ)

	_, err = ParseIntervalType("core")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLink_Key(t *testing.T) {
	l := Link{IntervalID: 3, ComponentID: 5, Rank: 1}
	assert.Equal(t, LinkKey{IntervalID: 3, ComponentID: 5}, l.Key())
	assert.True(t, EntityInterval.IsValid())
	assert.False(t, EntityKind("borehole").IsValid())
}

func TestFrame(t *testing.T) {
	f := Frame{Columns: []string{"ID", " Top "}, Rows: [][]string{{"B1", " 2 "}, {"B2"}}}
	assert.Equal(t, 1, f.ColumnIndex("top"))
	assert.Equal(t, -1, f.ColumnIndex("base"))
	assert.Equal(t, "2", f.Cell(0, 1))
	assert.Equal(t, "", f.Cell(1, 1))
	assert.Equal(t, "", f.Cell(5, 0))
	assert.Equal(t, 2, f.Len())
}
