// Package storetest holds the behaviour every driven.BoreholeStore must
// share. Adapter tests call Run with a factory for a fresh, empty store.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) driven.BoreholeStore

// Run executes the store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	cases := []struct {
		name string
		fn   func(t *testing.T, store driven.BoreholeStore)
	}{
		{"NextID_Empty", testNextIDEmpty},
		{"NextID_SeesStagedRows", testNextIDSeesStaged},
		{"Commit_PublishesGraph", testCommitPublishes},
		{"Rollback_DiscardsStaged", testRollbackDiscards},
		{"CreateBorehole_Duplicate", testDuplicateBorehole},
		{"CreateBorehole_CollarRoundTrips", testCollarRoundTrips},
		{"UpdateBoreholeLength", testUpdateBoreholeLength},
		{"InsertInterval_UnknownBorehole", testInsertUnknownBorehole},
		{"AddLinks_UnknownComponent", testLinkUnknownComponent},
		{"AddComponents_DuplicateDescription", testDuplicateDescription},
		{"FindComponentIDByDescription", testFindComponent},
		{"DeleteBorehole_Cascades", testDeleteCascades},
		{"Session_Close", testSessionClose},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore(t)
			t.Cleanup(func() { _ = store.Close() })
			tc.fn(t, store)
		})
	}
}

// Fixture returns borehole B1 at elevation 50 with two lithology intervals
// (sand over clay) and the components and links to stage with it.
func Fixture() (domain.Borehole, []domain.Component, []domain.Link) {
	date := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	sand := domain.NewComponent(domain.AttributeLithology, "sand")
	clay := domain.NewComponent(domain.AttributeLithology, "clay")
	sand.ID, clay.ID = 0, 1
	b := domain.Borehole{
		ID:       "B1",
		Date:     &date,
		Length:   5,
		Diameter: 0.1,
		X:        domain.Float(100),
		Y:        domain.Float(200),
		Z:        domain.Float(50),
		Intervals: []domain.Interval{
			{
				ID: 0, BoreholeID: "B1", Number: 0, Type: domain.IntervalLithology,
				Top:         domain.NewPosition(0, 50, domain.Float(100), domain.Float(200)),
				Base:        domain.NewPosition(1, 48, domain.Float(100), domain.Float(200)),
				Description: sand.Description(),
				Components:  []domain.Component{sand},
			},
			{
				ID: 1, BoreholeID: "B1", Number: 1, Type: domain.IntervalLithology,
				Top:         domain.NewPosition(2, 48, domain.Float(100), domain.Float(200)),
				Base:        domain.NewPosition(3, 45, domain.Float(100), domain.Float(200)),
				Description: clay.Description(),
				Components:  []domain.Component{clay},
			},
		},
	}
	links := []domain.Link{
		{IntervalID: 0, ComponentID: 0, Rank: 0},
		{IntervalID: 1, ComponentID: 1, Rank: 0},
	}
	return b, []domain.Component{sand, clay}, links
}

// Stage writes the fixture into session without committing.
func Stage(t *testing.T, ctx context.Context, session driven.Session) {
	t.Helper()
	b, components, links := Fixture()
	require.NoError(t, session.CreateBorehole(ctx, b))
	for _, intv := range b.Intervals {
		require.NoError(t, session.InsertInterval(ctx, b.ID, intv))
	}
	require.NoError(t, session.AddComponents(ctx, components))
	require.NoError(t, session.AddLinks(ctx, links))
}

func open(t *testing.T, store driven.BoreholeStore) driven.Session {
	t.Helper()
	session, err := store.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func testNextIDEmpty(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	for _, kind := range []domain.EntityKind{domain.EntityPosition, domain.EntityInterval, domain.EntityComponent} {
		id, err := session.NextID(ctx, kind)
		require.NoError(t, err)
		assert.Equal(t, 0, id, kind)
	}
	_, err := session.NextID(ctx, domain.EntityKind("borehole"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func testNextIDSeesStaged(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	Stage(t, ctx, session)

	id, err := session.NextID(ctx, domain.EntityPosition)
	require.NoError(t, err)
	assert.Equal(t, 4, id)
	id, err = session.NextID(ctx, domain.EntityInterval)
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	id, err = session.NextID(ctx, domain.EntityComponent)
	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

func testCommitPublishes(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	writer := open(t, store)
	Stage(t, ctx, writer)
	require.NoError(t, writer.Commit(ctx))

	reader := open(t, store)
	boreholes, err := reader.ListBoreholes(ctx)
	require.NoError(t, err)
	require.Len(t, boreholes, 1)

	got := boreholes[0]
	want, _, _ := Fixture()
	assert.Equal(t, "B1", got.ID)
	require.NotNil(t, got.Date)
	assert.True(t, want.Date.Equal(*got.Date))
	assert.InDelta(t, 5.0, got.Length, 1e-9)
	assert.InDelta(t, 0.1, got.Diameter, 1e-9)
	require.Len(t, got.Intervals, 2)
	for i, intv := range got.Intervals {
		assert.Equal(t, i, intv.Number)
		assert.Equal(t, want.Intervals[i].Description, intv.Description)
		assert.InDelta(t, want.Intervals[i].Top.Middle, intv.Top.Middle, 1e-9)
		assert.InDelta(t, want.Intervals[i].Base.Middle, intv.Base.Middle, 1e-9)
		require.Len(t, intv.Components, 1)
		assert.True(t, want.Intervals[i].Components[0].Equal(intv.Components[0]))
	}
	require.NotNil(t, got.Z)
	assert.InDelta(t, 50.0, *got.Z, 1e-9)
	require.NotNil(t, got.X)
	assert.InDelta(t, 100.0, *got.X, 1e-9)
	require.NoError(t, got.Validate())

	single, err := reader.GetBorehole(ctx, "B1")
	require.NoError(t, err)
	assert.Len(t, single.Intervals, 2)

	_, err = reader.GetBorehole(ctx, "B2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	components, err := reader.ListComponents(ctx)
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, 0, components[0].ID)
	assert.Equal(t, `{"lithology": "sand"}`, components[0].Description())
}

func testRollbackDiscards(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	Stage(t, ctx, session)
	require.NoError(t, session.Rollback(ctx))

	boreholes, err := session.ListBoreholes(ctx)
	require.NoError(t, err)
	assert.Empty(t, boreholes)
	id, err := session.NextID(ctx, domain.EntityInterval)
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	// The session stays usable after a rollback.
	Stage(t, ctx, session)
	require.NoError(t, session.Commit(ctx))
	boreholes, err = session.ListBoreholes(ctx)
	require.NoError(t, err)
	assert.Len(t, boreholes, 1)
}

func testDuplicateBorehole(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	require.NoError(t, session.CreateBorehole(ctx, domain.Borehole{ID: "B1", Diameter: 0.1}))
	err := session.CreateBorehole(ctx, domain.Borehole{ID: "B1", Diameter: 0.1})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func testCollarRoundTrips(t *testing.T, store driven.BoreholeStore) {
	tests := []struct {
		name    string
		x, y, z *float64
		wantX   *float64
		wantZ   float64
	}{
		{
			name:  "collar above the first top",
			x:     domain.Float(10),
			y:     domain.Float(20),
			z:     domain.Float(50),
			wantX: domain.Float(10),
			wantZ: 50,
		},
		{
			name:  "unknown collar keeps the zero reference",
			wantX: domain.Float(100),
			wantZ: 0,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			id := fmt.Sprintf("C%d", i)
			zRef := domain.Borehole{Z: tt.z}.ZRef()
			b := domain.Borehole{ID: id, Length: 5, Diameter: 0.1, X: tt.x, Y: tt.y, Z: tt.z}
			intv := domain.Interval{
				ID: 10 * i, BoreholeID: id, Number: 0, Type: domain.IntervalLithology,
				Top:  domain.NewPosition(20*i, zRef-1, domain.Float(100), domain.Float(200)),
				Base: domain.NewPosition(20*i+1, zRef-5, domain.Float(100), domain.Float(200)),
			}

			writer := open(t, store)
			require.NoError(t, writer.CreateBorehole(ctx, b))
			require.NoError(t, writer.InsertInterval(ctx, id, intv))
			require.NoError(t, writer.Commit(ctx))

			got, err := open(t, store).GetBorehole(ctx, id)
			require.NoError(t, err)
			require.NotNil(t, got.Z)
			assert.InDelta(t, tt.wantZ, *got.Z, 1e-9)
			require.NotNil(t, got.X)
			assert.InDelta(t, *tt.wantX, *got.X, 1e-9)
			assert.InDelta(t, zRef-1, got.Intervals[0].Top.Middle, 1e-9)
		})
	}
}

func testUpdateBoreholeLength(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	writer := open(t, store)
	Stage(t, ctx, writer)
	require.NoError(t, writer.UpdateBoreholeLength(ctx, "B1", 12))
	assert.ErrorIs(t, writer.UpdateBoreholeLength(ctx, "B9", 1), domain.ErrNotFound)
	require.NoError(t, writer.Commit(ctx))

	got, err := open(t, store).GetBorehole(ctx, "B1")
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got.Length, 1e-9)
}

func testInsertUnknownBorehole(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	b, _, _ := Fixture()
	err := session.InsertInterval(ctx, "nope", b.Intervals[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testLinkUnknownComponent(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	b, _, _ := Fixture()
	require.NoError(t, session.CreateBorehole(ctx, b))
	require.NoError(t, session.InsertInterval(ctx, b.ID, b.Intervals[0]))
	err := session.AddLinks(ctx, []domain.Link{{IntervalID: 0, ComponentID: 42}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testDuplicateDescription(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	sand := domain.NewComponent(domain.AttributeLithology, "sand")
	require.NoError(t, session.AddComponents(ctx, []domain.Component{sand}))

	// Same id again is a no-op.
	require.NoError(t, session.AddComponents(ctx, []domain.Component{sand}))

	other := sand.Clone()
	other.ID = 7
	err := session.AddComponents(ctx, []domain.Component{other})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func testFindComponent(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	Stage(t, ctx, session)

	id, err := session.FindComponentIDByDescription(ctx, `{"lithology": "clay"}`)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = session.FindComponentIDByDescription(ctx, `{"lithology": "silt"}`)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testDeleteCascades(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session := open(t, store)
	Stage(t, ctx, session)
	require.NoError(t, session.Commit(ctx))

	require.NoError(t, session.DeleteBorehole(ctx, "B1"))
	require.NoError(t, session.Commit(ctx))

	boreholes, err := session.ListBoreholes(ctx)
	require.NoError(t, err)
	assert.Empty(t, boreholes)
	for _, kind := range []domain.EntityKind{domain.EntityPosition, domain.EntityInterval} {
		id, err := session.NextID(ctx, kind)
		require.NoError(t, err)
		assert.Equal(t, 0, id, kind)
	}
	components, err := session.ListComponents(ctx)
	require.NoError(t, err)
	assert.Len(t, components, 2)

	err = session.DeleteBorehole(ctx, "B1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testSessionClose(t *testing.T, store driven.BoreholeStore) {
	ctx := context.Background()
	session, err := store.Open(ctx)
	require.NoError(t, err)
	Stage(t, ctx, session)
	require.NoError(t, session.Close())

	_, err = session.ListBoreholes(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	// Staged work died with the session.
	other := open(t, store)
	boreholes, err := other.ListBoreholes(ctx)
	require.NoError(t, err)
	assert.Empty(t, boreholes)
}
