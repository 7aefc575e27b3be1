package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/storetest"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

func TestBoreholeStore_Contract(t *testing.T) {
	storetest.Run(t, func(_ *testing.T) driven.BoreholeStore {
		return NewBoreholeStore()
	})
}

func TestBoreholeStore_OpenAfterClose(t *testing.T) {
	store := NewBoreholeStore()
	require.NoError(t, store.Close())

	_, err := store.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSession_LinksFollowRank(t *testing.T) {
	ctx := context.Background()
	store := NewBoreholeStore()
	session, err := store.Open(ctx)
	require.NoError(t, err)
	defer session.Close()

	b, _, _ := storetest.Fixture()
	require.NoError(t, session.CreateBorehole(ctx, b))
	require.NoError(t, session.InsertInterval(ctx, b.ID, b.Intervals[0]))

	first := domain.NewComponent("as", "VI")
	first.ID = 5
	second := domain.NewComponent(domain.AttributeLithology, "sand")
	second.ID = 2
	require.NoError(t, session.AddComponents(ctx, []domain.Component{first, second}))
	require.NoError(t, session.AddLinks(ctx, []domain.Link{
		{IntervalID: 0, ComponentID: 2, Rank: 1},
		{IntervalID: 0, ComponentID: 5, Rank: 0},
	}))

	got, err := session.GetBorehole(ctx, "B1")
	require.NoError(t, err)
	require.Len(t, got.Intervals[0].Components, 2)
	assert.Equal(t, 5, got.Intervals[0].Components[0].ID)
	assert.Equal(t, 2, got.Intervals[0].Components[1].ID)
}
