package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/storetest"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// testDSNEnv names a disposable database. Its tables are dropped.
const testDSNEnv = "BOREHOLE_TEST_POSTGRES_DSN"

func TestNewStore_EmptyDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Contract(t *testing.T) {
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}
	storetest.Run(t, func(t *testing.T) driven.BoreholeStore {
		ctx := context.Background()
		store, err := NewStore(ctx, dsn)
		require.NoError(t, err)
		reset(t, store)
		return store
	})
}

func reset(t *testing.T, store *Store) {
	t.Helper()
	for _, table := range []string{"linkintervalcomponent", "components", "intervals", "positions", "boreholes"} {
		_, err := store.DB().Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}
