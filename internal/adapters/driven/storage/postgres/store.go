// Package postgres provides the PostgreSQL implementation of
// driven.BoreholeStore through the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/relational"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/relational/migrations"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

// Store is the PostgreSQL-backed borehole store.
type Store struct {
	*relational.Store
}

// NewStore connects to dsn and migrates the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is empty", domain.ErrInvalidInput)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := relational.Migrate(ctx, db, migrations.FS, relational.Dollar); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{Store: relational.NewStore(db, relational.Dollar)}, nil
}
