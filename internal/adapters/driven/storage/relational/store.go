package relational

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BoreholeStore = (*Store)(nil)

// Store opens sessions on a migrated database.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// NewStore wraps db. The schema must already be migrated.
func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Open acquires a session. The transaction starts on first use.
func (s *Store) Open(ctx context.Context) (driven.Session, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Session{db: s.db, dialect: s.dialect}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
