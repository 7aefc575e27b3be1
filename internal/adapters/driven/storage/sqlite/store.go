package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/relational"
	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/storage/relational/migrations"
)

// DatabaseFile is the file name of the database inside the data directory.
const DatabaseFile = "boreholes.db"

// Store is the SQLite-backed borehole store.
type Store struct {
	*relational.Store
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.borehole/data/boreholes.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".borehole", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL keeps readers off the writer's back
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := relational.Migrate(context.Background(), db, migrations.FS, relational.Question); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{
		Store: relational.NewStore(db, relational.Question),
		path:  dbPath,
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
