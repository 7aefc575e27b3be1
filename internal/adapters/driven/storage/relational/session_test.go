package relational

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

func setupMock(t *testing.T, dialect Dialect) (*Session, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	session, err := NewStore(db, dialect).Open(context.Background())
	require.NoError(t, err)
	return session.(*Session), mock
}

func TestDialect_Rebind(t *testing.T) {
	q := "SELECT 1 FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, Question.Rebind(q))
	assert.Equal(t, "SELECT 1 FROM t WHERE a = $1 AND b = $2", Dollar.Rebind(q))
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (id INTEGER);\n\n  CREATE TABLE b (id INTEGER);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INTEGER)", "CREATE TABLE b (id INTEGER)"}, got)
}

func TestSession_NextID_QueryError(t *testing.T) {
	session, mock := setupMock(t, Question)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id) + 1, 0) FROM intervals")).
		WillReturnError(errors.New("boom"))

	_, err := session.NextID(context.Background(), domain.EntityInterval)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_BeginError(t *testing.T) {
	session, mock := setupMock(t, Question)
	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	_, err := session.FindComponentIDByDescription(context.Background(), `{"lithology": "sand"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beginning transaction")
}

func TestSession_CreateBorehole_Duplicate(t *testing.T) {
	session, mock := setupMock(t, Question)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM boreholes WHERE id = ?")).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := session.CreateBorehole(context.Background(), domain.Borehole{ID: "B1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_UpdateBoreholeLength(t *testing.T) {
	tests := []struct {
		name    string
		found   bool
		execErr error
		wantErr error
		wantMsg string
	}{
		{name: "updates", found: true},
		{name: "unknown borehole", wantErr: domain.ErrNotFound},
		{name: "exec error", found: true, execErr: errors.New("read only"), wantMsg: "read only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, mock := setupMock(t, Dollar)
			mock.ExpectBegin()
			rows := sqlmock.NewRows([]string{"1"})
			if tt.found {
				rows.AddRow(1)
			}
			mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM boreholes WHERE id = $1")).
				WithArgs("B1").
				WillReturnRows(rows)
			if tt.found {
				exec := mock.ExpectExec(regexp.QuoteMeta("UPDATE boreholes SET length = $1 WHERE id = $2")).
					WithArgs(12.0, "B1")
				if tt.execErr != nil {
					exec.WillReturnError(tt.execErr)
				} else {
					exec.WillReturnResult(sqlmock.NewResult(0, 1))
				}
			}

			err := session.UpdateBoreholeLength(context.Background(), "B1", 12)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSession_Commit_Error(t *testing.T) {
	session, mock := setupMock(t, Question)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM boreholes WHERE id = ?")).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO boreholes (id, date, length, diameter, x, y, z) VALUES (?, ?, ?, ?, ?, ?, ?)")).
		WithArgs("B1", sqlmock.AnyArg(), 8.0, 0.1, sqlmock.AnyArg(), sqlmock.AnyArg(), 50.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	ctx := context.Background()
	require.NoError(t, session.CreateBorehole(ctx, domain.Borehole{ID: "B1", Length: 8, Diameter: 0.1, Z: domain.Float(50)}))
	err := session.Commit(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSession_Close_RollsBack(t *testing.T) {
	session, mock := setupMock(t, Dollar)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM components WHERE description = $1")).
		WithArgs(`{"lithology": "sand"}`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := session.FindComponentIDByDescription(context.Background(), `{"lithology": "sand"}`)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, session.Close())
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = session.NextID(context.Background(), domain.EntityComponent)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSession_CommitWithoutWork(t *testing.T) {
	session, mock := setupMock(t, Question)

	assert.NoError(t, session.Commit(context.Background()))
	assert.NoError(t, session.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_AppliesPendingVersions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_init.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);\nCREATE TABLE b (id INTEGER);")},
		"001_init.down.sql": {Data: []byte("DROP TABLE b; DROP TABLE a;")},
		"002_more.up.sql":   {Data: []byte("CREATE TABLE c (id INTEGER);")},
		"README.md":         {Data: []byte("not a migration")},
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE c (id INTEGER)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES ($1)")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), db, fsys, Dollar))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_FailedScriptRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{"001_init.up.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")}}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INTEGER)")).
		WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err = Migrate(context.Background(), db, fsys, Question)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_init.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
