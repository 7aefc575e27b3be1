package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// dateLayout is the storage format of borehole dates.
const dateLayout = time.RFC3339

var _ driven.Session = (*Session)(nil)

// Session is a transactional unit of work.
type Session struct {
	db      *sql.DB
	dialect Dialect
	tx      *sql.Tx
	closed  bool
}

// begin returns the running transaction, starting one if needed.
func (s *Session) begin(ctx context.Context) (*sql.Tx, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	s.tx = tx
	return tx, nil
}

func (s *Session) exec(ctx context.Context, query string, args ...any) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, s.dialect.Rebind(query), args...)
	return err
}

func (s *Session) queryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx.QueryRowContext(ctx, s.dialect.Rebind(query), args...), nil
}

func (s *Session) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

// exists runs a SELECT 1 query and reports whether it returned a row.
func (s *Session) exists(ctx context.Context, query string, args ...any) (bool, error) {
	row, err := s.queryRow(ctx, query, args...)
	if err != nil {
		return false, err
	}
	var one int
	switch err := row.Scan(&one); {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// CreateBorehole stages a borehole row. Z is written as the reference
// elevation of the intervals.
func (s *Session) CreateBorehole(ctx context.Context, b domain.Borehole) error {
	if b.ID == "" {
		return fmt.Errorf("%w: borehole id is empty", domain.ErrInvalidInput)
	}
	found, err := s.exists(ctx, "SELECT 1 FROM boreholes WHERE id = ?", b.ID)
	if err != nil {
		return fmt.Errorf("checking borehole: %w", err)
	}
	if found {
		return fmt.Errorf("%w: borehole %q", domain.ErrAlreadyExists, b.ID)
	}
	var date sql.NullString
	if b.Date != nil {
		date = sql.NullString{String: b.Date.UTC().Format(dateLayout), Valid: true}
	}
	err = s.exec(ctx, "INSERT INTO boreholes (id, date, length, diameter, x, y, z) VALUES (?, ?, ?, ?, ?, ?, ?)",
		b.ID, date, b.Length, b.Diameter, nullFloat(b.X), nullFloat(b.Y), b.ZRef())
	if err != nil {
		return fmt.Errorf("inserting borehole: %w", err)
	}
	return nil
}

// UpdateBoreholeLength stages a new length for an existing borehole.
func (s *Session) UpdateBoreholeLength(ctx context.Context, id string, length float64) error {
	found, err := s.exists(ctx, "SELECT 1 FROM boreholes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("checking borehole: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: borehole %q", domain.ErrNotFound, id)
	}
	if err := s.exec(ctx, "UPDATE boreholes SET length = ? WHERE id = ?", length, id); err != nil {
		return fmt.Errorf("updating length of %q: %w", id, err)
	}
	return nil
}

// InsertInterval stages an interval and its two positions.
func (s *Session) InsertInterval(ctx context.Context, boreholeID string, intv domain.Interval) error {
	if !intv.Type.IsValid() {
		return fmt.Errorf("%w: interval type %q", domain.ErrInvalidInput, intv.Type)
	}
	if intv.Top.ID == intv.Base.ID {
		return fmt.Errorf("%w: interval %d reuses position %d", domain.ErrInvalidInput, intv.ID, intv.Top.ID)
	}
	found, err := s.exists(ctx, "SELECT 1 FROM boreholes WHERE id = ?", boreholeID)
	if err != nil {
		return fmt.Errorf("checking borehole: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: borehole %q", domain.ErrNotFound, boreholeID)
	}
	found, err = s.exists(ctx, "SELECT 1 FROM intervals WHERE id = ?", intv.ID)
	if err != nil {
		return fmt.Errorf("checking interval: %w", err)
	}
	if found {
		return fmt.Errorf("%w: interval %d", domain.ErrAlreadyExists, intv.ID)
	}
	for _, p := range []domain.Position{intv.Top, intv.Base} {
		if err := s.insertPosition(ctx, p); err != nil {
			return err
		}
	}
	err = s.exec(ctx, `INSERT INTO intervals
		(id, borehole, interval_number, description, top_id, base_id, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		intv.ID, boreholeID, intv.Number, intv.Description, intv.Top.ID, intv.Base.ID, string(intv.Type))
	if err != nil {
		return fmt.Errorf("inserting interval %d: %w", intv.ID, err)
	}
	return nil
}

func (s *Session) insertPosition(ctx context.Context, p domain.Position) error {
	found, err := s.exists(ctx, "SELECT 1 FROM positions WHERE id = ?", p.ID)
	if err != nil {
		return fmt.Errorf("checking position: %w", err)
	}
	if found {
		return fmt.Errorf("%w: position %d", domain.ErrAlreadyExists, p.ID)
	}
	err = s.exec(ctx, "INSERT INTO positions (id, upper, middle, lower, x, y) VALUES (?, ?, ?, ?, ?, ?)",
		p.ID, p.Upper, p.Middle, p.Lower, nullFloat(p.X), nullFloat(p.Y))
	if err != nil {
		return fmt.Errorf("inserting position %d: %w", p.ID, err)
	}
	return nil
}

// AddComponents stages components, skipping ids already registered.
func (s *Session) AddComponents(ctx context.Context, components []domain.Component) error {
	for _, c := range components {
		found, err := s.exists(ctx, "SELECT 1 FROM components WHERE id = ?", c.ID)
		if err != nil {
			return fmt.Errorf("checking component: %w", err)
		}
		if found {
			continue
		}
		desc := c.Description()
		if id, err := s.FindComponentIDByDescription(ctx, desc); err == nil {
			return fmt.Errorf("%w: component %s registered as %d", domain.ErrAlreadyExists, desc, id)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := s.exec(ctx, "INSERT INTO components (id, description) VALUES (?, ?)", c.ID, desc); err != nil {
			return fmt.Errorf("inserting component %d: %w", c.ID, err)
		}
	}
	return nil
}

// AddLinks stages links. Both ends must exist.
func (s *Session) AddLinks(ctx context.Context, links []domain.Link) error {
	for _, l := range links {
		found, err := s.exists(ctx, "SELECT 1 FROM intervals WHERE id = ?", l.IntervalID)
		if err != nil {
			return fmt.Errorf("checking interval: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: interval %d", domain.ErrNotFound, l.IntervalID)
		}
		found, err = s.exists(ctx, "SELECT 1 FROM components WHERE id = ?", l.ComponentID)
		if err != nil {
			return fmt.Errorf("checking component: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: component %d", domain.ErrNotFound, l.ComponentID)
		}
		found, err = s.exists(ctx,
			"SELECT 1 FROM linkintervalcomponent WHERE intv_id = ? AND comp_id = ?", l.IntervalID, l.ComponentID)
		if err != nil {
			return fmt.Errorf("checking link: %w", err)
		}
		if found {
			return fmt.Errorf("%w: link (%d, %d)", domain.ErrAlreadyExists, l.IntervalID, l.ComponentID)
		}
		var extra sql.NullString
		if l.ExtraData != "" {
			extra = sql.NullString{String: l.ExtraData, Valid: true}
		}
		err = s.exec(ctx,
			"INSERT INTO linkintervalcomponent (intv_id, comp_id, extra_data, link_rank) VALUES (?, ?, ?, ?)",
			l.IntervalID, l.ComponentID, extra, l.Rank)
		if err != nil {
			return fmt.Errorf("inserting link (%d, %d): %w", l.IntervalID, l.ComponentID, err)
		}
	}
	return nil
}

// DeleteBorehole stages the removal of a borehole, its intervals, their
// positions and links.
func (s *Session) DeleteBorehole(ctx context.Context, id string) error {
	found, err := s.exists(ctx, "SELECT 1 FROM boreholes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("checking borehole: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: borehole %q", domain.ErrNotFound, id)
	}
	positions, err := s.positionIDs(ctx, id)
	if err != nil {
		return err
	}
	stmts := []string{
		"DELETE FROM linkintervalcomponent WHERE intv_id IN (SELECT id FROM intervals WHERE borehole = ?)",
		"DELETE FROM intervals WHERE borehole = ?",
	}
	for _, stmt := range stmts {
		if err := s.exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("deleting borehole %q: %w", id, err)
		}
	}
	for _, pid := range positions {
		if err := s.exec(ctx, "DELETE FROM positions WHERE id = ?", pid); err != nil {
			return fmt.Errorf("deleting position %d: %w", pid, err)
		}
	}
	if err := s.exec(ctx, "DELETE FROM boreholes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting borehole %q: %w", id, err)
	}
	return nil
}

func (s *Session) positionIDs(ctx context.Context, boreholeID string) ([]int, error) {
	rows, err := s.query(ctx, "SELECT top_id, base_id FROM intervals WHERE borehole = ? ORDER BY id", boreholeID)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var top, base int
		if err := rows.Scan(&top, &base); err != nil {
			return nil, fmt.Errorf("scanning positions: %w", err)
		}
		ids = append(ids, top, base)
	}
	return ids, rows.Err()
}

// Commit publishes staged work. A session without work commits nothing.
func (s *Session) Commit(_ context.Context) error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Rollback discards staged work.
func (s *Session) Rollback(_ context.Context) error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("rolling back: %w", err)
	}
	return nil
}

// NextID returns max(id) + 1 for the entity kind, or 0 if none.
func (s *Session) NextID(ctx context.Context, kind domain.EntityKind) (int, error) {
	table, ok := entityTables[kind]
	if !ok {
		return 0, fmt.Errorf("%w: entity kind %q", domain.ErrInvalidInput, kind)
	}
	row, err := s.queryRow(ctx, "SELECT COALESCE(MAX(id) + 1, 0) FROM "+table)
	if err != nil {
		return 0, err
	}
	var next int
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("scanning next %s id: %w", kind, err)
	}
	return next, nil
}

var entityTables = map[domain.EntityKind]string{
	domain.EntityPosition:  "positions",
	domain.EntityInterval:  "intervals",
	domain.EntityComponent: "components",
}

// FindComponentIDByDescription returns the id of the matching component.
func (s *Session) FindComponentIDByDescription(ctx context.Context, description string) (int, error) {
	row, err := s.queryRow(ctx, "SELECT id FROM components WHERE description = ?", description)
	if err != nil {
		return 0, err
	}
	var id int
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("finding component: %w", err)
	}
	return id, nil
}

// ListComponents returns the registry ordered by id.
func (s *Session) ListComponents(ctx context.Context) ([]domain.Component, error) {
	rows, err := s.query(ctx, "SELECT id, description FROM components ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing components: %w", err)
	}
	defer rows.Close()

	var out []domain.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close rolls back staged work and releases the session.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.tx != nil {
		err := s.tx.Rollback()
		s.tx = nil
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			return err
		}
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return domain.Float(f.Float64)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComponent(row scanner) (domain.Component, error) {
	var (
		id   int
		desc string
	)
	if err := row.Scan(&id, &desc); err != nil {
		return domain.Component{}, fmt.Errorf("scanning component: %w", err)
	}
	c, err := domain.ParseComponentDescription(desc)
	if err != nil {
		return domain.Component{}, fmt.Errorf("component %d: %w", id, err)
	}
	c.ID = id
	return c, nil
}
