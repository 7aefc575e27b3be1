package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

const boreholeColumns = "SELECT id, date, length, diameter, x, y, z FROM boreholes"

// ListBoreholes returns every borehole fully loaded, ordered by id.
func (s *Session) ListBoreholes(ctx context.Context) ([]domain.Borehole, error) {
	rows, err := s.query(ctx, boreholeColumns+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing boreholes: %w", err)
	}
	var out []domain.Borehole
	for rows.Next() {
		b, err := scanBorehole(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.loadIntervals(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetBorehole returns one fully loaded borehole or domain.ErrNotFound.
func (s *Session) GetBorehole(ctx context.Context, id string) (*domain.Borehole, error) {
	row, err := s.queryRow(ctx, boreholeColumns+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	b, err := scanBorehole(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := s.loadIntervals(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBorehole(row scanner) (domain.Borehole, error) {
	var (
		b       domain.Borehole
		date    sql.NullString
		x, y, z sql.NullFloat64
	)
	if err := row.Scan(&b.ID, &date, &b.Length, &b.Diameter, &x, &y, &z); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("scanning borehole: %w", err)
	}
	if date.Valid && date.String != "" {
		t, err := time.Parse(dateLayout, date.String)
		if err != nil {
			return b, fmt.Errorf("borehole %q date: %w", b.ID, err)
		}
		b.Date = &t
	}
	b.X, b.Y, b.Z = floatPtr(x), floatPtr(y), floatPtr(z)
	return b, nil
}

// loadIntervals fills intervals, positions and linked components, then
// derives the collar fields the row left NULL.
func (s *Session) loadIntervals(ctx context.Context, b *domain.Borehole) error {
	rows, err := s.query(ctx, `
		SELECT i.id, i.interval_number, i.description, i.type,
			t.id, t.upper, t.middle, t.lower, t.x, t.y,
			p.id, p.upper, p.middle, p.lower, p.x, p.y
		FROM intervals i
		JOIN positions t ON t.id = i.top_id
		JOIN positions p ON p.id = i.base_id
		WHERE i.borehole = ?
		ORDER BY i.interval_number`, b.ID)
	if err != nil {
		return fmt.Errorf("loading intervals of %q: %w", b.ID, err)
	}
	index := make(map[int]int)
	for rows.Next() {
		var (
			intv   domain.Interval
			kind   string
			tx, ty sql.NullFloat64
			bx, by sql.NullFloat64
		)
		err := rows.Scan(&intv.ID, &intv.Number, &intv.Description, &kind,
			&intv.Top.ID, &intv.Top.Upper, &intv.Top.Middle, &intv.Top.Lower, &tx, &ty,
			&intv.Base.ID, &intv.Base.Upper, &intv.Base.Middle, &intv.Base.Lower, &bx, &by)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scanning interval: %w", err)
		}
		intv.BoreholeID = b.ID
		intv.Type = domain.IntervalType(kind)
		intv.Top.X, intv.Top.Y = floatPtr(tx), floatPtr(ty)
		intv.Base.X, intv.Base.Y = floatPtr(bx), floatPtr(by)
		intv.Components = []domain.Component{}
		index[intv.ID] = len(b.Intervals)
		b.Intervals = append(b.Intervals, intv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	links, err := s.query(ctx, `
		SELECT l.intv_id, c.id, c.description
		FROM linkintervalcomponent l
		JOIN components c ON c.id = l.comp_id
		JOIN intervals i ON i.id = l.intv_id
		WHERE i.borehole = ?
		ORDER BY l.intv_id, l.link_rank, c.id`, b.ID)
	if err != nil {
		return fmt.Errorf("loading components of %q: %w", b.ID, err)
	}
	defer links.Close()
	for links.Next() {
		var intvID int
		var compID int
		var desc string
		if err := links.Scan(&intvID, &compID, &desc); err != nil {
			return fmt.Errorf("scanning link: %w", err)
		}
		c, err := domain.ParseComponentDescription(desc)
		if err != nil {
			return fmt.Errorf("component %d: %w", compID, err)
		}
		c.ID = compID
		if i, ok := index[intvID]; ok {
			b.Intervals[i].Components = append(b.Intervals[i].Components, c)
		}
	}
	if err := links.Err(); err != nil {
		return err
	}
	b.UpdateCollarFromIntervals()
	return nil
}
