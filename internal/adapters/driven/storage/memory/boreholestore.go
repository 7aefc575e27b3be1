package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure BoreholeStore implements the interface.
var (
	_ driven.BoreholeStore = (*BoreholeStore)(nil)
	_ driven.Session       = (*Session)(nil)
)

type boreholeRow struct {
	id       string
	date     *time.Time
	length   float64
	diameter float64
	x, y, z  *float64
}

type intervalRow struct {
	id          int
	borehole    string
	number      int
	description string
	topID       int
	baseID      int
	kind        domain.IntervalType
}

// tables mirrors the relational schema.
type tables struct {
	boreholes  map[string]boreholeRow
	positions  map[int]domain.Position
	intervals  map[int]intervalRow
	components map[int]domain.Component
	links      map[domain.LinkKey]domain.Link
}

func newTables() *tables {
	return &tables{
		boreholes:  make(map[string]boreholeRow),
		positions:  make(map[int]domain.Position),
		intervals:  make(map[int]intervalRow),
		components: make(map[int]domain.Component),
		links:      make(map[domain.LinkKey]domain.Link),
	}
}

func (t *tables) clone() *tables {
	out := newTables()
	for k, v := range t.boreholes {
		out.boreholes[k] = v
	}
	for k, v := range t.positions {
		out.positions[k] = v
	}
	for k, v := range t.intervals {
		out.intervals[k] = v
	}
	for k, v := range t.components {
		out.components[k] = v.Clone()
	}
	for k, v := range t.links {
		out.links[k] = v
	}
	return out
}

// BoreholeStore is an in-memory implementation of driven.BoreholeStore.
// Sessions work on a private copy of the tables that Commit publishes.
type BoreholeStore struct {
	mu        sync.RWMutex
	committed *tables
	closed    bool
}

// NewBoreholeStore creates an empty in-memory store.
func NewBoreholeStore() *BoreholeStore {
	return &BoreholeStore{committed: newTables()}
}

// Open acquires a session.
func (s *BoreholeStore) Open(_ context.Context) (driven.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	return &Session{store: s, staged: s.committed.clone()}, nil
}

// Close releases the store. Open sessions fail afterwards.
func (s *BoreholeStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *BoreholeStore) snapshot() (*tables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	return s.committed.clone(), nil
}

func (s *BoreholeStore) publish(t *tables) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.committed = t.clone()
	return nil
}

// Session is a unit of work over a copy of the store tables.
type Session struct {
	store  *BoreholeStore
	staged *tables
	closed bool
}

func (s *Session) check() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	return nil
}

// CreateBorehole stages a borehole row. Z is kept as the reference
// elevation of the intervals.
func (s *Session) CreateBorehole(_ context.Context, b domain.Borehole) error {
	if err := s.check(); err != nil {
		return err
	}
	if b.ID == "" {
		return fmt.Errorf("%w: borehole id is empty", domain.ErrInvalidInput)
	}
	if _, ok := s.staged.boreholes[b.ID]; ok {
		return fmt.Errorf("%w: borehole %q", domain.ErrAlreadyExists, b.ID)
	}
	s.staged.boreholes[b.ID] = boreholeRow{
		id:       b.ID,
		date:     b.Date,
		length:   b.Length,
		diameter: b.Diameter,
		x:        b.X,
		y:        b.Y,
		z:        domain.Float(b.ZRef()),
	}
	return nil
}

// UpdateBoreholeLength stages a new length for an existing borehole.
func (s *Session) UpdateBoreholeLength(_ context.Context, id string, length float64) error {
	if err := s.check(); err != nil {
		return err
	}
	row, ok := s.staged.boreholes[id]
	if !ok {
		return fmt.Errorf("%w: borehole %q", domain.ErrNotFound, id)
	}
	row.length = length
	s.staged.boreholes[id] = row
	return nil
}

// InsertInterval stages an interval and its two positions.
func (s *Session) InsertInterval(_ context.Context, boreholeID string, intv domain.Interval) error {
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.staged.boreholes[boreholeID]; !ok {
		return fmt.Errorf("%w: borehole %q", domain.ErrNotFound, boreholeID)
	}
	if !intv.Type.IsValid() {
		return fmt.Errorf("%w: interval type %q", domain.ErrInvalidInput, intv.Type)
	}
	if _, ok := s.staged.intervals[intv.ID]; ok {
		return fmt.Errorf("%w: interval %d", domain.ErrAlreadyExists, intv.ID)
	}
	if intv.Top.ID == intv.Base.ID {
		return fmt.Errorf("%w: interval %d reuses position %d", domain.ErrInvalidInput, intv.ID, intv.Top.ID)
	}
	for _, p := range []domain.Position{intv.Top, intv.Base} {
		if _, ok := s.staged.positions[p.ID]; ok {
			return fmt.Errorf("%w: position %d", domain.ErrAlreadyExists, p.ID)
		}
	}
	s.staged.positions[intv.Top.ID] = intv.Top
	s.staged.positions[intv.Base.ID] = intv.Base
	s.staged.intervals[intv.ID] = intervalRow{
		id:          intv.ID,
		borehole:    boreholeID,
		number:      intv.Number,
		description: intv.Description,
		topID:       intv.Top.ID,
		baseID:      intv.Base.ID,
		kind:        intv.Type,
	}
	return nil
}

// AddComponents stages components, skipping ids already registered.
func (s *Session) AddComponents(_ context.Context, components []domain.Component) error {
	if err := s.check(); err != nil {
		return err
	}
	for _, c := range components {
		if _, ok := s.staged.components[c.ID]; ok {
			continue
		}
		desc := c.Description()
		for id, existing := range s.staged.components {
			if existing.Description() == desc {
				return fmt.Errorf("%w: component %s registered as %d", domain.ErrAlreadyExists, desc, id)
			}
		}
		s.staged.components[c.ID] = c.Clone()
	}
	return nil
}

// AddLinks stages links. Both ends must exist.
func (s *Session) AddLinks(_ context.Context, links []domain.Link) error {
	if err := s.check(); err != nil {
		return err
	}
	for _, l := range links {
		if _, ok := s.staged.intervals[l.IntervalID]; !ok {
			return fmt.Errorf("%w: interval %d", domain.ErrNotFound, l.IntervalID)
		}
		if _, ok := s.staged.components[l.ComponentID]; !ok {
			return fmt.Errorf("%w: component %d", domain.ErrNotFound, l.ComponentID)
		}
		if _, ok := s.staged.links[l.Key()]; ok {
			return fmt.Errorf("%w: link (%d, %d)", domain.ErrAlreadyExists, l.IntervalID, l.ComponentID)
		}
		s.staged.links[l.Key()] = l
	}
	return nil
}

// DeleteBorehole stages the cascading removal of a borehole.
func (s *Session) DeleteBorehole(_ context.Context, id string) error {
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.staged.boreholes[id]; !ok {
		return fmt.Errorf("%w: borehole %q", domain.ErrNotFound, id)
	}
	for intvID, row := range s.staged.intervals {
		if row.borehole != id {
			continue
		}
		for key := range s.staged.links {
			if key.IntervalID == intvID {
				delete(s.staged.links, key)
			}
		}
		delete(s.staged.positions, row.topID)
		delete(s.staged.positions, row.baseID)
		delete(s.staged.intervals, intvID)
	}
	delete(s.staged.boreholes, id)
	return nil
}

// Commit publishes the staged tables.
func (s *Session) Commit(_ context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.store.publish(s.staged)
}

// Rollback discards staged work.
func (s *Session) Rollback(_ context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	t, err := s.store.snapshot()
	if err != nil {
		return err
	}
	s.staged = t
	return nil
}

// NextID returns max(id) + 1 for the entity kind, or 0 if none.
func (s *Session) NextID(_ context.Context, kind domain.EntityKind) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	var ids []int
	switch kind {
	case domain.EntityPosition:
		for id := range s.staged.positions {
			ids = append(ids, id)
		}
	case domain.EntityInterval:
		for id := range s.staged.intervals {
			ids = append(ids, id)
		}
	case domain.EntityComponent:
		for id := range s.staged.components {
			ids = append(ids, id)
		}
	default:
		return 0, fmt.Errorf("%w: entity kind %q", domain.ErrInvalidInput, kind)
	}
	next := 0
	for _, id := range ids {
		if id+1 > next {
			next = id + 1
		}
	}
	return next, nil
}

// FindComponentIDByDescription returns the id of the matching component.
func (s *Session) FindComponentIDByDescription(_ context.Context, description string) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	for id, c := range s.staged.components {
		if c.Description() == description {
			return id, nil
		}
	}
	return 0, domain.ErrNotFound
}

// ListBoreholes returns every borehole fully loaded, ordered by id.
func (s *Session) ListBoreholes(_ context.Context) ([]domain.Borehole, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(s.staged.boreholes))
	for id := range s.staged.boreholes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.Borehole, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.assemble(s.staged.boreholes[id]))
	}
	return out, nil
}

// GetBorehole returns one fully loaded borehole.
func (s *Session) GetBorehole(_ context.Context, id string) (*domain.Borehole, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	row, ok := s.staged.boreholes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b := s.assemble(row)
	return &b, nil
}

// ListComponents returns the registry ordered by id.
func (s *Session) ListComponents(_ context.Context) ([]domain.Component, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]domain.Component, 0, len(s.staged.components))
	for _, c := range s.staged.components {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close discards staged work and releases the session.
func (s *Session) Close() error {
	s.closed = true
	s.staged = nil
	return nil
}

func (s *Session) assemble(row boreholeRow) domain.Borehole {
	b := domain.Borehole{
		ID:       row.id,
		Date:     row.date,
		Length:   row.length,
		Diameter: row.diameter,
		X:        row.x,
		Y:        row.y,
		Z:        row.z,
	}
	for _, r := range s.staged.intervals {
		if r.borehole != row.id {
			continue
		}
		b.Intervals = append(b.Intervals, domain.Interval{
			ID:          r.id,
			BoreholeID:  r.borehole,
			Number:      r.number,
			Top:         s.staged.positions[r.topID],
			Base:        s.staged.positions[r.baseID],
			Description: r.description,
			Type:        r.kind,
			Components:  s.linkedComponents(r.id),
		})
	}
	b.SortIntervals()
	b.UpdateCollarFromIntervals()
	return b
}

func (s *Session) linkedComponents(intervalID int) []domain.Component {
	var links []domain.Link
	for key, l := range s.staged.links {
		if key.IntervalID == intervalID {
			links = append(links, l)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Rank != links[j].Rank {
			return links[i].Rank < links[j].Rank
		}
		return links[i].ComponentID < links[j].ComponentID
	})
	out := make([]domain.Component, 0, len(links))
	for _, l := range links {
		out = append(out, s.staged.components[l.ComponentID].Clone())
	}
	return out
}
