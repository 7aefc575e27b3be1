package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driving"
	"github.com/custodia-labs/borehole-cli/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// dateLayouts are the accepted Date cell formats.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02", time.RFC3339}

// Ingestor normalises tabular frames into boreholes, components and links.
type Ingestor struct {
	registry driven.NormaliserRegistry
	metrics  driven.Metrics
	now      func() time.Time
}

// NewIngestor creates an ingestor. A nil metrics discards observations.
func NewIngestor(registry driven.NormaliserRegistry, metrics driven.Metrics) *Ingestor {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &Ingestor{registry: registry, metrics: metrics, now: time.Now}
}

// taggedRow is a frame row tagged with its interval type.
type taggedRow struct {
	kind   domain.IntervalType
	frame  *domain.Frame
	layout *columnLayout
	index  int
}

func (r taggedRow) cell(role columnRole) string {
	return r.frame.Cell(r.index, r.layout.index(role))
}

// rowDraft is a parsed row before id allocation.
type rowDraft struct {
	kind        domain.IntervalType
	top, base   float64
	x, y        *float64
	description string
	components  []domain.Component
}

// boreholeDraft is a parsed borehole before id allocation.
type boreholeDraft struct {
	id       string
	date     *time.Time
	diameter float64
	x, y, z  *float64
	length   float64
	rows     []rowDraft
}

// zRef is the elevation depths are measured from.
func (d *boreholeDraft) zRef() float64 {
	if d.z != nil {
		return *d.z
	}
	return 0
}

// run carries the mutable state of one Build call.
type run struct {
	ctx     context.Context
	session driven.Session
	opts    domain.IngestOptions
	report  *domain.IngestReport
}

func (r *run) warn(borehole string, kind domain.WarningKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.report.Warnings = append(r.report.Warnings, domain.Warning{Borehole: borehole, Kind: kind, Message: msg})
	if borehole != "" {
		logger.Warn("%s: %s", borehole, msg)
	} else {
		logger.Warn("%s", msg)
	}
}

// Ingest builds then stages frames. Nothing is committed.
func (g *Ingestor) Ingest(
	ctx context.Context,
	session driven.Session,
	frames []domain.Frame,
	opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	result, err := g.Build(ctx, session, frames, opts)
	if err != nil {
		return nil, err
	}
	if err := g.Stage(ctx, session, result); err != nil {
		return nil, err
	}
	g.metrics.ObserveIngest(result.Report)
	return result, nil
}

// Build turns frames into staged rows. A fatal error leaves nothing built.
func (g *Ingestor) Build(
	ctx context.Context,
	session driven.Session,
	frames []domain.Frame,
	opts domain.IngestOptions,
) (*domain.IngestResult, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: no session", domain.ErrInvalidInput)
	}
	if opts.DefaultDiameter <= 0 {
		opts.DefaultDiameter = domain.DefaultDiameter
	}
	logger.Section("Ingest")

	r := &run{
		ctx:     ctx,
		session: session,
		opts:    opts,
		report: &domain.IngestReport{
			RunID:     uuid.NewString(),
			StartedAt: g.now(),
			Skipped:   make(map[string]error),
		},
	}
	logger.Debug("Run %s: %d frame(s)", r.report.RunID, len(frames))

	rows, err := g.tagRows(r, frames)
	if err != nil {
		return nil, err
	}

	order, groups := groupByBorehole(rows)
	drafts := make([]*boreholeDraft, 0, len(order))
	for _, id := range order {
		draft, err := g.parseBorehole(r, id, groups[id])
		if err != nil {
			if errors.Is(err, domain.ErrSchemaViolation) || errors.Is(err, domain.ErrAlreadyExists) {
				r.report.Skipped[id] = err
				kind := domain.WarningSchemaViolation
				r.warn(id, kind, "skipped: %v", err)
				continue
			}
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	result, err := g.allocate(r, drafts)
	if err != nil {
		return nil, err
	}
	logger.Info("Built %d borehole(s), %d interval(s), %d new component(s)",
		len(result.Boreholes), result.Report.Intervals, result.Report.NewComponents)
	return result, nil
}

// tagRows validates frame kinds, maps columns and concatenates lithology
// rows then sample rows.
func (g *Ingestor) tagRows(r *run, frames []domain.Frame) ([]taggedRow, error) {
	litho, sample, err := classifyFrames(frames)
	if err != nil {
		return nil, err
	}

	type typed struct {
		frame domain.Frame
		kind  domain.IntervalType
	}
	inputs := []typed{{litho, domain.IntervalLithology}}
	if sample != nil {
		inputs = append(inputs, typed{*sample, domain.IntervalSample})
	}

	var rows []taggedRow
	for i := range inputs {
		frame := inputs[i].frame
		layout, err := mapColumns(frame)
		if err != nil {
			return nil, err
		}
		for _, col := range layout.attributes {
			name := frame.Columns[col]
			if _, ok := g.registry.ForAttribute(name); !ok {
				r.warn("", domain.WarningUnknownAttribute, "frame %q: no normaliser for column %q", frame.Kind, name)
			}
		}
		logger.Debug("Frame %q: %d row(s), %d attribute column(s)", frame.Kind, frame.Len(), len(layout.attributes))
		for idx := 0; idx < frame.Len(); idx++ {
			rows = append(rows, taggedRow{kind: inputs[i].kind, frame: &frame, layout: &layout, index: idx})
		}
	}
	return rows, nil
}

// groupByBorehole groups rows by ID in first-appearance order. Rows without
// an ID are dropped.
func groupByBorehole(rows []taggedRow) ([]string, map[string][]taggedRow) {
	var order []string
	groups := make(map[string][]taggedRow)
	for _, row := range rows {
		id := row.cell(roleID)
		if id == "" {
			continue
		}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], row)
	}
	return order, groups
}

// parseBorehole parses the rows of one borehole.
func (g *Ingestor) parseBorehole(r *run, id string, rows []taggedRow) (*boreholeDraft, error) {
	if existing, err := r.session.GetBorehole(r.ctx, id); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: borehole %q", domain.ErrAlreadyExists, id)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking borehole %q: %w", id, err)
	}

	draft := &boreholeDraft{id: id, diameter: r.opts.DefaultDiameter}
	if err := g.parseCollar(r, draft, rows); err != nil {
		return nil, err
	}

	cumulative := make(map[domain.IntervalType]float64)
	deepest := make(map[domain.IntervalType]float64)
	for _, row := range rows {
		top, base, err := rowDepths(row, cumulative)
		if err != nil {
			return nil, err
		}
		if base == 0 || base <= top || top < 0 {
			return nil, &domain.RowError{
				Borehole: id,
				Kind:     row.kind,
				Row:      row.index,
				Err:      fmt.Errorf("%w: top %g, base %g", domain.ErrGeometryInvalid, top, base),
			}
		}

		components, err := g.normaliseRow(r, id, row)
		if err != nil {
			return nil, err
		}
		if len(components) == 0 {
			r.warn(id, domain.WarningEmptyRow, "%s row %d has no usable attribute, skipped", row.kind, row.index+1)
			continue
		}
		deepest[row.kind] = math.Max(deepest[row.kind], base)

		x, y := draft.x, draft.y
		if rx, ry, ok, err := parseXY(row); err != nil {
			return nil, err
		} else if ok {
			x, y = rx, ry
		}
		desc := domain.JoinDescriptions(components)
		if desc == "" {
			desc = row.cell(roleDescription)
		}
		draft.rows = append(draft.rows, rowDraft{
			kind:        row.kind,
			top:         top,
			base:        base,
			x:           x,
			y:           y,
			description: desc,
			components:  components,
		})
	}

	if d, ok := deepest[domain.IntervalLithology]; ok {
		draft.length = d
	} else {
		draft.length = deepest[domain.IntervalSample]
	}
	return draft, nil
}

// parseCollar reads the collar, date and diameter from the first rows
// carrying them and applies the average Z fallback.
func (g *Ingestor) parseCollar(r *run, draft *boreholeDraft, rows []taggedRow) error {
	for _, row := range rows {
		if draft.x == nil {
			if x, y, ok, err := parseXY(row); err != nil {
				return err
			} else if ok {
				draft.x, draft.y = x, y
			}
		}
		if draft.z == nil {
			if z, ok, err := parseOptionalFloat(row, roleZ); err != nil {
				return err
			} else if ok {
				draft.z = &z
			}
		}
		if draft.date == nil {
			if cell := row.cell(roleDate); cell != "" {
				if d, ok := parseDate(cell); ok {
					draft.date = &d
				} else {
					r.warn(draft.id, domain.WarningInvalidCell, "date %q not understood, ignored", cell)
				}
			}
		}
	}

	if d, ok, err := parseOptionalFloat(rows[0], roleDiameter); err != nil {
		return err
	} else if ok && d > 0 {
		draft.diameter = d
	}

	if draft.z == nil {
		if r.opts.AverageZ != nil {
			draft.z = domain.Float(*r.opts.AverageZ)
			r.warn(draft.id, domain.WarningMissingZ, "no Z, using average Z %g", *r.opts.AverageZ)
		} else {
			logger.Debug("%s: no Z and no average Z, elevations relative to 0", draft.id)
		}
	}
	return nil
}

// normaliseRow builds the ordered, de-duplicated components of a row.
func (g *Ingestor) normaliseRow(r *run, id string, row taggedRow) ([]domain.Component, error) {
	var out []domain.Component
	seen := make(map[string]struct{})
	for _, col := range row.layout.attributes {
		raw := row.frame.Cell(row.index, col)
		if raw == "" {
			continue
		}
		attr := row.frame.Columns[col]
		n, ok := g.registry.ForAttribute(attr)
		if !ok {
			continue // Reported once per frame
		}
		c, err := n.Normalise(r.ctx, attr, raw)
		switch {
		case errors.Is(err, domain.ErrUnknownAttributeValue):
			r.warn(id, domain.WarningUnknownValue, "%s row %d: %v", row.kind, row.index+1, err)
			continue
		case errors.Is(err, domain.ErrUnknownPollutant), errors.Is(err, domain.ErrInvalidInput):
			r.warn(id, domain.WarningInvalidCell, "%s row %d, %s: %v", row.kind, row.index+1, attr, err)
			continue
		case err != nil:
			return nil, fmt.Errorf("normalising %s of %q: %w", attr, id, err)
		}
		if c.IsEmpty() {
			continue
		}
		desc := c.Description()
		if _, dup := seen[desc]; dup {
			continue
		}
		seen[desc] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// allocate assigns ids, registers components and builds links.
func (g *Ingestor) allocate(r *run, drafts []*boreholeDraft) (*domain.IngestResult, error) {
	nextInterval, err := r.session.NextID(r.ctx, domain.EntityInterval)
	if err != nil {
		return nil, fmt.Errorf("allocating interval ids: %w", err)
	}
	nextPosition, err := r.session.NextID(r.ctx, domain.EntityPosition)
	if err != nil {
		return nil, fmt.Errorf("allocating position ids: %w", err)
	}
	registry, err := newComponentRegistry(r.ctx, r.session)
	if err != nil {
		return nil, err
	}

	result := &domain.IngestResult{
		Components: make(map[int]domain.Component),
		Links:      make(map[domain.LinkKey]domain.Link),
	}
	for _, d := range drafts {
		b := domain.Borehole{
			ID:       d.id,
			Date:     d.date,
			Length:   d.length,
			Diameter: d.diameter,
			X:        d.x,
			Y:        d.y,
			Z:        d.z,
		}
		zRef := d.zRef()
		for number, row := range d.rows {
			intv := domain.Interval{
				ID:          nextInterval,
				BoreholeID:  d.id,
				Number:      number,
				Top:         domain.NewPosition(nextPosition, zRef-row.top, row.x, row.y),
				Base:        domain.NewPosition(nextPosition+1, zRef-row.base, row.x, row.y),
				Description: row.description,
				Type:        row.kind,
			}
			nextInterval++
			nextPosition += 2

			for rank, c := range row.components {
				registered, err := registry.resolve(c)
				if err != nil {
					return nil, err
				}
				intv.Components = append(intv.Components, registered)
				result.Components[registered.ID] = registered
				link := domain.Link{IntervalID: intv.ID, ComponentID: registered.ID, Rank: rank}
				result.Links[link.Key()] = link
			}
			b.Intervals = append(b.Intervals, intv)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("borehole %q: %w", d.id, err)
		}
		result.Boreholes = append(result.Boreholes, b)
		r.report.Boreholes = append(r.report.Boreholes, b.ID)
		r.report.Intervals += len(b.Intervals)
	}
	r.report.NewComponents = registry.created
	result.Report = *r.report
	return result, nil
}

// Stage writes a built result into the session: components, boreholes with
// their intervals, then links.
func (g *Ingestor) Stage(ctx context.Context, session driven.Session, result *domain.IngestResult) error {
	if session == nil {
		return fmt.Errorf("%w: no session", domain.ErrInvalidInput)
	}
	components := make([]domain.Component, 0, len(result.Components))
	for _, c := range result.Components {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool { return components[i].ID < components[j].ID })
	if err := session.AddComponents(ctx, components); err != nil {
		return fmt.Errorf("stage components: %w", err)
	}

	for _, b := range result.Boreholes {
		if err := session.CreateBorehole(ctx, b); err != nil {
			return fmt.Errorf("stage borehole %q: %w", b.ID, err)
		}
		for _, intv := range b.Intervals {
			if err := session.InsertInterval(ctx, b.ID, intv); err != nil {
				return fmt.Errorf("stage interval %d of %q: %w", intv.Number, b.ID, err)
			}
		}
	}

	links := make([]domain.Link, 0, len(result.Links))
	for _, l := range result.Links {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].IntervalID != links[j].IntervalID {
			return links[i].IntervalID < links[j].IntervalID
		}
		return links[i].Rank < links[j].Rank
	})
	if err := session.AddLinks(ctx, links); err != nil {
		return fmt.Errorf("stage links: %w", err)
	}
	logger.Debug("Staged %d borehole(s), %d link(s)", len(result.Boreholes), len(links))
	return nil
}

// rowDepths returns the top and base depths of a row, from Top/Base when
// the frame has them, else accumulated from Thickness per interval type.
func rowDepths(row taggedRow, cumulative map[domain.IntervalType]float64) (float64, float64, error) {
	if row.layout.has(roleTop) && row.layout.has(roleBase) {
		top, err := requiredFloat(row, roleTop)
		if err != nil {
			return 0, 0, err
		}
		base, err := requiredFloat(row, roleBase)
		if err != nil {
			return 0, 0, err
		}
		return top, base, nil
	}
	thickness, err := requiredFloat(row, roleThickness)
	if err != nil {
		return 0, 0, err
	}
	top := cumulative[row.kind]
	base := top + thickness
	cumulative[row.kind] = base
	return top, base, nil
}

func requiredFloat(row taggedRow, role columnRole) (float64, error) {
	v, ok, err := parseOptionalFloat(row, role)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s row %d has no %s", domain.ErrSchemaViolation, row.kind, row.index+1, role)
	}
	return v, nil
}

// parseOptionalFloat parses the cell of role. Comma decimals are accepted.
func parseOptionalFloat(row taggedRow, role columnRole) (float64, bool, error) {
	cell := row.cell(role)
	if cell == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s row %d, %s %q is not a number",
			domain.ErrSchemaViolation, row.kind, row.index+1, role, cell)
	}
	return v, true, nil
}

func parseXY(row taggedRow) (*float64, *float64, bool, error) {
	x, okX, err := parseOptionalFloat(row, roleX)
	if err != nil {
		return nil, nil, false, err
	}
	y, okY, err := parseOptionalFloat(row, roleY)
	if err != nil {
		return nil, nil, false, err
	}
	if !okX || !okY {
		return nil, nil, false, nil
	}
	return &x, &y, true, nil
}

func parseDate(cell string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// componentRegistry reuses components by description: staged ones first,
// then those already in the session.
type componentRegistry struct {
	ctx     context.Context
	session driven.Session
	byDesc  map[string]domain.Component
	next    int
	created int
}

func newComponentRegistry(ctx context.Context, session driven.Session) (*componentRegistry, error) {
	next, err := session.NextID(ctx, domain.EntityComponent)
	if err != nil {
		return nil, fmt.Errorf("allocating component ids: %w", err)
	}
	return &componentRegistry{
		ctx:     ctx,
		session: session,
		byDesc:  make(map[string]domain.Component),
		next:    next,
	}, nil
}

func (c *componentRegistry) resolve(comp domain.Component) (domain.Component, error) {
	desc := comp.Description()
	if existing, ok := c.byDesc[desc]; ok {
		return existing, nil
	}
	out := comp.Clone()
	id, err := c.session.FindComponentIDByDescription(c.ctx, desc)
	switch {
	case err == nil:
		out.ID = id
	case errors.Is(err, domain.ErrNotFound):
		out.ID = c.next
		c.next++
		c.created++
	default:
		return domain.Component{}, fmt.Errorf("looking up component %s: %w", desc, err)
	}
	c.byDesc[desc] = out
	return out, nil
}
