package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driving"
	"github.com/custodia-labs/borehole-cli/internal/logger"
)

// Ensure Project implements the interface.
var _ driving.ProjectService = (*Project)(nil)

// BoreholeTypeBasics is the snapshot taken while the display attribute is
// borehole_type, kept for ghost rendering under other attributes.
type BoreholeTypeBasics struct {
	Views   []*Borehole3D
	Legends domain.LegendDict
}

// ProjectOptions configures a project.
type ProjectOptions struct {
	// ReprAttribute is the initial display attribute.
	ReprAttribute string

	// Legends are the default legends. They are copied and never modified.
	Legends domain.LegendDict

	// DefaultDiameter is used by AddBoreholeSpec when the spec has none.
	DefaultDiameter float64
}

// Project is the borehole project aggregate: it owns the session, the loaded
// boreholes and their views, and the resolved legends.
//
// A Project is not safe for concurrent use.
type Project struct {
	session  driven.Session
	ingestor driving.IngestService
	resolver *LegendResolver

	reprAttribute   string
	defaultDiameter float64

	backup     domain.LegendDict
	legendDict domain.LegendDict

	boreholes    []domain.Borehole
	views        []*Borehole3D
	bhTypeBasics *BoreholeTypeBasics
}

// NewProject creates a project over session. Call Refresh to load it.
func NewProject(
	session driven.Session,
	ingestor driving.IngestService,
	resolver *LegendResolver,
	opts ProjectOptions,
) *Project {
	if opts.ReprAttribute == "" {
		opts.ReprAttribute = domain.AttributeLithology
	}
	if opts.DefaultDiameter <= 0 {
		opts.DefaultDiameter = domain.DefaultDiameter
	}
	return &Project{
		session:         session,
		ingestor:        ingestor,
		resolver:        resolver,
		reprAttribute:   opts.ReprAttribute,
		defaultDiameter: opts.DefaultDiameter,
		backup:          opts.Legends.Clone(),
		legendDict:      opts.Legends.Clone(),
	}
}

// Refresh reloads boreholes from the session, optionally rebuilding the
// views from the default legends and re-resolving legends.
func (p *Project) Refresh(ctx context.Context, update3D, updateLegend bool) error {
	boreholes, err := p.session.ListBoreholes(ctx)
	if err != nil {
		return fmt.Errorf("loading boreholes: %w", err)
	}
	p.boreholes = boreholes

	if update3D || len(p.views) != len(boreholes) {
		p.views = make([]*Borehole3D, 0, len(boreholes))
		for _, b := range boreholes {
			p.views = append(p.views, NewBorehole3D(b, p.reprAttribute, p.backup))
		}
		p.legendDict = p.backup.Clone()
	}

	if updateLegend && len(p.views) > 0 {
		res, err := p.resolver.Resolve(p.views, p.backup, ResolveOptions{
			Attributes:  []string{p.reprAttribute},
			ComputeAll:  true,
			UpdateViews: true,
		})
		if err != nil {
			return fmt.Errorf("resolving legends: %w", err)
		}
		p.legendDict = res.Project
	}

	if strings.EqualFold(p.reprAttribute, domain.AttributeBoreholeType) {
		basics := &BoreholeTypeBasics{Legends: p.legendDict.Clone()}
		for _, v := range p.views {
			basics.Views = append(basics.Views, v.Clone())
		}
		p.bhTypeBasics = basics
	}
	logger.Debug("Project refreshed: %d borehole(s), attribute %s", len(p.boreholes), p.reprAttribute)
	return nil
}

// ReprAttribute returns the current display attribute.
func (p *Project) ReprAttribute() string {
	return p.reprAttribute
}

// SetReprAttribute switches the display attribute and refreshes.
func (p *Project) SetReprAttribute(ctx context.Context, attribute string) error {
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		return fmt.Errorf("%w: empty attribute", domain.ErrInvalidInput)
	}
	p.reprAttribute = attribute
	return p.Refresh(ctx, true, true)
}

// SetDefaultLegends replaces the default legends and re-resolves every view.
func (p *Project) SetDefaultLegends(ctx context.Context, legends domain.LegendDict) error {
	p.backup = legends.Clone()
	return p.Refresh(ctx, true, true)
}

// Boreholes returns copies of the loaded boreholes in store order.
func (p *Project) Boreholes() []domain.Borehole {
	out := make([]domain.Borehole, len(p.boreholes))
	for i, b := range p.boreholes {
		out[i] = b.Clone()
	}
	return out
}

// Views returns copies of the borehole views.
func (p *Project) Views() []*Borehole3D {
	out := make([]*Borehole3D, len(p.views))
	for i, v := range p.views {
		out[i] = v.Clone()
	}
	return out
}

// Attributes returns every attribute in the project, in first-occurrence
// order.
func (p *Project) Attributes() []string {
	var out []string
	for _, v := range p.views {
		for _, a := range v.Attributes() {
			if !containsFold(out, a) {
				out = append(out, a)
			}
		}
	}
	return out
}

// LegendDict returns a copy of the project legends.
func (p *Project) LegendDict() domain.LegendDict {
	return p.legendDict.Clone()
}

// BoreholeLegends returns a copy of each borehole's legend snapshot.
func (p *Project) BoreholeLegends() map[string]domain.LegendDict {
	out := make(map[string]domain.LegendDict, len(p.views))
	for _, v := range p.views {
		out[v.Name()] = v.Legends()
	}
	return out
}

// BhTypeBasics returns the borehole_type snapshot, if one was taken.
func (p *Project) BhTypeBasics() (*BoreholeTypeBasics, bool) {
	if p.bhTypeBasics == nil {
		return nil, false
	}
	out := &BoreholeTypeBasics{Legends: p.bhTypeBasics.Legends.Clone()}
	for _, v := range p.bhTypeBasics.Views {
		out.Views = append(out.Views, v.Clone())
	}
	return out, true
}

// Scene returns the geometry of every borehole for the display attribute.
func (p *Project) Scene() (domain.Scene, error) {
	scene := domain.Scene{Attribute: p.reprAttribute}
	if spec, ok := p.legendDict.Get(p.reprAttribute); ok {
		scene.Legend = spec.Clone()
	}
	for _, v := range p.views {
		g, err := v.BoreholeGeometry()
		if err != nil {
			return domain.Scene{}, err
		}
		scene.Boreholes = append(scene.Boreholes, g)
	}
	return scene, nil
}

// IngestFrames ingests frames, commits and refreshes. Any failure rolls the
// session back.
func (p *Project) IngestFrames(
	ctx context.Context,
	frames []domain.Frame,
	opts domain.IngestOptions,
) (*domain.IngestReport, error) {
	result, err := p.ingestor.Ingest(ctx, p.session, frames, opts)
	if err != nil {
		return nil, p.rollback(ctx, err)
	}
	if err := p.session.Commit(ctx); err != nil {
		return nil, p.rollback(ctx, fmt.Errorf("commit: %w", err))
	}
	report := result.Report
	return &report, p.Refresh(ctx, true, true)
}

// AddBorehole stages and commits a fully-formed borehole. Interval, position
// and component ids are reassigned; components are reused by description.
func (p *Project) AddBorehole(ctx context.Context, borehole domain.Borehole) error {
	b := borehole.Clone()
	b.SortIntervals()
	for _, intv := range b.Intervals {
		if len(intv.Components) == 0 {
			return fmt.Errorf("borehole %q: %w: interval %d", b.ID, domain.ErrEmptyInterval, intv.Number)
		}
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Diameter <= 0 {
		b.Diameter = p.defaultDiameter
	}
	if b.Length <= 0 {
		b.Length = b.DeriveLength()
	}

	err := p.stage(ctx, func(a *allocator) error {
		if err := p.session.CreateBorehole(ctx, b); err != nil {
			return err
		}
		for i := range b.Intervals {
			if err := a.insert(ctx, b.ID, b.Intervals[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Added borehole %s with %d interval(s)", b.ID, len(b.Intervals))
	return nil
}

// AddBoreholeSpec creates a borehole with one interval spanning its length,
// carrying the component {borehole_type: spec.BoreholeType}.
func (p *Project) AddBoreholeSpec(ctx context.Context, spec domain.BoreholeSpec) error {
	if strings.TrimSpace(spec.ID) == "" {
		return fmt.Errorf("%w: borehole id is empty", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(spec.BoreholeType) == "" {
		return fmt.Errorf("%w: borehole type is empty", domain.ErrInvalidInput)
	}
	if spec.Length <= 0 {
		return fmt.Errorf("%w: borehole length must be positive", domain.ErrGeometryInvalid)
	}
	diameter := spec.Diameter
	if diameter <= 0 {
		diameter = p.defaultDiameter
	}

	b := domain.Borehole{
		ID:       spec.ID,
		Date:     spec.Date,
		Length:   spec.Length,
		Diameter: diameter,
		X:        spec.X,
		Y:        spec.Y,
		Z:        spec.Z,
	}
	zRef := b.ZRef()
	component := domain.NewComponent(domain.AttributeBoreholeType, domain.NormaliseValue(spec.BoreholeType))
	intv := domain.Interval{
		BoreholeID:  spec.ID,
		Number:      0,
		Top:         domain.NewPosition(0, zRef, spec.X, spec.Y),
		Base:        domain.NewPosition(0, zRef-spec.Length, spec.X, spec.Y),
		Description: component.Description(),
		Type:        domain.IntervalLithology,
		Components:  []domain.Component{component},
	}

	return p.stage(ctx, func(a *allocator) error {
		if err := p.session.CreateBorehole(ctx, b); err != nil {
			return err
		}
		return a.insert(ctx, b.ID, intv)
	})
}

// InsertIntervalInBorehole appends an interval to an existing borehole and
// keeps its length in step with the intervals. Components are reused by
// description or created.
func (p *Project) InsertIntervalInBorehole(ctx context.Context, boreholeID string, spec domain.IntervalSpec) error {
	if len(spec.Components) == 0 {
		return fmt.Errorf("%w: new interval of %q", domain.ErrEmptyInterval, boreholeID)
	}
	if spec.Type == "" {
		spec.Type = domain.IntervalLithology
	}
	if spec.Top < 0 || spec.Base <= spec.Top {
		return fmt.Errorf("%w: top %g, base %g", domain.ErrGeometryInvalid, spec.Top, spec.Base)
	}
	b, err := p.session.GetBorehole(ctx, boreholeID)
	if err != nil {
		return err
	}

	zRef := b.ZRef()
	intv := domain.Interval{
		BoreholeID:  boreholeID,
		Number:      len(b.Intervals),
		Top:         domain.NewPosition(0, zRef-spec.Top, b.X, b.Y),
		Base:        domain.NewPosition(0, zRef-spec.Base, b.X, b.Y),
		Description: spec.Description,
		Type:        spec.Type,
		Components:  spec.Components,
	}
	if intv.Description == "" {
		intv.Description = domain.JoinDescriptions(spec.Components)
	}
	if err := intv.Validate(); err != nil {
		return err
	}
	grown := b.Clone()
	grown.Intervals = append(grown.Intervals, intv)
	if err := domain.CheckOverlap(grown.Intervals); err != nil {
		return err
	}
	length := grown.DeriveLength()

	return p.stage(ctx, func(a *allocator) error {
		if err := a.insert(ctx, boreholeID, intv); err != nil {
			return err
		}
		if length == b.Length {
			return nil
		}
		return p.session.UpdateBoreholeLength(ctx, boreholeID, length)
	})
}

// DeleteBorehole removes a borehole and its intervals, then refreshes.
func (p *Project) DeleteBorehole(ctx context.Context, id string) error {
	return p.stage(ctx, func(*allocator) error {
		return p.session.DeleteBorehole(ctx, id)
	})
}

// Close releases the session, discarding uncommitted work.
func (p *Project) Close() error {
	return p.session.Close()
}

// stage runs fn, then commits and refreshes. On error the session is
// rolled back.
func (p *Project) stage(ctx context.Context, fn func(a *allocator) error) error {
	a, err := newAllocator(ctx, p.session)
	if err != nil {
		return p.rollback(ctx, err)
	}
	if err := fn(a); err != nil {
		return p.rollback(ctx, err)
	}
	if err := p.session.Commit(ctx); err != nil {
		return p.rollback(ctx, fmt.Errorf("commit: %w", err))
	}
	return p.Refresh(ctx, true, true)
}

func (p *Project) rollback(ctx context.Context, cause error) error {
	if err := p.session.Rollback(ctx); err != nil {
		return errors.Join(cause, fmt.Errorf("rollback: %w", err))
	}
	return cause
}

// allocator assigns interval and position ids inside one session and
// registers components by description.
type allocator struct {
	session    driven.Session
	components *componentRegistry
	interval   int
	position   int
}

func newAllocator(ctx context.Context, session driven.Session) (*allocator, error) {
	interval, err := session.NextID(ctx, domain.EntityInterval)
	if err != nil {
		return nil, fmt.Errorf("allocating interval ids: %w", err)
	}
	position, err := session.NextID(ctx, domain.EntityPosition)
	if err != nil {
		return nil, fmt.Errorf("allocating position ids: %w", err)
	}
	components, err := newComponentRegistry(ctx, session)
	if err != nil {
		return nil, err
	}
	return &allocator{session: session, components: components, interval: interval, position: position}, nil
}

// insert assigns ids to intv, stages it with its components and links.
func (a *allocator) insert(ctx context.Context, boreholeID string, intv domain.Interval) error {
	intv.ID = a.interval
	intv.BoreholeID = boreholeID
	intv.Top.ID = a.position
	intv.Base.ID = a.position + 1
	a.interval++
	a.position += 2

	registered := make([]domain.Component, 0, len(intv.Components))
	links := make([]domain.Link, 0, len(intv.Components))
	for _, c := range intv.Components {
		rc, err := a.components.resolve(c)
		if err != nil {
			return err
		}
		if containsComponent(registered, rc.ID) {
			continue
		}
		registered = append(registered, rc)
		links = append(links, domain.Link{IntervalID: intv.ID, ComponentID: rc.ID, Rank: len(links)})
	}

	if err := a.session.AddComponents(ctx, registered); err != nil {
		return err
	}
	if err := a.session.InsertInterval(ctx, boreholeID, intv); err != nil {
		return err
	}
	return a.session.AddLinks(ctx, links)
}

func containsComponent(components []domain.Component, id int) bool {
	for _, c := range components {
		if c.ID == id {
			return true
		}
	}
	return false
}

func containsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
