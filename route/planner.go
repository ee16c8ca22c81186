package route

import (
	"context"
	"fmt"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/ferr"
	"github.com/flowtiles/engine/flowfield"
	"github.com/flowtiles/engine/integration"
	"github.com/flowtiles/engine/portal"
	"github.com/flowtiles/engine/portalgraph"
	"github.com/flowtiles/engine/sectorgrid"
	"golang.org/x/sync/singleflight"
)

// Planner is the route builder: PortalGraph query, back-to-front
// IntegrationFields, per-sector FlowFields, cache insert. Concurrent
// RequestRoute calls for the same Key collapse onto a single build via
// group (golang.org/x/sync/singleflight, the same module the teacher's
// gameserver command pulls in for errgroup); workers bounds how many
// distinct builds run at once.
type Planner struct {
	cost    *costfield.Store
	portals *portal.Store
	graph   *portalgraph.Graph
	cache   *Cache

	group   singleflight.Group
	workers chan struct{}
}

// Option configures a Planner at construction time.
type Option func(*Planner)

// WithCacheCapacity overrides the FlowFieldCache's LRU capacity.
func WithCacheCapacity(n int) Option {
	return func(p *Planner) { p.cache = NewCache(n) }
}

// WithMaxConcurrentBuilds bounds how many distinct route builds run at
// once; extra requests block until a slot frees. Default 4.
func WithMaxConcurrentBuilds(n int) Option {
	return func(p *Planner) {
		if n <= 0 {
			n = 1
		}
		p.workers = make(chan struct{}, n)
	}
}

// NewPlanner constructs a Planner over the given CostField/portal/graph
// stores, which it only ever reads.
func NewPlanner(cost *costfield.Store, portals *portal.Store, graph *portalgraph.Graph, opts ...Option) *Planner {
	p := &Planner{
		cost:    cost,
		portals: portals,
		graph:   graph,
		cache:   NewCache(DefaultCacheCapacity),
		workers: make(chan struct{}, 4),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RequestRoute returns a RouteHandle for the route from src to goal, building it
// (or joining an in-flight build for the same Key) if not already cached.
// Returns ferr.ErrNoPath if the PortalGraph has no route, ferr.ErrCancelled
// if ctx is done before the build completes.
func (p *Planner) RequestRoute(ctx context.Context, src, goal sectorgrid.SectorID, srcCell, goalCell sectorgrid.FieldCell) (RouteHandle, error) {
	key := Key{SrcSector: src, SrcCell: srcCell, GoalSector: goal, GoalCell: goalCell}

	if _, ok := p.cache.Get(key); ok {
		return newHandle(key), nil
	}

	_, err, _ := p.group.Do(key.String(), func() (interface{}, error) {
		select {
		case p.workers <- struct{}{}:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ferr.ErrCancelled, ctx.Err())
		}
		defer func() { <-p.workers }()

		if _, ok := p.cache.Get(key); ok {
			return nil, nil
		}
		route, buildErr := p.build(ctx, key)
		if buildErr != nil {
			return nil, buildErr
		}
		p.cache.Put(route)
		return nil, nil
	})
	if err != nil {
		return RouteHandle{}, err
	}

	return newHandle(key), nil
}

// Cache exposes the planner's FlowFieldCache for direct lookups
// (world.World.SampleDirection) and MutationEvent-driven invalidation.
func (p *Planner) Cache() *Cache { return p.cache }

// build runs the full portal-A* -> IntegrationField -> FlowField pipeline
// for key, yielding to ctx between each bounded chunk of work (spec §5's
// "cooperative yielding between: portal A*, each sector's IntegrationField,
// each sector's FlowField").
func (p *Planner) build(ctx context.Context, key Key) (Route, error) {
	srcField, err := p.cost.Sector(key.SrcSector)
	if err != nil {
		return Route{}, err
	}
	goalField, err := p.cost.Sector(key.GoalSector)
	if err != nil {
		return Route{}, err
	}

	nodes, _, err := p.graph.Path(ctx,
		portalgraph.Point{Sector: key.SrcSector, Cell: key.SrcCell},
		portalgraph.Point{Sector: key.GoalSector, Cell: key.GoalCell},
		srcField, goalField)
	if err != nil {
		return Route{}, err
	}

	runs, err := groupIntoSectorRuns(nodes)
	if err != nil {
		return Route{}, err
	}
	if err := ctx.Err(); err != nil {
		return Route{}, fmt.Errorf("%w: %v", ferr.ErrCancelled, err)
	}

	goalSets := make([][]sectorgrid.FieldCell, len(runs))
	goalSets[len(runs)-1] = []sectorgrid.FieldCell{key.GoalCell}
	for i := len(runs) - 2; i >= 0; i-- {
		exit := runs[i].nodes[len(runs[i].nodes)-1]
		exitPortal, ok := p.portals.PortalAt(portal.Key{Sector: runs[i].sector, Cell: exit})
		if !ok {
			return Route{}, fmt.Errorf("%w: no portal at exit of sector %s on route %s", ferr.ErrInconsistent, runs[i].sector, key)
		}
		field, err := p.cost.Sector(runs[i].sector)
		if err != nil {
			return Route{}, err
		}
		goalSets[i] = integration.ExpandPortalSegment(field, exitPortal.Boundary, exitPortal.Cell)
	}

	chain := make([]SectorFlow, len(runs))
	for i, run := range runs {
		if err := ctx.Err(); err != nil {
			return Route{}, fmt.Errorf("%w: %v", ferr.ErrCancelled, err)
		}
		field, err := p.cost.Sector(run.sector)
		if err != nil {
			return Route{}, err
		}
		integ, err := integration.Build(ctx, field, goalSets[i])
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Route{}, fmt.Errorf("%w: %v", ferr.ErrCancelled, ctxErr)
			}
			return Route{}, err
		}

		var opts flowfield.BuildOptions
		if i == len(runs)-1 {
			opts.GoalCells = goalSets[i]
			opts.LineOfSight = flowfield.LineOfSight(field, key.GoalCell)
		} else {
			opts.PortalGoalCells = goalSets[i]
			exit := runs[i].nodes[len(runs[i].nodes)-1]
			opts.LineOfSight = flowfield.LineOfSight(field, exit)
		}
		chain[i] = SectorFlow{Sector: run.sector, Flow: flowfield.Build(field, integ, opts)}
	}

	return Route{Key: key, Chain: chain}, nil
}

// sectorRun is a maximal run of consecutive path nodes sharing one sector.
type sectorRun struct {
	sector sectorgrid.SectorID
	nodes  []sectorgrid.FieldCell
}

// groupIntoSectorRuns splits a PortalGraph path into per-sector runs, in
// source-to-goal order. Every inter-run transition is exactly one
// paired-portal crossing edge, since those are the only edges linking
// vertices in different sectors (portalgraph.Graph.RebuildSector never
// wires any other kind).
func groupIntoSectorRuns(nodes []portalgraph.NodeID) ([]sectorRun, error) {
	var runs []sectorRun
	for _, n := range nodes {
		sector, cell, ok := DecodeRouteNode(n)
		if !ok {
			return nil, fmt.Errorf("%w: malformed path node %q", ferr.ErrInconsistent, n)
		}
		if len(runs) == 0 || runs[len(runs)-1].sector != sector {
			runs = append(runs, sectorRun{sector: sector})
		}
		last := &runs[len(runs)-1]
		last.nodes = append(last.nodes, cell)
	}
	return runs, nil
}

// DecodeRouteNode is a thin re-export of portalgraph.DecodeNode so this
// file doesn't need a second import alias for the same concept.
func DecodeRouteNode(n portalgraph.NodeID) (sectorgrid.SectorID, sectorgrid.FieldCell, bool) {
	return portalgraph.DecodeNode(n)
}
