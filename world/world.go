// Package world is the top-level facade tying CostField, portal discovery,
// the PortalGraph, and route planning into the single public entry point an
// embedding application drives: load cost grids, mutate cells, request
// routes, sample directions. Grounded on the teacher's core/api.go "thin,
// deterministic public facade" convention — this file holds no algorithms of
// its own, only wiring and the serialization that keeps portal/graph repairs
// single-writer.
package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/ferr"
	"github.com/flowtiles/engine/flowfield"
	"github.com/flowtiles/engine/portal"
	"github.com/flowtiles/engine/portalgraph"
	"github.com/flowtiles/engine/route"
	"github.com/flowtiles/engine/sectorgrid"
)

// World is the engine's public entry point: a sector grid, its CostFields,
// the derived portals and PortalGraph, and a route.Planner over all of it.
type World struct {
	grid    *sectorgrid.Grid
	cost    *costfield.Store
	portals *portal.Store
	graph   *portalgraph.Graph
	planner *route.Planner
	logger  *log.Logger

	// repairMu serializes portal/graph repair, per spec §5: CostField writes
	// are already single-writer inside costfield.Store, but the downstream
	// portal rescan + PortalGraph rebuild must not interleave across two
	// concurrent mutations of overlapping sectors.
	repairMu sync.Mutex
}

// Option configures a World at construction time.
type Option func(*worldConfig)

type worldConfig struct {
	logger             *log.Logger
	cacheCapacity      int
	maxConcurrentBuild int
	graphOpts          []portalgraph.Option
}

// WithLogger overrides where Inconsistent invariant violations are logged.
// Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *worldConfig) { c.logger = l }
}

// WithCacheCapacity overrides the FlowFieldCache's LRU capacity.
func WithCacheCapacity(n int) Option {
	return func(c *worldConfig) { c.cacheCapacity = n }
}

// WithMaxConcurrentBuilds bounds how many distinct route builds run at once.
func WithMaxConcurrentBuilds(n int) Option {
	return func(c *worldConfig) { c.maxConcurrentBuild = n }
}

// WithPortalGraphOptions passes functional options through to the underlying
// portalgraph.Graph (e.g. portalgraph.WithOrthogonalCost).
func WithPortalGraphOptions(opts ...portalgraph.Option) Option {
	return func(c *worldConfig) { c.graphOpts = append(c.graphOpts, opts...) }
}

// NewWorld constructs a World over a sectorCols x sectorRows grid, every
// sector starting at default cost (spec §3) with no portals yet discovered.
func NewWorld(sectorCols, sectorRows int, opts ...Option) (*World, error) {
	grid, err := sectorgrid.NewGrid(sectorCols, sectorRows)
	if err != nil {
		return nil, err
	}

	cfg := worldConfig{logger: log.Default(), maxConcurrentBuild: 4}
	for _, opt := range opts {
		opt(&cfg)
	}

	cost := costfield.NewStore(grid)
	portals := portal.NewStore(grid, cost)
	graph := portalgraph.NewGraph(cfg.graphOpts...)

	plannerOpts := []route.Option{route.WithMaxConcurrentBuilds(cfg.maxConcurrentBuild)}
	if cfg.cacheCapacity > 0 {
		plannerOpts = append(plannerOpts, route.WithCacheCapacity(cfg.cacheCapacity))
	}
	planner := route.NewPlanner(cost, portals, graph, plannerOpts...)

	w := &World{
		grid:    grid,
		cost:    cost,
		portals: portals,
		graph:   graph,
		planner: planner,
		logger:  cfg.logger,
	}

	// Every sector starts fully open, so an initial full repair gives every
	// pair of adjacent sectors their default all-pathable-boundary portal.
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			if err := w.repairAndRebuild(context.Background(), sectorgrid.SectorID{Col: col, Row: row}); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}

// LoadCostField bulk-loads a sector's cost grid (e.g. from a level asset)
// and re-derives that sector's portals and PortalGraph edges, following
// spec §6's serialized boundary-input operation.
func (w *World) LoadCostField(sector sectorgrid.SectorID, values [10][10]uint8) error {
	if err := w.cost.LoadSector(sector, values); err != nil {
		return err
	}
	return w.repairAndRebuild(context.Background(), sector)
}

// SetCost mutates a single cell's cost and repairs every sector whose
// portals may now be stale, invalidating cached routes that passed through
// them (spec §4.2, §4.7).
func (w *World) SetCost(sector sectorgrid.SectorID, cell sectorgrid.FieldCell, value uint8) (costfield.MutationEvent, error) {
	ev, err := w.cost.Set(sector, cell, value)
	if err != nil {
		return ev, err
	}
	if len(ev.Sectors) == 0 {
		return ev, nil // idempotent no-op set (spec §8): nothing to repair.
	}
	if err := w.repairAndRebuild(context.Background(), sector); err != nil {
		return ev, err
	}
	return ev, nil
}

// RequestRoute asks the route.Planner for a route between two world cells,
// building it (or joining an in-flight build) if not already cached.
// ferr.ErrInconsistent failures are logged before being returned.
func (w *World) RequestRoute(ctx context.Context, src, goal sectorgrid.SectorID, srcCell, goalCell sectorgrid.FieldCell) (route.RouteHandle, error) {
	h, err := w.planner.RequestRoute(ctx, src, goal, srcCell, goalCell)
	if errors.Is(err, ferr.ErrInconsistent) {
		w.logger.Println(err)
	}
	return h, err
}

// SampleDirection reads the direction+flags cell a previously built route
// assigns to (sector, cell). ok is false if the handle's route isn't cached
// (evicted, or never built) or the sector isn't on the route's chain.
func (w *World) SampleDirection(h route.RouteHandle, sector sectorgrid.SectorID, cell sectorgrid.FieldCell) (sectorgrid.Ordinal, flowfield.Cell, bool) {
	if cell.X < 0 || cell.X >= sectorgrid.SectorResolution || cell.Y < 0 || cell.Y >= sectorgrid.SectorResolution {
		return 0, 0, false
	}
	r, ok := w.planner.Cache().Get(h.Key())
	if !ok {
		return 0, 0, false
	}
	for _, hop := range r.Chain {
		if hop.Sector != sector {
			continue
		}
		c := hop.Flow[cell.Y][cell.X]
		return c.Direction(), c, true
	}
	return 0, 0, false
}

// repairAndRebuild recomputes portals for origin (and its up-to-four
// neighbours), rewires the PortalGraph for each touched sector, and
// invalidates any cached route whose chain passes through it. Serialized by
// repairMu so two concurrent mutations touching overlapping sectors can
// never interleave their portal rescans.
func (w *World) repairAndRebuild(ctx context.Context, origin sectorgrid.SectorID) error {
	w.repairMu.Lock()
	defer w.repairMu.Unlock()

	res, err := w.portals.Repair(ctx, origin)
	if err != nil {
		return err
	}
	for _, sector := range res.Touched {
		field, err := w.cost.Sector(sector)
		if err != nil {
			return err
		}
		if err := w.graph.RebuildSector(sector, w.portals.Sector(sector), field, w.portals.PairedWith); err != nil {
			wrapped := fmt.Errorf("%w: rebuilding sector %s: %v", ferr.ErrInconsistent, sector, err)
			w.logger.Println(wrapped)
			return wrapped
		}
		w.planner.Cache().Invalidate(sector)
	}
	return nil
}
