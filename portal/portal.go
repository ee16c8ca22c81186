// Package portal discovers boundary crossing points between neighbouring
// sectors and keeps the pairing invariant (every portal has exactly one
// paired portal in the neighbour sector) intact as costs change.
//
// The boundary scan itself is a maximal-run search over a 1D line of cells,
// the same shape as the teacher's gridgraph connected-run identification
// (gridgraph/components.go) and 0-1 BFS frontier scan (gridgraph/expand.go),
// specialised here to a single boundary instead of a 2D frontier.
package portal

import (
	"context"
	"sort"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/sectorgrid"
	"golang.org/x/sync/errgroup"
)

// boundaries lists the four boundary ordinals a sector can carry portals on.
var boundaries = sectorgrid.Cardinals

// Portal is a pathable boundary crossing point: a cell on one of a sector's
// four boundaries, paired with a matching portal in the neighbour sector.
type Portal struct {
	Sector   sectorgrid.SectorID
	Cell     sectorgrid.FieldCell
	Boundary sectorgrid.Ordinal // which of the sector's four boundaries this portal sits on
}

// Key identifies a portal by its (sector, cell) — the same address
// portalgraph.EncodeNode uses to derive a NodeID.
func (p Portal) Key() Key { return Key{Sector: p.Sector, Cell: p.Cell} }

// Key is the (sector, cell) address of a portal, independent of boundary.
type Key struct {
	Sector sectorgrid.SectorID
	Cell   sectorgrid.FieldCell
}

// Pair is two mutually-paired portals, one per side of a shared boundary.
type Pair struct {
	A, B Portal
}

// Store holds the live set of portals, grouped by sector and keyed for
// pairing lookups. It does not itself touch the PortalGraph; callers
// (world.World) feed Store's rebuild results into portalgraph.Graph.
type Store struct {
	grid *sectorgrid.Grid
	cost *costfield.Store

	bySector map[sectorgrid.SectorID][]Portal
	pairedTo map[Key]Key
}

// NewStore creates an empty Store. Call Repair for every sector to populate
// it from an already-loaded CostField store.
func NewStore(grid *sectorgrid.Grid, cost *costfield.Store) *Store {
	return &Store{
		grid:     grid,
		cost:     cost,
		bySector: make(map[sectorgrid.SectorID][]Portal),
		pairedTo: make(map[Key]Key),
	}
}

// Sector returns the live portal list for a sector (read-only; callers must
// not mutate the returned slice).
func (s *Store) Sector(id sectorgrid.SectorID) []Portal {
	return s.bySector[id]
}

// PairedWith returns the portal paired with the one at key, if any.
func (s *Store) PairedWith(key Key) (Key, bool) {
	k, ok := s.pairedTo[key]
	return k, ok
}

// PortalAt returns the live portal at key, if any — used by route.Planner
// to recover a crossing portal's boundary when chaining IntegrationField
// builds back-to-front across a route's sector chain.
func (s *Store) PortalAt(key Key) (Portal, bool) {
	for _, p := range s.bySector[key.Sector] {
		if p.Cell == key.Cell {
			return p, true
		}
	}
	return Portal{}, false
}

// RepairResult reports which sectors had their portal lists replaced by a
// Repair call, so the caller can feed each into portalgraph.Graph.RebuildSector.
type RepairResult struct {
	Touched []sectorgrid.SectorID
}

// Repair recomputes portals for `origin` and every one of its up-to-four
// neighbours, re-establishing the pairing invariant across all of them. It
// is the reaction to a costfield.MutationEvent naming `origin` as an
// affected sector.
//
// Each sector's four boundary scans are pure reads of the (by now already
// mutated) CostField, so they are computed concurrently via errgroup before
// being committed into Store under a single pass — the commit itself is not
// parallelised, keeping Store's pairing maps single-writer as spec §5 requires.
func (s *Store) Repair(ctx context.Context, origin sectorgrid.SectorID) (RepairResult, error) {
	touched := affectedSet(s.grid, origin)

	type scanResult struct {
		sector  sectorgrid.SectorID
		portals []Portal
	}
	results := make([]scanResult, len(touched))

	g, gctx := errgroup.WithContext(ctx)
	for i, sec := range touched {
		i, sec := i, sec
		g.Go(func() error {
			ps, err := s.scanSector(gctx, sec)
			if err != nil {
				return err
			}
			results[i] = scanResult{sector: sec, portals: ps}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RepairResult{}, err
	}

	// Commit: discard all old portals for touched sectors, install the new
	// ones, and rebuild the pairing map for boundaries touching a touched
	// sector.
	touchedSet := make(map[sectorgrid.SectorID]bool, len(touched))
	for _, sec := range touched {
		touchedSet[sec] = true
	}
	for k := range s.pairedTo {
		if touchedSet[k.Sector] {
			delete(s.pairedTo, k)
		}
	}
	for _, r := range results {
		s.bySector[r.sector] = r.portals
	}
	for _, r := range results {
		for _, p := range r.portals {
			if _, paired := s.pairedTo[p.Key()]; paired {
				continue
			}
			nb, ok := s.grid.SectorNeighbor(p.Sector, p.Boundary)
			if !ok {
				continue
			}
			mirrored := mirrorCell(p.Cell, p.Boundary)
			for _, np := range s.bySector[nb] {
				if np.Boundary == p.Boundary.Opposite() && np.Cell == mirrored {
					s.pairedTo[p.Key()] = np.Key()
					s.pairedTo[np.Key()] = p.Key()
					break
				}
			}
		}
	}

	return RepairResult{Touched: touched}, nil
}

// affectedSet returns origin plus every in-bounds neighbour, deduplicated,
// in a deterministic order (origin, North, East, South, West).
func affectedSet(grid *sectorgrid.Grid, origin sectorgrid.SectorID) []sectorgrid.SectorID {
	out := []sectorgrid.SectorID{origin}
	for _, o := range boundaries {
		if nb, ok := grid.SectorNeighbor(origin, o); ok {
			out = append(out, nb)
		}
	}
	return out
}

// scanSector computes the fresh portal list for one sector across its four
// boundaries.
func (s *Store) scanSector(ctx context.Context, sector sectorgrid.SectorID) ([]Portal, error) {
	var out []Portal
	for _, b := range boundaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nb, ok := s.grid.SectorNeighbor(sector, b)
		if !ok {
			continue // world edge: no portals on this boundary.
		}
		ps, err := s.scanBoundary(sector, nb, b)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// scanBoundary scans the 10 cells of boundary b in `sector`, and the
// mirrored cells of the matching boundary in `neighbour`, identifying
// maximal pathable runs and emitting one portal per run at its midpoint.
func (s *Store) scanBoundary(sector, neighbour sectorgrid.SectorID, b sectorgrid.Ordinal) ([]Portal, error) {
	pathable := make([]bool, sectorgrid.SectorResolution)
	for i := 0; i < sectorgrid.SectorResolution; i++ {
		selfCell := boundaryCell(b, i)
		nbCell := mirrorCell(selfCell, b)
		selfCost, err := s.cost.Get(sector, selfCell)
		if err != nil {
			return nil, err
		}
		nbCost, err := s.cost.Get(neighbour, nbCell)
		if err != nil {
			return nil, err
		}
		pathable[i] = selfCost < costfield.Impassable && nbCost < costfield.Impassable
	}

	var out []Portal
	start := -1
	for i := 0; i <= sectorgrid.SectorResolution; i++ {
		open := i < sectorgrid.SectorResolution && pathable[i]
		if open && start < 0 {
			start = i
		} else if !open && start >= 0 {
			end := i - 1
			mid := (start + end) / 2 // floor division: lower index on even-length ties.
			cell := boundaryCell(b, mid)
			out = append(out, Portal{Sector: sector, Cell: cell, Boundary: b})
			start = -1
		}
	}
	return out, nil
}

// boundaryCell maps a 0..9 index along boundary b to the FieldCell of the
// owning sector that sits on that boundary.
func boundaryCell(b sectorgrid.Ordinal, idx int) sectorgrid.FieldCell {
	const last = sectorgrid.SectorResolution - 1
	switch b {
	case sectorgrid.North:
		return sectorgrid.FieldCell{X: idx, Y: 0}
	case sectorgrid.South:
		return sectorgrid.FieldCell{X: idx, Y: last}
	case sectorgrid.East:
		return sectorgrid.FieldCell{X: last, Y: idx}
	case sectorgrid.West:
		return sectorgrid.FieldCell{X: 0, Y: idx}
	default:
		return sectorgrid.FieldCell{}
	}
}

// mirrorCell maps a cell on boundary b of one sector to the corresponding
// cell on the opposite boundary of the neighbour across b.
func mirrorCell(c sectorgrid.FieldCell, b sectorgrid.Ordinal) sectorgrid.FieldCell {
	const last = sectorgrid.SectorResolution - 1
	switch b {
	case sectorgrid.North:
		return sectorgrid.FieldCell{X: c.X, Y: last}
	case sectorgrid.South:
		return sectorgrid.FieldCell{X: c.X, Y: 0}
	case sectorgrid.East:
		return sectorgrid.FieldCell{X: 0, Y: c.Y}
	case sectorgrid.West:
		return sectorgrid.FieldCell{X: last, Y: c.Y}
	default:
		return c
	}
}

// AllPairs returns every live pair exactly once, sorted for determinism.
func (s *Store) AllPairs() []Pair {
	seen := make(map[Key]bool)
	var out []Pair
	for k, v := range s.pairedTo {
		if seen[k] || seen[v] {
			continue
		}
		seen[k], seen[v] = true, true
		out = append(out, Pair{A: portalAt(s, k), B: portalAt(s, v)})
	}
	sort.Slice(out, func(i, j int) bool {
		return keyLess(out[i].A.Key(), out[j].A.Key())
	})
	return out
}

func portalAt(s *Store, k Key) Portal {
	if p, ok := s.PortalAt(k); ok {
		return p
	}
	return Portal{Sector: k.Sector, Cell: k.Cell}
}

func keyLess(a, b Key) bool {
	if a.Sector.Col != b.Sector.Col {
		return a.Sector.Col < b.Sector.Col
	}
	if a.Sector.Row != b.Sector.Row {
		return a.Sector.Row < b.Sector.Row
	}
	if a.Cell.X != b.Cell.X {
		return a.Cell.X < b.Cell.X
	}
	return a.Cell.Y < b.Cell.Y
}
