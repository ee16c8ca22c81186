// Package costfield holds the static, always-resident per-sector cost grids
// and the single mutation entry point that keeps portal rebuilds and cache
// invalidation downstream honest about which sectors changed.
//
// Locking mirrors core's two-mutex discipline: reads take an RLock, the
// single mutating entry point (Set) takes a Lock, and loading a sector's
// initial grid is treated as a write too.
package costfield

import (
	"sync"

	"github.com/flowtiles/engine/ferr"
	"github.com/flowtiles/engine/sectorgrid"
)

// Impassable is the sentinel cost value: no unit may enter a cell holding it.
const Impassable uint8 = 255

// DefaultCost is the cheapest, default traversal cost for a cell.
const DefaultCost uint8 = 1

// Field is one sector's 10x10 byte cost grid. Every cell always holds a
// value; there is no "unknown" sentinel (spec §3 invariant).
type Field [sectorgrid.SectorResolution][sectorgrid.SectorResolution]uint8

// NewField returns a Field with every cell initialized to DefaultCost.
func NewField() Field {
	var f Field
	for y := range f {
		for x := range f[y] {
			f[y][x] = DefaultCost
		}
	}
	return f
}

// MutationEvent reports the result of a single Set call: the sector that was
// mutated, and every sector (mutated sector plus boundary-adjacent
// neighbours) whose portals need to be rebuilt.
type MutationEvent struct {
	Sector    sectorgrid.SectorID
	Cell      sectorgrid.FieldCell
	OldValue  uint8
	NewValue  uint8
	Sectors   []sectorgrid.SectorID // sectors needing portal rebuild; empty if NewValue == OldValue
}

// Store is the process-wide CostField store: one Field per live sector.
type Store struct {
	grid *sectorgrid.Grid

	mu     sync.RWMutex
	fields map[sectorgrid.SectorID]*Field
}

// NewStore creates a Store over the given sector grid, with every in-bounds
// sector initialized to an all-default-cost Field.
func NewStore(grid *sectorgrid.Grid) *Store {
	s := &Store{grid: grid, fields: make(map[sectorgrid.SectorID]*Field)}
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			f := NewField()
			s.fields[sectorgrid.SectorID{Col: col, Row: row}] = &f
		}
	}
	return s
}

// Get returns the cost at (sector, cell). Returns ferr.ErrOutOfBounds if the
// sector or cell coordinate is invalid.
func (s *Store) Get(sector sectorgrid.SectorID, cell sectorgrid.FieldCell) (uint8, error) {
	if !inCellBounds(cell) {
		return 0, ferr.ErrOutOfBounds
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.fields[sector]
	if !ok {
		return 0, ferr.ErrOutOfBounds
	}
	return f[cell.Y][cell.X], nil
}

// Sector returns a copy of the sector's full Field, for callers (such as
// the portal builder and intra-sector A*) that need to scan many cells at
// once without repeated locking.
func (s *Store) Sector(sector sectorgrid.SectorID) (Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.fields[sector]
	if !ok {
		return Field{}, ferr.ErrOutOfBounds
	}
	return *f, nil
}

// LoadSector bulk-loads a full 10x10 grid into sector, overwriting whatever
// was there. This is the serialized-form boundary input (spec §6); it does
// not emit a MutationEvent because it is meant for world initialization, not
// incremental gameplay mutation — callers loading at runtime should follow up
// with an explicit portal rebuild of the sector and its neighbours.
func (s *Store) LoadSector(sector sectorgrid.SectorID, values [10][10]uint8) error {
	if !s.grid.InBounds(sector) {
		return ferr.ErrOutOfBounds
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Field(values)
	s.fields[sector] = &f
	return nil
}

// Set is the sole mutation entry point. It is atomic per cell and returns a
// MutationEvent naming every sector whose portals may now be stale: the
// mutated sector, plus each neighbour sector whose shared boundary contains
// the mutated cell.
//
// Setting a cell to its already-current value is a no-op: MutationEvent.Sectors
// is empty and no rebuild is required (spec §8 idempotence property).
func (s *Store) Set(sector sectorgrid.SectorID, cell sectorgrid.FieldCell, value uint8) (MutationEvent, error) {
	if !inCellBounds(cell) {
		return MutationEvent{}, ferr.ErrOutOfBounds
	}

	s.mu.Lock()
	f, ok := s.fields[sector]
	if !ok {
		s.mu.Unlock()
		return MutationEvent{}, ferr.ErrOutOfBounds
	}
	old := f[cell.Y][cell.X]
	if old == value {
		s.mu.Unlock()
		return MutationEvent{Sector: sector, Cell: cell, OldValue: old, NewValue: value}, nil
	}
	f[cell.Y][cell.X] = value
	s.mu.Unlock()

	ev := MutationEvent{Sector: sector, Cell: cell, OldValue: old, NewValue: value}
	ev.Sectors = append(ev.Sectors, sector)
	for _, o := range boundaryOrdinalsOf(cell) {
		if n, ok := s.grid.SectorNeighbor(sector, o); ok {
			ev.Sectors = append(ev.Sectors, n)
		}
	}
	return ev, nil
}

// boundaryOrdinalsOf returns which world-facing boundaries (at most two, for
// a corner cell) the given cell lies on within its sector.
func boundaryOrdinalsOf(c sectorgrid.FieldCell) []sectorgrid.Ordinal {
	var out []sectorgrid.Ordinal
	if c.Y == 0 {
		out = append(out, sectorgrid.North)
	}
	if c.Y == sectorgrid.SectorResolution-1 {
		out = append(out, sectorgrid.South)
	}
	if c.X == 0 {
		out = append(out, sectorgrid.West)
	}
	if c.X == sectorgrid.SectorResolution-1 {
		out = append(out, sectorgrid.East)
	}
	return out
}

func inCellBounds(c sectorgrid.FieldCell) bool {
	return c.X >= 0 && c.X < sectorgrid.SectorResolution && c.Y >= 0 && c.Y < sectorgrid.SectorResolution
}
