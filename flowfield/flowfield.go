// Package flowfield derives a per-sector FlowField — an 8-bit
// direction+flags grid — from an already-built integration.Field, following
// the same per-cell "look at all neighbours, pick the steepest descent"
// shape as the teacher's gridgraph connected-component relaxation, adapted
// here to the bit-exact encoding spec §6 mandates.
package flowfield

import (
	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/integration"
	"github.com/flowtiles/engine/sectorgrid"
)

// Cell is the 8-bit direction+flags encoding of one FlowField cell.
type Cell uint8

// Direction masks, bit-exact with sectorgrid.Ordinal's low-nibble values.
const (
	dirMask   Cell = 0b0000_1111
	ZeroVector Cell = 0b0000_0000
	Uninitialized Cell = 0b0000_1111
)

// Flag bits, OR'd into the high nibble of a Cell.
const (
	FlagPathable   Cell = 0b0001_0000
	FlagLineOfSight Cell = 0b0010_0000
	FlagGoal       Cell = 0b0100_0000
	FlagPortalGoal Cell = 0b1000_0000
)

// Direction extracts the low-nibble ordinal from c, or 0 if c is the zero
// vector / uninitialized sentinel (0x00 and 0x0F both decode to "no
// ordinal"; neither carries FlagPathable, so callers tell them apart by
// comparing c against ZeroVector or Uninitialized).
func (c Cell) Direction() sectorgrid.Ordinal {
	d := sectorgrid.Ordinal(c & dirMask)
	switch d {
	case sectorgrid.North, sectorgrid.East, sectorgrid.South, sectorgrid.West,
		sectorgrid.NorthEast, sectorgrid.SouthEast, sectorgrid.SouthWest, sectorgrid.NorthWest:
		return d
	default:
		return 0
	}
}

// HasFlag reports whether flag is set on c.
func (c Cell) HasFlag(flag Cell) bool { return c&flag != 0 }

// Field is one sector's 10x10 FlowField, default-initialized to the
// uninitialized sentinel (spec §3).
type Field [sectorgrid.SectorResolution][sectorgrid.SectorResolution]Cell

// NewField returns a Field with every cell set to Uninitialized.
func NewField() Field {
	var f Field
	for y := range f {
		for x := range f[y] {
			f[y][x] = Uninitialized
		}
	}
	return f
}

// candidateOrder is the tie-break order spec §4.6 mandates: cardinals
// before diagonals, then N, E, S, W, NE, SE, SW, NW.
var candidateOrder = sectorgrid.AllOrdinals

// BuildOptions names the flags a particular sector's FlowField build should
// stamp onto specific cells, per spec §4.6 step 5.
type BuildOptions struct {
	// GoalCells receive FlagGoal — the true route goal, only set in the
	// terminal sector of a route's sector chain.
	GoalCells []sectorgrid.FieldCell
	// PortalGoalCells receive FlagPortalGoal — the expanded portal segment
	// a non-terminal sector's IntegrationField was built against.
	PortalGoalCells []sectorgrid.FieldCell
	// LineOfSight, if non-nil, is consulted per cell to optionally set
	// FlagLineOfSight (spec §4.6 step 6, explicitly optional).
	LineOfSight func(c sectorgrid.FieldCell) bool
}

// Build derives a sector's FlowField from its already-computed
// integration.Field and CostField, per spec §4.6.
func Build(cost costfield.Field, integ integration.Field, opts BuildOptions) Field {
	out := NewField()
	goal := toSet(opts.GoalCells)
	portalGoal := toSet(opts.PortalGoalCells)

	for y := 0; y < sectorgrid.SectorResolution; y++ {
		for x := 0; x < sectorgrid.SectorResolution; x++ {
			c := sectorgrid.FieldCell{X: x, Y: y}
			if cost[y][x] >= costfield.Impassable {
				out[y][x] = ZeroVector
				continue
			}

			best, found := bestNeighbour(cost, integ, c)
			var cell Cell
			if found {
				cell = Cell(best) | FlagPathable
			} else {
				cell = FlagPathable
			}

			if goal[c] {
				cell |= FlagGoal
			}
			if portalGoal[c] {
				cell |= FlagPortalGoal
			}
			if opts.LineOfSight != nil && opts.LineOfSight(c) {
				cell |= FlagLineOfSight
			}
			out[y][x] = cell
		}
	}
	return out
}

// bestNeighbour finds the ordinal neighbour minimizing IntegrationField
// value, per the spec's candidate order tie-break. Returns found=false if
// every neighbour is impassable, out of bounds, or unvisited (cell is an
// unreachable pocket).
func bestNeighbour(cost costfield.Field, integ integration.Field, c sectorgrid.FieldCell) (sectorgrid.Ordinal, bool) {
	var (
		best    sectorgrid.Ordinal
		bestVal uint16 = integration.Unvisited
		found   bool
	)
	for _, o := range candidateOrder {
		dx, dy := o.Delta()
		nx, ny := c.X+dx, c.Y+dy
		if nx < 0 || nx >= sectorgrid.SectorResolution || ny < 0 || ny >= sectorgrid.SectorResolution {
			continue
		}
		if cost[ny][nx] >= costfield.Impassable {
			continue
		}
		if o.IsDiagonal() {
			// Diagonal validity: both orthogonal components must be
			// non-impassable too (no corner-cutting).
			if cost[c.Y][nx] >= costfield.Impassable || cost[ny][c.X] >= costfield.Impassable {
				continue
			}
		}
		v := integ[ny][nx]
		if v >= integ[c.Y][c.X] {
			continue // only a strict improvement counts as a direction (spec invariant 4).
		}
		if v < bestVal {
			bestVal = v
			best = o
			found = true
		}
	}
	return best, found
}

func toSet(cells []sectorgrid.FieldCell) map[sectorgrid.FieldCell]bool {
	if len(cells) == 0 {
		return nil
	}
	out := make(map[sectorgrid.FieldCell]bool, len(cells))
	for _, c := range cells {
		out[c] = true
	}
	return out
}
