// Package integration computes an IntegrationField: a per-sector,
// ephemeral 10x10 cumulative-cost wavefront from a goal set, propagated
// cardinal-only (four-connected) — the same FIFO-frontier shape as the
// teacher's bfs.walker, specialised to a cost-weighted relaxation instead
// of an unweighted visited set.
package integration

import (
	"context"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/ferr"
	"github.com/flowtiles/engine/sectorgrid"
)

// Unvisited is the sentinel value for a cell the wavefront has not yet
// reached.
const Unvisited uint16 = 0xFFFF

// Field is one sector's ephemeral integration field: cumulative cost from
// the nearest goal cell, cardinal-only propagation.
type Field [sectorgrid.SectorResolution][sectorgrid.SectorResolution]uint16

// newField returns a Field with every cell initialized to Unvisited.
func newField() Field {
	var f Field
	for y := range f {
		for x := range f[y] {
			f[y][x] = Unvisited
		}
	}
	return f
}

// queueItem is one pending relaxation target.
type queueItem struct {
	cell sectorgrid.FieldCell
}

// Build computes the IntegrationField for one sector given its CostField
// and a goal set (either the true goal cell or a portal segment's expanded
// contiguous run, per spec §4.5). Cells in goalSet start at value 0; every
// other reachable cell holds the cheapest cumulative cost to reach any
// goal-set cell via cardinal steps only.
//
// Build yields to ctx between dequeues, so a caller chunking a route build
// across frames can cancel a long-running sector without corrupting the
// (discarded) partial Field.
func Build(ctx context.Context, field costfield.Field, goalSet []sectorgrid.FieldCell) (Field, error) {
	out := newField()
	if len(goalSet) == 0 {
		return out, nil
	}

	queue := make([]queueItem, 0, len(goalSet))
	for _, c := range goalSet {
		if !inBounds(c) {
			return Field{}, ferr.ErrOutOfBounds
		}
		if out[c.Y][c.X] != 0 {
			out[c.Y][c.X] = 0
			queue = append(queue, queueItem{cell: c})
		}
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return Field{}, err
		}

		item := queue[0]
		queue = queue[1:]
		v := out[item.cell.Y][item.cell.X]

		for _, o := range sectorgrid.Cardinals {
			dx, dy := o.Delta()
			nx, ny := item.cell.X+dx, item.cell.Y+dy
			if nx < 0 || nx >= sectorgrid.SectorResolution || ny < 0 || ny >= sectorgrid.SectorResolution {
				continue
			}
			nb := sectorgrid.FieldCell{X: nx, Y: ny}
			c := field[nb.Y][nb.X]
			if c >= costfield.Impassable {
				continue
			}
			candidate := v + uint16(c)
			if candidate < out[nb.Y][nb.X] {
				out[nb.Y][nb.X] = candidate
				queue = append(queue, queueItem{cell: nb})
			}
		}
	}

	return out, nil
}

func inBounds(c sectorgrid.FieldCell) bool {
	return c.X >= 0 && c.X < sectorgrid.SectorResolution && c.Y >= 0 && c.Y < sectorgrid.SectorResolution
}

// ExpandPortalSegment returns every boundary cell in the same maximal
// pathable run as portalCell (spec §4.5: "portal expansion is essential to
// avoid zig-zag routes"). boundary is the ordinal the portal sits on within
// its sector; field is that sector's CostField.
func ExpandPortalSegment(field costfield.Field, boundary sectorgrid.Ordinal, portalCell sectorgrid.FieldCell) []sectorgrid.FieldCell {
	idx, ok := boundaryIndex(boundary, portalCell)
	if !ok {
		return []sectorgrid.FieldCell{portalCell}
	}

	pathable := func(i int) bool {
		c := boundaryCellAt(boundary, i)
		return field[c.Y][c.X] < costfield.Impassable
	}
	start, end := idx, idx
	for start > 0 && pathable(start-1) {
		start--
	}
	for end < sectorgrid.SectorResolution-1 && pathable(end+1) {
		end++
	}

	out := make([]sectorgrid.FieldCell, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, boundaryCellAt(boundary, i))
	}
	return out
}

func boundaryIndex(b sectorgrid.Ordinal, c sectorgrid.FieldCell) (int, bool) {
	switch b {
	case sectorgrid.North, sectorgrid.South:
		return c.X, true
	case sectorgrid.East, sectorgrid.West:
		return c.Y, true
	default:
		return 0, false
	}
}

func boundaryCellAt(b sectorgrid.Ordinal, idx int) sectorgrid.FieldCell {
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
