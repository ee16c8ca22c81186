package flowfield

import (
	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/sectorgrid"
)

// LineOfSight returns a BuildOptions.LineOfSight hook that reports whether a
// straight line from a cell to target crosses no impassable cell, walked via
// a 2D Bresenham iterator — the same digital-differential-analyzer shape as
// the teacher pack's geo.LineIterator3D (udisondev-la2go), collapsed to the
// two dimensions a single sector's grid has.
func LineOfSight(cost costfield.Field, target sectorgrid.FieldCell) func(sectorgrid.FieldCell) bool {
	return func(from sectorgrid.FieldCell) bool {
		return hasLineOfSight(cost, from, target)
	}
}

func hasLineOfSight(cost costfield.Field, from, to sectorgrid.FieldCell) bool {
	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		if !(x == x0 && y == y0) && cost[y][x] >= costfield.Impassable {
			return false
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
