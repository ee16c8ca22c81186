package sectorgrid

import "github.com/flowtiles/engine/ferr"

// Grid describes the fixed sector extent of a world: Cols x Rows sectors,
// each SectorResolution x SectorResolution cells. It is immutable once
// constructed, matching the teacher's GridGraph immutability stance.
type Grid struct {
	Cols, Rows int
}

// NewGrid constructs a Grid with the given sector extent. Returns
// ferr.ErrOutOfBounds if either dimension is non-positive.
func NewGrid(cols, rows int) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, ferr.ErrOutOfBounds
	}
	return &Grid{Cols: cols, Rows: rows}, nil
}

// InBounds reports whether s lies within the world's sector extent.
func (g *Grid) InBounds(s SectorID) bool {
	return s.Col >= 0 && s.Col < g.Cols && s.Row >= 0 && s.Row < g.Rows
}

// WorldToSectorCell floor-divides a world (x, z) coordinate into its
// containing sector and the FieldCell within that sector.
func (g *Grid) WorldToSectorCell(x, z int) (SectorID, FieldCell) {
	sc := floorDiv(x, SectorResolution)
	sr := floorDiv(z, SectorResolution)
	fx := x - sc*SectorResolution
	fz := z - sr*SectorResolution
	return SectorID{Col: sc, Row: sr}, FieldCell{X: fx, Y: fz}
}

// SectorNeighbor returns the sector adjacent to s in direction o, and false
// if that neighbour would lie outside the world extent.
func (g *Grid) SectorNeighbor(s SectorID, o Ordinal) (SectorID, bool) {
	dx, dy := o.Delta()
	n := SectorID{Col: s.Col + dx, Row: s.Row + dy}
	if !g.InBounds(n) {
		return SectorID{}, false
	}
	return n, true
}

// CellNeighborWithinSector steps c one cell in direction o, returning false
// if that step would leave the sector (the caller should use
// CellNeighborCrossing to follow such a step into the neighbouring sector).
func (g *Grid) CellNeighborWithinSector(c FieldCell, o Ordinal) (FieldCell, bool) {
	dx, dy := o.Delta()
	nx, ny := c.X+dx, c.Y+dy
	if nx < 0 || nx >= SectorResolution || ny < 0 || ny >= SectorResolution {
		return FieldCell{}, false
	}
	return FieldCell{X: nx, Y: ny}, true
}

// CellNeighborCrossing steps (s, c) one cell in direction o. If the step
// stays within s it returns the same sector and the stepped cell. If the
// step leaves the sector, it returns the neighbouring sector and the
// mirrored-edge cell within it, or false if there is no such neighbour
// (world edge).
func (g *Grid) CellNeighborCrossing(s SectorID, c FieldCell, o Ordinal) (SectorID, FieldCell, bool) {
	if within, ok := g.CellNeighborWithinSector(c, o); ok {
		return s, within, true
	}
	dx, dy := o.Delta()
	nx, ny := c.X+dx, c.Y+dy
	// Only an axis that left the sector moves to the next sector: a
	// diagonal step off a non-corner edge cell crosses a single boundary.
	var sdx, sdy int
	if nx < 0 || nx >= SectorResolution {
		sdx = dx
	}
	if ny < 0 || ny >= SectorResolution {
		sdy = dy
	}
	ns := SectorID{Col: s.Col + sdx, Row: s.Row + sdy}
	if !g.InBounds(ns) {
		return SectorID{}, FieldCell{}, false
	}
	// Wrap the coordinate that left the sector back into range.
	mx := wrap(nx)
	my := wrap(ny)
	return ns, FieldCell{X: mx, Y: my}, true
}

func wrap(v int) int {
	if v < 0 {
		return v + SectorResolution
	}
	if v >= SectorResolution {
		return v - SectorResolution
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
