package portalgraph

import (
	"container/heap"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/sectorgrid"
)

// intraNeighbours lists the eight offsets a 10x10 in-sector A* considers,
// paired with their base step cost. Diagonal steps additionally require
// both orthogonal components to be pathable (no cutting across a wall
// corner) — checked in intraStepCost.
var intraNeighbours = [8]struct {
	dx, dy int
	diag   bool
}{
	{0, -1, false}, {1, 0, false}, {0, 1, false}, {-1, 0, false}, // N, E, S, W
	{1, -1, true}, {1, 1, true}, {-1, 1, true}, {-1, -1, true}, // NE, SE, SW, NW
}

// sectorIndexItem is one entry of the in-sector A* open set, keyed by the
// cell's flat [0,100) index.
type sectorIndexItem struct {
	idx  int
	g, f int64
}

type sectorPQ []sectorIndexItem

func (pq sectorPQ) Len() int { return len(pq) }
func (pq sectorPQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].idx < pq[j].idx
}
func (pq sectorPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *sectorPQ) Push(x interface{}) { *pq = append(*pq, x.(sectorIndexItem)) }
func (pq *sectorPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// chebyshev returns max(|dx|, |dy|).
func chebyshev(dx, dy int) int64 {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return int64(dx)
	}
	return int64(dy)
}

// intraSectorCost runs A* over a single sector's 10x10 cost field between
// two field cells, 8-connected, diagonal moves barred through a blocked
// corner. Returns (cost, true) if reachable, (0, false) otherwise.
//
// orthoCost/diagCost are the base per-step costs (spec's orthogonal-only
// diagonal policy, see Graph's WithOrthogonalCost/WithDiagonalCost); the
// admissible heuristic is orthoCost * Chebyshev distance, the cheapest a
// step can possibly cost.
func intraSectorCost(field costfield.Field, orthoCost, diagCost int64, from, to sectorgrid.FieldCell) (int64, bool) {
	if from == to {
		return 0, true
	}
	const n = sectorgrid.SectorResolution * sectorgrid.SectorResolution
	gScore := make([]int64, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = -1
	}

	startIdx := from.Index()
	goalIdx := to.Index()
	gScore[startIdx] = 0

	pq := make(sectorPQ, 0, n)
	heap.Push(&pq, sectorIndexItem{idx: startIdx, g: 0, f: orthoCost * chebyshev(to.X-from.X, to.Y-from.Y)})

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(sectorIndexItem)
		if closed[cur.idx] {
			continue
		}
		if cur.idx == goalIdx {
			return cur.g, true
		}
		closed[cur.idx] = true

		cell := sectorgrid.FieldCellFromIndex(cur.idx)
		for _, nb := range intraNeighbours {
			nx, ny := cell.X+nb.dx, cell.Y+nb.dy
			if nx < 0 || nx >= sectorgrid.SectorResolution || ny < 0 || ny >= sectorgrid.SectorResolution {
				continue
			}
			destCost := field[ny][nx]
			if destCost >= costfield.Impassable {
				continue
			}
			if nb.diag {
				// Disallow cutting a diagonal corner: both orthogonal
				// neighbours of the step must also be pathable.
				if field[cell.Y][nx] >= costfield.Impassable || field[ny][cell.X] >= costfield.Impassable {
					continue
				}
			}
			step := orthoCost
			if nb.diag {
				step = diagCost
			}
			neighbour := sectorgrid.FieldCell{X: nx, Y: ny}
			nIdx := neighbour.Index()
			if closed[nIdx] {
				continue
			}
			g := cur.g + step*int64(destCost)
			if gScore[nIdx] != -1 && g >= gScore[nIdx] {
				continue
			}
			gScore[nIdx] = g
			h := orthoCost * chebyshev(to.X-nx, to.Y-ny)
			heap.Push(&pq, sectorIndexItem{idx: nIdx, g: g, f: g + h})
		}
	}
	return 0, false
}
