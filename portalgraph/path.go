package portalgraph

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/ferr"
	"github.com/flowtiles/engine/sectorgrid"
)

// Point is a world-addressed endpoint for a Path query: a cell within a
// sector, which may or may not coincide with a live portal.
type Point struct {
	Sector sectorgrid.SectorID
	Cell   sectorgrid.FieldCell
}

// Path finds the minimum-cost route of portal crossings between src and
// dst, returning the ordered NodeID chain (src, portal, portal, ..., dst)
// and its total cost. srcField/dstField are the cost fields of src's and
// dst's sectors, used only to wire src/dst into the portal graph — they are
// not consulted for any sector the route merely passes through.
//
// Path temporarily augments the graph with src/dst vertices (skipped if a
// portal already lives at that exact cell) and removes them again before
// returning, so the persistent portal graph is left exactly as RebuildSector
// built it. The whole operation holds Graph's write lock, serializing it
// against RebuildSector and against other concurrent Path calls — see
// Graph's doc comment.
func (pg *Graph) Path(ctx context.Context, src, dst Point, srcField, dstField costfield.Field) ([]NodeID, int64, error) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	srcID := EncodeNode(src.Sector, src.Cell)
	dstID := EncodeNode(dst.Sector, dst.Cell)

	var created []NodeID
	defer func() {
		for _, id := range created {
			pg.removeNodeLocked(id)
		}
	}()

	if _, ok := pg.adjacency[srcID]; !ok {
		peers := pg.nodesInSectorLocked(src.Sector)
		pg.addNodeLocked(srcID)
		created = append(created, srcID)
		for _, peer := range peers {
			_, cell, ok := DecodeNode(peer)
			if !ok {
				continue
			}
			if cost, reachable := intraSectorCost(srcField, pg.orthoCost, pg.diagCost, src.Cell, cell); reachable {
				pg.addEdgeLocked(srcID, peer, cost)
			}
		}
	}

	if _, ok := pg.adjacency[dstID]; srcID != dstID && !ok {
		peers := pg.nodesInSectorLocked(dst.Sector)
		pg.addNodeLocked(dstID)
		created = append(created, dstID)
		for _, peer := range peers {
			_, cell, ok := DecodeNode(peer)
			if !ok {
				continue
			}
			if cost, reachable := intraSectorCost(dstField, pg.orthoCost, pg.diagCost, dst.Cell, cell); reachable {
				pg.addEdgeLocked(dstID, peer, cost)
			}
		}
	}

	if srcID == dstID {
		return []NodeID{srcID}, 0, nil
	}

	return pg.astar(ctx, srcID, dstID)
}

// nodesInSectorLocked lists every node currently addressed to sector.
// Callers must hold pg.mu.
func (pg *Graph) nodesInSectorLocked(sector sectorgrid.SectorID) []NodeID {
	var out []NodeID
	for id := range pg.adjacency {
		if s, _, ok := DecodeNode(id); ok && s == sector {
			out = append(out, id)
		}
	}
	return out
}

// worldUnits converts a (sector, cell) address to its absolute cell
// coordinate, for the cross-sector A* heuristic.
func worldUnits(sector sectorgrid.SectorID, cell sectorgrid.FieldCell) (x, y int) {
	return sector.Col*sectorgrid.SectorResolution + cell.X, sector.Row*sectorgrid.SectorResolution + cell.Y
}

func (pg *Graph) heuristic(a, b NodeID) int64 {
	as, ac, aok := DecodeNode(a)
	bs, bc, bok := DecodeNode(b)
	if !aok || !bok {
		return 0
	}
	ax, ay := worldUnits(as, ac)
	bx, by := worldUnits(bs, bc)
	return pg.orthoCost * chebyshev(bx-ax, by-ay)
}

// openItem is one entry of the cross-sector A* open set.
type openItem struct {
	id   NodeID
	g, f int64
}

type openPQ []openItem

func (pq openPQ) Len() int { return len(pq) }
func (pq openPQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].g != pq[j].g {
		// Lower h (== higher g for equal f) first: prefer the candidate
		// believed closer to the goal when total estimates tie.
		return pq[i].g > pq[j].g
	}
	return pq[i].id < pq[j].id // deterministic tie-break, spec §4.4.
}
func (pq openPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *openPQ) Push(x interface{}) { *pq = append(*pq, x.(openItem)) }
func (pq *openPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// astar runs weighted A* over the live portal graph (plus any transient
// src/dst vertices already wired in by Path) from src to dst, yielding away
// to ctx between pops so a long search over a sparse, disconnected region
// can be cancelled cooperatively.
func (pg *Graph) astar(ctx context.Context, src, dst NodeID) ([]NodeID, int64, error) {
	gScore := map[NodeID]int64{src: 0}
	came := map[NodeID]NodeID{}
	closed := map[NodeID]bool{}

	pq := make(openPQ, 0, 16)
	heap.Push(&pq, openItem{id: src, g: 0, f: pg.heuristic(src, dst)})

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ferr.ErrCancelled, err)
		}

		cur := heap.Pop(&pq).(openItem)
		if closed[cur.id] {
			continue
		}
		if cur.id == dst {
			return reconstruct(came, src, dst), cur.g, nil
		}
		closed[cur.id] = true

		for _, e := range pg.neighborsLocked(cur.id) {
			nb := e.to
			if closed[nb] {
				continue
			}
			g := cur.g + e.weight
			if old, ok := gScore[nb]; ok && g >= old {
				continue
			}
			gScore[nb] = g
			came[nb] = cur.id
			heap.Push(&pq, openItem{id: nb, g: g, f: g + pg.heuristic(nb, dst)})
		}
	}

	return nil, 0, ferr.ErrNoPath
}

func reconstruct(came map[NodeID]NodeID, src, dst NodeID) []NodeID {
	path := []NodeID{dst}
	cur := dst
	for cur != src {
		cur = came[cur]
		path = append(path, cur)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
