package portalgraph

import (
	"sync"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/portal"
	"github.com/flowtiles/engine/sectorgrid"
)

// Option configures a Graph at construction time.
type Option func(*Graph)

// WithOrthogonalCost overrides the base cost of a cardinal step (default 2).
func WithOrthogonalCost(cost int64) Option {
	return func(g *Graph) { g.orthoCost = cost }
}

// WithDiagonalCost overrides the base cost of a diagonal step (default 3).
func WithDiagonalCost(cost int64) Option {
	return func(g *Graph) { g.diagCost = cost }
}

// crossingCost is the fixed weight of the edge linking two paired portals
// across a sector boundary. It is a fixed 1, independent of the configured
// orthogonal and diagonal step costs.
const crossingCost int64 = 1

// edge is one weighted link out of a node, kept symmetric on both ends
// since every PortalGraph edge (intra-sector or crossing) is undirected.
type edge struct {
	to     NodeID
	weight int64
}

// Graph is the live portal graph: one node per portal, identified by its
// NodeID, edges within a sector weighted by in-sector A*, edges across a
// boundary weighted crossingCost. Storage is a plain adjacency map keyed
// directly by NodeID — portals are the only vertices this graph ever holds,
// so there is no generic vertex/edge type above the domain's own addressing.
// mu serializes RebuildSector calls against each other and against Path's
// transient-node augmentation, matching the single-writer discipline spec §5
// requires of the PortalGraph.
type Graph struct {
	mu sync.Mutex

	adjacency map[NodeID]map[NodeID]int64
	orthoCost int64
	diagCost  int64
}

// NewGraph constructs an empty portal graph.
func NewGraph(opts ...Option) *Graph {
	pg := &Graph{
		adjacency: make(map[NodeID]map[NodeID]int64),
		orthoCost: DefaultOrthogonalCost,
		diagCost:  DefaultDiagonalCost,
	}
	for _, opt := range opts {
		opt(pg)
	}
	return pg
}

// DefaultOrthogonalCost and DefaultDiagonalCost are the spec's chosen
// integer stand-ins for the 1:√2 orthogonal:diagonal cost ratio (Open
// Question, resolved in DESIGN.md).
const (
	DefaultOrthogonalCost int64 = 2
	DefaultDiagonalCost   int64 = 3
)

// HasNode reports whether id currently has a vertex in the graph.
func (pg *Graph) HasNode(id NodeID) bool {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	_, ok := pg.adjacency[id]
	return ok
}

// HasEdge reports whether a and b are directly linked.
func (pg *Graph) HasEdge(a, b NodeID) bool {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	_, ok := pg.adjacency[a][b]
	return ok
}

// addNodeLocked ensures id has an (possibly empty) adjacency entry. Callers
// must hold pg.mu.
func (pg *Graph) addNodeLocked(id NodeID) {
	if _, ok := pg.adjacency[id]; !ok {
		pg.adjacency[id] = make(map[NodeID]int64)
	}
}

// addEdgeLocked wires a<->b at weight, overwriting any existing weight
// between them. Callers must hold pg.mu.
func (pg *Graph) addEdgeLocked(a, b NodeID, weight int64) {
	pg.addNodeLocked(a)
	pg.addNodeLocked(b)
	pg.adjacency[a][b] = weight
	pg.adjacency[b][a] = weight
}

// removeNodeLocked drops id and every edge incident to it. Callers must
// hold pg.mu.
func (pg *Graph) removeNodeLocked(id NodeID) {
	for peer := range pg.adjacency[id] {
		delete(pg.adjacency[peer], id)
	}
	delete(pg.adjacency, id)
}

// neighborsLocked returns id's incident edges. Callers must hold pg.mu.
func (pg *Graph) neighborsLocked(id NodeID) []edge {
	peers := pg.adjacency[id]
	out := make([]edge, 0, len(peers))
	for to, weight := range peers {
		out = append(out, edge{to: to, weight: weight})
	}
	return out
}

// RebuildSector replaces every node/edge portalgraph holds for `sector`
// with a fresh set derived from the sector's current portal list and cost
// field: one node per portal, one weighted edge per reachable portal pair
// within the sector, and one crossingCost edge per paired portal touching a
// neighbouring sector.
//
// pairOf resolves a portal's pairing (normally store.PairedWith); it is
// threaded through rather than taking a *portal.Store directly so callers
// can rebuild from a point-in-time snapshot without holding the store's
// lock across the whole rebuild.
func (pg *Graph) RebuildSector(
	sector sectorgrid.SectorID,
	portals []portal.Portal,
	field costfield.Field,
	pairOf func(portal.Key) (portal.Key, bool),
) error {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	pg.dropSectorLocked(sector)

	for _, p := range portals {
		pg.addNodeLocked(EncodeNode(p.Sector, p.Cell))
	}

	for i := 0; i < len(portals); i++ {
		for j := i + 1; j < len(portals); j++ {
			cost, reachable := intraSectorCost(field, pg.orthoCost, pg.diagCost, portals[i].Cell, portals[j].Cell)
			if !reachable {
				continue
			}
			a := EncodeNode(portals[i].Sector, portals[i].Cell)
			b := EncodeNode(portals[j].Sector, portals[j].Cell)
			pg.addEdgeLocked(a, b, cost)
		}
	}

	for _, p := range portals {
		peer, ok := pairOf(p.Key())
		if !ok {
			continue
		}
		peerID := EncodeNode(peer.Sector, peer.Cell)
		selfID := EncodeNode(p.Sector, p.Cell)
		pg.addNodeLocked(peerID)
		if _, ok := pg.adjacency[selfID][peerID]; ok {
			continue
		}
		pg.addEdgeLocked(selfID, peerID, crossingCost)
	}

	return nil
}

// dropSectorLocked removes every node addressed to `sector`; removeNodeLocked
// cascades to incident edges, so stale intra- and inter-sector edges
// disappear with it. Callers must hold pg.mu.
func (pg *Graph) dropSectorLocked(sector sectorgrid.SectorID) {
	for id := range pg.adjacency {
		if s, _, ok := DecodeNode(id); ok && s == sector {
			pg.removeNodeLocked(id)
		}
	}
}
