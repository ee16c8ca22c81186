// Package portalgraph assembles the navigable graph of portals: one node per
// live portal (plus transient SRC/DST nodes for a single route query), edges
// weighted by in-sector A* cost between portals sharing a sector, and
// weight-1 edges between paired portals across a boundary. The adjacency
// storage (Graph) is addressed directly by NodeID, with no generic vertex/
// edge layer above it — a portal graph never holds anything but portals, so
// there is nothing for a separate substrate type to abstract over.
package portalgraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowtiles/engine/sectorgrid"
)

// NodeID is a Graph node's address: either a live portal cell or a
// transient route endpoint. It is a pure, stateless encoding of
// (SectorID, FieldCell) — there is no lookup table to keep in sync, so any
// caller holding a (SectorID, FieldCell) can derive or parse a NodeID
// without consulting the Graph.
type NodeID string

// EncodeNode derives the NodeID addressing (sector, cell).
func EncodeNode(sector sectorgrid.SectorID, cell sectorgrid.FieldCell) NodeID {
	return NodeID(fmt.Sprintf("%d:%d:%d:%d", sector.Col, sector.Row, cell.X, cell.Y))
}

// DecodeNode is the inverse of EncodeNode. ok is false if id was not
// produced by EncodeNode.
func DecodeNode(id NodeID) (sector sectorgrid.SectorID, cell sectorgrid.FieldCell, ok bool) {
	parts := strings.Split(string(id), ":")
	if len(parts) != 4 {
		return sectorgrid.SectorID{}, sectorgrid.FieldCell{}, false
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return sectorgrid.SectorID{}, sectorgrid.FieldCell{}, false
		}
		nums[i] = n
	}
	return sectorgrid.SectorID{Col: nums[0], Row: nums[1]},
		sectorgrid.FieldCell{X: nums[2], Y: nums[3]}, true
}
