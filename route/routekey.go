// Package route orchestrates a route build — portal A*, back-to-front
// IntegrationFields, per-sector FlowFields — and caches the result behind a
// RouteHandle, following the teacher's pattern of a thin public entry point
// (dijkstra.Dijkstra) backed by a private build step (Planner.build).
package route

import (
	"fmt"

	"github.com/flowtiles/engine/sectorgrid"
)

// Key identifies a route by its endpoints; it is the FlowFieldCache's key
// and the singleflight dedup key for in-flight builds.
type Key struct {
	SrcSector  sectorgrid.SectorID
	SrcCell    sectorgrid.FieldCell
	GoalSector sectorgrid.SectorID
	GoalCell   sectorgrid.FieldCell
}

// String gives Key a stable textual form, used both for the singleflight
// group key and in log/error context.
func (k Key) String() string {
	return fmt.Sprintf("%s%s->%s%s", k.SrcSector, k.SrcCell, k.GoalSector, k.GoalCell)
}
