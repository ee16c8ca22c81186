package route

import "errors"

// ErrUnknownSector is returned when a Planner is asked to route through a
// sector its CostField store has never loaded.
var ErrUnknownSector = errors.New("route: unknown sector")
