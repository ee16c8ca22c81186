// Package ferr collects the sentinel errors shared across the flow-field
// engine's packages, so callers can errors.Is against one import regardless
// of which component raised the error.
package ferr

import "errors"

var (
	// ErrOutOfBounds indicates a coordinate lies outside the world extent.
	ErrOutOfBounds = errors.New("flowtiles: coordinate out of bounds")

	// ErrImpassable indicates a source or goal cell has cost 255.
	ErrImpassable = errors.New("flowtiles: cell is impassable")

	// ErrNoPath indicates the portal graph found no route between sectors.
	ErrNoPath = errors.New("flowtiles: no path between source and goal")

	// ErrCancelled indicates a route build was cancelled before completion.
	ErrCancelled = errors.New("flowtiles: route build cancelled")

	// ErrCacheMiss is non-fatal: it signals the cache holds no entry for a key.
	ErrCacheMiss = errors.New("flowtiles: cache miss")

	// ErrInconsistent indicates an internal invariant (portal pairing,
	// node encoding) would be violated. Fatal: the caller decides
	// process fate after it is logged.
	ErrInconsistent = errors.New("flowtiles: internal invariant violated")
)
