package route

import "github.com/google/uuid"

// RouteHandle is the opaque token a caller holds for a requested route. It
// names a Key without exposing cache internals, mirroring how the teacher's
// Edge.ID is an opaque string over an otherwise structural identity
// (From, To) — grounded on Gekko3D-gekko's use of google/uuid for entity
// identity tokens.
type RouteHandle struct {
	id  uuid.UUID
	key Key
}

// newHandle mints a RouteHandle for key.
func newHandle(key Key) RouteHandle {
	return RouteHandle{id: uuid.New(), key: key}
}

// String returns the handle's token, for logging and equality checks
// across API boundaries that can't carry the struct itself.
func (h RouteHandle) String() string { return h.id.String() }

// Key returns the RouteKey this handle addresses.
func (h RouteHandle) Key() Key { return h.key }
