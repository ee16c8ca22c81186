package portalgraph

import "errors"

// ErrUnknownNode is returned when a NodeID does not decode to a valid
// (SectorID, FieldCell) address.
var ErrUnknownNode = errors.New("portalgraph: malformed node id")
