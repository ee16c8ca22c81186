// Portal discovery and the boundary pairing invariant: for every portal on a
// sector boundary there is exactly one paired portal on the mirrored
// boundary of the neighbouring sector, at the mirrored FieldCell.
package portal
