// The FlowField bit layout: low nibble is an sectorgrid.Ordinal (or 0x0
// zero-vector / 0xF uninitialized sentinel), high nibble is pathable /
// line-of-sight / goal / portal-goal flags, bit-exact with spec §6.
package flowfield
