// The IntegrationField sentinel and monotonicity invariants: every
// reachable cell's value is the cheapest cumulative cardinal-step cost to
// the nearest goal-set cell, and Unvisited cells are unreachable from the
// goal set through pathable cardinal neighbours.
package integration
