// Package portalgraph builds the navigable graph of portals that a route
// query searches: one vertex per live portal, edges weighted by the
// cheapest in-sector path between two portals sharing a sector, and
// unit-weight edges linking paired portals across a boundary.
package portalgraph
