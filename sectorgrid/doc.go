// Coordinate math only: world <-> (sector, cell) translation and neighbour
// discovery via the eight compass ordinals. No cost, graph, or field data is
// stored here — every other package in this module builds on top of Grid's
// pure arithmetic.
package sectorgrid
