package portal_test

import (
	"context"
	"testing"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/portal"
	"github.com/flowtiles/engine/sectorgrid"
	"github.com/stretchr/testify/require"
)

func newTwoSectorWorld(t *testing.T) (*sectorgrid.Grid, *costfield.Store) {
	t.Helper()
	grid, err := sectorgrid.NewGrid(2, 1)
	require.NoError(t, err)
	return grid, costfield.NewStore(grid)
}

// S2 — straight corridor: all cost 1 produces exactly one portal per
// boundary, at the midpoint of rows 0..9 (row 4, the lower of the two
// middle rows).
func TestRepairStraightCorridorSinglePortal(t *testing.T) {
	grid, cost := newTwoSectorWorld(t)
	store := portal.NewStore(grid, cost)

	res, err := store.Repair(context.Background(), sectorgrid.SectorID{Col: 0, Row: 0})
	require.NoError(t, err)
	require.ElementsMatch(t, []sectorgrid.SectorID{
		{Col: 0, Row: 0}, {Col: 1, Row: 0},
	}, res.Touched)

	left := store.Sector(sectorgrid.SectorID{Col: 0, Row: 0})
	require.Len(t, left, 1)
	require.Equal(t, sectorgrid.FieldCell{X: 9, Y: 4}, left[0].Cell)

	right := store.Sector(sectorgrid.SectorID{Col: 1, Row: 0})
	require.Len(t, right, 1)
	require.Equal(t, sectorgrid.FieldCell{X: 0, Y: 4}, right[0].Cell)

	paired, ok := store.PairedWith(left[0].Key())
	require.True(t, ok)
	require.Equal(t, right[0].Key(), paired)
}

// S3 — impassable wall splitting the boundary into two runs produces two
// portals, at the midpoints of rows 0..2 and 7..9.
func TestRepairSplitBoundaryTwoPortals(t *testing.T) {
	grid, cost := newTwoSectorWorld(t)
	for row := 3; row <= 6; row++ {
		_, err := cost.Set(sectorgrid.SectorID{Col: 0, Row: 0}, sectorgrid.FieldCell{X: 9, Y: row}, 255)
		require.NoError(t, err)
		_, err = cost.Set(sectorgrid.SectorID{Col: 1, Row: 0}, sectorgrid.FieldCell{X: 0, Y: row}, 255)
		require.NoError(t, err)
	}
	store := portal.NewStore(grid, cost)
	_, err := store.Repair(context.Background(), sectorgrid.SectorID{Col: 0, Row: 0})
	require.NoError(t, err)

	left := store.Sector(sectorgrid.SectorID{Col: 0, Row: 0})
	require.Len(t, left, 2)
	var rows []int
	for _, p := range left {
		rows = append(rows, p.Cell.Y)
	}
	require.ElementsMatch(t, []int{1, 8}, rows)
}

// Entire shared boundary impassable produces no portals on it.
func TestRepairFullyBlockedBoundaryNoPortals(t *testing.T) {
	grid, cost := newTwoSectorWorld(t)
	for row := 0; row < sectorgrid.SectorResolution; row++ {
		_, err := cost.Set(sectorgrid.SectorID{Col: 0, Row: 0}, sectorgrid.FieldCell{X: 9, Y: row}, 255)
		require.NoError(t, err)
	}
	store := portal.NewStore(grid, cost)
	_, err := store.Repair(context.Background(), sectorgrid.SectorID{Col: 0, Row: 0})
	require.NoError(t, err)

	require.Empty(t, store.Sector(sectorgrid.SectorID{Col: 0, Row: 0}))
	require.Empty(t, store.Sector(sectorgrid.SectorID{Col: 1, Row: 0}))
}

// World-edge boundaries never produce portals.
func TestRepairWorldEdgeNoPortals(t *testing.T) {
	grid, err := sectorgrid.NewGrid(1, 1)
	require.NoError(t, err)
	cost := costfield.NewStore(grid)
	store := portal.NewStore(grid, cost)

	_, err = store.Repair(context.Background(), sectorgrid.SectorID{})
	require.NoError(t, err)
	require.Empty(t, store.Sector(sectorgrid.SectorID{}))
}

// Repairing twice in succession is idempotent.
func TestRepairTwiceIsIdempotent(t *testing.T) {
	grid, cost := newTwoSectorWorld(t)
	store := portal.NewStore(grid, cost)

	_, err := store.Repair(context.Background(), sectorgrid.SectorID{Col: 0, Row: 0})
	require.NoError(t, err)
	first := store.AllPairs()

	_, err = store.Repair(context.Background(), sectorgrid.SectorID{Col: 0, Row: 0})
	require.NoError(t, err)
	second := store.AllPairs()

	require.Equal(t, first, second)
}

// S5 — making boundary row 5 impassable (on the sector (1,0) side) splits
// the single corridor portal into two new portals at the midpoints of the
// remaining runs, rows 0..4 and 6..9.
func TestRepairAfterMutationSplitsPortal(t *testing.T) {
	grid, cost := newTwoSectorWorld(t)
	store := portal.NewStore(grid, cost)
	_, err := store.Repair(context.Background(), sectorgrid.SectorID{Col: 0, Row: 0})
	require.NoError(t, err)

	ev, err := cost.Set(sectorgrid.SectorID{Col: 0, Row: 0}, sectorgrid.FieldCell{X: 5, Y: 5}, 255)
	require.NoError(t, err)
	ev2, err := cost.Set(sectorgrid.SectorID{Col: 1, Row: 0}, sectorgrid.FieldCell{X: 0, Y: 5}, 255)
	require.NoError(t, err)
	_ = ev2

	for _, sec := range ev.Sectors {
		_, err := store.Repair(context.Background(), sec)
		require.NoError(t, err)
	}

	left := store.Sector(sectorgrid.SectorID{Col: 0, Row: 0})
	require.Len(t, left, 2)
	var rows []int
	for _, p := range left {
		rows = append(rows, p.Cell.Y)
	}
	require.ElementsMatch(t, []int{2, 7}, rows)
}
