package flowfield_test

import (
	"context"
	"testing"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/flowfield"
	"github.com/flowtiles/engine/integration"
	"github.com/flowtiles/engine/sectorgrid"
	"github.com/stretchr/testify/require"
)

// S1 — uniform flat world: goal cell carries exactly 0x40|0x10 and every
// other cell's direction strictly decreases the integration value.
func TestBuildUniformFieldGoalCellFlags(t *testing.T) {
	cost := costfield.NewField()
	goal := sectorgrid.FieldCell{X: 5, Y: 5}
	integ, err := integration.Build(context.Background(), cost, []sectorgrid.FieldCell{goal})
	require.NoError(t, err)

	ff := flowfield.Build(cost, integ, flowfield.BuildOptions{GoalCells: []sectorgrid.FieldCell{goal}})

	require.Equal(t, flowfield.FlagGoal|flowfield.FlagPathable, ff[5][5])
}

func TestBuildDirectionStrictlyDescends(t *testing.T) {
	cost := costfield.NewField()
	goal := sectorgrid.FieldCell{X: 5, Y: 5}
	integ, err := integration.Build(context.Background(), cost, []sectorgrid.FieldCell{goal})
	require.NoError(t, err)
	ff := flowfield.Build(cost, integ, flowfield.BuildOptions{GoalCells: []sectorgrid.FieldCell{goal}})

	for y := 0; y < sectorgrid.SectorResolution; y++ {
		for x := 0; x < sectorgrid.SectorResolution; x++ {
			c := sectorgrid.FieldCell{X: x, Y: y}
			if c == goal {
				continue
			}
			cell := ff[y][x]
			require.True(t, cell.HasFlag(flowfield.FlagPathable))
			dir := cell.Direction()
			dx, dy := dir.Delta()
			nx, ny := x+dx, y+dy
			require.Truef(t, integ[ny][nx] < integ[y][x], "cell (%d,%d) dir=%v", x, y, dir)
		}
	}
}

func TestBuildImpassableCellIsZeroVector(t *testing.T) {
	cost := costfield.NewField()
	cost[4][4] = costfield.Impassable
	goal := sectorgrid.FieldCell{X: 0, Y: 0}
	integ, err := integration.Build(context.Background(), cost, []sectorgrid.FieldCell{goal})
	require.NoError(t, err)
	ff := flowfield.Build(cost, integ, flowfield.BuildOptions{GoalCells: []sectorgrid.FieldCell{goal}})

	require.Equal(t, flowfield.ZeroVector, ff[4][4])
}

// S4 — cost gradient: direction at (5,5) must not point diagonally through
// the cost-10 block toward (0,0) if that crosses a costly cell.
func TestBuildRoutesAroundCostHill(t *testing.T) {
	cost := costfield.NewField()
	for y := 3; y <= 6; y++ {
		for x := 3; x <= 6; x++ {
			cost[y][x] = 10
		}
	}
	goal := sectorgrid.FieldCell{X: 0, Y: 0}
	integ, err := integration.Build(context.Background(), cost, []sectorgrid.FieldCell{goal})
	require.NoError(t, err)
	ff := flowfield.Build(cost, integ, flowfield.BuildOptions{GoalCells: []sectorgrid.FieldCell{goal}})

	cell := ff[5][5]
	dir := cell.Direction()
	// The chosen direction must lead to a strictly smaller integration
	// value, and must not be the diagonal step toward (0,0): that
	// neighbour, (4,4), lies inside the hill.
	dx, dy := dir.Delta()
	require.Less(t, integ[5+dy][5+dx], integ[5][5])
	require.NotEqual(t, sectorgrid.NorthWest, dir)
}

func TestNewFieldDefaultsToUninitializedSentinel(t *testing.T) {
	f := flowfield.NewField()
	require.Equal(t, flowfield.Uninitialized, f[0][0])
}
