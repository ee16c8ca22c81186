package integration_test

import (
	"context"
	"testing"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/integration"
	"github.com/flowtiles/engine/sectorgrid"
	"github.com/stretchr/testify/require"
)

// S1 — uniform flat world: IntegrationField[i][j] = Manhattan distance to
// the goal, since cardinal-only propagation at uniform cost 1 is exactly a
// multi-source BFS in Manhattan metric.
func TestBuildUniformFieldIsManhattanDistance(t *testing.T) {
	field := costfield.NewField()
	out, err := integration.Build(context.Background(), field, []sectorgrid.FieldCell{{X: 5, Y: 5}})
	require.NoError(t, err)

	for y := 0; y < sectorgrid.SectorResolution; y++ {
		for x := 0; x < sectorgrid.SectorResolution; x++ {
			want := abs(x-5) + abs(y-5)
			require.Equalf(t, uint16(want), out[y][x], "cell (%d,%d)", x, y)
		}
	}
}

func TestBuildGoalCellIsZero(t *testing.T) {
	field := costfield.NewField()
	out, err := integration.Build(context.Background(), field, []sectorgrid.FieldCell{{X: 2, Y: 3}})
	require.NoError(t, err)
	require.Equal(t, uint16(0), out[3][2])
}

func TestBuildImpassableCellStaysUnvisited(t *testing.T) {
	field := costfield.NewField()
	field[5][5] = costfield.Impassable
	out, err := integration.Build(context.Background(), field, []sectorgrid.FieldCell{{X: 0, Y: 0}})
	require.NoError(t, err)
	require.Equal(t, integration.Unvisited, out[5][5])
}

func TestBuildEmptyGoalSetLeavesFieldUnvisited(t *testing.T) {
	field := costfield.NewField()
	out, err := integration.Build(context.Background(), field, nil)
	require.NoError(t, err)
	require.Equal(t, integration.Unvisited, out[0][0])
}

func TestExpandPortalSegmentFlatBoundaryIsWholeRun(t *testing.T) {
	field := costfield.NewField()
	seg := integration.ExpandPortalSegment(field, sectorgrid.East, sectorgrid.FieldCell{X: 9, Y: 5})
	require.Len(t, seg, sectorgrid.SectorResolution)
}

func TestExpandPortalSegmentStopsAtWall(t *testing.T) {
	field := costfield.NewField()
	field[3][9] = costfield.Impassable
	field[6][9] = costfield.Impassable
	seg := integration.ExpandPortalSegment(field, sectorgrid.East, sectorgrid.FieldCell{X: 9, Y: 5})
	require.Len(t, seg, 2) // rows 4 and 5
	for _, c := range seg {
		require.True(t, c.Y == 4 || c.Y == 5)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
