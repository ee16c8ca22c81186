package flowfield_test

import (
	"testing"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/flowfield"
	"github.com/flowtiles/engine/sectorgrid"
	"github.com/stretchr/testify/require"
)

func TestLineOfSightClearOnOpenField(t *testing.T) {
	cost := costfield.NewField()
	target := sectorgrid.FieldCell{X: 9, Y: 9}
	los := flowfield.LineOfSight(cost, target)

	require.True(t, los(sectorgrid.FieldCell{X: 0, Y: 0}))
	require.True(t, los(target))
}

func TestLineOfSightBlockedByWall(t *testing.T) {
	cost := costfield.NewField()
	for x := 0; x < sectorgrid.SectorResolution; x++ {
		cost[5][x] = costfield.Impassable
	}
	target := sectorgrid.FieldCell{X: 9, Y: 9}
	los := flowfield.LineOfSight(cost, target)

	// A straight line from (0,0) to (9,9) crosses row 5, which is a solid wall.
	require.False(t, los(sectorgrid.FieldCell{X: 0, Y: 0}))
}

func TestLineOfSightSameCellAsTargetIsTrue(t *testing.T) {
	cost := costfield.NewField()
	target := sectorgrid.FieldCell{X: 3, Y: 3}
	los := flowfield.LineOfSight(cost, target)
	require.True(t, los(target))
}
