package route_test

import (
	"testing"

	"github.com/flowtiles/engine/route"
	"github.com/flowtiles/engine/sectorgrid"
	"github.com/stretchr/testify/require"
)

func TestKeyStringIsStableForEqualKeys(t *testing.T) {
	s := sectorgrid.SectorID{Col: 0, Row: 0}
	k1 := route.Key{SrcSector: s, SrcCell: sectorgrid.FieldCell{X: 1, Y: 2}, GoalSector: s, GoalCell: sectorgrid.FieldCell{X: 3, Y: 4}}
	k2 := k1
	require.Equal(t, k1.String(), k2.String())
}

func TestKeyStringDiffersAcrossEndpoints(t *testing.T) {
	s := sectorgrid.SectorID{Col: 0, Row: 0}
	k1 := route.Key{SrcSector: s, SrcCell: sectorgrid.FieldCell{X: 1, Y: 2}, GoalSector: s, GoalCell: sectorgrid.FieldCell{X: 3, Y: 4}}
	k2 := route.Key{SrcSector: s, SrcCell: sectorgrid.FieldCell{X: 1, Y: 2}, GoalSector: s, GoalCell: sectorgrid.FieldCell{X: 5, Y: 6}}
	require.NotEqual(t, k1.String(), k2.String())
}
