package costfield_test

import (
	"testing"

	"github.com/flowtiles/engine/costfield"
	"github.com/flowtiles/engine/ferr"
	"github.com/flowtiles/engine/sectorgrid"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaultsToCheapestCost(t *testing.T) {
	g, err := sectorgrid.NewGrid(1, 1)
	require.NoError(t, err)
	s := costfield.NewStore(g)

	v, err := s.Get(sectorgrid.SectorID{}, sectorgrid.FieldCell{X: 5, Y: 5})
	require.NoError(t, err)
	require.Equal(t, costfield.DefaultCost, v)
}

func TestSetEmitsAffectedNeighbours(t *testing.T) {
	g, err := sectorgrid.NewGrid(2, 1)
	require.NoError(t, err)
	s := costfield.NewStore(g)

	sector := sectorgrid.SectorID{Col: 0, Row: 0}
	// cell (9,5) lies on the East boundary of sector (0,0), shared with (1,0).
	ev, err := s.Set(sector, sectorgrid.FieldCell{X: 9, Y: 5}, 255)
	require.NoError(t, err)
	require.ElementsMatch(t, []sectorgrid.SectorID{
		{Col: 0, Row: 0},
		{Col: 1, Row: 0},
	}, ev.Sectors)
}

func TestSetInteriorCellOnlyAffectsOwnSector(t *testing.T) {
	g, err := sectorgrid.NewGrid(2, 2)
	require.NoError(t, err)
	s := costfield.NewStore(g)

	sector := sectorgrid.SectorID{Col: 0, Row: 0}
	ev, err := s.Set(sector, sectorgrid.FieldCell{X: 4, Y: 4}, 10)
	require.NoError(t, err)
	require.Equal(t, []sectorgrid.SectorID{sector}, ev.Sectors)
}

func TestSetSameValueIsNoop(t *testing.T) {
	g, err := sectorgrid.NewGrid(1, 1)
	require.NoError(t, err)
	s := costfield.NewStore(g)

	sector := sectorgrid.SectorID{}
	ev, err := s.Set(sector, sectorgrid.FieldCell{X: 2, Y: 2}, costfield.DefaultCost)
	require.NoError(t, err)
	require.Empty(t, ev.Sectors)
}

func TestSetCornerCellAffectsBothNeighbours(t *testing.T) {
	g, err := sectorgrid.NewGrid(2, 2)
	require.NoError(t, err)
	s := costfield.NewStore(g)

	sector := sectorgrid.SectorID{Col: 0, Row: 0}
	ev, err := s.Set(sector, sectorgrid.FieldCell{X: 9, Y: 9}, 50)
	require.NoError(t, err)
	require.ElementsMatch(t, []sectorgrid.SectorID{
		{Col: 0, Row: 0},
		{Col: 1, Row: 0},
		{Col: 0, Row: 1},
	}, ev.Sectors)
}

func TestGetOutOfBounds(t *testing.T) {
	g, err := sectorgrid.NewGrid(1, 1)
	require.NoError(t, err)
	s := costfield.NewStore(g)

	_, err = s.Get(sectorgrid.SectorID{Col: 5, Row: 5}, sectorgrid.FieldCell{X: 0, Y: 0})
	require.ErrorIs(t, err, ferr.ErrOutOfBounds)
}
