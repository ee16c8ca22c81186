package route_test

import (
	"testing"

	"github.com/flowtiles/engine/flowfield"
	"github.com/flowtiles/engine/route"
	"github.com/flowtiles/engine/sectorgrid"
	"github.com/stretchr/testify/require"
)

func makeRoute(key route.Key, sectors ...sectorgrid.SectorID) route.Route {
	chain := make([]route.SectorFlow, len(sectors))
	for i, s := range sectors {
		chain[i] = route.SectorFlow{Sector: s, Flow: flowfield.NewField()}
	}
	return route.Route{Key: key, Chain: chain}
}

func TestCacheGetPutRoundTrip(t *testing.T) {
	c := route.NewCache(4)
	sectorA := sectorgrid.SectorID{Col: 0, Row: 0}
	key := route.Key{SrcSector: sectorA, GoalSector: sectorA}

	_, ok := c.Get(key)
	require.False(t, ok)

	c.Put(makeRoute(key, sectorA))
	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, key, got.Key)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := route.NewCache(2)
	s0 := sectorgrid.SectorID{Col: 0, Row: 0}
	s1 := sectorgrid.SectorID{Col: 1, Row: 0}
	s2 := sectorgrid.SectorID{Col: 2, Row: 0}

	k0 := route.Key{SrcSector: s0, GoalSector: s0}
	k1 := route.Key{SrcSector: s1, GoalSector: s1}
	k2 := route.Key{SrcSector: s2, GoalSector: s2}

	c.Put(makeRoute(k0, s0))
	c.Put(makeRoute(k1, s1))
	// Touch k0 so it's MRU; k1 becomes the eviction candidate.
	_, _ = c.Get(k0)
	c.Put(makeRoute(k2, s2))

	require.Equal(t, 2, c.Len())
	_, ok := c.Get(k0)
	require.True(t, ok)
	_, ok = c.Get(k1)
	require.False(t, ok)
	_, ok = c.Get(k2)
	require.True(t, ok)
}

func TestCacheInvalidateDropsRoutesTouchingSector(t *testing.T) {
	c := route.NewCache(8)
	s0 := sectorgrid.SectorID{Col: 0, Row: 0}
	s1 := sectorgrid.SectorID{Col: 1, Row: 0}
	s2 := sectorgrid.SectorID{Col: 2, Row: 0}

	// Route through s0 -> s1, and an unrelated route confined to s2.
	multiHop := route.Key{SrcSector: s0, GoalSector: s1}
	single := route.Key{SrcSector: s2, GoalSector: s2}
	c.Put(makeRoute(multiHop, s0, s1))
	c.Put(makeRoute(single, s2))

	c.Invalidate(s1)

	_, ok := c.Get(multiHop)
	require.False(t, ok, "route whose chain passes through s1 must be dropped")
	_, ok = c.Get(single)
	require.True(t, ok, "unrelated route must survive")
	require.Equal(t, 1, c.Len())
}
