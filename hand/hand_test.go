package hand

import (
	"testing"

	"github.com/matryer/is"

	"github.com/tilecraft/rummisolve/tile"
)

func TestAddRemoveCount(t *testing.T) {
	is := is.New(t)
	h := New()
	r5 := tile.New(tile.Red, 5)
	h.Add(r5)
	h.Add(r5)
	is.Equal(h.CountOf(r5), 2)
	is.True(h.ContainsAtLeast(r5, 2))
	is.True(!h.ContainsAtLeast(r5, 3))
	h.Remove(r5)
	is.Equal(h.CountOf(r5), 1)
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	h := New()
	r5 := tile.New(tile.Red, 5)
	h.Add(r5)
	c := h.Clone()
	c.Add(r5)
	is.Equal(h.CountOf(r5), 1)
	is.Equal(c.CountOf(r5), 2)
}

func TestBeatsRequiresNoNewIdentity(t *testing.T) {
	is := is.New(t)
	baseline := FromTiles([]tile.Tile{tile.New(tile.Red, 5)})
	residual := FromTiles([]tile.Tile{tile.New(tile.Blue, 5)})
	is.True(!residual.Beats(baseline))
}

func TestBeatsRequiresStrictImprovement(t *testing.T) {
	is := is.New(t)
	baseline := FromTiles([]tile.Tile{tile.New(tile.Red, 5)})
	same := FromTiles([]tile.Tile{tile.New(tile.Red, 5)})
	is.True(!same.Beats(baseline))

	fewer := New()
	is.True(fewer.Beats(baseline))
}

func TestPointsCountsWildcardsAsThirty(t *testing.T) {
	is := is.New(t)
	h := FromTiles([]tile.Tile{tile.New(tile.Red, 5), tile.Wild})
	is.Equal(h.Points(), 5+WildcardPoints)
}

func TestFlattenIsCanonicalAndStable(t *testing.T) {
	is := is.New(t)
	h := FromTiles([]tile.Tile{tile.Wild, tile.New(tile.Blue, 1), tile.New(tile.Red, 5)})
	flat := h.Flatten()
	is.Equal(len(flat), 3)
	is.Equal(flat[0], tile.New(tile.Red, 5))
	is.Equal(flat[1], tile.New(tile.Blue, 1))
	is.Equal(flat[2], tile.Wild)
}
