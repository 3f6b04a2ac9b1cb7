package meldsearch

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/tile"
)

func future() time.Time { return time.Now().Add(time.Second) }

func TestFindBestPlaysAGroup(t *testing.T) {
	is := is.New(t)
	h := hand.FromTiles([]tile.Tile{
		tile.New(tile.Red, 7), tile.New(tile.Blue, 7), tile.New(tile.Yellow, 7),
		tile.New(tile.Red, 1),
	})
	baseline := h.Clone()
	res, completed := FindBest(h, MinTiles, baseline, NoDebt, future(), nil)
	is.True(completed)
	is.True(res != nil)
	is.Equal(len(res.Melds), 1)
	is.Equal(res.Melds[0].Type, meld.Group)
	// h restored
	is.Equal(h.Size(), 4)
}

func TestFindBestReturnsNilWhenNoMeldsBeatBaseline(t *testing.T) {
	is := is.New(t)
	h := hand.FromTiles([]tile.Tile{tile.New(tile.Red, 1), tile.New(tile.Blue, 2)})
	baseline := h.Clone()
	res, completed := FindBest(h, MinTiles, baseline, NoDebt, future(), nil)
	is.True(completed)
	is.True(res == nil)
}

func TestFindBestPrefersFewerTilesUnderMinTiles(t *testing.T) {
	is := is.New(t)
	h := hand.FromTiles([]tile.Tile{
		tile.New(tile.Red, 5), tile.New(tile.Red, 6), tile.New(tile.Red, 7),
		tile.New(tile.Red, 8), tile.New(tile.Red, 9),
		tile.New(tile.Blue, 1),
	})
	baseline := h.Clone()
	res, completed := FindBest(h, MinTiles, baseline, NoDebt, future(), nil)
	is.True(completed)
	is.True(res != nil)
	is.Equal(len(res.Melds), 1)
	is.Equal(len(res.Melds[0].Tiles), 5)
}

func TestWildDebtConcreteFromGroupOfFour(t *testing.T) {
	is := is.New(t)
	m := meld.New(meld.Group, []tile.Tile{
		tile.New(tile.Red, 7), tile.New(tile.Blue, 7), tile.New(tile.Yellow, 7), tile.Wild,
	})
	debt := ComputeWildDebt([]meld.Meld{m})
	is.True(!debt.Satisfied(nil))
	is.True(debt.Satisfied([]meld.Meld{
		meld.New(meld.Run, []tile.Tile{tile.New(tile.Black, 5), tile.New(tile.Black, 6), tile.New(tile.Black, 7)}),
	}))
	is.True(debt.Satisfied([]meld.Meld{
		meld.New(meld.Group, []tile.Tile{tile.New(tile.Black, 7), tile.New(tile.Red, 9), tile.New(tile.Blue, 9)}),
	}))
}

func TestWildDebtEitherOrFromGroupOfThree(t *testing.T) {
	is := is.New(t)
	m := meld.New(meld.Group, []tile.Tile{
		tile.New(tile.Red, 7), tile.New(tile.Blue, 7), tile.Wild,
	})
	debt := ComputeWildDebt([]meld.Meld{m})
	is.True(!debt.Satisfied(nil))
	is.True(debt.Satisfied([]meld.Meld{
		meld.New(meld.Group, []tile.Tile{tile.New(tile.Yellow, 7), tile.New(tile.Red, 2), tile.New(tile.Blue, 2)}),
	}))
}

func TestWildDebtFromRunIsConcrete(t *testing.T) {
	is := is.New(t)
	m := meld.New(meld.Run, []tile.Tile{
		tile.New(tile.Red, 5), tile.Wild, tile.New(tile.Red, 7),
	})
	debt := ComputeWildDebt([]meld.Meld{m})
	is.True(!debt.Satisfied(nil))
	is.True(debt.Satisfied([]meld.Meld{
		meld.New(meld.Group, []tile.Tile{tile.New(tile.Red, 6), tile.New(tile.Blue, 6), tile.New(tile.Yellow, 6)}),
	}))
}

func TestNoDebtIsAlwaysSatisfied(t *testing.T) {
	is := is.New(t)
	is.True(NoDebt.Satisfied(nil))
}

func TestMemoGetPutRoundTrip(t *testing.T) {
	is := is.New(t)
	m := NewMemo(0.001)
	h := hand.FromTiles([]tile.Tile{tile.New(tile.Red, 5)})
	baseline := hand.New()
	_, ok := m.Get(h, MinTiles, baseline, NoDebt)
	is.True(!ok)
	m.Put(h, MinTiles, baseline, NoDebt, Result{Score: 7})
	got, ok := m.Get(h, MinTiles, baseline, NoDebt)
	is.True(ok)
	is.Equal(got.Score, 7)
}

func TestMemoDistinguishesDifferentQualities(t *testing.T) {
	is := is.New(t)
	m := NewMemo(0.001)
	h := hand.FromTiles([]tile.Tile{tile.New(tile.Red, 5)})
	baseline := hand.New()
	m.Put(h, MinTiles, baseline, NoDebt, Result{Score: 7})
	_, ok := m.Get(h, MinPoints, baseline, NoDebt)
	is.True(!ok)
}

func TestMemoDistinguishesDifferentDebts(t *testing.T) {
	is := is.New(t)
	m := NewMemo(0.001)
	h := hand.FromTiles([]tile.Tile{tile.New(tile.Red, 5)})
	baseline := hand.New()
	debtA := ComputeWildDebt([]meld.Meld{
		meld.New(meld.Run, []tile.Tile{tile.New(tile.Red, 1), tile.New(tile.Red, 2), tile.Wild}),
	})
	debtB := ComputeWildDebt([]meld.Meld{
		meld.New(meld.Run, []tile.Tile{tile.Wild, tile.New(tile.Red, 2), tile.New(tile.Red, 3)}),
	})
	m.Put(h, MinTiles, baseline, debtA, Result{Score: 7})
	_, ok := m.Get(h, MinTiles, baseline, debtB)
	is.True(!ok)
}
