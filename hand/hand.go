// Package hand implements the counted multiset of tiles a player holds:
// a map from tile identity to multiplicity, with add/remove/
// contains-at-least and a deterministic canonical iteration order.
package hand

import (
	"sort"

	"github.com/samber/lo"

	"github.com/tilecraft/rummisolve/tile"
)

// WildcardPoints is the value a wildcard contributes to a hand's
// tile-points total while it is still in hand (unplaced, so it has no
// represented slot value yet).
const WildcardPoints = 30

// Hand is a counted multiset of tiles.
type Hand struct {
	counts map[tile.Tile]int
}

// New builds an empty hand.
func New() *Hand {
	return &Hand{counts: make(map[tile.Tile]int)}
}

// FromTiles builds a hand from a flat list of tiles, counting duplicates.
func FromTiles(tiles []tile.Tile) *Hand {
	h := New()
	for _, t := range tiles {
		h.Add(t)
	}
	return h
}

// Add increments t's multiplicity by one.
func (h *Hand) Add(t tile.Tile) {
	h.counts[t]++
}

// AddN increments t's multiplicity by n.
func (h *Hand) AddN(t tile.Tile, n int) {
	if n == 0 {
		return
	}
	h.counts[t] += n
}

// Remove decrements t's multiplicity by one. It does not check that t is
// present; callers only call it after confirming feasibility.
func (h *Hand) Remove(t tile.Tile) {
	h.counts[t]--
	if h.counts[t] <= 0 {
		delete(h.counts, t)
	}
}

// CountOf returns t's current multiplicity (0 if absent).
func (h *Hand) CountOf(t tile.Tile) int {
	return h.counts[t]
}

// ContainsAtLeast reports whether the hand holds at least n of t.
func (h *Hand) ContainsAtLeast(t tile.Tile, n int) bool {
	return h.counts[t] >= n
}

// Size returns the total number of tiles (sum of multiplicities).
func (h *Hand) Size() int {
	total := 0
	for _, c := range h.counts {
		total += c
	}
	return total
}

// Empty reports whether the hand holds no tiles.
func (h *Hand) Empty() bool {
	return len(h.counts) == 0
}

// Clone returns a deep copy, so callers can explore a branch and restore
// the caller-owned original exactly.
func (h *Hand) Clone() *Hand {
	n := &Hand{counts: make(map[tile.Tile]int, len(h.counts))}
	for t, c := range h.counts {
		n.counts[t] = c
	}
	return n
}

// Tiles returns every distinct tile identity present, in canonical
// order: wildcard last, then by color, then by number.
func (h *Hand) Tiles() []tile.Tile {
	ts := lo.Keys(h.counts)
	sort.Slice(ts, func(i, j int) bool {
		return less(ts[i], ts[j])
	})
	return ts
}

func less(a, b tile.Tile) bool {
	if a.IsWild() != b.IsWild() {
		return b.IsWild()
	}
	if a.IsWild() {
		return false
	}
	if a.Color() != b.Color() {
		return a.Color() < b.Color()
	}
	return a.Number() < b.Number()
}

// Flatten returns every tile instance (each repeated by its multiplicity),
// in canonical order.
func (h *Hand) Flatten() []tile.Tile {
	out := make([]tile.Tile, 0, h.Size())
	for _, t := range h.Tiles() {
		for i := 0; i < h.counts[t]; i++ {
			out = append(out, t)
		}
	}
	return out
}

// Points returns the hand's tile-points total: wildcards count as
// WildcardPoints while still in hand.
func (h *Hand) Points() int {
	return lo.SumBy(h.Tiles(), func(t tile.Tile) int {
		if t.IsWild() {
			return WildcardPoints * h.counts[t]
		}
		return t.Number() * h.counts[t]
	})
}

// Beats reports whether h beats baseline b: h introduces no tile
// identity absent from b, and has strictly fewer of at least one
// identity that b has.
func (h *Hand) Beats(b *Hand) bool {
	improved := false
	for t, hc := range h.counts {
		bc := b.counts[t]
		if bc == 0 {
			return false
		}
		if hc < bc {
			improved = true
		}
	}
	for t, bc := range b.counts {
		if h.counts[t] < bc {
			improved = true
		}
	}
	return improved
}

// Equal reports whether h and o hold identical multisets.
func (h *Hand) Equal(o *Hand) bool {
	if len(h.counts) != len(o.counts) {
		return false
	}
	for t, c := range h.counts {
		if o.counts[t] != c {
			return false
		}
	}
	return true
}
