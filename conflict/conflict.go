// Package conflict builds the tile -> meld-id index meldsearch's
// backtracker uses to prune candidates that can no longer be played after
// a meld is taken, and to restore them cheaply on backtrack.
package conflict

import (
	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/tile"
)

// Index maps each tile identity to the ids (positions in the owning
// meld slice) of every meld that uses it.
type Index struct {
	byTile map[tile.Tile][]int
}

// Build indexes melds by the distinct tile identities they contain.
func Build(melds []meld.Meld) *Index {
	idx := &Index{byTile: make(map[tile.Tile][]int)}
	for id, m := range melds {
		seen := map[tile.Tile]bool{}
		for _, t := range m.Tiles {
			if seen[t] {
				continue
			}
			seen[t] = true
			idx.byTile[t] = append(idx.byTile[t], id)
		}
	}
	return idx
}

// MeldsUsing returns the ids of melds that use t.
func (idx *Index) MeldsUsing(t tile.Tile) []int {
	return idx.byTile[t]
}

// CanPlay reports whether h holds enough of every tile m needs.
func CanPlay(h *hand.Hand, m meld.Meld) bool {
	need := map[tile.Tile]int{}
	for _, t := range m.Tiles {
		need[t]++
	}
	for t, n := range need {
		if !h.ContainsAtLeast(t, n) {
			return false
		}
	}
	return true
}

// Invalid tracks melds that have become unplayable as the backtracker
// consumes tiles, so repeated CanPlay checks can be skipped for them.
type Invalid struct {
	set map[int]bool
}

// NewInvalid returns an empty invalidity set.
func NewInvalid() *Invalid {
	return &Invalid{set: make(map[int]bool)}
}

func (iv *Invalid) Has(id int) bool {
	return iv.set[id]
}

// MarkConflicting scans every meld that shares a tile with played and
// marks the ones h can no longer support, returning the newly-marked ids
// so the caller can unmark exactly those on backtrack.
func (iv *Invalid) MarkConflicting(played meld.Meld, h *hand.Hand, idx *Index, melds []meld.Meld) []int {
	var newlyInvalid []int
	seen := map[int]bool{}
	for _, t := range played.Tiles {
		for _, id := range idx.MeldsUsing(t) {
			if seen[id] || iv.set[id] {
				continue
			}
			seen[id] = true
			if !CanPlay(h, melds[id]) {
				iv.set[id] = true
				newlyInvalid = append(newlyInvalid, id)
			}
		}
	}
	return newlyInvalid
}

// Unmark reverses a prior MarkConflicting call on backtrack.
func (iv *Invalid) Unmark(ids []int) {
	for _, id := range ids {
		delete(iv.set, id)
	}
}
