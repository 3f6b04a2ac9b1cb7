// Package meldgen enumerates every meld a hand can legally form, including
// every wildcard-substitution variant, in a fixed canonical order so that
// meldsearch's backtracker visits candidates deterministically.
package meldgen

import (
	"sort"

	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/tile"
)

// All enumerates every legal meld h can form: groups first (ordered by
// number, then size, then wildcard count, then ascending
// color-combination; wildcards sit at the end of a group), then runs (ordered by color, then start, then length, then
// wildcard-position mask). This order is the canonical order meldsearch's
// backtracker relies on for deterministic tie-breaking.
func All(h *hand.Hand) []meld.Meld {
	var out []meld.Meld
	for number := tile.MinNumber; number <= tile.MaxNumber; number++ {
		out = append(out, groupsForNumber(h, number)...)
	}
	for _, c := range tile.Colors {
		out = append(out, runsForColor(h, c)...)
	}
	return out
}

func groupsForNumber(h *hand.Hand, number int) []meld.Meld {
	var available []tile.Color
	for _, c := range tile.Colors {
		if h.ContainsAtLeast(tile.New(c, number), 1) {
			available = append(available, c)
		}
	}
	wilds := h.CountOf(tile.Wild)
	if len(available)+wilds < meld.MinGroupSize {
		return nil
	}

	var out []meld.Meld
	for size := meld.MinGroupSize; size <= meld.MaxGroupSize; size++ {
		minWilds := size - len(available)
		if minWilds < 0 {
			minWilds = 0
		}
		// need == size would mean every tile in the meld is a wildcard;
		// at least one real tile must remain.
		for need := minWilds; need <= wilds && need < size; need++ {
			for _, combo := range colorCombinations(available, size-need) {
				out = append(out, buildGroup(combo, need, number))
			}
		}
	}
	return out
}

// colorCombinations returns every k-subset of colors, each already sorted
// by tile.Colors' canonical order, with the subsets themselves enumerated
// in lexicographic index order.
func colorCombinations(colors []tile.Color, k int) [][]tile.Color {
	n := len(colors)
	if k == 0 {
		return [][]tile.Color{nil}
	}
	if k > n {
		return nil
	}
	var out [][]tile.Color
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]tile.Color, k)
		for i, id := range idx {
			combo[i] = colors[id]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

func buildGroup(colors []tile.Color, wilds int, number int) meld.Meld {
	tiles := make([]tile.Tile, 0, len(colors)+wilds)
	for _, c := range colors {
		tiles = append(tiles, tile.New(c, number))
	}
	for i := 0; i < wilds; i++ {
		tiles = append(tiles, tile.Wild)
	}
	return meld.New(meld.Group, tiles)
}

func runsForColor(h *hand.Hand, c tile.Color) []meld.Meld {
	wilds := h.CountOf(tile.Wild)
	var out []meld.Meld
	for start := tile.MinNumber; start <= tile.MaxNumber-meld.MinRunLength+1; start++ {
		maxLen := tile.MaxNumber - start + 1
		for length := meld.MinRunLength; length <= maxLen; length++ {
			for _, pattern := range wildcardPatterns(length, wilds) {
				if canFormRun(h, c, start, length, pattern) {
					out = append(out, buildRun(c, start, length, pattern))
				}
			}
		}
	}
	return out
}

// wildcardPatterns returns every subset of positions [0,length) of size at
// most availableWilds, ordered by subset size and then lexicographically
// by position, so the empty pattern (no wildcards) always comes first.
func wildcardPatterns(length, availableWilds int) [][]int {
	patterns := [][]int{nil}
	if availableWilds == 0 {
		return patterns
	}
	for mask := 1; mask < (1 << length); mask++ {
		var positions []int
		for i := 0; i < length; i++ {
			if mask&(1<<i) != 0 {
				positions = append(positions, i)
			}
		}
		if len(positions) <= availableWilds {
			patterns = append(patterns, positions)
		}
	}
	rest := patterns[1:]
	sort.Slice(rest, func(i, j int) bool {
		return maskLess(rest[i], rest[j])
	})
	return patterns
}

func maskLess(a, b []int) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func isWildPos(positions []int, i int) bool {
	for _, p := range positions {
		if p == i {
			return true
		}
	}
	return false
}

func canFormRun(h *hand.Hand, c tile.Color, start, length int, wildPositions []int) bool {
	if len(wildPositions) >= length {
		// at least one non-wild slot must remain
		return false
	}
	if h.CountOf(tile.Wild) < len(wildPositions) {
		return false
	}
	for i := 0; i < length; i++ {
		if isWildPos(wildPositions, i) {
			continue
		}
		if !h.ContainsAtLeast(tile.New(c, start+i), 1) {
			return false
		}
	}
	return true
}

func buildRun(c tile.Color, start, length int, wildPositions []int) meld.Meld {
	tiles := make([]tile.Tile, length)
	for i := 0; i < length; i++ {
		if isWildPos(wildPositions, i) {
			tiles[i] = tile.Wild
		} else {
			tiles[i] = tile.New(c, start+i)
		}
	}
	return meld.New(meld.Run, tiles)
}
