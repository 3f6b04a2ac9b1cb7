// Package translate turns a move search's low-level pick-up/lay-down
// sequence into human-readable moves: which melds were played whole from
// hand, extended, had tiles taken from them, split, joined, had a
// wildcard swapped out, or (when nothing simpler fits) rearranged.
package translate

import (
	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/movesearch"
	"github.com/tilecraft/rummisolve/tile"
)

// Kind is the closed set of human-move shapes.
type Kind uint8

const (
	PlayFromHand Kind = iota
	ExtendMeld
	TakeFromMeld
	SplitMeld
	JoinMelds
	SwapWild
	Rearrange
)

// Swap pairs a hand tile that filled in for a wildcard with the
// wildcard it displaced.
type Swap struct {
	Replacement tile.Tile
	Wild        tile.Tile
}

// Move is one human-readable transformation.
type Move struct {
	Kind Kind

	// Original: ExtendMeld, TakeFromMeld, SplitMeld, SwapWild.
	// Result: PlayFromHand, ExtendMeld, JoinMelds, SwapWild.
	Original meld.Meld
	Result   meld.Meld

	// ExtendMeld
	AddedTiles []tile.Tile

	// TakeFromMeld
	TakenTiles []tile.Tile
	Remaining  meld.Meld

	// SplitMeld
	Parts []meld.Meld

	// JoinMelds
	Sources []meld.Meld

	// SwapWild
	Swaps []Swap

	// Rearrange
	Consumed      []meld.Meld
	Produced      []meld.Meld
	HandTilesUsed []tile.Tile
}

type tileSource struct {
	fromHand   bool
	tableIndex int
}

type assignment struct {
	tile        tile.Tile
	source      tileSource
	destMeldIdx int
}

type meldOrigin struct {
	newIdx      int
	meld        meld.Meld
	tileSources []tileSource
}

type meldFate struct {
	origIdx         int
	original        meld.Meld
	tileDestination []int // -1 if unplaced
}

// ToHumanMoves classifies a move search result into human-readable moves.
// table is the original table (before any pickups), h the original hand
// (before any plays); moves is the search's raw pickup/lay-down list.
func ToHumanMoves(table []meld.Meld, h *hand.Hand, moves []movesearch.Move) []Move {
	var picked []pickedMeld
	var laidDown []meld.Meld
	for _, mv := range moves {
		switch mv.Kind {
		case movesearch.PickUp:
			picked = append(picked, pickedMeld{idx: mv.TableIndex, meld: table[mv.TableIndex]})
		case movesearch.LayDown:
			laidDown = append(laidDown, mv.Meld)
		}
	}
	if len(laidDown) == 0 {
		return nil
	}

	assignments := assignProvenance(picked, h, laidDown)
	origins := buildOrigins(laidDown, assignments)
	fates := buildFates(picked, assignments)

	return classify(picked, origins, fates)
}

type pickedMeld struct {
	idx  int
	meld meld.Meld
}

// assignProvenance greedily assigns each tile in each new meld to a
// source: a table-meld tile first, falling back to a hand tile, ties
// broken by source-meld-id then position (the order the source pool is
// built in).
func assignProvenance(picked []pickedMeld, h *hand.Hand, newMelds []meld.Meld) []assignment {
	type poolEntry struct {
		tile   tile.Tile
		source tileSource
		used   bool
	}
	var pool []poolEntry
	for _, p := range picked {
		for _, t := range p.meld.Tiles {
			pool = append(pool, poolEntry{tile: t, source: tileSource{tableIndex: p.idx}})
		}
	}
	for _, t := range h.Flatten() {
		pool = append(pool, poolEntry{tile: t, source: tileSource{fromHand: true}})
	}

	var out []assignment
	for meldIdx, m := range newMelds {
		for _, want := range m.Tiles {
			found := -1
			for i := range pool {
				if !pool[i].used && pool[i].tile == want && !pool[i].source.fromHand {
					found = i
					break
				}
			}
			if found == -1 {
				for i := range pool {
					if !pool[i].used && pool[i].tile == want {
						found = i
						break
					}
				}
			}
			if found == -1 {
				continue
			}
			pool[found].used = true
			out = append(out, assignment{tile: want, source: pool[found].source, destMeldIdx: meldIdx})
		}
	}
	return out
}

func buildOrigins(newMelds []meld.Meld, assignments []assignment) []meldOrigin {
	origins := make([]meldOrigin, len(newMelds))
	for idx, m := range newMelds {
		sources := make([]tileSource, len(m.Tiles))
		for i, t := range m.Tiles {
			sources[i] = tileSource{fromHand: true}
			for _, a := range assignments {
				if a.destMeldIdx == idx && a.tile == t {
					sources[i] = a.source
					break
				}
			}
		}
		origins[idx] = meldOrigin{newIdx: idx, meld: m, tileSources: sources}
	}
	return origins
}

func buildFates(picked []pickedMeld, assignments []assignment) []meldFate {
	fates := make([]meldFate, len(picked))
	for i, p := range picked {
		dests := make([]int, len(p.meld.Tiles))
		for j, t := range p.meld.Tiles {
			dests[j] = -1
			for _, a := range assignments {
				if a.tile == t && !a.source.fromHand && a.source.tableIndex == p.idx {
					dests[j] = a.destMeldIdx
					break
				}
			}
		}
		fates[i] = meldFate{origIdx: p.idx, original: p.meld, tileDestination: dests}
	}
	return fates
}

func distinctPositive(vals []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, v := range vals {
		if v < 0 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// classify runs the six-pass pattern detector, then folds anything left
// over into a single Rearrange.
func classify(picked []pickedMeld, origins []meldOrigin, fates []meldFate) []Move {
	var moves []Move
	processedNew := map[int]bool{}
	processedOld := map[int]bool{}

	// Pass 1: PlayFromHand.
	for _, o := range origins {
		allHand := true
		for _, s := range o.tileSources {
			if !s.fromHand {
				allHand = false
				break
			}
		}
		if allHand {
			moves = append(moves, Move{Kind: PlayFromHand, Result: o.meld})
			processedNew[o.newIdx] = true
		}
	}

	// Pass 2: ExtendMeld, or unchanged (skipped silently).
	for _, f := range fates {
		if processedOld[f.origIdx] {
			continue
		}
		dests := distinctPositive(f.tileDestination)
		if len(dests) != 1 {
			continue
		}
		destIdx := dests[0]
		if processedNew[destIdx] {
			continue
		}
		o := origins[destIdx]

		var handTiles []tile.Tile
		for i, t := range o.meld.Tiles {
			if o.tileSources[i].fromHand {
				handTiles = append(handTiles, t)
			}
		}

		switch {
		case len(handTiles) > 0 && len(o.meld.Tiles) > len(f.original.Tiles):
			moves = append(moves, Move{Kind: ExtendMeld, Original: f.original, AddedTiles: handTiles, Result: o.meld})
			processedNew[destIdx] = true
			processedOld[f.origIdx] = true
		case len(handTiles) == 0 && meld.TilesEqual(f.original, o.meld):
			processedNew[destIdx] = true
			processedOld[f.origIdx] = true
		}
	}

	// Pass 3: TakeFromMeld. An original's tiles route to exactly two
	// destinations, one built purely from this original's tiles (a
	// smaller valid meld left behind) and the other mixed with hand
	// and/or other table tiles (the taken tiles' new home). The mixed
	// destination is deliberately left unmarked so whatever pass, or the
	// final Rearrange, classifies it stands as the paired second
	// operation.
	for _, f := range fates {
		if processedOld[f.origIdx] {
			continue
		}
		dests := distinctPositive(f.tileDestination)
		if len(dests) != 2 {
			continue
		}

		purity := make([]bool, 2)
		for i, d := range dests {
			pure := true
			for _, s := range origins[d].tileSources {
				if s.fromHand || s.tableIndex != f.origIdx {
					pure = false
					break
				}
			}
			purity[i] = pure
		}
		if purity[0] == purity[1] {
			// both pure belongs to SplitMeld, both mixed belongs to
			// JoinMelds/Rearrange.
			continue
		}

		pureIdx, mixedIdx := dests[0], dests[1]
		if purity[1] {
			pureIdx, mixedIdx = dests[1], dests[0]
		}
		if processedNew[pureIdx] {
			continue
		}

		var taken []tile.Tile
		for i, t := range f.original.Tiles {
			if f.tileDestination[i] == mixedIdx {
				taken = append(taken, t)
			}
		}

		moves = append(moves, Move{Kind: TakeFromMeld, Original: f.original, TakenTiles: taken, Remaining: origins[pureIdx].meld})
		processedNew[pureIdx] = true
		processedOld[f.origIdx] = true
	}

	// Pass 4: SplitMeld. One original's tiles scattered across two or
	// more new melds that contain nothing but this original's tiles.
	for _, f := range fates {
		if processedOld[f.origIdx] {
			continue
		}
		dests := distinctPositive(f.tileDestination)
		if len(dests) < 2 {
			continue
		}
		pureSplit := true
		for _, d := range dests {
			if processedNew[d] {
				pureSplit = false
				break
			}
			for _, s := range origins[d].tileSources {
				if s.fromHand || s.tableIndex != f.origIdx {
					pureSplit = false
					break
				}
			}
			if !pureSplit {
				break
			}
		}
		if !pureSplit {
			continue
		}
		var parts []meld.Meld
		for _, d := range dests {
			parts = append(parts, origins[d].meld)
			processedNew[d] = true
		}
		moves = append(moves, Move{Kind: SplitMeld, Original: f.original, Parts: parts})
		processedOld[f.origIdx] = true
	}

	// Pass 5: JoinMelds. Two or more originals merged into one new meld
	// with no hand tiles involved.
	for _, o := range origins {
		if processedNew[o.newIdx] {
			continue
		}
		tableSrcs := map[int]bool{}
		hasHand := false
		for _, s := range o.tileSources {
			if s.fromHand {
				hasHand = true
			} else {
				tableSrcs[s.tableIndex] = true
			}
		}
		if hasHand || len(tableSrcs) < 2 {
			continue
		}
		allUnprocessed := true
		for idx := range tableSrcs {
			if processedOld[idx] {
				allUnprocessed = false
				break
			}
		}
		if !allUnprocessed {
			continue
		}
		var sources []meld.Meld
		for _, p := range picked {
			if tableSrcs[p.idx] {
				sources = append(sources, p.meld)
			}
		}
		moves = append(moves, Move{Kind: JoinMelds, Sources: sources, Result: o.meld})
		processedNew[o.newIdx] = true
		for idx := range tableSrcs {
			processedOld[idx] = true
		}
	}

	// Pass 6: SwapWild. Original's wildcard positions are now filled by
	// hand tiles in a same-shaped destination meld.
	for _, f := range fates {
		if processedOld[f.origIdx] {
			continue
		}
		var wildPositions []int
		for i, t := range f.original.Tiles {
			if t.IsWild() {
				wildPositions = append(wildPositions, i)
			}
		}
		if len(wildPositions) == 0 {
			continue
		}
		dests := distinctPositive(f.tileDestination)
		if len(dests) != 1 {
			continue
		}
		destIdx := dests[0]
		if processedNew[destIdx] {
			continue
		}
		o := origins[destIdx]
		if len(o.meld.Tiles) != len(f.original.Tiles) {
			continue
		}
		var swaps []Swap
		ok := true
		for _, pos := range wildPositions {
			if pos >= len(o.tileSources) || !o.tileSources[pos].fromHand {
				ok = false
				break
			}
			swaps = append(swaps, Swap{Replacement: o.meld.Tiles[pos], Wild: tile.Wild})
		}
		if ok && len(swaps) > 0 {
			moves = append(moves, Move{Kind: SwapWild, Original: f.original, Swaps: swaps, Result: o.meld})
			processedNew[destIdx] = true
			processedOld[f.origIdx] = true
		}
	}

	// Final pass: whatever's left becomes one Rearrange.
	var consumed, produced []meld.Meld
	var handTilesUsed []tile.Tile
	for _, f := range fates {
		if !processedOld[f.origIdx] {
			consumed = append(consumed, f.original)
		}
	}
	for _, o := range origins {
		if processedNew[o.newIdx] {
			continue
		}
		produced = append(produced, o.meld)
		for i, t := range o.meld.Tiles {
			if o.tileSources[i].fromHand {
				handTilesUsed = append(handTilesUsed, t)
			}
		}
	}
	if len(produced) > 0 {
		moves = append(moves, Move{Kind: Rearrange, Consumed: consumed, Produced: produced, HandTilesUsed: handTilesUsed})
	}

	return moves
}
