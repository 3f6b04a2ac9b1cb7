// Package meldsearch implements find_best_melds: a canonical-order
// backtracking search over every meld a hand can form, returning the
// subset that leaves the hand in the best state according to a quality
// function while still beating a baseline hand.
package meldsearch

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tilecraft/rummisolve/conflict"
	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/meldgen"
	"github.com/tilecraft/rummisolve/tile"
)

// Quality is the closed set of scoring strategies the solver supports.
type Quality uint8

const (
	MinTiles Quality = iota
	MinPoints
)

// Evaluate scores h: higher is better. Both strategies are framed as a
// negated total so "higher is better" holds uniformly.
func (q Quality) Evaluate(h *hand.Hand) int {
	switch q {
	case MinTiles:
		return -h.Size()
	case MinPoints:
		return -h.Points()
	default:
		return -h.Points()
	}
}

// Result is a successful find_best_melds outcome.
type Result struct {
	Melds []meld.Meld
	Score int
}

// WildDebt tracks the replacement obligations incurred by picking up
// table melds whose wildcards must be accounted for somewhere among the
// newly laid-down melds, so a solution can't silently launder a
// wildcard.
type WildDebt struct {
	concrete map[tile.Tile]int
	eitherOr [][2]tile.Tile
}

// NoDebt is the zero-value debt that always reports satisfied; used when
// no melds were picked up from the table.
var NoDebt = WildDebt{}

// representedTile reports what real tile the wildcard at position pos in
// m stands for. Runs always resolve to one concrete tile. Groups of 4
// resolve to the single missing color; groups of 3 are ambiguous between
// the two missing colors.
func representedTile(m meld.Meld, pos int) (concrete tile.Tile, either [2]tile.Tile, isEither, ok bool) {
	switch m.Type {
	case meld.Run:
		var color tile.Color
		haveColor := false
		for _, t := range m.Tiles {
			if !t.IsWild() {
				color = t.Color()
				haveColor = true
				break
			}
		}
		if !haveColor {
			return 0, either, false, false
		}
		number := m.SlotValue(pos)
		if number < tile.MinNumber || number > tile.MaxNumber {
			return 0, either, false, false
		}
		return tile.New(color, number), either, false, true
	case meld.Group:
		number := m.SlotValue(pos)
		present := map[tile.Color]bool{}
		for _, t := range m.Tiles {
			if !t.IsWild() {
				present[t.Color()] = true
			}
		}
		var missing []tile.Color
		for _, c := range tile.Colors {
			if !present[c] {
				missing = append(missing, c)
			}
		}
		switch len(missing) {
		case 1:
			return tile.New(missing[0], number), either, false, true
		case 2:
			return 0, [2]tile.Tile{tile.New(missing[0], number), tile.New(missing[1], number)}, true, true
		default:
			if len(missing) > 0 {
				return tile.New(missing[0], number), either, false, true
			}
			return 0, either, false, false
		}
	}
	return 0, either, false, false
}

// ComputeWildDebt builds the debt incurred by picking up pickedMelds.
func ComputeWildDebt(pickedMelds []meld.Meld) WildDebt {
	debt := WildDebt{concrete: make(map[tile.Tile]int)}
	for _, m := range pickedMelds {
		for pos, t := range m.Tiles {
			if !t.IsWild() {
				continue
			}
			concrete, either, isEither, ok := representedTile(m, pos)
			if !ok {
				continue
			}
			if isEither {
				debt.eitherOr = append(debt.eitherOr, either)
			} else {
				debt.concrete[concrete]++
			}
		}
	}
	return debt
}

// Satisfied reports whether playedMelds' real (non-wild) tiles cover
// every debt obligation.
func (d WildDebt) Satisfied(playedMelds []meld.Meld) bool {
	played := map[tile.Tile]int{}
	for _, m := range playedMelds {
		for _, t := range m.Tiles {
			if !t.IsWild() {
				played[t]++
			}
		}
	}
	for t, need := range d.concrete {
		if played[t] < need {
			return false
		}
	}
	for _, pair := range d.eitherOr {
		if played[pair[0]] == 0 && played[pair[1]] == 0 {
			return false
		}
	}
	return true
}

// ctx carries the fixed-for-this-search state through the recursion
// rather than passing a dozen parameters at every call.
type ctx struct {
	melds        []meld.Meld
	idx          *conflict.Index
	invalid      *conflict.Invalid
	quality      Quality
	handToBeat   *hand.Hand
	debt         WildDebt
	deadline     time.Time
	active       []int
	best         *Result
	memo         *Memo
	nodesVisited int
}

// FindBest searches for the subset of h's legal melds whose removal
// leaves the best-scoring hand that still beats handToBeat and satisfies
// debt. h is restored to its original contents before returning. The
// second return value is false if the wall-clock deadline was hit before
// the search exhausted its state space.
func FindBest(h *hand.Hand, quality Quality, handToBeat *hand.Hand, debt WildDebt, deadline time.Time, memo *Memo) (*Result, bool) {
	if memo != nil {
		if cached, ok := memo.Get(h, quality, handToBeat, debt); ok {
			r := cached
			return &r, true
		}
	}

	original := h.Clone()
	melds := meldgen.All(h)
	idx := conflict.Build(melds)

	c := &ctx{
		melds:      melds,
		idx:        idx,
		invalid:    conflict.NewInvalid(),
		quality:    quality,
		handToBeat: handToBeat,
		debt:       debt,
		deadline:   deadline,
		memo:       memo,
	}

	completed := c.explore(0, h)
	*h = *original

	log.Debug().Int("nodes", c.nodesVisited).Bool("completed", completed).Msg("find_best_melds done")

	if c.best == nil {
		return nil, completed
	}
	if memo != nil && completed {
		memo.Put(h, quality, handToBeat, debt, *c.best)
	}
	return c.best, completed
}

// explore is the canonical-order backtracker: at each meld, try skipping
// it, then try playing it if it's still legal and not ruled out by a
// prior invalidation. Every node visited, not only leaves, is checked as
// a candidate residual: the current partial meld stack may already beat
// handToBeat even with melds left unconsidered. Returns false the first
// time the deadline is hit, propagated up so callers know the result may
// be incomplete.
func (c *ctx) explore(i int, h *hand.Hand) bool {
	c.nodesVisited++
	if time.Now().After(c.deadline) {
		return false
	}

	c.evaluateCandidate(h)

	if i >= len(c.melds) {
		return true
	}

	if !c.explore(i+1, h) {
		return false
	}

	m := c.melds[i]
	if c.invalid.Has(i) || !conflict.CanPlay(h, m) {
		return true
	}

	removeTiles(h, m)
	c.active = append(c.active, i)
	newlyInvalid := c.invalid.MarkConflicting(m, h, c.idx, c.melds)

	ok := c.explore(i+1, h)

	c.invalid.Unmark(newlyInvalid)
	c.active = c.active[:len(c.active)-1]
	restoreTiles(h, m)

	return ok
}

func removeTiles(h *hand.Hand, m meld.Meld) {
	for _, t := range m.Tiles {
		h.Remove(t)
	}
}

func restoreTiles(h *hand.Hand, m meld.Meld) {
	for _, t := range m.Tiles {
		h.Add(t)
	}
}

func (c *ctx) evaluateCandidate(h *hand.Hand) {
	if !h.Beats(c.handToBeat) {
		return
	}
	played := make([]meld.Meld, len(c.active))
	for i, id := range c.active {
		played[i] = c.melds[id]
	}
	if !c.debt.Satisfied(played) {
		return
	}
	score := c.quality.Evaluate(h)
	if c.best != nil && score <= c.best.Score {
		return
	}
	c.best = &Result{Melds: append([]meld.Meld(nil), played...), Score: score}
}
