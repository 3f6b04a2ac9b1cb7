// Package movesearch implements find_best_moves: iterative deepening over
// how many table melds to pick up (k = 0..MaxPickupDepth), delegating
// each configuration's hand-side search to meldsearch.FindBest and
// keeping the best-scoring solution seen across all of them.
package movesearch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/meldsearch"
)

// MaxPickupDepth is the compile-time ceiling on how many table melds a
// single move search will consider picking up at once: the point beyond
// which the combinatorial cost of enumerating C(|table|, k) subsets
// stops paying for itself against the wall-clock budget in practice.
const MaxPickupDepth = 5

// Kind distinguishes the two primitive move types a solution is built
// from.
type Kind uint8

const (
	PickUp Kind = iota
	LayDown
)

// Move is one step of a solution: either pick up the table meld at
// TableIndex, or lay down Meld from the working hand.
type Move struct {
	Kind       Kind
	TableIndex int
	Meld       meld.Meld
}

// Result is the full outcome of a move search, independent of any wire
// framing.
type Result struct {
	Moves           []Move
	SearchCompleted bool
	DepthReached    int
	InitialQuality  int
	FinalQuality    int
}

type candidate struct {
	moves []Move
	score int
}

// FindBest searches for the best sequence of pickups followed by
// lay-downs, given the current table and hand. deadline bounds the whole
// search: the context (parent combined with deadline) is checked between
// outer (depth) iterations, and deadline itself is polled between pickup
// subsets and inside meldsearch.FindBest.
func FindBest(parent context.Context, table []meld.Meld, h *hand.Hand, quality meldsearch.Quality, deadline time.Time, memo *meldsearch.Memo) Result {
	ctx, cancel := context.WithDeadline(parent, deadline)
	defer cancel()

	originalHand := h.Clone()
	initialQuality := quality.Evaluate(originalHand)

	maxDepth := len(table)
	if maxDepth > MaxPickupDepth {
		maxDepth = MaxPickupDepth
	}

	var best *candidate
	depthReached := 0
	completed := true

	for depth := 0; depth <= maxDepth; depth++ {
		select {
		case <-ctx.Done():
			completed = false
		default:
		}
		if !completed {
			break
		}
		depthReached = depth

		ok := tryDepth(table, h, originalHand, depth, quality, deadline, memo, &best)
		if !ok {
			completed = false
			break
		}
	}
	if completed && depthReached == maxDepth && len(table) > MaxPickupDepth {
		// The table has more melds than MaxPickupDepth allows exploring;
		// every reachable depth was searched, but the full table was not.
		completed = false
	}

	*h = *originalHand

	finalQuality := initialQuality
	var moves []Move
	if best != nil {
		moves = best.moves
		finalQuality = best.score
	}

	log.Debug().
		Int("depth_reached", depthReached).
		Bool("search_completed", completed).
		Int("initial_quality", initialQuality).
		Int("final_quality", finalQuality).
		Msg("find_best_moves done")

	return Result{
		Moves:           moves,
		SearchCompleted: completed,
		DepthReached:    depthReached,
		InitialQuality:  initialQuality,
		FinalQuality:    finalQuality,
	}
}

// tryDepth tries every depth-sized subset of table indices, evaluating
// each against h (mutated and restored in place). Returns false if the
// deadline was hit mid-enumeration.
func tryDepth(table []meld.Meld, h, originalHand *hand.Hand, depth int, quality meldsearch.Quality, deadline time.Time, memo *meldsearch.Memo, best **candidate) bool {
	if depth == 0 {
		return tryCombination(table, h, originalHand, nil, quality, deadline, memo, best)
	}
	if depth > len(table) {
		return true
	}
	ok := true
	combinations(len(table), depth)(func(combo []int) bool {
		if time.Now().After(deadline) {
			ok = false
			return false
		}
		if !tryCombination(table, h, originalHand, combo, quality, deadline, memo, best) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// tryCombination picks up the table melds at indices, searches the
// resulting hand, and records the solution if it improves on *best.
func tryCombination(table []meld.Meld, h, originalHand *hand.Hand, indices []int, quality meldsearch.Quality, deadline time.Time, memo *meldsearch.Memo, best **candidate) bool {
	picked := make([]meld.Meld, len(indices))
	for i, idx := range indices {
		picked[i] = table[idx]
		for _, t := range table[idx].Tiles {
			h.Add(t)
		}
	}

	debt := meldsearch.ComputeWildDebt(picked)
	result, completed := meldsearch.FindBest(h, quality, originalHand, debt, deadline, memo)

	if result != nil {
		moves := make([]Move, 0, len(indices)+len(result.Melds))
		for _, idx := range indices {
			moves = append(moves, Move{Kind: PickUp, TableIndex: idx})
		}
		for _, m := range result.Melds {
			moves = append(moves, Move{Kind: LayDown, Meld: m})
		}
		if *best == nil || result.Score > (*best).score {
			*best = &candidate{moves: moves, score: result.Score}
		}
	}

	for i := len(indices) - 1; i >= 0; i-- {
		for _, t := range table[indices[i]].Tiles {
			h.Remove(t)
		}
	}

	return completed
}

// combinations yields every depth-sized subset of [0, n) in ascending
// lexicographic index order.
func combinations(n, depth int) func(func([]int) bool) {
	return func(yield func([]int) bool) {
		if depth == 0 || depth > n {
			return
		}
		idx := make([]int, depth)
		for i := range idx {
			idx[i] = i
		}
		for {
			cp := make([]int, depth)
			copy(cp, idx)
			if !yield(cp) {
				return
			}
			i := depth - 1
			for i >= 0 && idx[i] == n-depth+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < depth; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}
