package meldsearch

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/pbnjay/memory"

	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/tile"
)

// memoEntrySize approximates the bytes one cached Result costs: a handful
// of tile bytes plus bookkeeping.
const memoEntrySize = 96

// Memo caches find_best_melds results across movesearch's repeated calls
// at different pickup depths, sized as a fraction of total system
// memory.
type Memo struct {
	mu       sync.Mutex
	entries  map[uint64]Result
	capacity int
}

// NewMemo builds a cache sized to hold roughly fractionOfMemory of total
// system memory worth of entries.
func NewMemo(fractionOfMemory float64) *Memo {
	total := memory.TotalMemory()
	cap := int(fractionOfMemory * float64(total) / memoEntrySize)
	if cap < 1024 {
		cap = 1024
	}
	return &Memo{entries: make(map[uint64]Result), capacity: cap}
}

// key hashes everything a find_best_melds result actually depends on:
// the working hand, the quality strategy, the baseline hand it must
// beat, and the wild debt it must satisfy. Two searches that reach the
// same working hand by different paths (different picked-up table
// melds) can still owe different wild debts or face different
// baselines, so all four go into the hash.
func key(h *hand.Hand, quality Quality, handToBeat *hand.Hand, debt WildDebt) uint64 {
	d := xxhash.New()
	writeHand(d, h)
	d.Write([]byte{byte(quality)})
	writeHand(d, handToBeat)
	writeDebt(d, debt)
	return d.Sum64()
}

func writeHand(d *xxhash.Digest, h *hand.Hand) {
	for _, t := range h.Tiles() {
		var buf [9]byte
		buf[0] = byte(t)
		binary.LittleEndian.PutUint64(buf[1:], uint64(h.CountOf(t)))
		d.Write(buf[:])
	}
}

func writeDebt(d *xxhash.Digest, debt WildDebt) {
	concreteKeys := make([]tile.Tile, 0, len(debt.concrete))
	for t := range debt.concrete {
		concreteKeys = append(concreteKeys, t)
	}
	sort.Slice(concreteKeys, func(i, j int) bool { return concreteKeys[i] < concreteKeys[j] })
	for _, t := range concreteKeys {
		var buf [9]byte
		buf[0] = byte(t)
		binary.LittleEndian.PutUint64(buf[1:], uint64(debt.concrete[t]))
		d.Write(buf[:])
	}

	pairs := make([][2]tile.Tile, len(debt.eitherOr))
	copy(pairs, debt.eitherOr)
	for i := range pairs {
		if pairs[i][0] > pairs[i][1] {
			pairs[i][0], pairs[i][1] = pairs[i][1], pairs[i][0]
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, p := range pairs {
		d.Write([]byte{byte(p[0]), byte(p[1])})
	}
}

// Get returns a previously cached result, if present, for the exact
// (hand, quality, baseline, debt) combination.
func (m *Memo) Get(h *hand.Hand, quality Quality, handToBeat *hand.Hand, debt WildDebt) (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.entries[key(h, quality, handToBeat, debt)]
	return r, ok
}

// Put stores a result, refusing new entries once the cache is at
// capacity rather than evicting (a simple bound, not an LRU).
func (m *Memo) Put(h *hand.Hand, quality Quality, handToBeat *hand.Hand, debt WildDebt, r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.capacity {
		return
	}
	m.entries[key(h, quality, handToBeat, debt)] = r
}

// approxCapacity exposes the computed entry budget, useful for logging
// and tests; not used for correctness.
func (m *Memo) approxCapacity() int {
	return m.capacity
}
