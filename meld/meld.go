// Package meld implements the run and group meld model: an ordered
// tile sequence with an explicit type tag, validation, and tile-points
// computation.
package meld

import (
	"fmt"

	"github.com/tilecraft/rummisolve/tile"
)

// Type distinguishes a run from a group.
type Type uint8

const (
	Group Type = iota
	Run
)

func (ty Type) String() string {
	if ty == Run {
		return "run"
	}
	return "group"
}

const (
	MinGroupSize = 3
	MaxGroupSize = 4
	MinRunLength = 3
	MaxRunLength = 13
)

// Meld is an ordered, validated tile sequence.
type Meld struct {
	Type  Type
	Tiles []tile.Tile
}

// New builds a meld without validating it; use Validate to check
// invariants. Enumerator call sites are trusted to only ever construct
// already-legal melds, so validation is reserved for request
// boundaries parsing untrusted input.
func New(ty Type, tiles []tile.Tile) Meld {
	cp := make([]tile.Tile, len(tiles))
	copy(cp, tiles)
	return Meld{Type: ty, Tiles: cp}
}

// Validate checks the meld invariants against the declared type.
func (m Meld) Validate() error {
	switch m.Type {
	case Group:
		return m.validateGroup()
	case Run:
		return m.validateRun()
	default:
		return fmt.Errorf("malformed meld: unknown type %v", m.Type)
	}
}

func (m Meld) validateGroup() error {
	n := len(m.Tiles)
	if n < MinGroupSize || n > MaxGroupSize {
		return fmt.Errorf("malformed meld: group has %d tiles, want 3-4", n)
	}
	var number int
	haveNumber := false
	seenColors := map[tile.Color]bool{}
	realTiles := 0
	for _, t := range m.Tiles {
		if t.IsWild() {
			continue
		}
		realTiles++
		if !haveNumber {
			number = t.Number()
			haveNumber = true
		} else if t.Number() != number {
			return fmt.Errorf("malformed meld: group has mismatched numbers")
		}
		if seenColors[t.Color()] {
			return fmt.Errorf("malformed meld: group has duplicate color")
		}
		seenColors[t.Color()] = true
	}
	if realTiles == 0 {
		return fmt.Errorf("malformed meld: group has no real tiles")
	}
	return nil
}

func (m Meld) validateRun() error {
	n := len(m.Tiles)
	if n < MinRunLength || n > MaxRunLength {
		return fmt.Errorf("malformed meld: run has %d tiles, want 3-13", n)
	}
	var color tile.Color
	haveColor := false
	start := -1
	realTiles := 0
	for i, t := range m.Tiles {
		if t.IsWild() {
			continue
		}
		realTiles++
		if !haveColor {
			color = t.Color()
			haveColor = true
		} else if t.Color() != color {
			return fmt.Errorf("malformed meld: run has mismatched colors")
		}
		thisStart := t.Number() - i
		if start == -1 {
			start = thisStart
		} else if thisStart != start {
			return fmt.Errorf("malformed meld: run numbers are not consecutive")
		}
	}
	if realTiles == 0 {
		return fmt.Errorf("malformed meld: run has no real tiles")
	}
	if start < 1 || start+n-1 > tile.MaxNumber {
		return fmt.Errorf("malformed meld: run out of 1-13 range")
	}
	return nil
}

// SlotValue returns the face value a tile at position i within this meld
// represents: for a run, start+i; for a group, the group's number.
// Wildcards use this for their points contribution.
func (m Meld) SlotValue(i int) int {
	switch m.Type {
	case Group:
		for _, t := range m.Tiles {
			if !t.IsWild() {
				return t.Number()
			}
		}
	case Run:
		start := m.runStart()
		return start + i
	}
	return 0
}

func (m Meld) runStart() int {
	for i, t := range m.Tiles {
		if !t.IsWild() {
			return t.Number() - i
		}
	}
	return 0
}

// Points is the meld's tile-points value: the sum of represented numbers,
// with each wildcard taking the value of the slot it occupies.
func (m Meld) Points() int {
	total := 0
	for i := range m.Tiles {
		total += m.SlotValue(i)
	}
	return total
}

// HasWild reports whether any tile in the meld is a wildcard.
func (m Meld) HasWild() bool {
	for _, t := range m.Tiles {
		if t.IsWild() {
			return true
		}
	}
	return false
}

// WildPositions returns the indices of wildcard tiles within the meld.
func (m Meld) WildPositions() []int {
	var out []int
	for i, t := range m.Tiles {
		if t.IsWild() {
			out = append(out, i)
		}
	}
	return out
}

// TilesEqual reports whether a and b consist of the same ordered tile
// identities, or, for runs only, the exact reverse.
func TilesEqual(a, b Meld) bool {
	if a.Type != b.Type || len(a.Tiles) != len(b.Tiles) {
		return false
	}
	same := true
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			same = false
			break
		}
	}
	if same {
		return true
	}
	if a.Type != Run {
		return false
	}
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[len(b.Tiles)-1-i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the meld's tile slice.
func (m Meld) Clone() Meld {
	return New(m.Type, m.Tiles)
}
