// Package solverapi implements the external request/response interface:
// JSON request parsing, input validation, and the response document
// describing a move search's outcome. It is the one fallible boundary
// in front of an otherwise pure core.
package solverapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/meldsearch"
	"github.com/tilecraft/rummisolve/movesearch"
	"github.com/tilecraft/rummisolve/tile"
	"github.com/tilecraft/rummisolve/translate"
)

// caseFolder normalizes wire-format tile strings ("R5", "K12", "W") to the
// lowercase form tile.Parse expects, so a request built by hand (or by a
// client on a platform with different casing conventions) isn't rejected
// on casing alone.
var caseFolder = cases.Lower(language.Und)

// Request is the wire request: a hand, the current table, a scoring
// strategy, and a wall-clock budget.
type Request struct {
	Hand        []string   `json:"hand"`
	Table       []MeldWire `json:"table"`
	Strategy    string     `json:"strategy"`
	TimeLimitMs int        `json:"time_limit_ms"`
}

// MeldWire is the wire representation of a meld: a type tag plus its
// ordered tiles.
type MeldWire struct {
	Type  string   `json:"type"`
	Tiles []string `json:"tiles"`
}

// Move is one raw operation in the response's `moves` list.
type Move struct {
	Action string    `json:"action"`
	Index  *int      `json:"index,omitempty"`
	Meld   *MeldWire `json:"meld,omitempty"`
}

// HumanMove is one entry in the response's `human_moves` list.
type HumanMove struct {
	Kind          string     `json:"kind"`
	Original      *MeldWire  `json:"original,omitempty"`
	Result        *MeldWire  `json:"result,omitempty"`
	AddedTiles    []string   `json:"added_tiles,omitempty"`
	TakenTiles    []string   `json:"taken_tiles,omitempty"`
	Remaining     *MeldWire  `json:"remaining,omitempty"`
	Parts         []MeldWire `json:"parts,omitempty"`
	Sources       []MeldWire `json:"sources,omitempty"`
	Swaps         []SwapWire `json:"swaps,omitempty"`
	Consumed      []MeldWire `json:"consumed,omitempty"`
	Produced      []MeldWire `json:"produced,omitempty"`
	HandTilesUsed []string   `json:"hand_tiles_used,omitempty"`
}

// SwapWire is a single replacement-tile/wild pair in a SwapWild move.
type SwapWire struct {
	Replacement string `json:"replacement"`
	Wild        string `json:"wild"`
}

// Response is the wire response.
type Response struct {
	Success         bool        `json:"success"`
	Moves           []Move      `json:"moves,omitempty"`
	HumanMoves      []HumanMove `json:"human_moves,omitempty"`
	SearchCompleted bool        `json:"search_completed"`
	DepthReached    int         `json:"depth_reached"`
	InitialQuality  int         `json:"initial_quality"`
	FinalQuality    int         `json:"final_quality"`
	Error           string      `json:"error,omitempty"`
}

// Solve validates req, runs the move search, and builds a Response. It
// never returns a Go error: every failure mode (malformed tile,
// malformed meld, malformed time limit) is reported as success=false
// with an error message. memo may be nil.
func Solve(ctx context.Context, req Request, memo *meldsearch.Memo) Response {
	h, table, quality, err := parseRequest(req)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	limit := time.Duration(req.TimeLimitMs) * time.Millisecond
	deadline := time.Now().Add(limit)

	result := movesearch.FindBest(ctx, table, h, quality, deadline, memo)

	humanMoves := translate.ToHumanMoves(table, h, result.Moves)

	return Response{
		Success:         true,
		Moves:           encodeMoves(result.Moves),
		HumanMoves:      encodeHumanMoves(humanMoves),
		SearchCompleted: result.SearchCompleted,
		DepthReached:    result.DepthReached,
		InitialQuality:  result.InitialQuality,
		FinalQuality:    result.FinalQuality,
	}
}

// ParseJSON decodes a JSON request body.
func ParseJSON(body []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, fmt.Errorf("malformed request: %w", err)
	}
	return req, nil
}

// MarshalJSON encodes resp as a JSON response body.
func MarshalJSON(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}

func parseRequest(req Request) (*hand.Hand, []meld.Meld, meldsearch.Quality, error) {
	if req.TimeLimitMs <= 0 {
		return nil, nil, 0, fmt.Errorf("malformed request: time_limit_ms must be positive, got %d", req.TimeLimitMs)
	}

	h := hand.New()
	for _, s := range req.Hand {
		t, err := tile.Parse(caseFolder.String(s))
		if err != nil {
			return nil, nil, 0, err
		}
		h.Add(t)
	}

	table := make([]meld.Meld, 0, len(req.Table))
	for i, mw := range req.Table {
		m, err := parseMeld(mw)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("table meld %d: %w", i, err)
		}
		table = append(table, m)
	}

	quality, err := parseStrategy(req.Strategy)
	if err != nil {
		return nil, nil, 0, err
	}

	return h, table, quality, nil
}

func parseMeld(mw MeldWire) (meld.Meld, error) {
	var ty meld.Type
	switch mw.Type {
	case "group":
		ty = meld.Group
	case "run":
		ty = meld.Run
	default:
		return meld.Meld{}, fmt.Errorf("malformed meld: unknown type %q", mw.Type)
	}
	tiles := make([]tile.Tile, 0, len(mw.Tiles))
	for _, s := range mw.Tiles {
		t, err := tile.Parse(caseFolder.String(s))
		if err != nil {
			return meld.Meld{}, err
		}
		tiles = append(tiles, t)
	}
	m := meld.New(ty, tiles)
	if err := m.Validate(); err != nil {
		return meld.Meld{}, err
	}
	return m, nil
}

func parseStrategy(s string) (meldsearch.Quality, error) {
	switch s {
	case "tiles":
		return meldsearch.MinTiles, nil
	case "points":
		return meldsearch.MinPoints, nil
	default:
		return 0, fmt.Errorf("malformed request: unknown strategy %q", s)
	}
}

func encodeMeld(m meld.Meld) MeldWire {
	mw := MeldWire{Tiles: make([]string, len(m.Tiles))}
	switch m.Type {
	case meld.Group:
		mw.Type = "group"
	case meld.Run:
		mw.Type = "run"
	}
	for i, t := range m.Tiles {
		mw.Tiles[i] = t.String()
	}
	return mw
}

func encodeMoves(moves []movesearch.Move) []Move {
	out := make([]Move, len(moves))
	for i, mv := range moves {
		switch mv.Kind {
		case movesearch.PickUp:
			idx := mv.TableIndex
			out[i] = Move{Action: "pickup", Index: &idx}
		case movesearch.LayDown:
			mw := encodeMeld(mv.Meld)
			out[i] = Move{Action: "laydown", Meld: &mw}
		}
	}
	return out
}

func encodeHumanMoves(moves []translate.Move) []HumanMove {
	out := make([]HumanMove, len(moves))
	for i, mv := range moves {
		out[i] = encodeHumanMove(mv)
	}
	return out
}

func encodeHumanMove(mv translate.Move) HumanMove {
	hm := HumanMove{}
	switch mv.Kind {
	case translate.PlayFromHand:
		hm.Kind = "play_from_hand"
		result := encodeMeld(mv.Result)
		hm.Result = &result
	case translate.ExtendMeld:
		hm.Kind = "extend_meld"
		original := encodeMeld(mv.Original)
		result := encodeMeld(mv.Result)
		hm.Original = &original
		hm.Result = &result
		hm.AddedTiles = tilesToStrings(mv.AddedTiles)
	case translate.TakeFromMeld:
		hm.Kind = "take_from_meld"
		original := encodeMeld(mv.Original)
		remaining := encodeMeld(mv.Remaining)
		hm.Original = &original
		hm.Remaining = &remaining
		hm.TakenTiles = tilesToStrings(mv.TakenTiles)
	case translate.SplitMeld:
		hm.Kind = "split_meld"
		original := encodeMeld(mv.Original)
		hm.Original = &original
		for _, p := range mv.Parts {
			hm.Parts = append(hm.Parts, encodeMeld(p))
		}
	case translate.JoinMelds:
		hm.Kind = "join_melds"
		result := encodeMeld(mv.Result)
		hm.Result = &result
		for _, s := range mv.Sources {
			hm.Sources = append(hm.Sources, encodeMeld(s))
		}
	case translate.SwapWild:
		hm.Kind = "swap_wild"
		original := encodeMeld(mv.Original)
		result := encodeMeld(mv.Result)
		hm.Original = &original
		hm.Result = &result
		for _, sw := range mv.Swaps {
			hm.Swaps = append(hm.Swaps, SwapWire{Replacement: sw.Replacement.String(), Wild: sw.Wild.String()})
		}
	case translate.Rearrange:
		hm.Kind = "rearrange"
		for _, c := range mv.Consumed {
			hm.Consumed = append(hm.Consumed, encodeMeld(c))
		}
		for _, p := range mv.Produced {
			hm.Produced = append(hm.Produced, encodeMeld(p))
		}
		hm.HandTilesUsed = tilesToStrings(mv.HandTilesUsed)
	}
	return hm
}

func tilesToStrings(tiles []tile.Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}
