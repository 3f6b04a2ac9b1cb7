package solverapi

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/tile"
	"github.com/tilecraft/rummisolve/translate"
)

func TestSolveRejectsMalformedTile(t *testing.T) {
	is := is.New(t)
	req := Request{Hand: []string{"g5"}, Strategy: "tiles", TimeLimitMs: 100}
	resp := Solve(context.Background(), req, nil)
	is.True(!resp.Success)
	is.True(resp.Error != "")
}

func TestSolveRejectsMalformedTableMeld(t *testing.T) {
	is := is.New(t)
	req := Request{
		Hand:        []string{"r5"},
		Table:       []MeldWire{{Type: "group", Tiles: []string{"r5", "r5"}}},
		Strategy:    "tiles",
		TimeLimitMs: 100,
	}
	resp := Solve(context.Background(), req, nil)
	is.True(!resp.Success)
}

func TestSolveRejectsUnknownStrategy(t *testing.T) {
	is := is.New(t)
	req := Request{Hand: []string{"r5"}, Strategy: "bogus", TimeLimitMs: 100}
	resp := Solve(context.Background(), req, nil)
	is.True(!resp.Success)
}

func TestSolveRejectsNonPositiveTimeLimit(t *testing.T) {
	is := is.New(t)
	req := Request{Hand: []string{"r5"}, Strategy: "tiles", TimeLimitMs: 0}
	resp := Solve(context.Background(), req, nil)
	is.True(!resp.Success)
	is.True(resp.Error != "")

	req.TimeLimitMs = -100
	resp = Solve(context.Background(), req, nil)
	is.True(!resp.Success)
	is.True(resp.Error != "")
}

func TestSolvePlaysAGroupFromHand(t *testing.T) {
	is := is.New(t)
	req := Request{
		Hand:        []string{"r7", "b7", "y7", "r1"},
		Strategy:    "tiles",
		TimeLimitMs: 2000,
	}
	resp := Solve(context.Background(), req, nil)
	is.True(resp.Success)
	is.True(resp.SearchCompleted)
	is.True(len(resp.Moves) > 0)
	is.True(len(resp.HumanMoves) > 0)
	is.Equal(resp.HumanMoves[0].Kind, "play_from_hand")
}

func TestSolveReportsNoImprovement(t *testing.T) {
	is := is.New(t)
	req := Request{Hand: []string{"r1", "b2"}, Strategy: "tiles", TimeLimitMs: 100}
	resp := Solve(context.Background(), req, nil)
	is.True(resp.Success)
	is.Equal(len(resp.Moves), 0)
	is.Equal(resp.FinalQuality, resp.InitialQuality)
}

func TestParseAndMarshalJSONRoundTrip(t *testing.T) {
	is := is.New(t)
	body := []byte(`{"hand":["r5","w"],"table":[],"strategy":"points","time_limit_ms":500}`)
	req, err := ParseJSON(body)
	is.NoErr(err)
	is.Equal(req.Hand, []string{"r5", "w"})
	is.Equal(req.Strategy, "points")

	resp := Response{Success: true, SearchCompleted: true}
	out, err := MarshalJSON(resp)
	is.NoErr(err)
	is.True(len(out) > 0)
}

func TestSolveAcceptsUppercaseTiles(t *testing.T) {
	is := is.New(t)
	req := Request{Hand: []string{"R7", "B7", "Y7", "R1"}, Strategy: "tiles", TimeLimitMs: 2000}
	resp := Solve(context.Background(), req, nil)
	is.True(resp.Success)
	is.True(len(resp.Moves) > 0)
}

func TestEncodeHumanMoveTakeFromMeld(t *testing.T) {
	is := is.New(t)
	original := meld.New(meld.Run, []tile.Tile{
		tile.New(tile.Red, 1), tile.New(tile.Red, 2), tile.New(tile.Red, 3),
		tile.New(tile.Red, 4), tile.New(tile.Red, 5), tile.New(tile.Red, 6),
	})
	remaining := meld.New(meld.Run, []tile.Tile{tile.New(tile.Red, 1), tile.New(tile.Red, 2), tile.New(tile.Red, 3)})
	mv := translate.Move{
		Kind:       translate.TakeFromMeld,
		Original:   original,
		Remaining:  remaining,
		TakenTiles: []tile.Tile{tile.New(tile.Red, 4), tile.New(tile.Red, 5), tile.New(tile.Red, 6)},
	}
	hm := encodeHumanMove(mv)
	is.Equal(hm.Kind, "take_from_meld")
	is.True(hm.Original != nil)
	is.True(hm.Remaining != nil)
	is.Equal(hm.Remaining.Tiles, []string{"r1", "r2", "r3"})
	is.Equal(hm.TakenTiles, []string{"r4", "r5", "r6"})
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	req := Request{Hand: []string{"r5"}, Strategy: "tiles", TimeLimitMs: 5000}
	resp := Solve(ctx, req, nil)
	is.True(resp.Success)
}
