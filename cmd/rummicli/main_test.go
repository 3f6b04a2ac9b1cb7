package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/matryer/is"

	"github.com/tilecraft/rummisolve/config"
	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meldsearch"
)

func newTestREPL(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	l, err := readline.NewEx(&readline.Config{
		Stdin:  io.NopCloser(strings.NewReader("")),
		Stdout: &out,
		Stderr: &out,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &repl{
		l:     l,
		h:     hand.New(),
		table: nil,
		memo:  meldsearch.NewMemo(0.01),
		cfg:   &config.Config{DefaultTimeLimitMs: 500, MemoMemoryFraction: 0.01},
	}, &out
}

func TestHandAddAccumulatesTiles(t *testing.T) {
	is := is.New(t)
	r, out := newTestREPL(t)
	r.handCommand([]string{"add", "r5", "b7"})
	is.Equal(r.h.Size(), 2)
	is.True(strings.Contains(out.String(), "r5"))
}

func TestHandClearEmptiesHand(t *testing.T) {
	is := is.New(t)
	r, _ := newTestREPL(t)
	r.handCommand([]string{"add", "r5"})
	r.handCommand([]string{"clear"})
	is.Equal(r.h.Size(), 0)
}

func TestHandAddRejectsMalformedTile(t *testing.T) {
	is := is.New(t)
	r, out := newTestREPL(t)
	r.handCommand([]string{"add", "zz"})
	is.Equal(r.h.Size(), 0)
	is.True(strings.Contains(out.String(), "Error"))
}

func TestTableAddBuildsAValidMeld(t *testing.T) {
	is := is.New(t)
	r, _ := newTestREPL(t)
	r.tableCommand([]string{"add", "group", "r7", "b7", "y7"})
	is.Equal(len(r.table), 1)
}

func TestTableAddRejectsInvalidMeld(t *testing.T) {
	is := is.New(t)
	r, out := newTestREPL(t)
	r.tableCommand([]string{"add", "group", "r7", "r7", "r7"})
	is.Equal(len(r.table), 0)
	is.True(strings.Contains(out.String(), "Error"))
}

func TestSolveCommandFindsAnImprovingPlay(t *testing.T) {
	is := is.New(t)
	r, out := newTestREPL(t)
	r.handCommand([]string{"add", "r7", "b7", "y7", "r1"})
	r.solveCommand([]string{"tiles", "1000"})
	is.True(strings.Contains(out.String(), "quality"))
}

func TestSolveCommandReportsNoImprovement(t *testing.T) {
	is := is.New(t)
	r, out := newTestREPL(t)
	r.handCommand([]string{"add", "r1", "b2"})
	r.solveCommand([]string{"tiles", "100"})
	is.True(strings.Contains(out.String(), "no improving move"))
}

func TestExecuteQuitReturnsTrue(t *testing.T) {
	is := is.New(t)
	r, _ := newTestREPL(t)
	is.True(r.execute("quit"))
	is.True(!r.execute("hand show"))
}
