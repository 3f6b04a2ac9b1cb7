package main

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/tilecraft/rummisolve/meldsearch"
	"github.com/tilecraft/rummisolve/solverapi"
)

func TestHandleRequestFillsInDefaultTimeLimit(t *testing.T) {
	is := is.New(t)
	memo = meldsearch.NewMemo(0.01)
	req := solverapi.Request{Hand: []string{"r7", "b7", "y7"}, Strategy: "tiles"}
	resp, err := HandleRequest(context.Background(), req)
	is.NoErr(err)
	is.True(resp.Success)
	is.True(resp.SearchCompleted)
}

func TestHandleRequestSurfacesRejectionAsFailureNotError(t *testing.T) {
	is := is.New(t)
	memo = meldsearch.NewMemo(0.01)
	req := solverapi.Request{Hand: []string{"zz"}, Strategy: "tiles", TimeLimitMs: 100}
	resp, err := HandleRequest(context.Background(), req)
	is.NoErr(err)
	is.True(!resp.Success)
}
