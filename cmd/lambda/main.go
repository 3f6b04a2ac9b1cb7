// cmd/lambda wraps solverapi.Solve behind an AWS Lambda handler: config
// loaded once at cold start, zerolog level set from it, and
// lambda.Start(HandleRequest) as the entry point. The handler is a pure
// request/response function, with nothing to connect to before
// lambda.Start.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tilecraft/rummisolve/config"
	"github.com/tilecraft/rummisolve/meldsearch"
	"github.com/tilecraft/rummisolve/solverapi"
)

var cfg config.Config
var memo *meldsearch.Memo

func init() {
	v := config.NewViper()
	cfg.DefaultTimeLimitMs = 2000
	cfg.MemoMemoryFraction = 0.01
	cfg.LoadFromViper(v)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	memo = meldsearch.NewMemo(cfg.MemoMemoryFraction)
}

// HandleRequest is the Lambda entry point: decode a solverapi.Request,
// run the search, return the solverapi.Response. A rejected request is
// not a Go error. It comes back as Response{Success:false}, so API
// Gateway always sees a 200 with the failure described in the body.
func HandleRequest(ctx context.Context, req solverapi.Request) (solverapi.Response, error) {
	if req.TimeLimitMs == 0 {
		req.TimeLimitMs = cfg.DefaultTimeLimitMs
	}
	resp := solverapi.Solve(ctx, req, memo)
	if !resp.Success {
		log.Warn().Str("error", resp.Error).Msg("solve request rejected")
	}
	return resp, nil
}

func main() {
	lambda.Start(HandleRequest)
}
