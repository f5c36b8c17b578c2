package tactic

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/pkg/common"
)

type IEngine interface {
	Clear()
	Search(ctx context.Context, p *common.Position) common.SearchInfo
}

type Result struct {
	Solved int
	Total  int
	Failed []string
}

// Solve searches every test with a fresh cache and counts the tests where
// the engine picks one of the best moves.
func Solve(ctx context.Context, tests []EpdItem, eng IEngine, moveTime time.Duration,
	logger zerolog.Logger) (Result, error) {
	var result Result
	var start = time.Now()
	for i := range tests {
		var test = &tests[i]
		eng.Clear()
		var info = search(ctx, eng, moveTime, &test.Position)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Total++
		if common.ContainsMove(test.BestMoves, info.Move) {
			result.Solved++
		} else {
			var name = test.ID
			if name == "" {
				name = test.content
			}
			result.Failed = append(result.Failed, name)
		}
		logger.Info().
			Int("solved", result.Solved).
			Int("total", result.Total).
			Str("id", test.ID).
			Int("score", info.Score).
			Int64("nodes", info.Nodes).
			Msg("tactic")
	}
	logger.Info().
		Int("solved", result.Solved).
		Int("total", result.Total).
		Dur("elapsed", time.Since(start)).
		Msg("tactic finished")
	return result, nil
}

func search(ctx context.Context, eng IEngine, moveTime time.Duration, p *common.Position) common.SearchInfo {
	if moveTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, moveTime)
		defer cancel()
	}
	return eng.Search(ctx, p)
}
