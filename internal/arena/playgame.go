package arena

import (
	"context"
	"fmt"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/pkg/common"
)

func playGame(
	ctx context.Context,
	engineA, engineB IEngine,
	tc TimeControl,
	info gameInfo,
	logger zerolog.Logger,
) (gameResult, error) {

	logger.Debug().Int("game", info.gameNumber).Msg("started game")

	engineA.Clear()
	engineB.Clear()

	var pos, err = common.NewPositionFromFEN(info.opening)
	if err != nil {
		return gameResult{}, err
	}
	var moves []string

	for ply := 0; ; ply++ {
		if pos.IsCheckmate() {
			var points int
			if pos.WhiteMove() {
				points = gameResultBlackWins
			} else {
				points = gameResultWhiteWins
			}
			return gameResult{gameInfo: info, moves: moves, comment: "checkmate", result: points}, nil
		}
		if reason := pos.DrawReason(); reason != chess.NoMethod {
			return gameResult{gameInfo: info, moves: moves, comment: reason.String(), result: gameResultDraw}, nil
		}
		if tc.MaxPlies > 0 && ply >= tc.MaxPlies {
			return gameResult{gameInfo: info, moves: moves, comment: "max plies", result: gameResultDraw}, nil
		}
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}

		var eng IEngine
		if pos.WhiteMove() == info.engineAIsWhite {
			eng = engineA
		} else {
			eng = engineB
		}
		var searchResult = search(ctx, eng, tc, &pos)
		var bestMove = searchResult.Move
		if !common.ContainsMove(pos.LegalMoves(), bestMove) {
			return gameResult{}, fmt.Errorf("bad move %v in %v", bestMove, pos.FEN())
		}
		moves = append(moves, pos.MoveSAN(bestMove))
		pos = pos.MakeMove(bestMove)
	}
}

func search(ctx context.Context, eng IEngine, tc TimeControl, p *common.Position) common.SearchInfo {
	if tc.FixedTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tc.FixedTime)
		defer cancel()
	}
	return eng.Search(ctx, p)
}
