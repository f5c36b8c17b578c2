package arena

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/pgn"
)

func showResults(
	ctx context.Context,
	gameResults <-chan gameResult,
	pgnOut io.Writer,
	logger zerolog.Logger,
) (Result, error) {
	var games = 0
	var wins, losses, draws int
	var writeErr error
	for gameResult := range gameResults {
		games++
		if pgnOut != nil && writeErr == nil {
			writeErr = pgn.Write(pgnOut, pgnGame(gameResult))
			if writeErr != nil {
				logger.Error().Err(writeErr).Msg("write pgn failed")
			}
		}
		logger.Info().
			Int("game", gameResult.gameInfo.gameNumber).
			Str("result", gameResultString(gameResult.result)).
			Str("comment", gameResult.comment).
			Str("moves", strings.Join(gameResult.moves, " ")).
			Msg("finished game")
		if gameResult.result == gameResultDraw {
			draws++
		} else if gameResult.result == gameResultWhiteWins && gameResult.gameInfo.engineAIsWhite ||
			gameResult.result == gameResultBlackWins && !gameResult.gameInfo.engineAIsWhite {
			wins++
		} else {
			losses++
		}
		var stat = computeStat(wins, losses, draws)
		logger.Info().
			Int("wins", wins).
			Int("losses", losses).
			Int("draws", draws).
			Int("games", games).
			Float64("winningFraction", stat.WinningFraction).
			Float64("eloDifference", stat.EloDifference).
			Float64("los", stat.LOS).
			Msg("score")
	}
	return Result{
		Wins:           wins,
		Losses:         losses,
		Draws:          draws,
		GameStatistics: computeStat(wins, losses, draws),
	}, ctx.Err()
}

type GameStatistics struct {
	WinningFraction float64
	EloDifference   float64
	LOS             float64
}

//https://www.chessprogramming.org/Match_Statistics
func computeStat(wins, losses, draws int) GameStatistics {
	var games = wins + losses + draws
	if games == 0 {
		return GameStatistics{WinningFraction: 0.5, LOS: 0.5}
	}
	var winningFraction = (float64(wins) + 0.5*float64(draws)) / float64(games)
	var eloDifference = -math.Log(1/winningFraction-1) * 400 / math.Ln10
	var los = 0.5
	if wins+losses > 0 {
		los = 0.5 + 0.5*math.Erf(float64(wins-losses)/math.Sqrt(2*float64(wins+losses)))
	}
	return GameStatistics{
		WinningFraction: winningFraction,
		EloDifference:   eloDifference,
		LOS:             los,
	}
}

func gameResultString(v int) string {
	if v == gameResultWhiteWins {
		return "1-0"
	}
	if v == gameResultBlackWins {
		return "0-1"
	}
	if v == gameResultDraw {
		return "1/2-1/2"
	}
	return ""
}

func pgnGame(res gameResult) pgn.Game {
	var white, black = "A", "B"
	if !res.gameInfo.engineAIsWhite {
		white, black = black, white
	}
	return pgn.Game{
		Tags: []pgn.Tag{
			{Key: "Event", Value: "arena"},
			{Key: "Round", Value: strconv.Itoa(res.gameInfo.gameNumber)},
			{Key: "White", Value: white},
			{Key: "Black", Value: black},
			{Key: "SetUp", Value: "1"},
			{Key: "FEN", Value: res.gameInfo.opening},
			{Key: "Termination", Value: res.comment},
		},
		Moves:  res.moves,
		Result: gameResultString(res.result),
	}
}
