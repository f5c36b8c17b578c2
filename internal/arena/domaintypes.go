package arena

import (
	"context"
	"io"
	"time"

	"github.com/pawnstorm/counterbot/pkg/common"
)

const (
	gameResultDraw = iota
	gameResultWhiteWins
	gameResultBlackWins
)

type IEngine interface {
	Clear()
	Search(ctx context.Context, p *common.Position) common.SearchInfo
}

type EngineFactory func() IEngine

// Node budgets belong to the engines themselves.
type TimeControl struct {
	FixedTime time.Duration
	// games still running after MaxPlies half-moves are scored as draws
	MaxPlies int
}

type Config struct {
	Concurrency int
	Openings    []string
	TimeControl TimeControl
	// finished games are written here in PGN when set
	PGN io.Writer
}

type gameInfo struct {
	opening        string
	engineAIsWhite bool
	gameNumber     int
}

type gameResult struct {
	gameInfo gameInfo
	moves    []string
	comment  string
	result   int
}

type Result struct {
	Wins   int
	Losses int
	Draws  int
	GameStatistics
}
