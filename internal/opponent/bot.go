package opponent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

var ErrNoMove = errors.New("bot has no move")

const (
	DefaultThinkMin = 1 * time.Second
	DefaultThinkMax = 2 * time.Second
)

type IEngine interface {
	Search(ctx context.Context, p *common.Position) common.SearchInfo
	Clear()
}

// Bot is the computer side of one game. Think calls are serialized
// since the engine and its cache belong to this bot alone.
type Bot struct {
	ThinkMin time.Duration
	ThinkMax time.Duration
	Random   common.Random
	Logger   zerolog.Logger
	engine   IEngine
	mu       sync.Mutex
}

func NewBot(eng IEngine) *Bot {
	return &Bot{
		ThinkMin: DefaultThinkMin,
		ThinkMax: DefaultThinkMax,
		Random:   frand.New(),
		Logger:   zerolog.Nop(),
		engine:   eng,
	}
}

func NewBotWithDifficulty(d engine.Difficulty) *Bot {
	return NewBot(engine.NewEngine(d))
}

// Think waits a random delay and then searches. When ctx is done before
// a move is ready it returns ctx.Err() and no move; a move computed for a
// finished game is dropped. Internal failures are reported as ErrNoMove.
func (b *Bot) Think(ctx context.Context, p *common.Position) (move *chess.Move, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			b.Logger.Error().
				Interface("panic", r).
				Str("fen", p.FEN()).
				Msg("bot search failed")
			move = nil
			err = fmt.Errorf("%w: %v", ErrNoMove, r)
		}
	}()

	if err := sleep(ctx, b.thinkTime()); err != nil {
		return nil, err
	}

	var info = b.engine.Search(ctx, p)
	if err := ctx.Err(); err != nil {
		b.Logger.Debug().Msg("move discarded, game finished while thinking")
		return nil, err
	}
	if info.Move == nil {
		return nil, ErrNoMove
	}
	b.Logger.Info().
		Str("move", p.MoveSAN(info.Move)).
		Int("score", info.Score).
		Int64("nodes", info.Nodes).
		Bool("random", info.Random).
		Dur("time", info.Time).
		Msg("bot move")
	return info.Move, nil
}

func (b *Bot) NewGame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.engine.Clear()
}

func (b *Bot) thinkTime() time.Duration {
	if b.ThinkMax <= b.ThinkMin {
		return b.ThinkMin
	}
	var spread = int(b.ThinkMax-b.ThinkMin) / int(time.Millisecond)
	if spread <= 0 || b.Random == nil {
		return b.ThinkMin
	}
	return b.ThinkMin + time.Duration(b.Random.Intn(spread+1))*time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	var timer = time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
