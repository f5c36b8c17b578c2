package game

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/notnil/chess"

	"github.com/pawnstorm/counterbot/internal/opponent"
	"github.com/pawnstorm/counterbot/internal/pgn"
	"github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

func fastBot(d engine.Difficulty) *opponent.Bot {
	var e = engine.NewEngine(d)
	e.Depth = 1
	e.RandomMoveChance = 0
	e.Random = rand.New(rand.NewSource(1))
	var b = opponent.NewBot(e)
	b.ThinkMin, b.ThinkMax = 0, 0
	return b
}

func slowBot(d engine.Difficulty) *opponent.Bot {
	var b = fastBot(d)
	b.ThinkMin, b.ThinkMax = time.Minute, time.Minute
	return b
}

func waitBot(t *testing.T, s *Session) {
	t.Helper()
	var ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.WaitBot(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAndPlay(t *testing.T) {
	var store = NewStore(fastBot)
	var s, err = store.Create(CreateOptions{Difficulty: engine.Medium, HumanColor: chess.White})
	if err != nil {
		t.Fatal(err)
	}
	var state = s.State()
	if state.Status != StatusActive || state.Turn != "white" || len(state.LegalMoves) != 20 || state.Thinking {
		t.Fatal(state)
	}

	state, err = s.PlayHuman("e4")
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Moves) != 1 || state.Moves[0] != "e4" {
		t.Error(state.Moves)
	}
	waitBot(t, s)

	state = s.State()
	if len(state.Moves) != 2 || state.Turn != "white" || state.LastBotMove == "" || state.Thinking {
		t.Error(state)
	}
	if state.LastBotMove != state.Moves[1] {
		t.Error(state.LastBotMove, state.Moves)
	}
}

func TestBotMovesFirst(t *testing.T) {
	var store = NewStore(fastBot)
	var s, err = store.Create(CreateOptions{Difficulty: engine.Easy, HumanColor: chess.Black})
	if err != nil {
		t.Fatal(err)
	}
	waitBot(t, s)
	var state = s.State()
	if len(state.Moves) != 1 || state.Turn != "black" || state.HumanColor != "black" {
		t.Error(state)
	}
}

func TestIllegalMove(t *testing.T) {
	var store = NewStore(fastBot)
	var s, _ = store.Create(CreateOptions{HumanColor: chess.White})
	for _, text := range []string{"e5", "Ke2", "xyz", ""} {
		if _, err := s.PlayHuman(text); !errors.Is(err, common.ErrIllegalMove) {
			t.Error(text, err)
		}
	}
	if len(s.State().Moves) != 0 {
		t.Error(s.State().Moves)
	}
}

func TestResignWhileThinking(t *testing.T) {
	var store = NewStore(slowBot)
	var s, err = store.Create(CreateOptions{HumanColor: chess.Black})
	if err != nil {
		t.Fatal(err)
	}
	if !s.State().Thinking {
		t.Fatal("bot should be thinking")
	}
	if _, err := s.PlayHuman("e5"); !errors.Is(err, ErrNotYourTurn) {
		t.Error(err)
	}
	var state, rerr = s.Resign()
	if rerr != nil {
		t.Fatal(rerr)
	}
	if state.Status != StatusResigned || state.Winner != "white" || state.Thinking {
		t.Error(state)
	}
	waitBot(t, s)
	state = s.State()
	if len(state.Moves) != 0 || state.Status != StatusResigned {
		t.Error("move applied to a finished game", state.Moves)
	}
	if _, err := s.Resign(); !errors.Is(err, ErrGameOver) {
		t.Error(err)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	var store = NewStore(fastBot)
	var s, err = store.Create(CreateOptions{
		HumanColor: chess.White,
		FEN:        "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	var state, merr = s.PlayHuman("Ra8#")
	if merr != nil {
		t.Fatal(merr)
	}
	if state.Status != StatusCheckmate || state.Winner != "white" || state.Thinking || !state.Check {
		t.Error(state)
	}
	if _, err := s.PlayHuman("Kg2"); !errors.Is(err, ErrGameOver) {
		t.Error(err)
	}

	var g = s.PGN()
	if g.Result != pgn.ResultWhiteWin || len(g.Moves) != 1 || g.Moves[0] != "Ra8#" {
		t.Error(g)
	}
	if fen, _ := g.TagValue("FEN"); fen != "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1" {
		t.Error(fen)
	}
	if white, _ := g.TagValue("White"); white != "Human" {
		t.Error(white)
	}
}

func TestDrawnStart(t *testing.T) {
	var store = NewStore(fastBot)
	var s, err = store.Create(CreateOptions{
		HumanColor: chess.Black,
		FEN:        "8/8/4k3/8/8/3BK3/8/8 w - - 0 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	var state = s.State()
	if state.Status != StatusDraw || state.Reason == "" || state.Thinking {
		t.Error(state)
	}
}

type flakyEngine struct {
	calls int32
}

func (e *flakyEngine) Search(ctx context.Context, p *common.Position) common.SearchInfo {
	if atomic.AddInt32(&e.calls, 1) == 1 {
		return common.SearchInfo{}
	}
	return common.SearchInfo{Move: p.LegalMoves()[0]}
}

func (e *flakyEngine) Clear() {}

func TestResumeAfterBotFailure(t *testing.T) {
	var store = NewStore(func(engine.Difficulty) *opponent.Bot {
		var b = opponent.NewBot(&flakyEngine{})
		b.ThinkMin, b.ThinkMax = 0, 0
		return b
	})
	var s, err = store.Create(CreateOptions{HumanColor: chess.Black})
	if err != nil {
		t.Fatal(err)
	}
	waitBot(t, s)
	var state = s.State()
	if state.BotError == "" || state.Thinking || len(state.Moves) != 0 {
		t.Fatal(state)
	}
	if _, err := s.PlayHuman("e5"); !errors.Is(err, ErrNotYourTurn) {
		t.Error(err)
	}
	if _, err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	waitBot(t, s)
	state = s.State()
	if state.BotError != "" || len(state.Moves) != 1 {
		t.Error(state)
	}
}

func TestStore(t *testing.T) {
	var store = NewStore(slowBot)
	if _, err := store.Create(CreateOptions{HumanColor: chess.White, FEN: "bad fen"}); !errors.Is(err, common.ErrBadFen) {
		t.Error(err)
	}
	if _, err := store.Create(CreateOptions{HumanColor: chess.NoColor}); !errors.Is(err, ErrBadColor) {
		t.Error(err)
	}
	var s, err = store.Create(CreateOptions{HumanColor: chess.Black})
	if err != nil {
		t.Fatal(err)
	}
	if got, err := store.Get(s.ID); err != nil || got != s {
		t.Error(got, err)
	}
	if store.Len() != 1 {
		t.Error(store.Len())
	}
	if err := store.Delete(s.ID); err != nil {
		t.Error(err)
	}
	waitBot(t, s)
	if len(s.State().Moves) != 0 {
		t.Error("deleted game kept playing")
	}
	if _, err := store.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Error(err)
	}
	if err := store.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Error(err)
	}
}

func TestParseColor(t *testing.T) {
	if c, err := ParseColor("Black"); err != nil || c != chess.Black {
		t.Error(c, err)
	}
	if c, err := ParseColor(""); err != nil || c != chess.White {
		t.Error(c, err)
	}
	if _, err := ParseColor("green"); !errors.Is(err, ErrBadColor) {
		t.Error(err)
	}
}
