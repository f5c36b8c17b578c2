package console

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/pawnstorm/counterbot/internal/opponent"
	"github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

func testBot() *opponent.Bot {
	var e = engine.NewEngine(engine.Medium)
	e.Depth = 1
	e.Random = rand.New(rand.NewSource(1))
	var b = opponent.NewBot(e)
	b.ThinkMin, b.ThinkMax = 0, 0
	return b
}

func TestPlayCliMate(t *testing.T) {
	var out bytes.Buffer
	var err = PlayCli(context.Background(), strings.NewReader("Rb8\nfen\nRa8\n"), &out, testBot(), Options{
		HumanColor: chess.White,
		FEN:        "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	var text = out.String()
	if !strings.Contains(text, "bad move") {
		t.Error("Rb8 should be rejected")
	}
	if !strings.Contains(text, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1") {
		t.Error("fen missing")
	}
	if !strings.HasSuffix(strings.TrimSpace(text), "1-0 {checkmate}") {
		t.Error(text)
	}
}

func TestPlayCliBotReplies(t *testing.T) {
	var out bytes.Buffer
	var err = PlayCli(context.Background(), strings.NewReader("e4\nquit\n"), &out, testBot(), Options{
		HumanColor: chess.White,
	})
	if err != nil {
		t.Fatal(err)
	}
	// initial board, board after e4, bot move and board after it
	if n := strings.Count(out.String(), "♔"); n != 3 {
		t.Error(n, out.String())
	}
}

func TestPlayCliBotFirst(t *testing.T) {
	var out bytes.Buffer
	var err = PlayCli(context.Background(), strings.NewReader("quit\n"), &out, testBot(), Options{
		HumanColor: chess.Black,
		FEN:        "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Ra8#") || !strings.Contains(out.String(), "1-0 {checkmate}") {
		t.Error(out.String())
	}
}

// flakyEngine fails its first searches and then plays the first legal move.
type flakyEngine struct {
	failures int
}

func (e *flakyEngine) Clear() {}

func (e *flakyEngine) Search(ctx context.Context, p *common.Position) common.SearchInfo {
	if e.failures > 0 {
		e.failures--
		panic("boom")
	}
	return common.SearchInfo{Move: p.LegalMoves()[0]}
}

func TestPlayCliBotFailureKeepsGame(t *testing.T) {
	var b = opponent.NewBot(&flakyEngine{failures: 2})
	b.ThinkMin, b.ThinkMax = 0, 0
	var out bytes.Buffer
	var err = PlayCli(context.Background(), strings.NewReader("e4\nmoves\nd4\ngo\ngo\nfen\nquit\n"), &out, b, Options{
		HumanColor: chess.White,
	})
	if err != nil {
		t.Fatal(err)
	}
	var text = out.String()
	if n := strings.Count(text, "bot has no move: boom"); n != 2 {
		t.Error(n, text)
	}
	if !strings.Contains(text, "not your turn") {
		t.Error("move accepted on the bot's turn")
	}
	// black answered with its first legal move and it is white to move again
	if !strings.Contains(text, " w KQkq - 1 2") && !strings.Contains(text, " w KQkq - 0 2") {
		t.Error(text)
	}
	if strings.Contains(text, "rnbqkbnr/pppppppp/8/8/3PP3") {
		t.Error("d4 was played for white")
	}
}

func TestPlayCliGoOnHumanTurn(t *testing.T) {
	var out bytes.Buffer
	var err = PlayCli(context.Background(), strings.NewReader("go\nquit\n"), &out, testBot(), Options{
		HumanColor: chess.White,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "your move") {
		t.Error(out.String())
	}
}
