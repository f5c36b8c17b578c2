package opponent

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

type fakeEngine struct {
	search func(ctx context.Context, p *common.Position) common.SearchInfo
}

func (e *fakeEngine) Search(ctx context.Context, p *common.Position) common.SearchInfo {
	return e.search(ctx, p)
}

func (e *fakeEngine) Clear() {}

func newFastBot(eng IEngine) *Bot {
	var b = NewBot(eng)
	b.ThinkMin = 0
	b.ThinkMax = 0
	return b
}

func TestThink(t *testing.T) {
	var e = engine.NewEngine(engine.Medium)
	e.Depth = 1
	var b = newFastBot(e)
	var p = common.InitialPosition()
	var move, err = b.Think(context.Background(), &p)
	if err != nil {
		t.Fatal(err)
	}
	if !common.ContainsMove(p.LegalMoves(), move) {
		t.Error(move)
	}
}

func TestThinkCancelledDuringDelay(t *testing.T) {
	var searched = false
	var b = NewBot(&fakeEngine{search: func(ctx context.Context, p *common.Position) common.SearchInfo {
		searched = true
		return common.SearchInfo{Move: p.LegalMoves()[0]}
	}})
	b.ThinkMin = time.Minute
	b.ThinkMax = time.Minute
	var ctx, cancel = context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	var p = common.InitialPosition()
	var start = time.Now()
	var move, err = b.Think(ctx, &p)
	if !errors.Is(err, context.Canceled) || move != nil {
		t.Error(move, err)
	}
	if searched {
		t.Error("search ran after cancel")
	}
	if time.Since(start) > 10*time.Second {
		t.Error("delay was not cancelled")
	}
}

func TestThinkDiscardsStaleMove(t *testing.T) {
	var ctx, cancel = context.WithCancel(context.Background())
	var b = newFastBot(&fakeEngine{search: func(_ context.Context, p *common.Position) common.SearchInfo {
		cancel()
		return common.SearchInfo{Move: p.LegalMoves()[0]}
	}})
	var p = common.InitialPosition()
	var move, err = b.Think(ctx, &p)
	if move != nil || !errors.Is(err, context.Canceled) {
		t.Error(move, err)
	}
}

func TestThinkFailsSoft(t *testing.T) {
	var b = newFastBot(&fakeEngine{search: func(context.Context, *common.Position) common.SearchInfo {
		panic("boom")
	}})
	var p = common.InitialPosition()
	var move, err = b.Think(context.Background(), &p)
	if move != nil || !errors.Is(err, ErrNoMove) {
		t.Error(move, err)
	}

	b = newFastBot(&fakeEngine{search: func(context.Context, *common.Position) common.SearchInfo {
		return common.SearchInfo{}
	}})
	move, err = b.Think(context.Background(), &p)
	if move != nil || !errors.Is(err, ErrNoMove) {
		t.Error(move, err)
	}
}

func TestThinkTime(t *testing.T) {
	var b = NewBot(&fakeEngine{})
	b.Random = rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		var d = b.thinkTime()
		if d < DefaultThinkMin || d > DefaultThinkMax {
			t.Fatal(d)
		}
	}
	b.ThinkMin, b.ThinkMax = 5*time.Millisecond, time.Millisecond
	if d := b.thinkTime(); d != 5*time.Millisecond {
		t.Error(d)
	}
}
