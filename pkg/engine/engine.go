package engine

import (
	"context"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	. "github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/eval"
)

// Engine picks moves for one opponent. It is not safe for concurrent use;
// every game owns its own instance and with it its own cache.
type Engine struct {
	Depth            int
	QuiescenceDepth  int
	CacheCapacity    int
	RandomMoveChance int // percent
	EvalNoise        int
	MaxNodes         int64
	MoveTime         time.Duration
	Random           Random
	Logger           zerolog.Logger
	difficulty       Difficulty
	evaluator        *eval.EvaluationService
	transTable       *transTable
	timeManager      *simpleTimeManager
	nodes            int64
	cacheHits        int64
	rootFirst        *chess.Move
	rootMove         *chess.Move
	rootScore        int
}

const defaultQuiescenceDepth = 4

func NewEngine(difficulty Difficulty) *Engine {
	return &Engine{
		Depth:            difficulty.Depth(),
		QuiescenceDepth:  defaultQuiescenceDepth,
		CacheCapacity:    defaultCacheCapacity,
		RandomMoveChance: difficulty.randomMoveChance(),
		EvalNoise:        difficulty.evalNoise(),
		MoveTime:         DefaultMoveTime,
		Random:           frand.New(),
		Logger:           zerolog.Nop(),
		difficulty:       difficulty,
	}
}

func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

func (e *Engine) Prepare() {
	var capacity = e.CacheCapacity
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	if e.transTable == nil || e.transTable.Capacity() != capacity {
		e.transTable = newTransTable(capacity)
	}
	if e.evaluator == nil {
		e.evaluator = eval.NewEvaluationService()
	}
	if e.Random == nil {
		e.Random = frand.New()
	}
	e.evaluator.Noise = e.EvalNoise
	e.evaluator.Random = e.Random
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
}

// BestMove returns nil when the side to move has no legal move.
func (e *Engine) BestMove(p *Position) *chess.Move {
	return e.Search(context.Background(), p).Move
}

// Search never fails on a position with legal moves. When ctx is done or
// a budget runs out it returns the best root move searched so far.
func (e *Engine) Search(ctx context.Context, p *Position) SearchInfo {
	var start = time.Now()
	e.Prepare()

	var moves = p.LegalMoves()
	if len(moves) == 0 {
		return SearchInfo{Time: time.Since(start)}
	}

	if e.RandomMoveChance > 0 && e.Random.Intn(100) < e.RandomMoveChance {
		var move = moves[e.Random.Intn(len(moves))]
		e.Logger.Debug().
			Str("difficulty", e.difficulty.String()).
			Str("move", p.MoveSAN(move)).
			Msg("random move")
		return SearchInfo{
			Move:   move,
			Random: true,
			Time:   time.Since(start),
		}
	}

	e.timeManager = newSimpleTimeManager(ctx, start, e.MoveTime, e.MaxNodes)
	defer e.timeManager.Close()
	e.nodes = 0
	e.cacheHits = 0
	e.rootFirst = nil

	var result = SearchInfo{}
	var aborted bool
	for _, depth := range e.passes(ctx) {
		if e.transTable.Size() >= e.transTable.Capacity() {
			e.transTable.Clear()
		}
		e.rootMove = nil
		e.rootScore = 0
		aborted = e.searchRoot(p, depth)
		if e.rootMove != nil {
			result.Move = e.rootMove
			result.Score = e.rootScore
			result.Depth = depth
			e.rootFirst = e.rootMove
		}
		if aborted {
			break
		}
	}
	result.Nodes = e.nodes

	if result.Move == nil {
		var ml = orderMoves(p, moves)
		var child = p.MakeMove(ml[0].Move)
		result.Move = ml[0].Move
		result.Score = e.evaluator.Evaluate(&child)
		result.Depth = 0
	}
	result.Time = time.Since(start)

	e.Logger.Debug().
		Str("difficulty", e.difficulty.String()).
		Str("fen", p.FEN()).
		Str("move", p.MoveSAN(result.Move)).
		Int("score", result.Score).
		Int("depth", result.Depth).
		Int64("nodes", result.Nodes).
		Int64("cacheHits", e.cacheHits).
		Int("cacheSize", e.transTable.Size()).
		Int("cacheDropped", e.transTable.dropped).
		Bool("aborted", aborted).
		Dur("time", result.Time).
		Msg("search done")
	return result
}

// passes lists the depths searched in turn. A budgeted deep search
// first completes a shallower pass so an abort still has a move of
// known quality, and the deeper pass tries that move first.
func (e *Engine) passes(ctx context.Context) []int {
	var depth = Max(1, e.Depth)
	var _, hasDeadline = ctx.Deadline()
	var budgeted = e.MoveTime > 0 || e.MaxNodes > 0 || hasDeadline
	if !budgeted || depth <= 2 {
		return []int{depth}
	}
	return []int{depth - 2, depth}
}

func (e *Engine) searchRoot(p *Position, depth int) (aborted bool) {
	defer func() {
		if r := recover(); r != nil {
			if r == errSearchTimeout {
				aborted = true
				return
			}
			panic(r)
		}
	}()
	e.minimax(p, depth, -valueInfinity, valueInfinity, p.WhiteMove(), 0)
	return false
}
