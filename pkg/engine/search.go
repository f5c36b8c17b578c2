package engine

import (
	"github.com/notnil/chess"

	. "github.com/pawnstorm/counterbot/pkg/common"
)

// minimax is alpha-beta search with scores from white's point of view.
// White maximizes and black minimizes. The returned move is nil for
// leaves and cache hits.
func (e *Engine) minimax(p *Position, depth, alpha, beta int,
	maximizing bool, height int) (int, *chess.Move) {

	e.incNodes()
	var rootNode = height == 0

	if !rootNode {
		if p.IsGameOver() {
			return e.evaluator.Evaluate(p), nil
		}
		if depth <= 0 {
			return e.quiescence(p, alpha, beta, maximizing, e.QuiescenceDepth), nil
		}
	}

	// transposition table
	var key = transKey{
		signature:  p.Signature(),
		depth:      depth,
		maximizing: maximizing,
	}
	if !rootNode {
		if ttScore, ttDepth, ttBound, ok := e.transTable.Read(key); ok && ttDepth >= depth {
			if ttBound == boundExact ||
				(ttBound&boundLower) != 0 && ttScore >= beta ||
				(ttBound&boundUpper) != 0 && ttScore <= alpha {
				e.cacheHits++
				return ttScore, nil
			}
		}
	}

	var alphaOrig, betaOrig = alpha, beta
	var best = worstScore(maximizing)
	var bestMove *chess.Move

	var ml = orderMoves(p, p.LegalMoves())
	if rootNode && e.rootFirst != nil {
		moveToFront(ml, e.rootFirst)
	}
	for _, om := range ml {
		var child = p.MakeMove(om.Move)
		var score, _ = e.minimax(&child, depth-1, alpha, beta, !maximizing, height+1)
		if improves(score, best, maximizing) {
			best = score
			bestMove = om.Move
			if rootNode {
				e.rootMove = bestMove
				e.rootScore = best
			}
		}
		if maximizing {
			alpha = Max(alpha, best)
		} else {
			beta = Min(beta, best)
		}
		if beta <= alpha {
			break
		}
	}

	e.transTable.Update(key, best, depth, boundFor(best, alphaOrig, betaOrig))
	return best, bestMove
}

// quiescence plays out captures and promotions below the nominal depth
// so that a leaf is not scored halfway through an exchange. The side to
// move may always stand pat on the static score.
func (e *Engine) quiescence(p *Position, alpha, beta int, maximizing bool, depth int) int {
	var best = e.evaluator.Evaluate(p)
	if depth <= 0 || p.IsGameOver() {
		return best
	}
	if maximizing {
		if best >= beta {
			return best
		}
		alpha = Max(alpha, best)
	} else {
		if best <= alpha {
			return best
		}
		beta = Min(beta, best)
	}

	for _, om := range orderMoves(p, noisyMoves(p)) {
		e.incNodes()
		var child = p.MakeMove(om.Move)
		var score = e.quiescence(&child, alpha, beta, !maximizing, depth-1)
		if improves(score, best, maximizing) {
			best = score
		}
		if maximizing {
			alpha = Max(alpha, best)
		} else {
			beta = Min(beta, best)
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

func (e *Engine) incNodes() {
	e.nodes++
	e.timeManager.OnNodesChanged(e.nodes)
	if e.timeManager.IsDone() {
		panic(errSearchTimeout)
	}
}
