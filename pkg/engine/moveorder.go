package engine

import (
	"github.com/notnil/chess"

	. "github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/eval"
)

const (
	sortKeyMate      = 10000
	sortKeyPromotion = 800
	sortKeyCheck     = 50
)

type orderedMove struct {
	Move *chess.Move
	Key  int
}

// orderMoves returns the moves best first. Moves with equal keys keep
// their generation order. The input slice is not modified.
func orderMoves(p *Position, moves []*chess.Move) []orderedMove {
	var result = make([]orderedMove, len(moves))
	for i, m := range moves {
		result[i] = orderedMove{Move: m, Key: moveSortKey(p, m)}
	}
	sortMoves(result)
	return result
}

func moveSortKey(p *Position, m *chess.Move) int {
	var key = 0
	if victim := capturedPiece(p, m); victim != chess.NoPieceType {
		var attacker = p.PieceAt(m.S1()).Type()
		key += eval.PieceValue(victim) - eval.PieceValue(attacker)/10
	}
	if m.HasTag(chess.Check) {
		key += sortKeyCheck
		var child = p.MakeMove(m)
		if child.IsCheckmate() {
			key += sortKeyMate
		}
	}
	if m.Promo() != chess.NoPieceType {
		key += sortKeyPromotion
	}
	return key
}

// noisyMoves are the captures and promotions of the position.
func noisyMoves(p *Position) []*chess.Move {
	var result []*chess.Move
	for _, m := range p.LegalMoves() {
		if m.Promo() != chess.NoPieceType || capturedPiece(p, m) != chess.NoPieceType {
			result = append(result, m)
		}
	}
	return result
}

// moveToFront keeps the relative order of the other moves.
func moveToFront(ml []orderedMove, m *chess.Move) {
	for i := range ml {
		if ml[i].Move == m {
			var first = ml[i]
			copy(ml[1:i+1], ml[:i])
			ml[0] = first
			return
		}
	}
}

func capturedPiece(p *Position, m *chess.Move) chess.PieceType {
	if m.HasTag(chess.EnPassant) {
		return chess.Pawn
	}
	if !m.HasTag(chess.Capture) {
		return chess.NoPieceType
	}
	return p.PieceAt(m.S2()).Type()
}

// insertion sort, stable and descending
func sortMoves(moves []orderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}

func isSorted(moves []orderedMove) bool {
	for i := 1; i < len(moves); i++ {
		if moves[i-1].Key < moves[i].Key {
			return false
		}
	}
	return true
}
