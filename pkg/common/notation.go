package common

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// ParseMove accepts SAN ("Nf3", "exd8=Q+") or long algebraic ("g1f3", "e7e8q")
// and returns the matching legal move.
func (p *Position) ParseMove(text string) (*chess.Move, error) {
	var s = normalizeMoveText(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrIllegalMove)
	}
	for _, m := range p.LegalMoves() {
		if normalizeMoveText(p.MoveSAN(m)) == s ||
			p.MoveUCI(m) == strings.ToLower(s) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrIllegalMove, text)
}

func normalizeMoveText(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '+', '#', '!', '?', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func (p *Position) FindMove(from, to chess.Square, promo chess.PieceType) *chess.Move {
	for _, m := range p.LegalMovesFrom(from) {
		if m.S2() == to && m.Promo() == promo {
			return m
		}
	}
	return nil
}

func (p *Position) MoveSAN(m *chess.Move) string {
	return chess.AlgebraicNotation{}.Encode(p.pos, m)
}

func (p *Position) MoveUCI(m *chess.Move) string {
	return chess.UCINotation{}.Encode(p.pos, m)
}

func ContainsMove(ml []*chess.Move, move *chess.Move) bool {
	if move == nil {
		return false
	}
	for _, m := range ml {
		if SameMove(m, move) {
			return true
		}
	}
	return false
}

func SameMove(a, b *chess.Move) bool {
	return a.S1() == b.S1() && a.S2() == b.S2() && a.Promo() == b.Promo()
}

// GameSAN lists the moves of g in SAN.
func GameSAN(g *chess.Game) []string {
	var positions = g.Positions()
	var moves = g.Moves()
	var result = make([]string, 0, len(moves))
	for i, m := range moves {
		result = append(result, chess.AlgebraicNotation{}.Encode(positions[i], m))
	}
	return result
}
