package common

import (
	"testing"
	"time"

	"github.com/notnil/chess"
)

func mustPosition(t *testing.T, fen string) Position {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(fen, err)
	}
	return p
}

func playMoves(t *testing.T, p Position, moves ...string) Position {
	t.Helper()
	for _, s := range moves {
		var m, err = p.ParseMove(s)
		if err != nil {
			t.Fatal(p.FEN(), s, err)
		}
		p = p.MakeMove(m)
	}
	return p
}

func TestBadFen(t *testing.T) {
	if _, err := NewPositionFromFEN("not a fen"); err == nil {
		t.Error("expected error")
	}
}

func TestInitialPosition(t *testing.T) {
	var p = InitialPosition()
	if len(p.LegalMoves()) != 20 {
		t.Error(len(p.LegalMoves()))
	}
	if !p.WhiteMove() || p.IsCheck() || p.IsGameOver() {
		t.Error(p.FEN())
	}
	if p.PieceAt(chess.E1) != chess.WhiteKing {
		t.Error(p.PieceAt(chess.E1))
	}
	if len(p.LegalMovesFrom(chess.G1)) != 2 {
		t.Error(p.LegalMovesFrom(chess.G1))
	}
	if len(p.LegalMovesFrom(chess.E1)) != 0 {
		t.Error(p.LegalMovesFrom(chess.E1))
	}
}

func TestMakeMoveKeepsParent(t *testing.T) {
	var p = InitialPosition()
	var before = p.FEN()
	var child = playMoves(t, p, "e4")
	if p.FEN() != before {
		t.Error("parent changed", p.FEN())
	}
	if child.WhiteMove() {
		t.Error(child.FEN())
	}
}

func TestSignatureIgnoresCounters(t *testing.T) {
	var p1 = mustPosition(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	var p2 = mustPosition(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 10 17")
	if p1.Signature() != p2.Signature() {
		t.Error(p1.Signature(), p2.Signature())
	}
	var p3 = mustPosition(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w Kkq - 2 3")
	if p1.Signature() == p3.Signature() {
		t.Error("castling rights ignored")
	}
	var p4 = mustPosition(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 2 3")
	if p1.Signature() == p4.Signature() {
		t.Error("side to move ignored")
	}
}

func TestTerminalPositions(t *testing.T) {
	var tests = []struct {
		fen       string
		checkmate bool
		reason    chess.Method
	}{
		{"6k1/8/8/8/8/8/5PPP/3r2K1 w - - 0 1", true, chess.NoMethod},
		{"3R2k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", true, chess.NoMethod},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, chess.Stalemate},
		{"8/8/8/4k3/8/8/4K3/4R3 w - - 100 80", false, chess.FiftyMoveRule},
		{"8/8/4k3/8/8/3BK3/8/8 w - - 0 1", false, chess.InsufficientMaterial},
		{"8/8/4k3/8/8/4K3/8/8 b - - 0 1", false, chess.InsufficientMaterial},
		{"8/8/4k3/8/8/3NK3/8/2N5 w - - 0 1", false, chess.NoMethod},
		{"8/8/4k3/8/8/4K3/4P3/8 w - - 0 1", false, chess.NoMethod},
	}
	for _, test := range tests {
		var p = mustPosition(t, test.fen)
		if p.IsCheckmate() != test.checkmate {
			t.Error(test.fen, "checkmate", p.IsCheckmate())
		}
		if p.DrawReason() != test.reason {
			t.Error(test.fen, "draw", p.DrawReason())
		}
		var over = test.checkmate || test.reason != chess.NoMethod
		if p.IsGameOver() != over {
			t.Error(test.fen, "game over", p.IsGameOver())
		}
	}
}

func TestThreefoldRepetition(t *testing.T) {
	var p = InitialPosition()
	p = playMoves(t, p, "Nf3", "Nf6", "Ng1", "Ng8")
	if p.IsDraw() {
		t.Error("twofold is not a draw")
	}
	p = playMoves(t, p, "Nf3", "Nf6", "Ng1", "Ng8")
	if p.DrawReason() != chess.ThreefoldRepetition {
		t.Error(p.DrawReason())
	}
}

func TestPawnMoveResetsHistory(t *testing.T) {
	var p = InitialPosition()
	p = playMoves(t, p, "Nf3", "Nf6", "Ng1", "Ng8", "e4")
	if p.history != nil || p.Rule50() != 0 {
		t.Error("history kept after pawn move", p.Rule50())
	}
}

func TestIsCheck(t *testing.T) {
	var p = mustPosition(t, "4k3/8/8/8/8/8/8/R3K3 b - - 0 1")
	if p.IsCheck() {
		t.Error(p.FEN())
	}
	p = mustPosition(t, "4k3/8/8/8/8/8/8/4K2R b - - 0 1")
	if p.IsCheck() {
		t.Error(p.FEN())
	}
	p = mustPosition(t, "4k3/8/8/8/8/8/8/4RK2 b - - 0 1")
	if !p.IsCheck() {
		t.Error(p.FEN())
	}
	var q = mustPosition(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	q = playMoves(t, q, "Ra8+")
	if !q.IsCheck() {
		t.Error(q.FEN())
	}
}

func TestMobility(t *testing.T) {
	var p = InitialPosition()
	if p.MobilityOf(chess.White) != 20 || p.MobilityOf(chess.Black) != 20 {
		t.Error(p.MobilityOf(chess.White), p.MobilityOf(chess.Black))
	}
	var flipped, err = p.WithSideToMove(chess.Black)
	if err != nil {
		t.Fatal(err)
	}
	if flipped.WhiteMove() || !p.WhiteMove() {
		t.Error(flipped.FEN(), p.FEN())
	}
}

func TestWithSideToMoveKeepsBoard(t *testing.T) {
	var p = playMoves(t, InitialPosition(), "e4")
	if p.Raw().EnPassantSquare() != chess.E3 {
		t.Fatal(p.FEN())
	}
	var flipped, err = p.WithSideToMove(chess.White)
	if err != nil {
		t.Fatal(err)
	}
	if got := flipped.FEN(); got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1" {
		t.Error(got)
	}
	if flipped.Signature() == p.Signature() {
		t.Error("signature kept the turn")
	}
	if p.MobilityOf(chess.White) != len(flipped.LegalMoves()) {
		t.Error(p.MobilityOf(chess.White), len(flipped.LegalMoves()))
	}
}

func TestSearchPositionSpeed(t *testing.T) {
	var p = mustPosition(t, "r1bq1rk1/pp2bppp/2n1pn2/3p4/2PP4/2N1PN2/PP3PPP/R2QKB1R w KQ - 0 8")
	var start = time.Now()
	var n int
	for i := 0; i < 200; i++ {
		for _, m := range p.LegalMoves() {
			var child = p.MakeMove(m)
			n += child.MobilityOf(chess.White) + child.MobilityOf(chess.Black)
			if child.IsGameOver() {
				t.Error(child.FEN())
			}
		}
	}
	if n == 0 {
		t.Fatal("no moves")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Error("slow position updates", elapsed)
	}
}

func TestParseMove(t *testing.T) {
	var p = InitialPosition()
	for _, s := range []string{"e4", "e2e4", " e4 "} {
		var m, err = p.ParseMove(s)
		if err != nil {
			t.Error(s, err)
			continue
		}
		if m.S1() != chess.E2 || m.S2() != chess.E4 {
			t.Error(s, m)
		}
	}
	for _, s := range []string{"", "e5", "e2e5", "Ke2"} {
		if _, err := p.ParseMove(s); err == nil {
			t.Error("expected error", s)
		}
	}
	var promo = mustPosition(t, "8/4P3/8/8/8/k7/8/K7 w - - 0 1")
	var m, err = promo.ParseMove("e8=Q")
	if err != nil || m.Promo() != chess.Queen {
		t.Error(m, err)
	}
	if promo.MoveSAN(m) != "e8=Q" || promo.MoveUCI(m) != "e7e8q" {
		t.Error(promo.MoveSAN(m), promo.MoveUCI(m))
	}
}

func TestPositionFromGame(t *testing.T) {
	var g = chess.NewGame()
	for _, s := range []string{"Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1", "Ng8"} {
		if err := g.MoveStr(s); err != nil {
			t.Fatal(s, err)
		}
	}
	var p = PositionFromGame(g)
	if p.DrawReason() != chess.ThreefoldRepetition {
		t.Error(p.DrawReason())
	}
}
