package eval

import (
	"github.com/notnil/chess"

	. "github.com/pawnstorm/counterbot/pkg/common"
)

const (
	sideWhite = 0
	sideBlack = 1
)

// EvaluationService scores positions from white's point of view.
// Noise adds a fresh uniform offset in [-Noise, Noise] to every
// non-terminal evaluation, which is how the weakest tier plays unevenly.
type EvaluationService struct {
	Noise  int
	Random Random

	pawnFiles  [2][8]int
	pawns      [2][]chess.Square
	kings      [2]chess.Square
	pieceCount int
	queens     int
}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

func (e *EvaluationService) Evaluate(p *Position) int {
	if p.IsCheckmate() {
		if p.WhiteMove() {
			return -ValueMate
		}
		return ValueMate
	}
	if p.IsDraw() {
		return ValueDraw
	}
	var score = e.EvaluateStatic(p)
	if e.Noise > 0 && e.Random != nil {
		score += e.Random.Intn(2*e.Noise+1) - e.Noise
	}
	return score
}

// EvaluateStatic skips terminal detection and noise.
func (e *EvaluationService) EvaluateStatic(p *Position) int {
	var board = p.Board()
	e.init(board)
	var endgame = e.isEndgame()

	var score = 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		var piece = board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		var pst = pstFor(piece.Type(), endgame)
		if piece.Color() == chess.White {
			score += pieceValues[piece.Type()] + pst[sq]
		} else {
			score -= pieceValues[piece.Type()] + pst[FlipSquare(sq)]
		}
	}

	if !endgame {
		score += e.kingSafety(board, sideWhite) - e.kingSafety(board, sideBlack)
	}
	score += e.pawnStructure(sideWhite) - e.pawnStructure(sideBlack)
	score += mobilityWeight * (p.MobilityOf(chess.White) - p.MobilityOf(chess.Black))

	if p.WhiteMove() {
		score += tempoBonus
	} else {
		score -= tempoBonus
	}
	return score
}

func (e *EvaluationService) init(board *chess.Board) {
	for side := range e.pawnFiles {
		e.pawnFiles[side] = [8]int{}
		e.pawns[side] = e.pawns[side][:0]
		e.kings[side] = chess.NoSquare
	}
	e.pieceCount = 0
	e.queens = 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		var piece = board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		var side = sideIndex(piece.Color())
		switch piece.Type() {
		case chess.King:
			e.kings[side] = sq
			continue
		case chess.Pawn:
			e.pawns[side] = append(e.pawns[side], sq)
			e.pawnFiles[side][File(sq)]++
		case chess.Queen:
			e.queens++
		}
		e.pieceCount++
	}
}

func (e *EvaluationService) isEndgame() bool {
	return e.pieceCount <= endgamePieceLimit || e.queens == 0
}

func IsEndgame(p *Position) bool {
	var e EvaluationService
	e.init(p.Board())
	return e.isEndgame()
}

// kingSafety penalizes a king that has walked toward the centre
// and rewards own pawns directly in front of it.
func (e *EvaluationService) kingSafety(board *chess.Board, side int) int {
	var kingSq = e.kings[side]
	if kingSq == chess.NoSquare {
		return 0
	}
	var color = sideColor(side)
	var score = -kingCentrePenalty * (3 - centreDistance(kingSq))

	var forward = 1
	if color == chess.Black {
		forward = -1
	}
	var rank = Rank(kingSq) + forward
	for file := File(kingSq) - 1; file <= File(kingSq)+1; file++ {
		if !IsOnBoard(file, rank) {
			continue
		}
		var piece = board.Piece(MakeSquare(file, rank))
		if piece.Type() == chess.Pawn && piece.Color() == color {
			score += pawnShieldBonus
		}
	}
	return score
}

// centreDistance is 0 on d4/e4/d5/e5 and 3 on the edge.
func centreDistance(sq chess.Square) int {
	var fileDist = Min(Abs(File(sq)-3), Abs(File(sq)-4))
	var rankDist = Min(Abs(Rank(sq)-3), Abs(Rank(sq)-4))
	return Max(fileDist, rankDist)
}

func (e *EvaluationService) pawnStructure(side int) int {
	var color = sideColor(side)
	var files = &e.pawnFiles[side]
	var score = 0
	for _, sq := range e.pawns[side] {
		score += pawnAdvanceBonus * Max(0, RelativeRank(sq, color)-1)
		var file = File(sq)
		var left = file > 0 && files[file-1] > 0
		var right = file < 7 && files[file+1] > 0
		if !left && !right {
			score -= isolatedPawnPenalty
		}
	}
	for file := range files {
		if files[file] > 1 {
			score -= doubledPawnPenalty * (files[file] - 1)
		}
	}
	return score
}

func sideIndex(c chess.Color) int {
	if c == chess.White {
		return sideWhite
	}
	return sideBlack
}

func sideColor(side int) chess.Color {
	if side == sideWhite {
		return chess.White
	}
	return chess.Black
}
