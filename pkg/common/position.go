package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrBadFen      = errors.New("bad fen")
	ErrIllegalMove = errors.New("illegal move")
)

// Position is an immutable view of a rules-correct chess position.
// MakeMove returns a new value and never touches the receiver, so sibling
// branches of a search can share a parent safely.
// Legal moves and the game status are computed once when the value is built.
type Position struct {
	pos     *chess.Position
	key     string
	rule50  int
	check   bool
	moves   []*chess.Move
	status  chess.Method
	history *keyNode
}

// keys of earlier positions back to the last irreversible move
type keyNode struct {
	key  string
	next *keyNode
}

// layout of chess.Position.MarshalBinary
const (
	binarySize      = 101
	binaryBoardEnd  = 96
	binaryEnPassant = 99
	binaryFlags     = 100

	flagBlackToMove  = 1 << 4
	flagHasEnPassant = 1 << 5
)

func NewPositionFromFEN(fen string) (Position, error) {
	var pos, err = decodeFen(fen)
	if err != nil {
		return Position{}, err
	}
	return rootPosition(pos), nil
}

func InitialPosition() Position {
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return p
}

// PositionFromGame rebuilds a position together with its repetition history.
func PositionFromGame(g *chess.Game) Position {
	var positions = g.Positions()
	var moves = g.Moves()
	var result = rootPosition(positions[0])
	for i := 1; i < len(positions); i++ {
		var check = i-1 < len(moves) && moves[i-1].HasTag(chess.Check)
		result = result.advance(positions[i], check)
	}
	return result
}

func decodeFen(fen string) (*chess.Position, error) {
	var pos = &chess.Position{}
	if err := pos.UnmarshalText([]byte(strings.TrimSpace(fen))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFen, err)
	}
	return pos, nil
}

func rootPosition(pos *chess.Position) Position {
	var p = newPosition(pos, nil, false)
	if computeCheck(&p) {
		p.check = true
		p.status = p.computeStatus()
	}
	return p
}

func newPosition(pos *chess.Position, history *keyNode, check bool) Position {
	var p = Position{
		pos:     pos,
		key:     signature(pos),
		rule50:  pos.HalfMoveClock(),
		check:   check,
		moves:   pos.ValidMoves(),
		history: history,
	}
	p.status = p.computeStatus()
	return p
}

// signature keeps board, castling, side to move and en passant bytes
// of the binary encoding and skips both move counters.
func signature(pos *chess.Position) string {
	var data, err = pos.MarshalBinary()
	if err != nil || len(data) != binarySize {
		var fields = strings.Fields(pos.String())
		if len(fields) < 4 {
			return pos.String()
		}
		return strings.Join(fields[:4], " ")
	}
	var key = make([]byte, 0, binaryBoardEnd+binarySize-binaryEnPassant)
	key = append(key, data[:binaryBoardEnd]...)
	key = append(key, data[binaryEnPassant:]...)
	return string(key)
}

func (p *Position) advance(child *chess.Position, check bool) Position {
	var history *keyNode
	if child.HalfMoveClock() != 0 {
		history = &keyNode{key: p.key, next: p.history}
	}
	return newPosition(child, history, check)
}

func (p *Position) MakeMove(m *chess.Move) Position {
	return p.advance(p.pos.Update(m), m.HasTag(chess.Check))
}

// LegalMoves returns the shared move list of the position; callers must not modify it.
func (p *Position) LegalMoves() []*chess.Move {
	return p.moves
}

func (p *Position) LegalMovesFrom(sq chess.Square) []*chess.Move {
	var result []*chess.Move
	for _, m := range p.moves {
		if m.S1() == sq {
			result = append(result, m)
		}
	}
	return result
}

func (p *Position) Turn() chess.Color {
	return p.pos.Turn()
}

func (p *Position) WhiteMove() bool {
	return p.pos.Turn() == chess.White
}

func (p *Position) PieceAt(sq chess.Square) chess.Piece {
	return p.pos.Board().Piece(sq)
}

func (p *Position) Board() *chess.Board {
	return p.pos.Board()
}

func (p *Position) Raw() *chess.Position {
	return p.pos
}

// Signature identifies the position independent of move counters:
// board, side to move, castling rights and en passant square.
func (p *Position) Signature() string {
	return p.key
}

func (p *Position) FEN() string {
	return p.pos.String()
}

func (p *Position) String() string {
	return p.pos.String()
}

func (p *Position) Rule50() int {
	return p.rule50
}

func (p *Position) IsCheck() bool {
	return p.check
}

func (p *Position) IsCheckmate() bool {
	return p.status == chess.Checkmate
}

func (p *Position) IsStalemate() bool {
	return p.status == chess.Stalemate
}

func (p *Position) IsDraw() bool {
	return p.DrawReason() != chess.NoMethod
}

func (p *Position) IsGameOver() bool {
	return p.status != chess.NoMethod
}

func (p *Position) DrawReason() chess.Method {
	if p.status == chess.Checkmate {
		return chess.NoMethod
	}
	return p.status
}

func (p *Position) computeStatus() chess.Method {
	if len(p.moves) == 0 {
		if p.check {
			return chess.Checkmate
		}
		return chess.Stalemate
	}
	if p.rule50 >= 100 {
		return chess.FiftyMoveRule
	}
	if p.insufficientMaterial() {
		return chess.InsufficientMaterial
	}
	if p.repetitions() >= 3 {
		return chess.ThreefoldRepetition
	}
	return chess.NoMethod
}

// repetitions counts occurrences of the position including the current one.
func (p *Position) repetitions() int {
	var count = 1
	for node := p.history; node != nil; node = node.next {
		if node.key == p.key {
			count++
		}
	}
	return count
}

func (p *Position) insufficientMaterial() bool {
	var board = p.pos.Board()
	var knights, lightBishops, darkBishops int
	for sq := chess.A1; sq <= chess.H8; sq++ {
		switch board.Piece(sq).Type() {
		case chess.Pawn, chess.Rook, chess.Queen:
			return false
		case chess.Knight:
			knights++
		case chess.Bishop:
			if (File(sq)+Rank(sq))%2 == 0 {
				darkBishops++
			} else {
				lightBishops++
			}
		}
	}
	var minors = knights + lightBishops + darkBishops
	if minors <= 1 {
		return true
	}
	return knights == 0 && (lightBishops == 0 || darkBishops == 0)
}

// WithSideToMove returns a hypothetical position with the turn handed to side.
// It is meant for counting moves only and is not a game transition.
func (p *Position) WithSideToMove(side chess.Color) (Position, error) {
	if side == p.Turn() {
		return *p, nil
	}
	var pos, err = p.handTurn(side)
	if err != nil {
		return Position{}, err
	}
	return newPosition(pos, nil, false), nil
}

// handTurn rewrites the turn flag of the binary encoding and drops the
// en passant square.
func (p *Position) handTurn(side chess.Color) (*chess.Position, error) {
	var data, err = p.pos.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if len(data) != binarySize {
		return nil, ErrBadFen
	}
	if side == chess.Black {
		data[binaryFlags] |= flagBlackToMove
	} else {
		data[binaryFlags] &^= flagBlackToMove
	}
	data[binaryFlags] &^= flagHasEnPassant
	var pos = &chess.Position{}
	if err := pos.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if pos.Turn() != side {
		return nil, ErrBadFen
	}
	return pos, nil
}

func (p *Position) MobilityOf(side chess.Color) int {
	if side == p.Turn() {
		return len(p.moves)
	}
	var other, err = p.handTurn(side)
	if err != nil {
		return 0
	}
	return len(other.ValidMoves())
}

// computeCheck looks for an opponent move landing on the king of the side to move.
func computeCheck(p *Position) bool {
	var side = p.Turn()
	var kingSq = chess.NoSquare
	var board = p.pos.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		var piece = board.Piece(sq)
		if piece.Type() == chess.King && piece.Color() == side {
			kingSq = sq
			break
		}
	}
	if kingSq == chess.NoSquare {
		return false
	}
	var other, err = p.handTurn(side.Other())
	if err != nil {
		return false
	}
	for _, m := range other.ValidMoves() {
		if m.S2() == kingSq {
			return true
		}
	}
	return false
}
