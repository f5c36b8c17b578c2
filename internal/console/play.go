package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"github.com/pawnstorm/counterbot/internal/opponent"
	"github.com/pawnstorm/counterbot/pkg/common"
)

type Options struct {
	HumanColor chess.Color
	FEN        string
	Color      bool // ANSI board
}

// PlayCli runs a game against bot reading moves from in, one per line.
// Besides moves it understands "quit", "board", "moves", "fen" and "go",
// which asks the bot again after it failed to answer.
// A bot failure is reported to the player and never ends the game.
func PlayCli(ctx context.Context, in io.Reader, out io.Writer, bot *opponent.Bot, opts Options) error {
	var g, err = newGame(opts.FEN)
	if err != nil {
		return err
	}
	g.out = out
	g.ansi = opts.Color
	g.Print()

	var humanTurn = func() bool {
		return g.pos.Turn() == opts.HumanColor
	}

	var botTurn = func() error {
		for !g.over() && !humanTurn() {
			var move, err = bot.Think(ctx, &g.pos)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				fmt.Fprintln(out, err)
				fmt.Fprintln(out, "type go to ask the bot again")
				return nil
			}
			fmt.Fprintln(out, g.pos.MoveSAN(move))
			g.MakeMove(move)
			g.Print()
		}
		return nil
	}

	if err := botTurn(); err != nil {
		return stopped(err)
	}
	var scanner = bufio.NewScanner(in)
	for !g.over() && scanner.Scan() {
		var commandLine = strings.TrimSpace(scanner.Text())
		switch commandLine {
		case "":
			continue
		case "quit":
			return nil
		case "board":
			g.Print()
			continue
		case "fen":
			fmt.Fprintln(out, g.pos.FEN())
			continue
		case "moves":
			var moves []string
			for _, m := range g.pos.LegalMoves() {
				moves = append(moves, g.pos.MoveSAN(m))
			}
			fmt.Fprintln(out, strings.Join(moves, " "))
			continue
		case "go":
			if humanTurn() {
				fmt.Fprintln(out, "your move")
				continue
			}
			if err := botTurn(); err != nil {
				return stopped(err)
			}
			continue
		}
		if !humanTurn() {
			fmt.Fprintln(out, "not your turn, type go")
			continue
		}
		var move, err = g.pos.ParseMove(commandLine)
		if err != nil {
			fmt.Fprintln(out, "bad move")
			continue
		}
		g.MakeMove(move)
		g.Print()
		if err := botTurn(); err != nil {
			return stopped(err)
		}
	}
	if g.over() {
		fmt.Fprintln(out, g.result())
	}
	return scanner.Err()
}

// interrupted games end quietly
func stopped(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

type game struct {
	pos  common.Position
	out  io.Writer
	ansi bool
}

func newGame(fen string) (*game, error) {
	if fen == "" {
		fen = common.InitialPositionFen
	}
	var pos, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &game{pos: pos, out: io.Discard}, nil
}

func (g *game) MakeMove(move *chess.Move) {
	g.pos = g.pos.MakeMove(move)
}

func (g *game) over() bool {
	return g.pos.IsGameOver()
}

func (g *game) result() string {
	if g.pos.IsCheckmate() {
		if g.pos.WhiteMove() {
			return "0-1 {checkmate}"
		}
		return "1-0 {checkmate}"
	}
	return "1/2-1/2 {" + g.pos.DrawReason().String() + "}"
}

func (g *game) Print() {
	for i := 0; i < 64; i++ {
		var sq = common.FlipSquare(chess.Square(i))
		var piece = g.pos.PieceAt(sq)
		var dark = (common.File(sq)+common.Rank(sq))%2 == 0
		fmt.Fprint(g.out, pieceString(piece, dark, g.ansi))
		if common.File(sq) == 7 {
			fmt.Fprintln(g.out)
		}
	}
}

const (
	whiteKing   = "♔"
	whiteQueen  = "♕"
	whiteRook   = "♖"
	whiteBishop = "♗"
	whiteKnight = "♘"
	whitePawn   = "♙"
	blackKing   = "♚"
	blackQueen  = "♛"
	blackRook   = "♜"
	blackBishop = "♝"
	blackKnight = "♞"
	blackPawn   = "♟"
)

const (
	fgBlack   = 30
	bgWhite   = 47
	bgHiWhite = 107
)

var chessSymbols = [2][7]string{
	{" ", whiteKing, whiteQueen, whiteRook, whiteBishop, whiteKnight, whitePawn},
	{" ", blackKing, blackQueen, blackRook, blackBishop, blackKnight, blackPawn},
}

func pieceString(piece chess.Piece, darkSquare, ansi bool) string {
	var s string
	if piece.Color() == chess.Black {
		s = chessSymbols[1][piece.Type()]
	} else {
		s = chessSymbols[0][piece.Type()]
	}
	if !ansi {
		if piece == chess.NoPiece {
			s = "."
		}
		return s + " "
	}
	s += " "
	const fgColor = fgBlack
	var bgColor int
	if darkSquare {
		bgColor = bgWhite
	} else {
		bgColor = bgHiWhite
	}
	const escape = "\x1b"
	const reset = 0
	return fmt.Sprintf("%s[%s;%sm%s%s[%dm",
		escape, strconv.Itoa(fgColor), strconv.Itoa(bgColor), s, escape, reset)
}
