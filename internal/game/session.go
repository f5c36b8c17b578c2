package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/opponent"
	"github.com/pawnstorm/counterbot/internal/pgn"
	"github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

var (
	ErrNotFound    = errors.New("game not found")
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrBadColor    = errors.New("bad color")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCheckmate Status = "checkmate"
	StatusDraw      Status = "draw"
	StatusResigned  Status = "resigned"
)

type State struct {
	ID          string    `json:"id"`
	FEN         string    `json:"fen"`
	Turn        string    `json:"turn"`
	HumanColor  string    `json:"humanColor"`
	Difficulty  string    `json:"difficulty"`
	Status      Status    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	Winner      string    `json:"winner,omitempty"`
	Check       bool      `json:"check"`
	Moves       []string  `json:"moves"`
	LegalMoves  []string  `json:"legalMoves,omitempty"`
	Thinking    bool      `json:"thinking"`
	LastBotMove string    `json:"lastBotMove,omitempty"`
	BotError    string    `json:"botError,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session is one human against one bot. The bot thinks in its own
// goroutine; resigning or closing the session cancels it and any move
// it still produces is dropped.
type Session struct {
	ID         string
	HumanColor chess.Color
	Difficulty engine.Difficulty
	CreatedAt  time.Time

	mu          sync.Mutex
	game        *chess.Game
	position    common.Position
	bot         *opponent.Bot
	logger      zerolog.Logger
	status      Status
	reason      string
	winner      chess.Color
	thinking    bool
	botGen      int
	botDone     chan struct{}
	cancelBot   context.CancelFunc
	lastBotMove string
	botErr      error
}

func newSession(id string, g *chess.Game, human chess.Color,
	d engine.Difficulty, bot *opponent.Bot, logger zerolog.Logger) *Session {
	var s = &Session{
		ID:         id,
		HumanColor: human,
		Difficulty: d,
		CreatedAt:  time.Now(),
		game:       g,
		bot:        bot,
		logger:     logger.With().Str("game", id).Logger(),
		status:     StatusActive,
		winner:     chess.NoColor,
	}
	s.position = common.PositionFromGame(g)
	s.updateStatus()
	if s.status == StatusActive && s.position.Turn() != human {
		s.startBot()
	}
	return s
}

func ParseColor(s string) (chess.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w", "":
		return chess.White, nil
	case "black", "b":
		return chess.Black, nil
	}
	return chess.NoColor, fmt.Errorf("%w: %q", ErrBadColor, s)
}

func colorName(c chess.Color) string {
	switch c {
	case chess.White:
		return "white"
	case chess.Black:
		return "black"
	}
	return ""
}

// PlayHuman applies a move in SAN or long algebraic notation and hands
// the turn to the bot.
func (s *Session) PlayHuman(text string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return s.state(), ErrGameOver
	}
	if s.thinking || s.position.Turn() != s.HumanColor {
		return s.state(), ErrNotYourTurn
	}
	var move, err = s.position.ParseMove(text)
	if err != nil {
		return s.state(), err
	}
	if err := s.applyMove(move); err != nil {
		return s.state(), err
	}
	s.logger.Info().Str("move", text).Msg("human move")
	if s.status == StatusActive {
		s.startBot()
	}
	return s.state(), nil
}

// Resume restarts the bot when its previous attempt produced no move.
func (s *Session) Resume() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return s.state(), ErrGameOver
	}
	if !s.thinking && s.position.Turn() != s.HumanColor {
		s.startBot()
	}
	return s.state(), nil
}

func (s *Session) Resign() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return s.state(), ErrGameOver
	}
	s.stopBot()
	s.status = StatusResigned
	s.reason = "resignation"
	s.winner = s.HumanColor.Other()
	s.game.Resign(s.HumanColor)
	s.logger.Info().Msg("human resigned")
	return s.state(), nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// PGN returns the moves played so far as a PGN game.
func (s *Session) PGN() pgn.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	var white, black = "Human", "Bot (" + s.Difficulty.String() + ")"
	if s.HumanColor == chess.Black {
		white, black = black, white
	}
	var g = pgn.Game{
		Tags: []pgn.Tag{
			{Key: "Event", Value: "counterbot"},
			{Key: "Site", Value: s.ID},
			{Key: "Date", Value: s.CreatedAt.Format("2006.01.02")},
			{Key: "White", Value: white},
			{Key: "Black", Value: black},
		},
		Moves:  common.GameSAN(s.game),
		Result: pgn.ResultNone,
	}
	if fen := s.game.Positions()[0].String(); fen != common.InitialPositionFen {
		g.SetTag("SetUp", "1")
		g.SetTag("FEN", fen)
	}
	switch s.status {
	case StatusCheckmate, StatusResigned:
		if s.winner == chess.White {
			g.Result = pgn.ResultWhiteWin
		} else {
			g.Result = pgn.ResultBlackWin
		}
		g.SetTag("Termination", s.reason)
	case StatusDraw:
		g.Result = pgn.ResultDraw
		g.SetTag("Termination", s.reason)
	}
	return g
}

// Close stops the bot. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopBot()
}

// WaitBot blocks until the bot has finished its current turn, if any.
func (s *Session) WaitBot(ctx context.Context) error {
	s.mu.Lock()
	var done = s.botDone
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) applyMove(move *chess.Move) error {
	if err := s.game.Move(move); err != nil {
		return fmt.Errorf("%w: %v", common.ErrIllegalMove, err)
	}
	s.position = s.position.MakeMove(move)
	s.updateStatus()
	return nil
}

func (s *Session) updateStatus() {
	if s.position.IsCheckmate() {
		s.status = StatusCheckmate
		s.reason = "checkmate"
		s.winner = s.position.Turn().Other()
		return
	}
	if method := s.position.DrawReason(); method != chess.NoMethod {
		s.status = StatusDraw
		s.reason = method.String()
		s.winner = chess.NoColor
	}
}

// startBot must be called with s.mu held.
func (s *Session) startBot() {
	var ctx, cancel = context.WithCancel(context.Background())
	s.botGen++
	var gen = s.botGen
	var done = make(chan struct{})
	var position = s.position
	s.thinking = true
	s.cancelBot = cancel
	s.botDone = done
	s.botErr = nil

	go func() {
		defer close(done)
		defer cancel()
		var move, err = s.bot.Think(ctx, &position)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.botGen || s.status != StatusActive {
			return
		}
		s.thinking = false
		s.cancelBot = nil
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.botErr = err
				s.logger.Warn().Err(err).Msg("bot has no move")
			}
			return
		}
		var text = position.MoveSAN(move)
		if err := s.applyMove(move); err != nil {
			s.botErr = err
			s.logger.Error().Err(err).Str("move", text).Msg("bot move rejected")
			return
		}
		s.lastBotMove = text
	}()
}

// stopBot must be called with s.mu held.
func (s *Session) stopBot() {
	if s.cancelBot != nil {
		s.cancelBot()
		s.cancelBot = nil
	}
	s.botGen++
	s.thinking = false
}

func (s *Session) state() State {
	var result = State{
		ID:          s.ID,
		FEN:         s.position.FEN(),
		Turn:        colorName(s.position.Turn()),
		HumanColor:  colorName(s.HumanColor),
		Difficulty:  s.Difficulty.String(),
		Status:      s.status,
		Reason:      s.reason,
		Winner:      colorName(s.winner),
		Check:       s.position.IsCheck(),
		Moves:       common.GameSAN(s.game),
		Thinking:    s.thinking,
		LastBotMove: s.lastBotMove,
		CreatedAt:   s.CreatedAt,
	}
	if s.botErr != nil {
		result.BotError = s.botErr.Error()
	}
	if s.status == StatusActive && !s.thinking && s.position.Turn() == s.HumanColor {
		for _, m := range s.position.LegalMoves() {
			result.LegalMoves = append(result.LegalMoves, s.position.MoveSAN(m))
		}
	}
	return result
}
