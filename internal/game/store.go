package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/opponent"
	"github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

type BotFactory func(d engine.Difficulty) *opponent.Bot

type CreateOptions struct {
	Difficulty engine.Difficulty
	HumanColor chess.Color
	FEN        string
}

type Store struct {
	Logger   zerolog.Logger
	newBot   BotFactory
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(newBot BotFactory) *Store {
	if newBot == nil {
		newBot = opponent.NewBotWithDifficulty
	}
	return &Store{
		Logger:   zerolog.Nop(),
		newBot:   newBot,
		sessions: make(map[string]*Session),
	}
}

func (st *Store) Create(opts CreateOptions) (*Session, error) {
	if opts.HumanColor != chess.White && opts.HumanColor != chess.Black {
		return nil, ErrBadColor
	}
	var g, err = newChessGame(opts.FEN)
	if err != nil {
		return nil, err
	}
	var id = uuid.NewString()
	var s = newSession(id, g, opts.HumanColor, opts.Difficulty, st.newBot(opts.Difficulty), st.Logger)

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()

	st.Logger.Info().
		Str("game", id).
		Str("difficulty", opts.Difficulty.String()).
		Str("human", colorName(opts.HumanColor)).
		Msg("game created")
	return s, nil
}

func newChessGame(fen string) (*chess.Game, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" {
		return chess.NewGame(), nil
	}
	if _, err := common.NewPositionFromFEN(fen); err != nil {
		return nil, err
	}
	var opt, err = chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadFen, err)
	}
	return chess.NewGame(opt), nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var s, ok = st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	var s, ok = st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	s.Close()
	st.Logger.Info().Str("game", id).Msg("game deleted")
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// CloseAll stops every bot, used on shutdown.
func (st *Store) CloseAll() {
	st.mu.Lock()
	var sessions = st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
