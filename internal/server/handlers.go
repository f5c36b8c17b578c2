package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pawnstorm/counterbot/internal/game"
	"github.com/pawnstorm/counterbot/internal/pgn"
	"github.com/pawnstorm/counterbot/pkg/common"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

type moveRequest struct {
	FEN        string `json:"fen" binding:"required"`
	Difficulty string `json:"difficulty"`
}

type moveResponse struct {
	Move   *string `json:"move"`
	UCI    string  `json:"uci,omitempty"`
	Score  int     `json:"score"`
	Depth  int     `json:"depth"`
	Nodes  int64   `json:"nodes"`
	Random bool    `json:"random"`
	TimeMs int64   `json:"timeMs"`
}

type createGameRequest struct {
	Difficulty string `json:"difficulty"`
	Color      string `json:"color"`
	FEN        string `json:"fen"`
}

type playMoveRequest struct {
	Move string `json:"move" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "games": s.store.Len()})
}

// bestMove answers a one-off question with a fresh engine.
func (s *Server) bestMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var difficulty, err = s.parseDifficulty(req.Difficulty)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := common.NewPositionFromFEN(req.FEN)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var info = s.newEngine(difficulty).Search(c.Request.Context(), &p)
	var resp = moveResponse{
		Score:  info.Score,
		Depth:  info.Depth,
		Nodes:  info.Nodes,
		Random: info.Random,
		TimeMs: info.Time.Milliseconds(),
	}
	if info.Move != nil {
		var san = p.MoveSAN(info.Move)
		resp.Move = &san
		resp.UCI = p.MoveUCI(info.Move)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var difficulty, err = s.parseDifficulty(req.Difficulty)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	color, err := game.ParseColor(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := s.store.Create(game.CreateOptions{
		Difficulty: difficulty,
		HumanColor: color,
		FEN:        req.FEN,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.State())
}

func (s *Server) getGame(c *gin.Context) {
	var session, err = s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (s *Server) exportPgn(c *gin.Context) {
	var session, err = s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var sb = &strings.Builder{}
	if err := pgn.Write(sb, session.PGN()); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/x-chess-pgn", []byte(sb.String()))
}

func (s *Server) playMove(c *gin.Context) {
	var session, err = s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req playMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	state, err := session.PlayHuman(req.Move)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) resign(c *gin.Context) {
	var session, err = s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	state, err := session.Resign()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) resumeBot(c *gin.Context) {
	var session, err = s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	state, err := session.Resume()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) deleteGame(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrBadFen),
		errors.Is(err, game.ErrBadColor),
		errors.Is(err, engine.ErrBadDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrIllegalMove),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotYourTurn):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) parseDifficulty(name string) (engine.Difficulty, error) {
	if name == "" {
		return s.Difficulty, nil
	}
	return engine.ParseDifficulty(name)
}
