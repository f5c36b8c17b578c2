// Package server exposes the engine and game sessions over HTTP.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/game"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

type EngineFactory func(d engine.Difficulty) *engine.Engine

type Server struct {
	Logger     zerolog.Logger
	// used when a request names no difficulty
	Difficulty engine.Difficulty

	store     *game.Store
	newEngine EngineFactory
}

func New(store *game.Store, newEngine EngineFactory) *Server {
	if newEngine == nil {
		newEngine = engine.NewEngine
	}
	return &Server{
		Logger:     zerolog.Nop(),
		Difficulty: engine.Medium,
		store:      store,
		newEngine:  newEngine,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	var router = gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", s.health)

	var api = router.Group("/api")
	api.POST("/move", s.bestMove)
	api.POST("/games", s.createGame)
	api.GET("/games/:id", s.getGame)
	api.GET("/games/:id/pgn", s.exportPgn)
	api.POST("/games/:id/moves", s.playMove)
	api.POST("/games/:id/resign", s.resign)
	api.POST("/games/:id/bot", s.resumeBot)
	api.DELETE("/games/:id", s.deleteGame)
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		var start = time.Now()
		c.Next()
		var ev = s.Logger.Info()
		if c.Writer.Status() >= 500 {
			ev = s.Logger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
