package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/config"
	"github.com/pawnstorm/counterbot/internal/game"
	"github.com/pawnstorm/counterbot/internal/opponent"
	"github.com/pawnstorm/counterbot/internal/server"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	var err = run(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("counterbot stopped")
	}
}

func run(logger zerolog.Logger) error {
	var cfg, err = config.LoadConfig()
	if err != nil {
		return err
	}

	var logLevel = cfg.LogLevel.String()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&logLevel, "loglevel", logLevel, "trace, debug, info, warn or error")
	flag.DurationVar(&cfg.Think.Min, "thinkmin", cfg.Think.Min, "Minimum bot thinking delay")
	flag.DurationVar(&cfg.Think.Max, "thinkmax", cfg.Think.Max, "Maximum bot thinking delay")
	flag.Int64Var(&cfg.Engine.MaxNodes, "maxnodes", cfg.Engine.MaxNodes, "Node budget per search, 0 for none")
	flag.DurationVar(&cfg.Engine.MoveTime, "movetime", cfg.Engine.MoveTime, "Time budget per search, 0 for none")
	flag.Parse()

	cfg.LogLevel, err = zerolog.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if cfg.Think.Max < cfg.Think.Min {
		return config.ErrBadValue
	}
	logger = logger.Level(cfg.LogLevel)
	if cfg.LogLevel > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Str("difficulty", cfg.Difficulty.String()).
		Dur("thinkMin", cfg.Think.Min).
		Dur("thinkMax", cfg.Think.Max).
		Int("cacheCapacity", cfg.Engine.CacheCapacity).
		Int64("maxNodes", cfg.Engine.MaxNodes).
		Dur("moveTime", cfg.Engine.MoveTime).
		Msg("config")

	var store = game.NewStore(func(d engine.Difficulty) *opponent.Bot {
		var eng = cfg.NewEngine(d)
		eng.Logger = logger.With().Str("component", "engine").Logger()
		var bot = opponent.NewBot(eng)
		bot.ThinkMin = cfg.Think.Min
		bot.ThinkMax = cfg.Think.Max
		bot.Logger = logger.With().Str("component", "bot").Logger()
		return bot
	})
	store.Logger = logger.With().Str("component", "store").Logger()
	defer store.CloseAll()

	var srv = server.New(store, func(d engine.Difficulty) *engine.Engine {
		var eng = cfg.NewEngine(d)
		eng.Logger = logger.With().Str("component", "engine").Logger()
		return eng
	})
	srv.Logger = logger.With().Str("component", "http").Logger()
	srv.Difficulty = cfg.Difficulty

	var httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Router(),
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr = make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	var shutdownCtx, cancel = context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
