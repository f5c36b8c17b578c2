package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/arena"
	"github.com/pawnstorm/counterbot/internal/config"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

type Settings struct {
	EngineA      string
	EngineB      string
	Concurrency  int
	MaxPlies     int
	MoveTime     time.Duration
	OpeningsPath string
	OpeningPlies int
	PgnPath      string
}

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	var err = run(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("arena stopped")
	}
}

func run(logger zerolog.Logger) error {
	var cfg, err = config.LoadConfig()
	if err != nil {
		return err
	}

	var settings Settings
	flag.StringVar(&settings.EngineA, "a", "hard", "Difficulty of engine A")
	flag.StringVar(&settings.EngineB, "b", "medium", "Difficulty of engine B")
	flag.IntVar(&settings.Concurrency, "concurrency", 4, "Number of games played at once")
	flag.IntVar(&settings.MaxPlies, "maxplies", 200, "Half-moves before a game is scored as a draw")
	flag.DurationVar(&settings.MoveTime, "movetime", 0, "Time per move, 0 for none")
	flag.StringVar(&settings.OpeningsPath, "openings", "", "PGN file with openings")
	flag.IntVar(&settings.OpeningPlies, "openingplies", 8, "Half-moves taken from each opening game")
	flag.StringVar(&settings.PgnPath, "pgn", "", "Output PGN file for finished games")
	flag.Parse()

	logger.Info().Interface("settings", settings).Msg("arena settings")

	difficultyA, err := engine.ParseDifficulty(settings.EngineA)
	if err != nil {
		return err
	}
	difficultyB, err := engine.ParseDifficulty(settings.EngineB)
	if err != nil {
		return err
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var arenaConfig = arena.Config{
		Concurrency: settings.Concurrency,
		TimeControl: arena.TimeControl{
			FixedTime: settings.MoveTime,
			MaxPlies:  settings.MaxPlies,
		},
	}
	if settings.OpeningsPath != "" {
		arenaConfig.Openings, err = arena.LoadOpeningsPgn(ctx, settings.OpeningsPath, settings.OpeningPlies)
		if err != nil {
			return err
		}
	}
	if settings.PgnPath != "" {
		var file, err = os.Create(settings.PgnPath)
		if err != nil {
			return err
		}
		defer file.Close()
		arenaConfig.PGN = file
	}

	result, err := arena.Run(ctx, arenaConfig,
		engineFactory(&cfg, difficultyA), engineFactory(&cfg, difficultyB), logger)
	if err != nil {
		return err
	}

	logger.Info().
		Int("wins", result.Wins).
		Int("losses", result.Losses).
		Int("draws", result.Draws).
		Float64("elo", result.EloDifference).
		Float64("los", result.LOS).
		Msg("final")
	return nil
}

func engineFactory(cfg *config.Config, d engine.Difficulty) arena.EngineFactory {
	return func() arena.IEngine {
		var eng = cfg.NewEngine(d)
		eng.Prepare()
		return eng
	}
}
