package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/config"
	"github.com/pawnstorm/counterbot/internal/tactic"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	var err = run(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("tactic stopped")
	}
}

func run(logger zerolog.Logger) error {
	var cfg, err = config.LoadConfig()
	if err != nil {
		return err
	}

	var (
		filepath   = "tests.epd"
		difficulty = "hard"
		moveTime   = 3 * time.Second
	)
	flag.StringVar(&filepath, "epd", filepath, "EPD file with bm tests")
	flag.StringVar(&difficulty, "difficulty", difficulty, "easy, medium or hard")
	flag.DurationVar(&moveTime, "movetime", moveTime, "Time per test, 0 for none")
	flag.Parse()

	d, err := engine.ParseDifficulty(difficulty)
	if err != nil {
		return err
	}
	tests, err := tactic.LoadEpdFile(filepath, logger)
	if err != nil {
		return err
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var eng = cfg.NewEngine(d)
	eng.Prepare()
	result, err := tactic.Solve(ctx, tests, eng, moveTime, logger)
	for _, name := range result.Failed {
		logger.Info().Str("id", name).Msg("not solved")
	}
	return err
}
