package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/internal/config"
	"github.com/pawnstorm/counterbot/internal/console"
	"github.com/pawnstorm/counterbot/internal/game"
	"github.com/pawnstorm/counterbot/internal/opponent"
	"github.com/pawnstorm/counterbot/pkg/engine"
)

type Settings struct {
	Difficulty string
	Color      string
	FEN        string
	Think      bool
	Ansi       bool
}

func main() {
	var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(zerolog.WarnLevel)
	var err = run(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("play stopped")
	}
}

func run(logger zerolog.Logger) error {
	var cfg, err = config.LoadConfig()
	if err != nil {
		return err
	}

	var settings = Settings{Difficulty: cfg.Difficulty.String(), Color: "white"}
	flag.StringVar(&settings.Difficulty, "difficulty", settings.Difficulty, "easy, medium or hard")
	flag.StringVar(&settings.Color, "color", settings.Color, "Your colour")
	flag.StringVar(&settings.FEN, "fen", "", "Start position")
	flag.BoolVar(&settings.Think, "think", false, "Bot waits before answering")
	flag.BoolVar(&settings.Ansi, "ansi", true, "Coloured board")
	flag.Parse()

	difficulty, err := engine.ParseDifficulty(settings.Difficulty)
	if err != nil {
		return err
	}
	color, err := game.ParseColor(settings.Color)
	if err != nil {
		return err
	}

	var eng = cfg.NewEngine(difficulty)
	eng.Logger = logger
	var bot = opponent.NewBot(eng)
	bot.Logger = logger
	if settings.Think {
		bot.ThinkMin, bot.ThinkMax = cfg.Think.Min, cfg.Think.Max
	} else {
		bot.ThinkMin, bot.ThinkMax = 0, 0
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return console.PlayCli(ctx, os.Stdin, os.Stdout, bot, console.Options{
		HumanColor: color,
		FEN:        settings.FEN,
		Color:      settings.Ansi,
	})
}
