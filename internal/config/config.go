package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"

	"github.com/pawnstorm/counterbot/pkg/engine"
)

var ErrBadValue = errors.New("bad config value")

type Config struct {
	Addr       string
	LogLevel   zerolog.Level
	Difficulty engine.Difficulty
	Think      ThinkConfig
	Engine     EngineConfig
}

type ThinkConfig struct {
	Min time.Duration
	Max time.Duration
}

type EngineConfig struct {
	CacheCapacity int
	MaxNodes      int64
	MoveTime      time.Duration
}

func Default() Config {
	return Config{
		Addr:       "0.0.0.0:8080",
		LogLevel:   zerolog.InfoLevel,
		Difficulty: engine.Medium,
		Think: ThinkConfig{
			Min: 1 * time.Second,
			Max: 2 * time.Second,
		},
		Engine: EngineConfig{
			CacheCapacity: 10_000,
			MoveTime:      engine.DefaultMoveTime,
		},
	}
}

func LoadConfig() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	var cfg = Default()
	var errs []error
	var get = func(key string, parse func(string) error) {
		var v, ok = lookup(key)
		if !ok || v == "" {
			return
		}
		if err := parse(v); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrBadValue, key, v, err))
		}
	}

	get("COUNTERBOT_ADDR", func(s string) error {
		cfg.Addr = s
		return nil
	})
	get("COUNTERBOT_LOG_LEVEL", func(s string) (err error) {
		cfg.LogLevel, err = zerolog.ParseLevel(s)
		return
	})
	get("COUNTERBOT_DIFFICULTY", func(s string) (err error) {
		cfg.Difficulty, err = engine.ParseDifficulty(s)
		return
	})
	get("COUNTERBOT_THINK_MIN_MS", millis(&cfg.Think.Min))
	get("COUNTERBOT_THINK_MAX_MS", millis(&cfg.Think.Max))
	get("COUNTERBOT_MOVE_TIME_MS", millis(&cfg.Engine.MoveTime))
	get("COUNTERBOT_CACHE_CAPACITY", func(s string) error {
		var n, err = strconv.Atoi(s)
		if err != nil {
			return err
		}
		if n <= 0 {
			return errors.New("must be positive")
		}
		cfg.Engine.CacheCapacity = n
		return nil
	})
	get("COUNTERBOT_MAX_NODES", func(s string) error {
		var n, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.New("must not be negative")
		}
		cfg.Engine.MaxNodes = n
		return nil
	})

	if cfg.Think.Max < cfg.Think.Min {
		errs = append(errs, fmt.Errorf("%w: think max %v below min %v", ErrBadValue, cfg.Think.Max, cfg.Think.Min))
	}
	return cfg, errors.Join(errs...)
}

func millis(d *time.Duration) func(string) error {
	return func(s string) error {
		var n, err = strconv.Atoi(s)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.New("must not be negative")
		}
		*d = time.Duration(n) * time.Millisecond
		return nil
	}
}

// NewEngine builds an engine for d with the configured limits.
func (cfg *Config) NewEngine(d engine.Difficulty) *engine.Engine {
	var e = engine.NewEngine(d)
	e.CacheCapacity = cfg.Engine.CacheCapacity
	e.MaxNodes = cfg.Engine.MaxNodes
	e.MoveTime = cfg.Engine.MoveTime
	return e
}
