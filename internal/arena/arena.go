package arena

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Run plays every opening twice, once with each colour for engine A.
func Run(
	ctx context.Context,
	config Config,
	newEngineA, newEngineB EngineFactory,
	logger zerolog.Logger,
) (Result, error) {
	logger.Info().Msg("arena started")
	defer logger.Info().Msg("arena finished")

	var gameConcurrency = config.Concurrency
	if gameConcurrency <= 0 {
		gameConcurrency = 1
	}
	var openings = config.Openings
	if len(openings) == 0 {
		openings = DefaultOpenings
	}

	logger.Info().
		Int("numCPU", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Int("gameConcurrency", gameConcurrency).
		Int("openings", len(openings)).
		Msg("arena config")

	g, ctx := errgroup.WithContext(ctx)

	var gameInfos = make(chan gameInfo)
	var gameResults = make(chan gameResult)
	var result Result

	g.Go(func() error {
		defer close(gameInfos)
		return loadOpenings(ctx, openings, gameInfos)
	})

	g.Go(func() error {
		var res, err = showResults(ctx, gameResults, config.PGN, logger)
		result = res
		return err
	})

	var wg = &sync.WaitGroup{}

	for i := 0; i < gameConcurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return playGames(ctx, config.TimeControl, newEngineA(), newEngineB(),
				gameInfos, gameResults, logger)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(gameResults)
		return nil
	})

	var err = g.Wait()
	return result, err
}

func playGames(
	ctx context.Context,
	tc TimeControl,
	engineA, engineB IEngine,
	gameInfos <-chan gameInfo,
	gameResults chan<- gameResult,
	logger zerolog.Logger,
) error {
	for gameInfo := range gameInfos {
		var res, err = playGame(ctx, engineA, engineB, tc, gameInfo, logger)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case gameResults <- res:
		}
	}
	return nil
}
