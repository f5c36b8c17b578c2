package arena

import (
	"context"
	"fmt"
	"strings"

	"github.com/pawnstorm/counterbot/internal/pgn"
	"github.com/pawnstorm/counterbot/pkg/common"
)

var DefaultOpenings = []string{
	// French
	"1. e4 e6 2. d4 d5 3. Nc3 Nf6 4. e5 Nfd7 5. f4 c5 6. Nf3 Nc6 7. Be3",
	"1. e4 e6 2. d4 d5 3. e5 c5 4. c3 Nc6 5. Nf3 Qb6 6. Bd3",
	// Sicilian
	"1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 a6",
	// Open games
	"1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5",
	"1. e4 e5 2. Nf3 Nc6 3. Bb5",
	// Caro-Kann
	"1.e4 c6 2.d4 d5 3.e5 Bf5",
	// Pirc
	"1. e4 d6 2. d4 Nf6 3. Nc3 g6 4. Nf3",
	// Nimzo-Indian
	"1.d4 Nf6 2.c4 e6 3.Nc3 Bb4",
	// Slav
	"1. d4 d5 2. c4 c6 3. Nf3 Nf6 4. Nc3 e6 5. e3 Nbd7 6. Qc2",
	// Queen's gambit accepted
	"1. d4 d5 2. c4 dxc4",
}

func loadOpenings(
	ctx context.Context,
	openings []string,
	gameInfos chan<- gameInfo,
) error {

	for i, opening := range openings {
		var fen, err = parseOpening(opening)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case gameInfos <- gameInfo{opening: fen, engineAIsWhite: true, gameNumber: 1 + 2*i}:
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case gameInfos <- gameInfo{opening: fen, engineAIsWhite: false, gameNumber: 1 + 2*i + 1}:
		}
	}

	return nil
}

// parseOpening accepts a FEN or a move list such as "1. e4 e5 2.Nf3".
func parseOpening(opening string) (string, error) {
	opening = strings.TrimSpace(opening)
	if strings.Count(opening, "/") == 7 {
		var p, err = common.NewPositionFromFEN(opening)
		if err != nil {
			return "", err
		}
		return p.FEN(), nil
	}
	var pos = common.InitialPosition()
	for _, token := range strings.Fields(opening) {
		if i := strings.LastIndex(token, "."); i >= 0 {
			token = token[i+1:]
		}
		if token == "" {
			continue
		}
		var move, err = pos.ParseMove(token)
		if err != nil {
			return "", fmt.Errorf("opening %q: %w", opening, err)
		}
		pos = pos.MakeMove(move)
	}
	return pos.FEN(), nil
}

// LoadOpeningsPgn takes the first plies half-moves of every game in a
// PGN file. Games set up from a FEN are skipped.
func LoadOpeningsPgn(ctx context.Context, filepath string, plies int) ([]string, error) {
	var result []string
	var err = pgn.WalkFile(ctx, filepath, func(raw pgn.GameRaw) error {
		var g = pgn.Parse(raw)
		if _, ok := g.TagValue("FEN"); ok {
			return nil
		}
		var moves = g.Moves
		if plies > 0 && len(moves) > plies {
			moves = moves[:plies]
		}
		if len(moves) != 0 {
			result = append(result, strings.Join(moves, " "))
		}
		return nil
	})
	return result, err
}
