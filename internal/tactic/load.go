// Package tactic checks the engine against EPD test positions.
package tactic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"github.com/pawnstorm/counterbot/pkg/common"
)

type EpdItem struct {
	ID        string
	Position  common.Position
	BestMoves []*chess.Move
	content   string
}

func LoadEpdFile(filePath string, logger zerolog.Logger) ([]EpdItem, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadEpd(file, logger)
}

// LoadEpd reads one test per line. Lines that fail to parse are logged
// and skipped.
func LoadEpd(r io.Reader, logger zerolog.Logger) ([]EpdItem, error) {
	var result []EpdItem
	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var test, err = parseEpdTest(line)
		if err != nil {
			logger.Warn().Err(err).Msg("skip epd line")
			continue
		}
		result = append(result, test)
	}
	return result, scanner.Err()
}

// parseEpdTest accepts "<4 fen fields> bm <moves>; id <name>;".
func parseEpdTest(s string) (EpdItem, error) {
	var fields = strings.Fields(s)
	if len(fields) < 6 {
		return EpdItem{}, fmt.Errorf("short epd %q", s)
	}
	var fen = strings.Join(fields[:4], " ") + " 0 1"
	var p, err = common.NewPositionFromFEN(fen)
	if err != nil {
		return EpdItem{}, err
	}

	var item = EpdItem{Position: p, content: s}
	for _, op := range strings.Split(strings.Join(fields[4:], " "), ";") {
		var opFields = strings.Fields(op)
		if len(opFields) < 2 {
			continue
		}
		switch opFields[0] {
		case "bm":
			for _, san := range opFields[1:] {
				var move, err = p.ParseMove(san)
				if err != nil {
					return EpdItem{}, fmt.Errorf("parse move %q failed in %q", san, s)
				}
				item.BestMoves = append(item.BestMoves, move)
			}
		case "id":
			item.ID = strings.Trim(strings.Join(opFields[1:], " "), `"`)
		}
	}
	if len(item.BestMoves) == 0 {
		return EpdItem{}, fmt.Errorf("empty best moves %q", s)
	}
	return item, nil
}
