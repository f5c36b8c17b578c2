package pgn

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"
)

var tagPairRegex = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]`)

type GameRaw struct {
	Tags    []Tag
	BodyRaw string
}

// WalkFile calls onGame for every game in the file.
func WalkFile(ctx context.Context, filepath string, onGame func(GameRaw) error) error {
	file, err := os.Open(filepath)
	if err != nil {
		return err
	}
	defer file.Close()
	return Walk(ctx, file, onGame)
}

func Walk(ctx context.Context, r io.Reader, onGame func(GameRaw) error) error {
	var tags []Tag
	var body = &strings.Builder{}
	var hasBody bool

	var flush = func() error {
		if body.Len() != 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := onGame(GameRaw{Tags: tags, BodyRaw: body.String()}); err != nil {
				return err
			}
		}
		hasBody = false
		tags = nil
		body.Reset()
		return nil
	}

	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			if hasBody {
				if err := flush(); err != nil {
					return err
				}
			}
			if m := tagPairRegex.FindStringSubmatch(line); m != nil {
				tags = append(tags, Tag{Key: m[1], Value: m[2]})
			}
		} else if line != "" {
			hasBody = true
			body.WriteString(line)
			body.WriteString(" ")
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}

// Parse turns a raw game into SAN moves. Comments, variations, move
// numbers and annotation glyphs are skipped.
func Parse(raw GameRaw) Game {
	var g = Game{Tags: raw.Tags, Result: ResultNone}
	if result, ok := tagValue(raw.Tags, "Result"); ok {
		g.Result = result
	}
	for _, token := range moveTokens(raw.BodyRaw) {
		switch token {
		case ResultWhiteWin, ResultBlackWin, ResultDraw, ResultNone:
			g.Result = token
			continue
		}
		g.Moves = append(g.Moves, token)
	}
	return g
}

func moveTokens(bodyRaw string) []string {
	var result []string
	var commentDepth, variationDepth int
	var body = &strings.Builder{}
	var push = func() {
		if body.Len() != 0 {
			result = append(result, body.String())
			body.Reset()
		}
	}
	for _, r := range bodyRaw {
		switch {
		case commentDepth > 0:
			if r == '}' {
				commentDepth--
			}
		case r == '{':
			push()
			commentDepth++
		case r == '(':
			push()
			variationDepth++
		case r == ')':
			body.Reset()
			if variationDepth > 0 {
				variationDepth--
			}
		case variationDepth > 0:
		case r == '.':
			// drops the move number before the dot
			body.Reset()
		case unicode.IsSpace(r):
			push()
		default:
			body.WriteRune(r)
		}
	}
	push()

	var moves = result[:0]
	for _, token := range result {
		if strings.HasPrefix(token, "$") {
			continue
		}
		token = strings.TrimRight(token, "!?")
		if token != "" {
			moves = append(moves, token)
		}
	}
	return moves
}
