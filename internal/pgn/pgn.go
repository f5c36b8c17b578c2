// Package pgn reads and writes games in Portable Game Notation.
package pgn

import (
	"fmt"
	"io"
	"strings"
)

const (
	ResultNone     = "*"
	ResultWhiteWin = "1-0"
	ResultBlackWin = "0-1"
	ResultDraw     = "1/2-1/2"
)

type Tag struct {
	Key   string
	Value string
}

// Game holds tags and SAN moves. A non-empty FEN tag marks a game that
// does not start from the initial position.
type Game struct {
	Tags   []Tag
	Moves  []string
	Result string
}

func (g *Game) TagValue(key string) (string, bool) {
	return tagValue(g.Tags, key)
}

func (g *Game) SetTag(key, value string) {
	for i := range g.Tags {
		if g.Tags[i].Key == key {
			g.Tags[i].Value = value
			return
		}
	}
	g.Tags = append(g.Tags, Tag{Key: key, Value: value})
}

func tagValue(tags []Tag, key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

const maxLineLength = 80

// Write prints g followed by an empty line. The first move number is
// taken from the FEN tag when present.
func Write(w io.Writer, g Game) error {
	var result = g.Result
	if result == "" {
		result = ResultNone
	}
	var sb = &strings.Builder{}
	for _, tag := range g.Tags {
		if tag.Key == "Result" {
			continue
		}
		fmt.Fprintf(sb, "[%s %q]\n", tag.Key, tag.Value)
	}
	fmt.Fprintf(sb, "[Result %q]\n\n", result)

	var moveNumber, blackFirst = firstMove(g)
	var tokens = make([]string, 0, len(g.Moves)+len(g.Moves)/2+2)
	for i, san := range g.Moves {
		var whiteMove = (i%2 == 0) != blackFirst
		if whiteMove {
			tokens = append(tokens, fmt.Sprintf("%d.", moveNumber))
		} else if i == 0 {
			tokens = append(tokens, fmt.Sprintf("%d...", moveNumber))
		}
		tokens = append(tokens, san)
		if !whiteMove {
			moveNumber++
		}
	}
	tokens = append(tokens, result)

	var lineLength = 0
	for i, token := range tokens {
		if i != 0 {
			if lineLength+1+len(token) > maxLineLength {
				sb.WriteString("\n")
				lineLength = 0
			} else {
				sb.WriteString(" ")
				lineLength++
			}
		}
		sb.WriteString(token)
		lineLength += len(token)
	}
	sb.WriteString("\n\n")

	var _, err = io.WriteString(w, sb.String())
	return err
}

func firstMove(g Game) (moveNumber int, blackFirst bool) {
	moveNumber = 1
	var fen, ok = g.TagValue("FEN")
	if !ok {
		return
	}
	var fields = strings.Fields(fen)
	if len(fields) >= 2 {
		blackFirst = fields[1] == "b"
	}
	if len(fields) >= 6 {
		var n int
		if _, err := fmt.Sscan(fields[5], &n); err == nil && n > 0 {
			moveNumber = n
		}
	}
	return
}
