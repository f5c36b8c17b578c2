package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultMoveTime bounds every search unless the caller sets MoveTime.
const DefaultMoveTime = 1500 * time.Millisecond

type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

var ErrBadDifficulty = errors.New("bad difficulty")

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("%w: %q", ErrBadDifficulty, s)
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// Depth is the search depth in plies for the tier.
func (d Difficulty) Depth() int {
	switch d {
	case Easy:
		return 3
	case Hard:
		return 6
	}
	return 4
}

func (d Difficulty) randomMoveChance() int {
	if d == Easy {
		return 15
	}
	return 0
}

func (d Difficulty) evalNoise() int {
	if d == Easy {
		return 25
	}
	return 0
}
