package common

import (
	"time"

	"github.com/notnil/chess"
)

const (
	ValueDraw = 0
	ValueMate = 9999
)

// Random is satisfied by *math/rand.Rand and *frand.RNG.
type Random interface {
	Intn(n int) int
}

type SearchInfo struct {
	Move   *chess.Move
	Score  int // white point of view
	Depth  int
	Nodes  int64
	Time   time.Duration
	Random bool
}

func (si SearchInfo) IsMate() bool {
	return si.Score >= ValueMate || si.Score <= -ValueMate
}
