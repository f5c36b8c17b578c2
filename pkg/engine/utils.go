package engine

import "errors"

const valueInfinity = 1 << 30

var errSearchTimeout = errors.New("search timeout")

// worstScore is where the side starts before any move is searched.
func worstScore(maximizing bool) int {
	if maximizing {
		return -valueInfinity
	}
	return valueInfinity
}

func improves(score, best int, maximizing bool) bool {
	if maximizing {
		return score > best
	}
	return score < best
}

func boundFor(score, alpha, beta int) int {
	if score <= alpha {
		return boundUpper
	}
	if score >= beta {
		return boundLower
	}
	return boundExact
}
