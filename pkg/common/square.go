package common

import "github.com/notnil/chess"

func FlipSquare(sq chess.Square) chess.Square {
	return sq ^ 56
}

func File(sq chess.Square) int {
	return int(sq) & 7
}

func Rank(sq chess.Square) int {
	return int(sq) >> 3
}

func MakeSquare(file, rank int) chess.Square {
	return chess.Square((rank << 3) | file)
}

func IsOnBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func FileDistance(sq1, sq2 chess.Square) int {
	return Abs(File(sq1) - File(sq2))
}

func RankDistance(sq1, sq2 chess.Square) int {
	return Abs(Rank(sq1) - Rank(sq2))
}

func SquareDistance(sq1, sq2 chess.Square) int {
	return Max(FileDistance(sq1, sq2), RankDistance(sq1, sq2))
}

// RelativeRank is the rank seen from the side's own back rank.
func RelativeRank(sq chess.Square, side chess.Color) int {
	if side == chess.White {
		return Rank(sq)
	}
	return 7 - Rank(sq)
}

func ParseSquare(s string) (chess.Square, bool) {
	if len(s) != 2 {
		return chess.NoSquare, false
	}
	var file = int(s[0]) - 'a'
	var rank = int(s[1]) - '1'
	if !IsOnBoard(file, rank) {
		return chess.NoSquare, false
	}
	return MakeSquare(file, rank), true
}
