package engine

import "chessrules/internal/board"

type offset struct{ dr, df int }

var (
	orthogonal = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal   = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	kingSteps  = append(append([]offset{}, orthogonal...), diagonal...)

	knightJumps = []offset{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
)

// IsAttacked reports whether any piece of color by could capture on sq with
// its next move, ignoring whose turn it is and whether that piece is pinned.
func IsAttacked(b *board.Board, sq board.Square, by board.Color) bool {
	if rayAttacked(b, sq, by, orthogonal, board.Rook) || rayAttacked(b, sq, by, diagonal, board.Bishop) {
		return true
	}

	for _, o := range knightJumps {
		if b.At(sq.Offset(o.dr, o.df)).Is(by, board.Knight) {
			return true
		}
	}

	// An attacking pawn sits one rank behind sq from its own direction of travel
	back := -board.Forward(by)
	for _, df := range []int{-1, 1} {
		if b.At(sq.Offset(back, df)).Is(by, board.Pawn) {
			return true
		}
	}

	for _, o := range kingSteps {
		if b.At(sq.Offset(o.dr, o.df)).Is(by, board.King) {
			return true
		}
	}

	return false
}

// rayAttacked walks each ray until the first occupied square; slider or queen
// of the attacking color there means the square is hit along that ray
func rayAttacked(b *board.Board, sq board.Square, by board.Color, rays []offset, slider board.Kind) bool {
	for _, o := range rays {
		for cur := sq.Offset(o.dr, o.df); cur.Valid(); cur = cur.Offset(o.dr, o.df) {
			p := b.At(cur)
			if p.IsEmpty() {
				continue
			}
			if p.Color == by && (p.Kind == slider || p.Kind == board.Queen) {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether the color's king is attacked. A board without that
// king is never in check; Evaluate reports the missing king instead.
func InCheck(b *board.Board, c board.Color) bool {
	king, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return IsAttacked(b, king, c.Opposite())
}
