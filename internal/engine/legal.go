package engine

import (
	"fmt"

	"chessrules/internal/board"
)

// pattern reports whether m matches the movement rule of its kind on b.
// Own-piece destinations and self-check are decided by CheckMove around it.
type pattern func(b *board.Board, m Move) bool

var patterns = [...]pattern{
	board.Pawn:   pawnPattern,
	board.Knight: knightPattern,
	board.Bishop: bishopPattern,
	board.Rook:   rookPattern,
	board.Queen:  queenPattern,
	board.King:   kingPattern,
}

// IsLegal reports whether the piece of color and kind on from may move to to.
// Castling is not reachable here; see CanCastle.
func IsLegal(b *board.Board, c board.Color, k board.Kind, from, to board.Square) bool {
	return CheckMove(b, Move{Color: c, Kind: k, From: from, To: to}) == nil
}

// CheckMove is IsLegal with the rejection reason. Promotion choice is not
// examined; Apply enforces it.
func CheckMove(b *board.Board, m Move) error {
	if !m.From.Valid() || !m.To.Valid() {
		return fmt.Errorf("%s: %w", m, ErrOffBoard)
	}
	if m.Castle != board.NoSide {
		return CanCastle(b, m.Color, m.Castle)
	}
	if int(m.Kind) >= len(patterns) || patterns[m.Kind] == nil {
		return reject(m, "unknown piece kind")
	}
	if !b.At(m.From).Is(m.Color, m.Kind) {
		return reject(m, "no %s %s on %s", m.Color.Name(), m.Kind, m.From)
	}
	if m.From == m.To {
		return reject(m, "piece must change square")
	}
	if target := b.At(m.To); !target.IsEmpty() && target.Color == m.Color {
		return reject(m, "%s is occupied by own %s", m.To, target.Kind)
	}

	exposed, err := leavesKingInCheck(b, m)
	if err != nil {
		return err
	}
	if exposed {
		return reject(m, "leaves own king in check")
	}

	if !patterns[m.Kind](b, m) {
		return reject(m, "not a %s move", m.Kind)
	}
	return nil
}

// leavesKingInCheck plays m on an independent copy of b and tests the mover's king
func leavesKingInCheck(b *board.Board, m Move) (bool, error) {
	hypo := *b
	if isEnPassantCapture(b, m) {
		hypo.Clear(enPassantVictim(m))
	}
	hypo.Clear(m.From)
	hypo.Set(m.To, board.Piece{Color: m.Color, Kind: m.Kind})

	king, ok := hypo.KingSquare(m.Color)
	if !ok {
		return false, fmt.Errorf("%s: %w", m.Color.Name(), board.ErrMissingKing)
	}
	return IsAttacked(&hypo, king, m.Color.Opposite()), nil
}

func queenPattern(b *board.Board, m Move) bool {
	return slide(b, m.From, m.To, true, true)
}

func rookPattern(b *board.Board, m Move) bool {
	return slide(b, m.From, m.To, true, false)
}

func bishopPattern(b *board.Board, m Move) bool {
	return slide(b, m.From, m.To, false, true)
}

// slide walks one step at a time toward to; every square before it must be empty
func slide(b *board.Board, from, to board.Square, straight, diag bool) bool {
	dr, df := to.Rank-from.Rank, to.File-from.File
	aligned := (straight && (dr == 0 || df == 0)) || (diag && abs(dr) == abs(df))
	if !aligned {
		return false
	}

	sr, sf := sign(dr), sign(df)
	cur := from.Offset(sr, sf)
	for cur != to {
		if !b.At(cur).IsEmpty() {
			return false
		}
		cur = cur.Offset(sr, sf)
	}
	return true
}

func knightPattern(_ *board.Board, m Move) bool {
	dr, df := abs(m.To.Rank-m.From.Rank), abs(m.To.File-m.From.File)
	return (dr == 1 && df == 2) || (dr == 2 && df == 1)
}

func kingPattern(_ *board.Board, m Move) bool {
	dr, df := abs(m.To.Rank-m.From.Rank), abs(m.To.File-m.From.File)
	return dr <= 1 && df <= 1
}

func pawnPattern(b *board.Board, m Move) bool {
	fwd := board.Forward(m.Color)
	dr, df := m.To.Rank-m.From.Rank, m.To.File-m.From.File

	switch {
	case df == 0 && dr == fwd:
		return b.At(m.To).IsEmpty()
	case df == 0 && dr == 2*fwd:
		if m.From.Rank != board.HomeRank(m.Color) {
			return false
		}
		return b.At(m.From.Offset(fwd, 0)).IsEmpty() && b.At(m.To).IsEmpty()
	case abs(df) == 1 && dr == fwd:
		if target := b.At(m.To); !target.IsEmpty() {
			return target.Color != m.Color
		}
		return isEnPassantCapture(b, m)
	}
	return false
}

// isEnPassantCapture: a diagonal pawn step onto the armed, empty target square
// with the enemy pawn that just advanced sitting behind it
func isEnPassantCapture(b *board.Board, m Move) bool {
	if m.Kind != board.Pawn || m.From.File == m.To.File {
		return false
	}
	ep, armed := b.EnPassant()
	if !armed || ep != m.To || !b.At(m.To).IsEmpty() {
		return false
	}
	return b.At(enPassantVictim(m)).Is(m.Color.Opposite(), board.Pawn)
}

// enPassantVictim is on the destination file, one rank back along the capturer's travel
func enPassantVictim(m Move) board.Square {
	return board.Sq(m.To.Rank-board.Forward(m.Color), m.To.File)
}
