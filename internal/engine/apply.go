package engine

import (
	"fmt"

	"chessrules/internal/board"
)

// Apply checks m and, if legal, returns the resulting board. b is never
// modified, on success or failure. Castle moves are routed to Castle.
func Apply(b *board.Board, m Move) (*board.Board, error) {
	if m.Castle != board.NoSide {
		return Castle(b, m.Color, m.Castle)
	}
	if err := CheckMove(b, m); err != nil {
		return nil, err
	}
	if err := checkPromotion(m); err != nil {
		return nil, err
	}

	next := b.Clone()
	captured := b.At(m.To)

	if isEnPassantCapture(b, m) {
		victim := enPassantVictim(m)
		captured = b.At(victim)
		next.Clear(victim)
	}

	placed := board.Piece{Color: m.Color, Kind: m.Kind}
	if m.Promotion != board.NoKind {
		placed.Kind = m.Promotion
	}
	next.Clear(m.From)
	next.Set(m.To, placed)

	// The window is exactly one ply wide
	next.ClearEnPassant()
	if m.Kind == board.Pawn && abs(m.To.Rank-m.From.Rank) == 2 {
		next.SetEnPassant(m.From.Offset(board.Forward(m.Color), 0))
	}

	revokeRights(next, m, captured)
	return next, nil
}

// checkPromotion requires a promotion piece exactly when a pawn reaches its last rank
func checkPromotion(m Move) error {
	lastRank := m.Kind == board.Pawn && m.To.Rank == board.LastRank(m.Color)
	switch {
	case lastRank && m.Promotion == board.NoKind:
		return fmt.Errorf("%s: %w", m, ErrPromotionRequired)
	case lastRank && !m.Promotion.IsPromotion():
		return fmt.Errorf("%s: cannot promote to %s: %w", m, m.Promotion, ErrInvalidPromotion)
	case !lastRank && m.Promotion != board.NoKind:
		return fmt.Errorf("%s: promotion only on the last rank: %w", m, ErrInvalidPromotion)
	}
	return nil
}

// revokeRights clears castling rights touched by m: a king move drops both
// sides, a rook leaving its corner or captured on it drops that corner's side
func revokeRights(next *board.Board, m Move, captured board.Piece) {
	if m.Kind == board.King {
		next.RevokeCastling(m.Color, board.NoSide)
	}
	if m.Kind == board.Rook {
		if side, ok := cornerSide(m.Color, m.From); ok {
			next.RevokeCastling(m.Color, side)
		}
	}
	if captured.Kind == board.Rook {
		if side, ok := cornerSide(captured.Color, m.To); ok {
			next.RevokeCastling(captured.Color, side)
		}
	}
}

// cornerSide maps a rook home square of color c to its castling side
func cornerSide(c board.Color, sq board.Square) (board.Side, bool) {
	if sq.Rank != board.BackRank(c) {
		return board.NoSide, false
	}
	for side, g := range castles {
		if sq.File == g.rookFrom {
			return side, true
		}
	}
	return board.NoSide, false
}
