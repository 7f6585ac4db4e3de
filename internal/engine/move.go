// Package engine decides move legality, applies moves and castles, and
// classifies positions as check, checkmate or stalemate. All functions are
// pure with respect to their input board: hypothetical and resulting
// positions are independent copies.
package engine

import (
	"fmt"

	"chessrules/internal/board"
)

// Move is a single proposed action by one color. Castle, when set, makes the
// move a castle and From/To describe the king's two-square step.
type Move struct {
	Color     board.Color
	Kind      board.Kind
	From      board.Square
	To        board.Square
	Promotion board.Kind
	Castle    board.Side
}

func (m Move) String() string {
	if m.Castle != board.NoSide {
		return fmt.Sprintf("%s castles %s", m.Color.Name(), m.Castle)
	}
	s := fmt.Sprintf("%s %s %s-%s", m.Color.Name(), m.Kind, m.From, m.To)
	if m.Promotion != board.NoKind {
		s += "=" + m.Promotion.String()
	}
	return s
}

// IsCapture reports whether m removes an enemy piece from b, en passant included
func (m Move) IsCapture(b *board.Board) bool {
	if m.Castle != board.NoSide {
		return false
	}
	if target := b.At(m.To); !target.IsEmpty() && target.Color != m.Color {
		return true
	}
	return isEnPassantCapture(b, m)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
