package engine

import (
	"fmt"

	"chessrules/internal/board"
)

type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Terminal reports whether the game cannot continue from this status
func (s Status) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// HasAnyLegalMove tries every own piece against all 64 destinations and stops
// at the first legal pairing. Castling needs no separate probe: a legal castle
// implies a legal one-step king move toward the rook.
func HasAnyLegalMove(b *board.Board, c board.Color) bool {
	for _, from := range board.AllSquares() {
		p := b.At(from)
		if p.IsEmpty() || p.Color != c {
			continue
		}
		for _, to := range board.AllSquares() {
			if IsLegal(b, c, p.Kind, from, to) {
				return true
			}
		}
	}
	return false
}

// Evaluate classifies the position for the color about to move
func Evaluate(b *board.Board, c board.Color) (Status, error) {
	if _, ok := b.KingSquare(c); !ok {
		return Ongoing, fmt.Errorf("%s: %w", c.Name(), board.ErrMissingKing)
	}

	check := InCheck(b, c)
	if HasAnyLegalMove(b, c) {
		if check {
			return Check, nil
		}
		return Ongoing, nil
	}
	if check {
		return Checkmate, nil
	}
	return Stalemate, nil
}
