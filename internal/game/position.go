package game

import (
	"chessrules/internal/board"
	"chessrules/internal/engine"
	"chessrules/internal/notation"
)

// NextPosition wraps the board produced by playing m from pos with the
// turn and move counters. The halfmove clock resets on pawn moves and
// captures; the fullmove number advances after black moves.
func NextPosition(pos *notation.Position, m engine.Move, next *board.Board) *notation.Position {
	out := &notation.Position{
		Board:    next,
		Turn:     pos.Turn.Opposite(),
		Halfmove: pos.Halfmove + 1,
		Fullmove: pos.Fullmove,
	}
	if m.Kind == board.Pawn || m.IsCapture(pos.Board) {
		out.Halfmove = 0
	}
	if pos.Turn == board.Black {
		out.Fullmove++
	}
	return out
}
