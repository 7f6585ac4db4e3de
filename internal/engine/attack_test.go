package engine_test

import (
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/engine"
)

func TestIsAttacked(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		sq   string
		by   board.Color
		want bool
	}{
		{"pawns cover third rank", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e3", board.White, true},
		{"nothing reaches e4", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e4", board.White, false},
		{"knight and pawns on f3", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "f3", board.White, true},
		{"black knight on c6", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "c6", board.Black, true},
		{"rook hits open square", "4k3/8/8/8/4r3/8/4P3/4K3 w - - 0 1", "e3", board.Black, true},
		{"rook hits first blocker", "4k3/8/8/8/4r3/8/4P3/4K3 w - - 0 1", "e2", board.Black, true},
		{"rook stopped by blocker", "4k3/8/8/8/4r3/8/4P3/4K3 w - - 0 1", "e1", board.Black, false},
		{"bishop diagonal", "4k3/8/8/8/8/2b5/8/4K3 w - - 0 1", "e1", board.Black, true},
		{"queen along rank", "4k3/8/8/8/8/8/8/q3K3 w - - 0 1", "d1", board.Black, true},
		{"black pawn captures downward", "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "e4", board.Black, true},
		{"black pawn not upward", "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "e6", board.Black, false},
		{"pawn push square not attacked", "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "d4", board.Black, false},
		{"white pawn captures upward", "4k3/8/8/8/3P4/8/8/4K3 w - - 0 1", "c5", board.White, true},
		{"pinned rook still attacks", "4k3/8/8/8/4r3/8/4R3/4K3 w - - 0 1", "a2", board.White, true},
		{"king adjacency", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "d7", board.Black, true},
		{"king two away", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e6", board.Black, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := decode(t, tt.fen)
			if got := engine.IsAttacked(pos.Board, sq(t, tt.sq), tt.by); got != tt.want {
				t.Errorf("IsAttacked(%s, %s) = %v, want %v", tt.sq, tt.by.Name(), got, tt.want)
			}
		})
	}
}

func TestInCheck(t *testing.T) {
	pos := decode(t, "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1")
	if !engine.InCheck(pos.Board, board.Black) {
		t.Error("black king on open file not in check")
	}
	if engine.InCheck(pos.Board, board.White) {
		t.Error("white reported in check")
	}

	b := board.Empty()
	b.Set(sq(t, "e1"), board.Piece{Color: board.White, Kind: board.King})
	if engine.InCheck(b, board.Black) {
		t.Error("color without a king reported in check")
	}
}

// Every ordinary capture the rules allow must land on a square the attack
// oracle considers attacked by the capturing side
func TestCapturesAgreeWithAttacks(t *testing.T) {
	for _, fen := range referencePositions {
		pos := decode(t, fen.fen)
		for _, m := range engine.LegalMoves(pos.Board, pos.Turn) {
			target := pos.Board.At(m.To)
			if target.IsEmpty() || m.Castle != board.NoSide {
				continue
			}
			if !engine.IsAttacked(pos.Board, m.To, pos.Turn) {
				t.Errorf("%s: %v captures on %s but square is not attacked", fen.name, m, m.To)
			}
		}
	}
}
