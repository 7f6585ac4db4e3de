package engine_test

import (
	"errors"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/engine"
)

func TestIsLegal(t *testing.T) {
	const start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	tests := []struct {
		name string
		fen  string
		move string
		want bool
	}{
		{"single push", start, "e2e3", true},
		{"double push", start, "e2e4", true},
		{"triple push", start, "e2e5", false},
		{"pawn sideways", start, "e2d2", false},
		{"pawn diagonal onto empty", start, "e2d3", false},
		{"knight jump", start, "g1f3", true},
		{"knight straight", start, "g1g3", false},
		{"bishop blocked", start, "f1c4", false},
		{"rook blocked", start, "a1a3", false},
		{"own piece on target", start, "d1d2", false},

		{"pinned bishop", "4k3/8/8/8/4r3/8/4B3/4K3 w - - 0 1", "e2d3", false},
		{"pinned rook along pin", "4k3/8/8/8/4r3/8/4R3/4K3 w - - 0 1", "e2e4", true},
		{"pinned rook off pin", "4k3/8/8/8/4r3/8/4R3/4K3 w - - 0 1", "e2a2", false},

		{"king onto attacked file", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "e1d1", false},
		{"king onto attacked rank", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "e1e2", false},
		{"king takes undefended rook", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "e1d2", true},
		{"king to safe square", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "e1f1", true},
		{"king two squares", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e1e3", false},

		{"double push through piece", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e2e4", false},
		{"push into piece", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e2e3", false},
		{"double push off home rank", "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1", "e3e5", false},
		{"pawn capture", "4k3/8/8/8/8/3n4/4P3/4K3 w - - 0 1", "e2d3", true},
		{"pawn captures backward", "4k3/8/8/8/8/8/4P3/3nK3 w - - 0 1", "e2d1", false},
		{"black pawn pushes down", "4k3/4p3/8/8/8/8/8/4K3 b - - 0 1", "e7e5", true},
		{"black pawn cannot push up", "4k3/8/4p3/8/8/8/8/4K3 b - - 0 1", "e6e7", false},

		{"en passant armed", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", true},
		{"en passant not armed", "4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1", "e5d6", false},
		{"en passant wrong file", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5f6", false},
		{"en passant exposes king", "8/8/8/KPp4r/8/8/8/4k3 w - c6 0 1", "b5c6", false},
		{"push beside en passant victim", "8/8/8/KPp4r/8/8/8/4k3 w - c6 0 1", "b5b6", true},
		{"black en passant", "4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 1", "e4d3", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := decode(t, tt.fen)
			m := move(t, pos.Board, pos.Turn, tt.move)
			if got := engine.IsLegal(pos.Board, m.Color, m.Kind, m.From, m.To); got != tt.want {
				t.Errorf("IsLegal(%s) = %v, want %v (CheckMove: %v)", tt.move, got, tt.want, engine.CheckMove(pos.Board, m))
			}
		})
	}
}

func TestCheckMoveErrors(t *testing.T) {
	b := board.New()
	pawn := func(from, to board.Square) engine.Move {
		return engine.Move{Color: board.White, Kind: board.Pawn, From: from, To: to}
	}

	err := engine.CheckMove(b, pawn(sq(t, "e2"), board.Sq(8, 4)))
	if !errors.Is(err, engine.ErrOffBoard) {
		t.Errorf("off-board destination: %v, want ErrOffBoard", err)
	}
	if errors.Is(err, engine.ErrIllegalMove) {
		t.Error("ErrOffBoard must not read as an illegal move")
	}

	tests := []struct {
		name string
		m    engine.Move
	}{
		{"wrong kind on square", engine.Move{Color: board.White, Kind: board.Knight, From: sq(t, "e2"), To: sq(t, "e4")}},
		{"wrong color on square", engine.Move{Color: board.Black, Kind: board.Pawn, From: sq(t, "e2"), To: sq(t, "e3")}},
		{"empty square", pawn(sq(t, "e4"), sq(t, "e5"))},
		{"null move", pawn(sq(t, "e2"), sq(t, "e2"))},
		{"no kind", engine.Move{Color: board.White, From: sq(t, "e2"), To: sq(t, "e3")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.CheckMove(b, tt.m)
			if !errors.Is(err, engine.ErrIllegalMove) {
				t.Fatalf("CheckMove = %v, want ErrIllegalMove", err)
			}
			var me *engine.MoveError
			if !errors.As(err, &me) || me.Reason == "" {
				t.Errorf("CheckMove error %v carries no reason", err)
			}
		})
	}
}

func TestCheckMoveMissingKing(t *testing.T) {
	b := board.Empty()
	b.Set(sq(t, "a1"), board.Piece{Color: board.White, Kind: board.Rook})
	b.Set(sq(t, "e8"), board.Piece{Color: board.Black, Kind: board.King})

	err := engine.CheckMove(b, engine.Move{Color: board.White, Kind: board.Rook, From: sq(t, "a1"), To: sq(t, "a5")})
	if !errors.Is(err, board.ErrMissingKing) {
		t.Errorf("CheckMove without own king = %v, want ErrMissingKing", err)
	}
}
