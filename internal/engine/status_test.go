package engine_test

import (
	"errors"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/engine"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want engine.Status
	}{
		{"start", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", engine.Ongoing},
		{"check with escape", "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1", engine.Check},
		{"quiet position", "4k3/3n4/8/8/8/8/8/R3K3 b - - 0 1", engine.Ongoing},
		{"back rank mate", "6k1/5ppp/8/8/8/8/8/R5K1 b - - 0 1", engine.Ongoing},
		{"after back rank mate", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", engine.Checkmate},
		{"queen stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", engine.Stalemate},
		{"pawn stalemate", "k7/P7/K7/8/8/8/8/8 b - - 0 1", engine.Stalemate},
		{"protected queen mates", "k7/1Q6/2K5/8/8/8/8/8 b - - 0 1", engine.Checkmate},
		{"only escape is capture", "k7/1Q6/8/8/8/8/8/2K5 b - - 0 1", engine.Check},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := decode(t, tt.fen)
			got, err := engine.Evaluate(pos.Board, pos.Turn)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Evaluate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFoolsMate(t *testing.T) {
	b, c := play(t, "f2f3", "e7e5", "g2g4", "d8h4")
	status, err := engine.Evaluate(b, c)
	if err != nil {
		t.Fatal(err)
	}
	if status != engine.Checkmate || !status.Terminal() {
		t.Errorf("fool's mate = %s, want checkmate", status)
	}
	if engine.HasAnyLegalMove(b, c) {
		t.Error("mated side still has a legal move")
	}
	if moves := engine.LegalMoves(b, c); len(moves) != 0 {
		t.Errorf("mated side has %d listed moves", len(moves))
	}
}

func TestEvaluateMissingKing(t *testing.T) {
	b := board.Empty()
	b.Set(sq(t, "e8"), board.Piece{Color: board.Black, Kind: board.King})
	if _, err := engine.Evaluate(b, board.White); !errors.Is(err, board.ErrMissingKing) {
		t.Errorf("Evaluate without white king = %v, want ErrMissingKing", err)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[engine.Status]string{
		engine.Ongoing:   "ongoing",
		engine.Check:     "check",
		engine.Checkmate: "checkmate",
		engine.Stalemate: "stalemate",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
	if engine.Check.Terminal() || engine.Ongoing.Terminal() {
		t.Error("non-terminal status reported terminal")
	}
}

func TestTargets(t *testing.T) {
	got := engine.Targets(board.New(), sq(t, "g1"))
	want := map[board.Square]bool{sq(t, "f3"): true, sq(t, "h3"): true}
	if len(got) != len(want) {
		t.Fatalf("Targets(g1) = %v, want f3 and h3", got)
	}
	for _, s := range got {
		if !want[s] {
			t.Errorf("unexpected target %s", s)
		}
	}
	if got := engine.Targets(board.New(), sq(t, "e4")); got != nil {
		t.Errorf("Targets(empty square) = %v", got)
	}
}
