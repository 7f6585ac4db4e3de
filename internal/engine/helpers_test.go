package engine_test

import (
	"sort"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/engine"
	"chessrules/internal/notation"
)

func decode(t *testing.T, fen string) *notation.Position {
	t.Helper()
	pos, err := notation.Decode(fen)
	if err != nil {
		t.Fatalf("Decode(%q): %v", fen, err)
	}
	return pos
}

func sq(t *testing.T, s string) board.Square {
	t.Helper()
	square, err := notation.ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return square
}

// move builds a plain move from coordinate text, taking the kind from the board
func move(t *testing.T, b *board.Board, c board.Color, text string) engine.Move {
	t.Helper()
	m, err := notation.ParseMove(b, c, text)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", text, err)
	}
	return m
}

// play applies a sequence of coordinate moves from the start position,
// alternating colors, and returns the board and the side to move
func play(t *testing.T, moves ...string) (*board.Board, board.Color) {
	t.Helper()
	b, c := board.New(), board.White
	for _, text := range moves {
		next, err := engine.Apply(b, move(t, b, c, text))
		if err != nil {
			t.Fatalf("Apply(%s): %v", text, err)
		}
		b, c = next, c.Opposite()
	}
	return b, c
}

func moveStrings(moves []engine.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, notation.FormatMove(m))
	}
	sort.Strings(out)
	return out
}
