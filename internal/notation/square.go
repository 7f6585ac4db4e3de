// Package notation converts between engine values and their text forms:
// algebraic squares, coordinate moves and FEN positions.
package notation

import (
	"errors"
	"fmt"

	"chessrules/internal/board"
)

var ErrSyntax = errors.New("notation syntax error")

// ParseSquare reads an algebraic square such as "e4"
func ParseSquare(s string) (board.Square, error) {
	if len(s) != 2 {
		return board.Square{}, fmt.Errorf("square %q: %w", s, ErrSyntax)
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return board.Square{}, fmt.Errorf("square %q out of range: %w", s, ErrSyntax)
	}
	return board.Sq(int('8'-rank), int(file-'a')), nil
}

func FormatSquare(sq board.Square) (string, error) {
	if !sq.Valid() {
		return "", fmt.Errorf("square %s: off board", sq)
	}
	return sq.String(), nil
}
