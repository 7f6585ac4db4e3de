package board

import "fmt"

// Square is a (rank, file) coordinate. Rank 0 is black's back rank, file 0 is the a-file.
type Square struct {
	Rank int
	File int
}

func Sq(rank, file int) Square {
	return Square{Rank: rank, File: file}
}

func (s Square) Valid() bool {
	return s.Rank >= 0 && s.Rank < 8 && s.File >= 0 && s.File < 8
}

// Offset returns the square shifted by dr ranks and df files, possibly off board
func (s Square) Offset(dr, df int) Square {
	return Square{Rank: s.Rank + dr, File: s.File + df}
}

// String renders the algebraic name, e.g. "e4"
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Rank, s.File)
	}
	return fmt.Sprintf("%c%c", 'a'+s.File, '8'-s.Rank)
}

var allSquares = func() []Square {
	squares := make([]Square, 0, 64)
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			squares = append(squares, Square{Rank: r, File: f})
		}
	}
	return squares
}()

// AllSquares returns the 64 board squares in rank-major order. Callers must not modify the slice.
func AllSquares() []Square {
	return allSquares
}

type Side uint8

const (
	NoSide Side = iota
	KingSide
	QueenSide
)

func (s Side) String() string {
	switch s {
	case KingSide:
		return "king-side"
	case QueenSide:
		return "queen-side"
	default:
		return "none"
	}
}

// Forward is the rank delta of a pawn advance for the color
func Forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// BackRank is the rank holding the color's pieces at game start
func BackRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// HomeRank is the rank holding the color's pawns at game start
func HomeRank(c Color) int {
	return BackRank(c) + Forward(c)
}

// LastRank is the promotion rank for the color's pawns
func LastRank(c Color) int {
	return BackRank(c.Opposite())
}
