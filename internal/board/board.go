package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingKing = errors.New("king missing from board")
	ErrExtraKing   = errors.New("more than one king of a color")
)

// Board is the full rules state of a position. It is a plain value: assigning
// or cloning a Board yields an independent copy of the grid and all rights.
type Board struct {
	squares   [8][8]Piece
	enPassant Square
	epArmed   bool
	castling  [2][2]bool // [Color][Side-1]
}

var backRow = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// New returns the standard starting position with full castling rights
func New() *Board {
	b := Empty()
	for f := 0; f < 8; f++ {
		b.squares[BackRank(Black)][f] = Piece{Color: Black, Kind: backRow[f]}
		b.squares[HomeRank(Black)][f] = Piece{Color: Black, Kind: Pawn}
		b.squares[HomeRank(White)][f] = Piece{Color: White, Kind: Pawn}
		b.squares[BackRank(White)][f] = Piece{Color: White, Kind: backRow[f]}
	}
	b.castling = [2][2]bool{{true, true}, {true, true}}
	return b
}

// Empty returns a board with no pieces, no castling rights and no en-passant target
func Empty() *Board {
	return &Board{}
}

func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// At returns the occupant of sq; off-board squares read as empty
func (b *Board) At(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	return b.squares[sq.Rank][sq.File]
}

func (b *Board) Set(sq Square, p Piece) {
	b.squares[sq.Rank][sq.File] = p
}

func (b *Board) Clear(sq Square) {
	b.squares[sq.Rank][sq.File] = Piece{}
}

// EnPassant returns the square a pawn may capture onto this ply, if armed
func (b *Board) EnPassant() (Square, bool) {
	return b.enPassant, b.epArmed
}

func (b *Board) SetEnPassant(sq Square) {
	b.enPassant = sq
	b.epArmed = true
}

func (b *Board) ClearEnPassant() {
	b.enPassant = Square{}
	b.epArmed = false
}

func (b *Board) CanCastle(c Color, side Side) bool {
	if !c.Valid() || (side != KingSide && side != QueenSide) {
		return false
	}
	return b.castling[c][side-1]
}

// SetCastlingRight is for position setup. Move execution only ever revokes.
func (b *Board) SetCastlingRight(c Color, side Side, allowed bool) {
	if !c.Valid() || (side != KingSide && side != QueenSide) {
		return
	}
	b.castling[c][side-1] = allowed
}

// RevokeCastling clears the right for one side, or both when side is NoSide
func (b *Board) RevokeCastling(c Color, side Side) {
	if !c.Valid() {
		return
	}
	switch side {
	case KingSide, QueenSide:
		b.castling[c][side-1] = false
	default:
		b.castling[c] = [2]bool{}
	}
}

// KingSquare scans for the color's king
func (b *Board) KingSquare(c Color) (Square, bool) {
	for _, sq := range allSquares {
		if b.squares[sq.Rank][sq.File].Is(c, King) {
			return sq, true
		}
	}
	return Square{}, false
}

// Validate checks the one-king-per-color invariant the rules rely on
func (b *Board) Validate() error {
	var kings [2]int
	for _, sq := range allSquares {
		p := b.squares[sq.Rank][sq.File]
		if p.Kind != NoKind && !p.Color.Valid() {
			return fmt.Errorf("invalid piece color %d on %s", p.Color, sq)
		}
		if p.Kind == King {
			kings[p.Color]++
		}
	}
	for _, c := range []Color{White, Black} {
		switch {
		case kings[c] == 0:
			return fmt.Errorf("%s: %w", c.Name(), ErrMissingKing)
		case kings[c] > 1:
			return fmt.Errorf("%s: %w", c.Name(), ErrExtraKing)
		}
	}
	return nil
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			if ch := b.squares[r][f].Letter(); ch == 0 {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", ch))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
