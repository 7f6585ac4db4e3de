package notation

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/board"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a board plus the bookkeeping FEN carries around it
type Position struct {
	Board    *board.Board
	Turn     board.Color
	Halfmove int
	Fullmove int
}

// StartPosition returns the standard initial position
func StartPosition() *Position {
	return &Position{Board: board.New(), Turn: board.White, Fullmove: 1}
}

var castleLetters = []struct {
	letter byte
	color  board.Color
	side   board.Side
}{
	{'K', board.White, board.KingSide},
	{'Q', board.White, board.QueenSide},
	{'k', board.Black, board.KingSide},
	{'q', board.Black, board.QueenSide},
}

// Decode parses a FEN string. The move counters may be omitted.
func Decode(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 4 && len(parts) != 6 {
		return nil, fmt.Errorf("fen: want 4 or 6 fields, got %d: %w", len(parts), ErrSyntax)
	}

	b, err := decodePlacement(parts[0])
	if err != nil {
		return nil, err
	}
	pos := &Position{Board: b, Fullmove: 1}

	switch parts[1] {
	case "w":
		pos.Turn = board.White
	case "b":
		pos.Turn = board.Black
	default:
		return nil, fmt.Errorf("fen: active color %q: %w", parts[1], ErrSyntax)
	}

	if parts[2] != "-" {
		for i := 0; i < len(parts[2]); i++ {
			found := false
			for _, cl := range castleLetters {
				if parts[2][i] == cl.letter {
					b.SetCastlingRight(cl.color, cl.side, true)
					found = true
				}
			}
			if !found {
				return nil, fmt.Errorf("fen: castling field %q: %w", parts[2], ErrSyntax)
			}
		}
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("fen: en passant: %w", err)
		}
		if sq.Rank != 2 && sq.Rank != 5 {
			return nil, fmt.Errorf("fen: en passant square %s on wrong rank: %w", sq, ErrSyntax)
		}
		b.SetEnPassant(sq)
	}

	if len(parts) == 6 {
		if pos.Halfmove, err = strconv.Atoi(parts[4]); err != nil || pos.Halfmove < 0 {
			return nil, fmt.Errorf("fen: halfmove clock %q: %w", parts[4], ErrSyntax)
		}
		if pos.Fullmove, err = strconv.Atoi(parts[5]); err != nil || pos.Fullmove < 1 {
			return nil, fmt.Errorf("fen: fullmove number %q: %w", parts[5], ErrSyntax)
		}
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}
	return pos, nil
}

func decodePlacement(field string) (*board.Board, error) {
	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return nil, fmt.Errorf("fen: want 8 ranks, got %d: %w", len(rows), ErrSyntax)
	}

	b := board.Empty()
	for r, row := range rows {
		f := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '1' && ch <= '8' {
				f += int(ch - '0')
				continue
			}
			k := board.KindFromLetter(ch)
			if k == board.NoKind {
				return nil, fmt.Errorf("fen: piece letter %q: %w", ch, ErrSyntax)
			}
			if f > 7 {
				return nil, fmt.Errorf("fen: rank %d overflows: %w", 8-r, ErrSyntax)
			}
			c := board.Black
			if ch >= 'A' && ch <= 'Z' {
				c = board.White
			}
			b.Set(board.Sq(r, f), board.Piece{Color: c, Kind: k})
			f++
		}
		if f != 8 {
			return nil, fmt.Errorf("fen: rank %d has %d files: %w", 8-r, f, ErrSyntax)
		}
	}
	return b, nil
}

// Encode renders pos as a six-field FEN string
func Encode(pos *Position) string {
	var sb strings.Builder
	b := pos.Board

	for r := 0; r < 8; r++ {
		empty := 0
		for f := 0; f < 8; f++ {
			ch := b.At(board.Sq(r, f)).Letter()
			if ch == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.Turn.String())

	sb.WriteByte(' ')
	rights := 0
	for _, cl := range castleLetters {
		if b.CanCastle(cl.color, cl.side) {
			sb.WriteByte(cl.letter)
			rights++
		}
	}
	if rights == 0 {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	if ep, ok := b.EnPassant(); ok {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", pos.Halfmove, pos.Fullmove)
	return sb.String()
}
