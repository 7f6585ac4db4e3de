package notation

import (
	"fmt"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/engine"
)

// ParseMove reads coordinate notation (e2e4, e7e8q), king two-step castles
// (e1g1) and O-O / O-O-O. The moving kind is taken from the board, so the
// text must name a square holding a piece of color c.
func ParseMove(b *board.Board, c board.Color, text string) (engine.Move, error) {
	text = strings.TrimSpace(text)
	switch strings.ToUpper(strings.ReplaceAll(text, "0", "O")) {
	case "O-O":
		return engine.CastleMove(c, board.KingSide), nil
	case "O-O-O":
		return engine.CastleMove(c, board.QueenSide), nil
	}

	if len(text) != 4 && len(text) != 5 {
		return engine.Move{}, fmt.Errorf("move %q: want from, to and optional promotion letter: %w", text, ErrSyntax)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return engine.Move{}, err
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return engine.Move{}, err
	}

	p := b.At(from)
	if p.IsEmpty() || p.Color != c {
		return engine.Move{}, fmt.Errorf("no %s piece on %s: %w", c.Name(), from, engine.ErrIllegalMove)
	}
	m := engine.Move{Color: c, Kind: p.Kind, From: from, To: to}

	if len(text) == 5 {
		m.Promotion = board.KindFromLetter(text[4])
		if m.Promotion == board.NoKind {
			return engine.Move{}, fmt.Errorf("move %q: unknown promotion letter %q: %w", text, text[4], ErrSyntax)
		}
	}

	if side := castleSide(c, m); side != board.NoSide {
		return engine.CastleMove(c, side), nil
	}
	return m, nil
}

// castleSide recognises a king two-step along its home rank
func castleSide(c board.Color, m engine.Move) board.Side {
	if m.Kind != board.King || m.Promotion != board.NoKind {
		return board.NoSide
	}
	home := engine.CastleMove(c, board.KingSide).From
	if m.From != home || m.To.Rank != home.Rank {
		return board.NoSide
	}
	for _, side := range []board.Side{board.KingSide, board.QueenSide} {
		if m.To == engine.CastleMove(c, side).To {
			return side
		}
	}
	return board.NoSide
}

// FormatMove renders coordinate notation; castles render as the king step
func FormatMove(m engine.Move) string {
	s := m.From.String() + m.To.String()
	if m.Promotion != board.NoKind {
		s += string(m.Promotion.Letter())
	}
	return s
}
