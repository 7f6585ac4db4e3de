package board

type Color uint8

const (
	White Color = iota
	Black
)

// Valid reports whether c is White or Black
func (c Color) Valid() bool {
	return c == White || c == Black
}

// Opposite returns the other side
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == Black {
		return "b"
	}
	return "w"
}

// Name returns the capitalised color name used in messages
func (c Color) Name() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Letter returns the lowercase FEN letter for the kind, 0 for NoKind
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	}
	return 0
}

// KindFromLetter maps a FEN letter of either case to a kind
func KindFromLetter(ch byte) Kind {
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	switch ch {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	}
	return NoKind
}

// IsPromotion reports whether a pawn may promote to k
func (k Kind) IsPromotion() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// Piece is a square occupant. The zero value is an empty square.
type Piece struct {
	Color Color
	Kind  Kind
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Is reports whether p is a piece of the given color and kind
func (p Piece) Is(c Color, k Kind) bool {
	return p.Kind == k && p.Color == c
}

// Letter returns the FEN letter, uppercase for white, 0 for empty squares
func (p Piece) Letter() byte {
	ch := p.Kind.Letter()
	if ch != 0 && p.Color == White {
		ch -= 'a' - 'A'
	}
	return ch
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Color.Name() + " " + p.Kind.String()
}
