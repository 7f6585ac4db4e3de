package notation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chessrules/internal/board"
	"chessrules/internal/engine"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    board.Square
		wantErr bool
	}{
		{in: "a8", want: board.Sq(0, 0)},
		{in: "h1", want: board.Sq(7, 7)},
		{in: "E4", want: board.Sq(4, 4)},
		{in: "i1", wantErr: true},
		{in: "a9", wantErr: true},
		{in: "a", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSquare(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("ParseSquare(%q) error = %v, want ErrSyntax", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseSquare(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := FormatSquare(board.Sq(-1, 3)); err == nil {
		t.Error("FormatSquare accepted an off-board square")
	}
}

func TestParseMove(t *testing.T) {
	pos, err := Decode("r3k2r/1P6/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		color board.Color
		text  string
		want  engine.Move
	}{
		{
			name:  "rook slide",
			color: board.White,
			text:  "a1a5",
			want:  engine.Move{Color: board.White, Kind: board.Rook, From: board.Sq(7, 0), To: board.Sq(3, 0)},
		},
		{
			name:  "promotion letter",
			color: board.White,
			text:  "b7b8n",
			want:  engine.Move{Color: board.White, Kind: board.Pawn, From: board.Sq(1, 1), To: board.Sq(0, 1), Promotion: board.Knight},
		},
		{
			name:  "king step castle",
			color: board.White,
			text:  "e1g1",
			want:  engine.CastleMove(board.White, board.KingSide),
		},
		{
			name:  "long castle letters",
			color: board.Black,
			text:  "O-O-O",
			want:  engine.CastleMove(board.Black, board.QueenSide),
		},
		{
			name:  "short castle zeros",
			color: board.Black,
			text:  " 0-0 ",
			want:  engine.CastleMove(board.Black, board.KingSide),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMove(pos.Board, tt.color, tt.text)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tt.text, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMove(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	b := board.New()
	tests := []struct {
		text string
		want error
	}{
		{"e2", ErrSyntax},
		{"e2e9", ErrSyntax},
		{"e2e4x", ErrSyntax},
		{"e4e5", engine.ErrIllegalMove},
		{"e7e5", engine.ErrIllegalMove},
	}
	for _, tt := range tests {
		if _, err := ParseMove(b, board.White, tt.text); !errors.Is(err, tt.want) {
			t.Errorf("ParseMove(%q) error = %v, want %v", tt.text, err, tt.want)
		}
	}
}

func TestFormatMove(t *testing.T) {
	tests := []struct {
		m    engine.Move
		want string
	}{
		{engine.Move{Color: board.White, Kind: board.Pawn, From: board.Sq(6, 4), To: board.Sq(4, 4)}, "e2e4"},
		{engine.Move{Color: board.Black, Kind: board.Pawn, From: board.Sq(6, 0), To: board.Sq(7, 0), Promotion: board.Queen}, "a2a1q"},
		{engine.CastleMove(board.Black, board.QueenSide), "e8c8"},
	}
	for _, tt := range tests {
		if got := FormatMove(tt.m); got != tt.want {
			t.Errorf("FormatMove(%v) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w Kq d6 0 3",
		"4k3/8/8/8/8/8/8/4K3 b - - 37 80",
	}
	for _, fen := range fens {
		pos, err := Decode(fen)
		if err != nil {
			t.Errorf("Decode(%q): %v", fen, err)
			continue
		}
		if got := Encode(pos); got != fen {
			t.Errorf("round trip:\n got %q\nwant %q", got, fen)
		}
	}
}

func TestDecodeStart(t *testing.T) {
	pos, err := Decode(StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	want := StartPosition()
	if *pos.Board != *want.Board || pos.Turn != want.Turn || pos.Fullmove != want.Fullmove {
		t.Errorf("Decode(StartFEN) differs from StartPosition")
	}

	short, err := Decode("4k3/8/8/8/8/8/8/4K3 w - -")
	if err != nil {
		t.Fatal(err)
	}
	if short.Halfmove != 0 || short.Fullmove != 1 {
		t.Errorf("default counters = %d/%d, want 0/1", short.Halfmove, short.Fullmove)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want error
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w", ErrSyntax},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1", ErrSyntax},
		{"rank overflow", "9/8/8/8/8/8/8/8 w - - 0 1", ErrSyntax},
		{"bad letter", "4k3/8/8/8/8/8/8/4X3 w - - 0 1", ErrSyntax},
		{"bad color", "4k3/8/8/8/8/8/8/4K3 x - - 0 1", ErrSyntax},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w X - 0 1", ErrSyntax},
		{"bad en passant rank", "4k3/8/8/8/8/8/8/4K3 w - e4 0 1", ErrSyntax},
		{"negative halfmove", "4k3/8/8/8/8/8/8/4K3 w - - -1 1", ErrSyntax},
		{"zero fullmove", "4k3/8/8/8/8/8/8/4K3 w - - 0 0", ErrSyntax},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", board.ErrMissingKing},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1", board.ErrExtraKing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.fen); !errors.Is(err, tt.want) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.fen, err, tt.want)
			}
		})
	}
}
