package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"new", Command{Type: CmdNew, Args: []string{}}},
		{"undo 2", Command{Type: CmdUndo, Args: []string{"2"}}},
		{"draw accept", Command{Type: CmdDraw, Args: []string{"accept"}}},
		{"moves e2", Command{Type: CmdHint, Args: []string{"e2"}}},
		{"theme green", Command{Type: CmdColor, Args: []string{"green"}}},
		{"?", Command{Type: CmdHelp}},
		{"EXIT", Command{Type: CmdQuit}},
		{"e2e4", Command{Type: CmdMove, Args: []string{"e2e4"}, Raw: "e2e4"}},
		{"O-O", Command{Type: CmdMove, Args: []string{"O-O"}, Raw: "O-O"}},
		{
			"resume 8/8/8/8/8/8/8/K6k w - - 0 1",
			Command{
				Type: CmdResume,
				Args: []string{"8/8/8/8/8/8/8/K6k", "w", "-", "-", "0", "1"},
				Raw:  "resume 8/8/8/8/8/8/8/K6k w - - 0 1",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, *ParseCommand(tt.input)); diff != "" {
				t.Errorf("ParseCommand(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestGetCommandEOF(t *testing.T) {
	var out bytes.Buffer
	c := New(NewScannerReader(strings.NewReader("  \nhistory\n"), &out), &out)

	for _, want := range []CommandType{CmdNone, CmdHistory, CmdQuit} {
		cmd, err := c.GetCommand("> ")
		if err != nil {
			t.Fatalf("GetCommand: %v", err)
		}
		if cmd.Type != want {
			t.Errorf("got command %d, want %d", cmd.Type, want)
		}
	}
	if got := strings.Count(out.String(), "> "); got != 3 {
		t.Errorf("prompt shown %d times, want 3", got)
	}
}

func TestRenderASCII(t *testing.T) {
	out := RenderASCII(board.New(), ThemeOff)
	lines := strings.Split(out, "\n")
	if lines[2] != "8 r n b q k b n r  8" {
		t.Errorf("rank 8 = %q", lines[2])
	}
	if want := "5" + strings.Repeat(" ", 18) + "5"; lines[5] != want {
		t.Errorf("rank 5 = %q", lines[5])
	}
	if strings.Contains(out, "\033[") {
		t.Error("theme off emitted escape codes")
	}

	colored := RenderASCII(board.New(), ThemeBrown)
	if !strings.Contains(colored, themes[ThemeBrown].darkBg) || !strings.Contains(colored, themes[ThemeBrown].lightBg) {
		t.Error("brown theme missing square backgrounds")
	}
}

func TestRenderTextured(t *testing.T) {
	b := board.Empty()
	b.Set(board.Sq(0, 0), board.Piece{Color: board.Black, Kind: board.Rook})
	b.Set(board.Sq(0, 1), board.Piece{Color: board.Black, Kind: board.King})
	b.Set(board.Sq(7, 4), board.Piece{Color: board.White, Kind: board.King})

	lines := strings.Split(RenderTextured(b), "\n")
	// 8 ranks of 3 lines, the file legend, trailing newline
	if len(lines) != 26 {
		t.Fatalf("got %d lines, want 26", len(lines))
	}

	tests := []struct {
		line int
		want string
	}{
		{0, "      ####    ####    ####    ####"},
		{1, "8  ♜  #♚ #    ####    ####    ####"},
		{3, "  ####    ####    ####    ####    "},
		{22, "1 ####    ####    #♔ #    ####    "},
		{24, "   a   b   c   d   e   f   g   h"},
	}
	for _, tt := range tests {
		if lines[tt.line] != tt.want {
			t.Errorf("line %d = %q, want %q", tt.line, lines[tt.line], tt.want)
		}
	}
}

func TestSetThemeAndStyle(t *testing.T) {
	var out bytes.Buffer
	c := New(NewScannerReader(strings.NewReader(""), &out), &out)

	if err := c.SetTheme("purple"); err == nil {
		t.Error("SetTheme accepted unknown theme")
	}
	if err := c.SetTheme(ThemeGray); err != nil {
		t.Errorf("SetTheme(gray): %v", err)
	}
	if err := c.SetStyle("fancy"); err == nil {
		t.Error("SetStyle accepted unknown style")
	}
	if err := c.SetStyle(StyleTextured); err != nil {
		t.Fatalf("SetStyle(textured): %v", err)
	}

	c.DisplayBoard(board.New())
	if !strings.Contains(out.String(), "♔") {
		t.Error("textured style did not render unicode pieces")
	}
}

func TestGameMessages(t *testing.T) {
	var out bytes.Buffer
	c := New(NewScannerReader(strings.NewReader(""), &out), &out)

	g := core.GameResponse{
		FEN:       "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
		State:     "ongoing",
		Check:     true,
		DrawOffer: "b",
		Moves:     []string{"e2e4", "e7e5", "g1f3"},
		LastMove:  &core.MoveInfo{Move: "e7e5", PlayerColor: "b"},
	}
	c.ShowGameHistory(g)
	c.ShowMove(g)
	c.ShowStatus(g)

	g.State, g.Reason = "black wins", "checkmate"
	c.ShowGameOver(g)

	for _, want := range []string{
		"1. e2e4 | e7e5",
		"2. g1f3 | ...",
		"Black: e7e5",
		"Check!",
		"Black offers a draw",
		"Game Over: black wins by checkmate",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
