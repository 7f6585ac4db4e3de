package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/processor"
	"chessrules/internal/service"
)

// play runs the handler over a scripted session and returns everything shown
func play(t *testing.T, script ...string) (string, *CLIHandler) {
	t.Helper()
	svc, err := service.New(nil, nil)
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	t.Cleanup(func() { svc.Shutdown(time.Second) })

	var out bytes.Buffer
	input := strings.NewReader(strings.Join(script, "\n") + "\n")
	view := cli.New(cli.NewScannerReader(input, &out), &out)
	h := New(processor.New(svc), view)
	h.Run()
	return out.String(), h
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestFoolsMateSession(t *testing.T) {
	out, h := play(t, "new", "f2f3", "e7e5", "g2g4", "d8h4", "fen")

	expectOutput(t, out,
		"Game started.",
		"[w]> ",
		"[b]> ",
		"White: f2f3",
		"Black: d8h4",
		"Game Over: black wins by checkmate",
		"No active game.",
	)
	if h.GameID() != "" {
		t.Errorf("finished game still active: %s", h.GameID())
	}
}

func TestPromotionPrompt(t *testing.T) {
	out, _ := play(t,
		"resume 8/P6k/8/8/8/8/8/K7 w - - 0 1",
		"a7a8",
		"x",
		"q",
		"fen",
	)

	expectOutput(t, out,
		"Promote to (q/r/b/n): ",
		"Choose q, r, b or n.",
		"White: a7a8q",
		"Q7/7k/8/8/8/8/8/K7 b - - 0 1",
	)
}

func TestPromotionCancel(t *testing.T) {
	out, h := play(t, "resume 8/P6k/8/8/8/8/8/K7 w - - 0 1", "a7a8", "", "fen")

	expectOutput(t, out, "Move cancelled.", "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if h.GameID() == "" {
		t.Error("cancelled promotion ended the game")
	}
}

func TestCastleSession(t *testing.T) {
	out, _ := play(t, "resume r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "O-O", "e8c8", "fen")

	expectOutput(t, out,
		"White: e1g1",
		"Black: e8c8",
		"2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2",
	)
}

func TestDrawAndResign(t *testing.T) {
	out, _ := play(t, "new", "draw offer", "draw accept", "new", "e2e4", "resign")

	expectOutput(t, out,
		"White offers a draw",
		"Game Over: draw by agreement",
		"Game Over: white wins by resignation",
	)
}

func TestDrawDecline(t *testing.T) {
	out, h := play(t, "new", "draw accept", "draw offer", "draw decline", "draw maybe")

	expectOutput(t, out,
		"no draw offer pending",
		"Draw offer declined.",
		"Usage: draw <offer|accept|decline>",
	)
	if h.GameID() == "" {
		t.Error("declined draw ended the game")
	}
}

func TestUndoAndErrors(t *testing.T) {
	out, _ := play(t,
		"e2e4",
		"new",
		"e2e5",
		"e2e4",
		"undo",
		"undo 5",
		"undo x",
		"history",
	)

	expectOutput(t, out,
		"No active game. Use 'new' or 'resume <FEN>'.",
		"Error: illegal move",
		"Move undone",
		"cannot undo 5 moves",
		"Invalid undo count.",
		"No moves yet.",
	)
}

func TestHintsAndDisplay(t *testing.T) {
	out, _ := play(t,
		"new",
		"hint b1",
		"hint z9",
		"color purple",
		"color green",
		"style textured",
		"verbose",
		"g1f3",
	)

	expectOutput(t, out,
		"Legal moves: b1a3 b1c3",
		"invalid square",
		"invalid theme: purple",
		"Color theme set to: green",
		"Board style set to: textured",
		"♔",
		"Verbose mode: true",
		"White: g1f3 (rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1)",
	)
}

func TestResumeRejectsBadFEN(t *testing.T) {
	out, h := play(t, "resume not a fen", "resume")

	expectOutput(t, out, "could not start the game: invalid FEN", "Usage: resume <FEN string>")
	if h.GameID() != "" {
		t.Error("bad FEN started a game")
	}
}
