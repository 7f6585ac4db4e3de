package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
	"chessrules/internal/notation"
)

func newGame() *Game {
	white := core.NewPlayer(core.PlayerConfig{}, board.White)
	black := core.NewPlayer(core.PlayerConfig{Name: "opponent"}, board.Black)
	return New(notation.StartFEN, white, black, board.White)
}

func TestSnapshotsAndUndo(t *testing.T) {
	g := newGame()
	if g.NextPlayer().Name != "White" {
		t.Errorf("default white name = %q", g.NextPlayer().Name)
	}

	g.AddSnapshot("fen-1", "e2e4", board.Black)
	g.AddSnapshot("fen-2", "e7e5", board.White)
	g.AddSnapshot("fen-3", "g1f3", board.Black)

	if diff := cmp.Diff([]string{"e2e4", "e7e5", "g1f3"}, g.Moves()); diff != "" {
		t.Errorf("Moves mismatch (-want +got):\n%s", diff)
	}
	if g.CurrentSnapshot().PlayerID != g.GetPlayer(board.Black).ID {
		t.Error("snapshot player does not match side to move")
	}

	g.SetResult(core.StateWhiteWins, core.ReasonResign)
	if err := g.UndoMoves(2); err != nil {
		t.Fatal(err)
	}
	if g.CurrentFEN() != "fen-1" || g.NextTurnColor() != board.Black {
		t.Errorf("after undo at %q with %s to move", g.CurrentFEN(), g.NextTurnColor().Name())
	}
	if g.State() != core.StateOngoing || g.Reason() != "" {
		t.Errorf("undo left state %s (%s)", g.State(), g.Reason())
	}

	if err := g.UndoMoves(2); err == nil {
		t.Error("undo past the initial position succeeded")
	}
	if err := g.UndoMoves(0); err == nil {
		t.Error("zero undo accepted")
	}
	if g.InitialFEN() != notation.StartFEN {
		t.Errorf("InitialFEN = %q", g.InitialFEN())
	}
}

func TestDrawOffer(t *testing.T) {
	g := newGame()
	if _, ok := g.DrawOfferedBy(); ok {
		t.Fatal("fresh game has a draw offer")
	}

	if err := g.OfferDraw(board.White); err != nil {
		t.Fatal(err)
	}
	if err := g.OfferDraw(board.White); err != nil {
		t.Errorf("repeated offer: %v", err)
	}
	if err := g.OfferDraw(board.Black); err == nil {
		t.Error("counter-offer accepted while white's offer is pending")
	}
	if c, ok := g.DrawOfferedBy(); !ok || c != board.White {
		t.Errorf("DrawOfferedBy = %v, %v", c, ok)
	}

	g.AddSnapshot("fen-1", "e2e4", board.Black)
	if _, ok := g.DrawOfferedBy(); ok {
		t.Error("draw offer survived a move")
	}

	g.SetResult(core.StateDraw, core.ReasonAgreement)
	if err := g.OfferDraw(board.Black); err == nil {
		t.Error("draw offer accepted in a finished game")
	}
}

func TestCurrentPosition(t *testing.T) {
	g := newGame()
	pos, err := g.CurrentPosition()
	if err != nil {
		t.Fatal(err)
	}
	if *pos.Board != *board.New() {
		t.Error("start snapshot does not decode to the start board")
	}

	g.AddSnapshot("not a fen", "e2e4", board.Black)
	if _, err := g.CurrentPosition(); err == nil {
		t.Error("corrupt snapshot decoded")
	}
}

func TestNextPositionCounters(t *testing.T) {
	pos := notation.StartPosition()
	pos.Halfmove = 5

	play := func(pos *notation.Position, text string) *notation.Position {
		t.Helper()
		m, err := notation.ParseMove(pos.Board, pos.Turn, text)
		if err != nil {
			t.Fatal(err)
		}
		next, err := engine.Apply(pos.Board, m)
		if err != nil {
			t.Fatal(err)
		}
		return NextPosition(pos, m, next)
	}

	knight := play(pos, "g1f3")
	if knight.Halfmove != 6 || knight.Fullmove != 1 || knight.Turn != board.Black {
		t.Errorf("after g1f3: half %d full %d turn %s", knight.Halfmove, knight.Fullmove, knight.Turn)
	}

	pawn := play(knight, "e7e5")
	if pawn.Halfmove != 0 || pawn.Fullmove != 2 {
		t.Errorf("after e7e5: half %d full %d", pawn.Halfmove, pawn.Fullmove)
	}

	quiet := play(pawn, "b1c3")
	capture := play(play(quiet, "b8c6"), "f3e5")
	if capture.Halfmove != 0 {
		t.Errorf("capture left halfmove clock at %d", capture.Halfmove)
	}

	want := "r1bqkbnr/pppp1ppp/2n5/4N3/8/2N5/PPPPPPPP/R1BQKB1R b KQkq - 0 3"
	if got := notation.Encode(capture); got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}
