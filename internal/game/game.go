package game

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/notation"
)

type Snapshot struct {
	FEN           string      `json:"fen"`
	PreviousMove  string      `json:"previousMove"`
	NextTurnColor board.Color `json:"nextTurnColor"`
	PlayerID      string      `json:"playerId"` // ID of the player whose turn it is
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move        string
	PlayerColor board.Color
	GameState   core.State
}

type Game struct {
	snapshots  []Snapshot
	players    map[board.Color]*core.Player
	state      core.State
	reason     string
	drawOffer  *board.Color
	lastResult *MoveResult
}

func New(initialFEN string, whitePlayer, blackPlayer *core.Player, startingTurnColor board.Color) *Game {
	initialPlayerID := whitePlayer.ID
	if startingTurnColor == board.Black {
		initialPlayerID = blackPlayer.ID
	}

	return &Game{
		snapshots: []Snapshot{
			{
				FEN:           initialFEN,
				NextTurnColor: startingTurnColor,
				PlayerID:      initialPlayerID,
			},
		},
		players: map[board.Color]*core.Player{
			board.White: whitePlayer,
			board.Black: blackPlayer,
		},
		state: core.StateOngoing,
	}
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

// CurrentSnapshot returns the latest game snapshot
func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// CurrentFEN returns the current position in FEN notation
func (g *Game) CurrentFEN() string {
	return g.CurrentSnapshot().FEN
}

// CurrentPosition decodes the latest snapshot
func (g *Game) CurrentPosition() (*notation.Position, error) {
	pos, err := notation.Decode(g.CurrentFEN())
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot %d: %w", len(g.snapshots)-1, err)
	}
	return pos, nil
}

func (g *Game) NextTurnColor() board.Color {
	return g.CurrentSnapshot().NextTurnColor
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurnColor()]
}

func (g *Game) GetPlayer(color board.Color) *core.Player {
	return g.players[color]
}

// AddSnapshot records the position reached by move. Any pending draw offer
// lapses once a move is played.
func (g *Game) AddSnapshot(fen string, move string, nextTurnColor board.Color) {
	g.snapshots = append(g.snapshots, Snapshot{
		FEN:           fen,
		PreviousMove:  move,
		NextTurnColor: nextTurnColor,
		PlayerID:      g.players[nextTurnColor].ID,
	})
	g.drawOffer = nil
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.state = core.StateOngoing // Reset game state when undoing
	g.reason = ""
	g.drawOffer = nil
	g.lastResult = nil
	return nil
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].PreviousMove != "" {
			moves = append(moves, g.snapshots[i].PreviousMove)
		}
	}
	return moves
}

func (g *Game) State() core.State {
	return g.state
}

// Reason explains a finished game, empty while ongoing
func (g *Game) Reason() string {
	return g.reason
}

func (g *Game) SetState(s core.State) {
	g.state = s
	if s == core.StateOngoing {
		g.reason = ""
	}
}

// SetResult ends the game with the given state and reason
func (g *Game) SetResult(s core.State, reason string) {
	g.state = s
	g.reason = reason
	g.drawOffer = nil
}

// OfferDraw records a draw offer by color c. Offering twice is harmless.
func (g *Game) OfferDraw(c board.Color) error {
	if g.state.IsOver() {
		return fmt.Errorf("game is over: %s", g.state)
	}
	if g.drawOffer != nil && *g.drawOffer != c {
		return fmt.Errorf("%s already offered a draw", g.drawOffer.Name())
	}
	g.drawOffer = &c
	return nil
}

// DrawOfferedBy returns the color with a pending draw offer
func (g *Game) DrawOfferedBy() (board.Color, bool) {
	if g.drawOffer == nil {
		return board.White, false
	}
	return *g.drawOffer, true
}

func (g *Game) ClearDrawOffer() {
	g.drawOffer = nil
}

func (g *Game) InitialFEN() string {
	if len(g.snapshots) > 0 {
		return g.snapshots[0].FEN
	}
	return notation.StartFEN
}
