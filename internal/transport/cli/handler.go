package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/notation"
	"chessrules/internal/processor"
)

// CLIHandler runs a local two-player game through the processor, the same
// command path the HTTP API uses
type CLIHandler struct {
	proc   *processor.Processor
	view   *cli.CLI
	gameID string
}

func New(proc *processor.Processor, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		proc: proc,
		view: view,
	}
}

// Run is the main loop; it returns on quit or end of input
func (h *CLIHandler) Run() {
	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			h.view.ShowError(err)
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// GameID returns the active game, empty when none
func (h *CLIHandler) GameID() string {
	return h.gameID
}

func (h *CLIHandler) getPrompt() string {
	if h.gameID == "" {
		return "> "
	}
	g, ok := h.currentGame()
	if !ok || g.State != core.StateOngoing.String() {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", g.Turn)
}

// ProcessCommand handles one command - returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		return true

	case cli.CmdNew:
		h.startGame("")

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <FEN string>")
			return true
		}
		h.startGame(strings.Join(cmd.Args, " "))

	case cli.CmdHelp:
		h.view.ShowHelp()

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		h.showBoard()

	case cli.CmdStyle:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: style <ascii|textured>")
			return true
		}
		style := cli.BoardStyle(cmd.Args[0])
		if err := h.view.SetStyle(style); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Board style set to: %s", style))
		h.showBoard()

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	default:
		if h.gameID == "" {
			h.view.ShowMessage("No active game. Use 'new' or 'resume <FEN>'.")
			return true
		}
		h.gameCommand(cmd)
	}

	return true
}

// gameCommand handles the commands that need an active game
func (h *CLIHandler) gameCommand(cmd *cli.Command) {
	switch cmd.Type {
	case cli.CmdMove:
		h.makeMove(cmd.Args[0])

	case cli.CmdUndo:
		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return
			}
			count = n
		}
		g, ok := h.exec(processor.NewUndoMoveCommand(h.gameID, core.UndoRequest{Count: count}))
		if !ok {
			return
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.showPosition(g)

	case cli.CmdResign:
		g, ok := h.exec(processor.NewResignCommand(h.gameID, core.ResignRequest{}))
		if ok {
			h.finish(g)
		}

	case cli.CmdDraw:
		action := "offer"
		if len(cmd.Args) > 0 {
			action = strings.ToLower(cmd.Args[0])
		}
		switch action {
		case "offer", "accept", "decline":
		default:
			h.view.ShowMessage("Usage: draw <offer|accept|decline>")
			return
		}
		g, ok := h.exec(processor.NewDrawCommand(h.gameID, core.DrawRequest{Action: action}))
		if !ok {
			return
		}
		switch {
		case g.State != core.StateOngoing.String():
			h.finish(g)
		case action == "decline":
			h.view.ShowMessage("Draw offer declined.")
		default:
			h.view.ShowStatus(g)
		}

	case cli.CmdHint:
		req := core.LegalMovesRequest{}
		if len(cmd.Args) > 0 {
			req.From = strings.ToLower(cmd.Args[0])
		}
		resp := h.proc.Execute(processor.NewLegalMovesCommand(h.gameID, req))
		if !resp.Success {
			h.showFailure(resp.Error)
			return
		}
		moves := resp.Data.(core.LegalMovesResponse).Moves
		if len(moves) == 0 {
			h.view.ShowMessage("No legal moves.")
			return
		}
		h.view.ShowMessage(fmt.Sprintf("Legal moves: %s", strings.Join(moves, " ")))

	case cli.CmdFEN:
		if g, ok := h.currentGame(); ok {
			h.view.ShowMessage(g.FEN)
		}

	case cli.CmdBoard:
		h.showBoard()

	case cli.CmdHistory:
		if g, ok := h.currentGame(); ok {
			h.view.ShowGameHistory(g)
		}
	}
}

// makeMove submits a move, prompting for the piece when a pawn promotes
func (h *CLIHandler) makeMove(move string) {
	resp := h.proc.Execute(processor.NewMakeMoveCommand(h.gameID, core.MoveRequest{Move: move}))
	if !resp.Success && resp.Error.Code == core.ErrPromotionRequired {
		piece := h.promptPromotion()
		if piece == "" {
			h.view.ShowMessage("Move cancelled.")
			return
		}
		resp = h.proc.Execute(processor.NewMakeMoveCommand(h.gameID, core.MoveRequest{Move: move + piece}))
	}
	if !resp.Success {
		h.showFailure(resp.Error)
		return
	}

	g := resp.Data.(core.GameResponse)
	h.view.ShowMove(g)
	h.showPosition(g)
}

// promptPromotion asks until it gets q, r, b or n; empty input cancels
func (h *CLIHandler) promptPromotion() string {
	for {
		answer := strings.ToLower(h.view.ReadLine("Promote to (q/r/b/n): "))
		switch answer {
		case "":
			return ""
		case "q", "r", "b", "n":
			return answer
		case "queen", "rook", "bishop":
			return answer[:1]
		case "knight":
			return "n"
		}
		h.view.ShowMessage("Choose q, r, b or n.")
	}
}

func (h *CLIHandler) startGame(fen string) {
	resp := h.proc.Execute(processor.NewCreateGameCommand(core.CreateGameRequest{FEN: fen}))
	if !resp.Success {
		h.view.ShowError(fmt.Errorf("could not start the game: %s", describe(resp.Error)))
		return
	}

	g := resp.Data.(core.GameResponse)
	h.gameID = g.GameID
	h.view.ShowMessage("Game started.")
	h.showPosition(g)
}

// showPosition draws the board and then check, draw offer or the result
func (h *CLIHandler) showPosition(g core.GameResponse) {
	h.displayFEN(g.FEN)
	if g.State != core.StateOngoing.String() {
		h.finish(g)
		return
	}
	h.view.ShowStatus(g)
}

// finish announces the result and leaves the game
func (h *CLIHandler) finish(g core.GameResponse) {
	h.view.ShowGameOver(g)
	h.gameID = ""
}

func (h *CLIHandler) showBoard() {
	if g, ok := h.currentGame(); ok {
		h.displayFEN(g.FEN)
	}
}

func (h *CLIHandler) displayFEN(fen string) {
	pos, err := notation.Decode(fen)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(pos.Board)
}

func (h *CLIHandler) currentGame() (core.GameResponse, bool) {
	if h.gameID == "" {
		return core.GameResponse{}, false
	}
	return h.exec(processor.NewGetGameCommand(h.gameID))
}

// exec runs a command expected to return a game, showing any failure
func (h *CLIHandler) exec(cmd processor.Command) (core.GameResponse, bool) {
	resp := h.proc.Execute(cmd)
	if !resp.Success {
		h.showFailure(resp.Error)
		return core.GameResponse{}, false
	}
	g, ok := resp.Data.(core.GameResponse)
	return g, ok
}

func (h *CLIHandler) showFailure(e *core.ErrorResponse) {
	h.view.ShowError(errors.New(describe(e)))
}

func describe(e *core.ErrorResponse) string {
	if e == nil {
		return "unknown error"
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Error, e.Details)
	}
	return e.Error
}
