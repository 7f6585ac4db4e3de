package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Group:       groupGame,
		Description: "Create a new game",
		Usage:       "new [-w|-b] [fen]  (-w/-b claims that seat for the logged-in user)",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Group:       groupGame,
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Group:       groupGame,
		Description: "Make a move",
		Usage:       "move <e2e4|e7e8q|O-O|O-O-O>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "moves",
		ShortName:   "v",
		Group:       groupGame,
		Description: "List legal moves",
		Usage:       "moves [square]",
		Handler:     legalMovesHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Group:       groupGame,
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "resign",
		ShortName:   "g",
		Group:       groupGame,
		Description: "Resign the game",
		Usage:       "resign [w|b]",
		Handler:     resignHandler,
	})

	r.Register(&Command{
		Name:        "draw",
		ShortName:   "w",
		Group:       groupGame,
		Description: "Offer, accept or decline a draw",
		Usage:       "draw <offer|accept|decline> [w|b]",
		Handler:     drawHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Group:       groupGame,
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Group:       groupGame,
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Group:       groupGame,
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Group:       groupGame,
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func newGameHandler(r *Registry, args []string) error {
	s := r.session

	var req core.CreateGameRequest
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "-w":
			req.White.Claim = true
		case "-b":
			req.Black.Claim = true
		default:
			return fmt.Errorf("unknown flag %s, usage: new [-w|-b] [fen]", args[0])
		}
		args = args[1:]
	}
	req.FEN = strings.Join(args, " ")
	if s.Username != "" {
		if req.White.Claim {
			req.White.Name = s.Username
		}
		if req.Black.Claim {
			req.Black.Name = s.Username
		}
	}

	resp, err := s.Client.CreateGame(req)
	if err != nil {
		return err
	}
	s.track(resp)
	s.PlayerColor = r.seatOf(resp)

	r.printf("%s\n", r.paint(display.Green, "Game created: "+resp.GameID))
	r.printGameSummary(resp)
	return nil
}

func joinGameHandler(r *Registry, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}
	s := r.session

	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}
	s.track(resp)
	s.PlayerColor = r.seatOf(resp)

	r.printf("%s\n", r.paint(display.Cyan, "Current game set to: "+resp.GameID))
	r.printGameSummary(resp)
	return nil
}

// seatOf reports the color the logged-in user claimed in g, or ""
func (r *Registry) seatOf(g *core.GameResponse) string {
	id := r.session.UserID
	if id == "" {
		return ""
	}
	if p := g.Players.White; p != nil && p.UserID == id {
		return "w"
	}
	if p := g.Players.Black; p != nil && p.UserID == id {
		return "b"
	}
	return ""
}

func moveHandler(r *Registry, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <e2e4|e7e8q|O-O|O-O-O>")
	}
	s := r.session
	gameID, err := s.requireGame(nil)
	if err != nil {
		return err
	}

	move := args[0]
	resp, err := s.Client.MakeMove(gameID, move)
	if api.Code(err) == core.ErrPromotionRequired {
		piece, perr := r.askPromotion()
		if perr != nil {
			return perr
		}
		if piece == "" {
			r.printf("Move cancelled.\n")
			return nil
		}
		resp, err = s.Client.MakeMove(gameID, move+piece)
	}
	if err != nil {
		return err
	}
	s.track(resp)

	if resp.LastMove != nil {
		r.printf("%s played %s\n", r.turnName(resp.LastMove.PlayerColor), resp.LastMove.Move)
	}
	r.printGameSummary(resp)
	return nil
}

// askPromotion returns the chosen piece letter, or "" when the user cancels
func (r *Registry) askPromotion() (string, error) {
	for {
		answer, err := r.ask("Promote to (q/r/b/n)")
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		switch answer {
		case "", "q", "r", "b", "n":
			return answer, nil
		}
		r.printf("Choose q, r, b or n.\n")
	}
}

func legalMovesHandler(r *Registry, args []string) error {
	s := r.session
	gameID, err := s.requireGame(nil)
	if err != nil {
		return err
	}

	from := ""
	if len(args) > 0 {
		from = strings.ToLower(args[0])
	}
	resp, err := s.Client.LegalMoves(gameID, from)
	if err != nil {
		return err
	}

	if len(resp.Moves) == 0 {
		r.printf("No legal moves.\n")
		return nil
	}
	r.printf("Legal moves (%d): %s\n", len(resp.Moves), strings.Join(resp.Moves, " "))
	return nil
}

func undoHandler(r *Registry, args []string) error {
	s := r.session
	gameID, err := s.requireGame(nil)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		count, err = strconv.Atoi(args[0])
		if err != nil || count < 1 {
			return fmt.Errorf("usage: undo [count]")
		}
	}

	resp, err := s.Client.UndoMoves(gameID, count)
	if err != nil {
		return err
	}
	s.track(resp)

	r.printf("%s\n", r.paint(display.Green, fmt.Sprintf("Undid %d move(s)", count)))
	r.printGameSummary(resp)
	return nil
}

func resignHandler(r *Registry, args []string) error {
	s := r.session
	gameID, err := s.requireGame(nil)
	if err != nil {
		return err
	}

	color := s.PlayerColor
	if len(args) > 0 {
		color = strings.ToLower(args[0])
	}
	resp, err := s.Client.Resign(gameID, color)
	if err != nil {
		return err
	}
	s.track(resp)
	r.printGameSummary(resp)
	return nil
}

func drawHandler(r *Registry, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: draw <offer|accept|decline> [w|b]")
	}
	s := r.session
	gameID, err := s.requireGame(nil)
	if err != nil {
		return err
	}

	color := s.PlayerColor
	if len(args) > 1 {
		color = strings.ToLower(args[1])
	}
	resp, err := s.Client.Draw(gameID, strings.ToLower(args[0]), color)
	if err != nil {
		return err
	}
	s.track(resp)
	r.printGameSummary(resp)
	return nil
}

func showBoardHandler(r *Registry, args []string) error {
	s := r.session
	gameID, err := s.requireGame(args)
	if err != nil {
		return err
	}

	board, err := s.Client.GetBoard(gameID)
	if err != nil {
		return err
	}
	game, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	if gameID == s.CurrentGame {
		s.track(game)
	}

	r.printf("\n")
	display.RenderBoard(r.out, board.Board, s.Color)
	r.printf("\nFEN: %s\n", board.FEN)
	r.printGameSummary(game)
	return nil
}

func gameStateHandler(r *Registry, args []string) error {
	s := r.session
	gameID, err := s.requireGame(args)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	if gameID == s.CurrentGame {
		s.track(resp)
	}
	display.PrettyPrintJSON(r.out, resp)
	return nil
}

func deleteGameHandler(r *Registry, args []string) error {
	s := r.session
	gameID, err := s.requireGame(args)
	if err != nil {
		return err
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.CurrentGame {
		s.CurrentGame = ""
		s.MoveCount = 0
		s.Game = nil
		s.PlayerColor = ""
	}
	r.printf("%s\n", r.paint(display.Green, "Game deleted: "+gameID))
	return nil
}

func pollHandler(r *Registry, args []string) error {
	s := r.session
	gameID, err := s.requireGame(nil)
	if err != nil {
		return err
	}

	r.printf("%s\n", r.paint(display.Magenta,
		fmt.Sprintf("Long-polling for updates (move count: %d)...", s.MoveCount)))

	before := s.MoveCount
	resp, err := s.Client.WaitGame(context.Background(), gameID, before)
	if err != nil {
		return err
	}
	s.track(resp)

	if len(resp.Moves) == before && resp.State == core.StateOngoing.String() {
		r.printf("No new moves.\n")
		return nil
	}
	if resp.LastMove != nil {
		r.printf("%s played %s\n", r.turnName(resp.LastMove.PlayerColor), resp.LastMove.Move)
	}
	r.printGameSummary(resp)
	return nil
}

func (r *Registry) turnName(color string) string {
	if r.session.Color {
		return display.ColorForTurn(color)
	}
	if color == "w" {
		return "White"
	}
	return "Black"
}

func (r *Registry) printGameSummary(g *core.GameResponse) {
	if g.State != core.StateOngoing.String() {
		result := g.State
		if g.Reason != "" && g.Reason != g.State {
			result += " by " + g.Reason
		}
		r.printf("%s\n", r.paint(display.Yellow, "Game over: "+result))
		return
	}

	r.printf("Turn: %s  Moves: %d", r.turnName(g.Turn), len(g.Moves))
	if g.Check {
		r.printf("  %s", r.paint(display.Red, "CHECK"))
	}
	if g.DrawOffer != "" {
		r.printf("  draw offered by %s", r.turnName(g.DrawOffer))
	}
	r.printf("\n")
}
