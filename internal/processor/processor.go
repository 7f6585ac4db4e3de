package processor

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
	"chessrules/internal/game"
	"chessrules/internal/notation"
	"chessrules/internal/service"
)

// Processor executes commands against the service. Commands are serialized,
// so a command sees the game exactly as the previous one left it.
type Processor struct {
	svc *service.Service
	mu  sync.Mutex
}

func New(svc *service.Service) *Processor {
	return &Processor{svc: svc}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	case CmdResign:
		return p.handleResign(cmd)
	case CmdDraw:
		return p.handleDraw(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// handleCreateGame validates the start position and seats the players
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	pos := notation.StartPosition()
	if args.FEN != "" {
		var err error
		if pos, err = notation.Decode(args.FEN); err != nil {
			return p.errorResponse(fmt.Sprintf("invalid FEN: %v", err), core.ErrInvalidFEN)
		}
	}
	initialFEN := notation.Encode(pos)

	if (args.White.Claim || args.Black.Claim) && cmd.UserID == "" {
		return p.errorResponse("claiming a seat requires authentication", core.ErrUnauthorized)
	}

	whitePlayer := core.NewPlayer(args.White, board.White)
	blackPlayer := core.NewPlayer(args.Black, board.Black)
	if args.White.Claim {
		whitePlayer.UserID = cmd.UserID
	}
	if args.Black.Claim {
		blackPlayer.UserID = cmd.UserID
	}

	gameID := p.svc.GenerateGameID()
	if err := p.svc.CreateGame(gameID, whitePlayer, blackPlayer, initialFEN, pos.Turn); err != nil {
		if errors.Is(err, service.ErrTooManyGames) {
			return p.errorResponse(err.Error(), core.ErrRateLimitExceeded)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	// A setup position may already be decided
	if err := p.checkGameEnd(gameID, pos.Board, pos.Turn); err != nil {
		p.svc.DeleteGame(gameID)
		return p.errorResponse(fmt.Sprintf("invalid FEN: %v", err), core.ErrInvalidFEN)
	}

	g, err := p.svc.GetGame(gameID)
	if err != nil {
		return p.errorResponse("game creation failed", core.ErrInternalError)
	}

	return p.gameResponse(gameID, g)
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	return p.gameResponse(cmd.GameID, g)
}

// handleMakeMove parses, checks and plays one move for the side to move
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if g.State().IsOver() {
		return p.errorResponse(fmt.Sprintf("game is over: %s", g.State()), core.ErrGameOver)
	}

	mover := g.NextTurnColor()
	if !g.NextPlayer().Seated(cmd.UserID) {
		return p.errorResponse(fmt.Sprintf("%s is seated by another user", mover.Name()), core.ErrNotYourTurn)
	}

	pos, err := g.CurrentPosition()
	if err != nil {
		log.Printf("Game %s: %v", cmd.GameID, err)
		return p.errorResponse("corrupt game state", core.ErrInternalError)
	}

	m, err := notation.ParseMove(pos.Board, pos.Turn, args.Move)
	if err != nil {
		return p.moveErrorResponse(err)
	}
	next, err := engine.Apply(pos.Board, m)
	if err != nil {
		return p.moveErrorResponse(err)
	}

	nextPos := game.NextPosition(pos, m, next)
	moveText := notation.FormatMove(m)
	newFEN := notation.Encode(nextPos)

	if err = p.svc.ApplyMove(cmd.GameID, moveText, newFEN); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to apply move: %v", err), core.ErrInternalError)
	}

	p.svc.SetLastMoveResult(cmd.GameID, &game.MoveResult{
		Move:        moveText,
		PlayerColor: mover,
		GameState:   core.StateOngoing,
	})

	if err := p.checkGameEnd(cmd.GameID, next, nextPos.Turn); err != nil {
		log.Printf("Game %s: evaluate after %s: %v", cmd.GameID, moveText, err)
		return p.errorResponse("corrupt game state", core.ErrInternalError)
	}

	return p.gameResponse(cmd.GameID, g)
}

// moveErrorResponse maps notation and engine rejections to API codes
func (p *Processor) moveErrorResponse(err error) ProcessorResponse {
	switch {
	case errors.Is(err, engine.ErrPromotionRequired):
		return p.errorResponseDetails("promotion piece required", core.ErrPromotionRequired, err.Error())
	case errors.Is(err, engine.ErrIllegalMove):
		return p.errorResponseDetails("illegal move", core.ErrInvalidMove, err.Error())
	case errors.Is(err, notation.ErrSyntax), errors.Is(err, engine.ErrOffBoard):
		return p.errorResponseDetails("invalid move format", core.ErrInvalidMove, err.Error())
	default:
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}
}

// checkGameEnd records checkmate or stalemate for the side to move
func (p *Processor) checkGameEnd(gameID string, b *board.Board, toMove board.Color) error {
	status, err := engine.Evaluate(b, toMove)
	if err != nil {
		return err
	}

	switch status {
	case engine.Checkmate:
		return p.svc.SetResult(gameID, core.WinFor(toMove.Opposite()), core.ReasonCheckmate)
	case engine.Stalemate:
		return p.svc.SetResult(gameID, core.StateStalemate, core.ReasonStalemate)
	}
	return nil
}

// handleUndoMove reverts moves; a finished game becomes ongoing again
func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if !seatedAnywhere(g, cmd.UserID) {
		return p.errorResponse("not a player in this game", core.ErrUnauthorized)
	}

	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok && req.Count > 0 {
		args = req
	}

	if err = p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return p.errorResponse("game not found", core.ErrGameNotFound)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	return p.gameResponse(cmd.GameID, g)
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if !seatedAnywhere(g, cmd.UserID) {
		return p.errorResponse("not a player in this game", core.ErrUnauthorized)
	}

	if err = p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	pos, err := g.CurrentPosition()
	if err != nil {
		return p.errorResponse("error parsing FEN", core.ErrInvalidFEN)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			FEN:   g.CurrentFEN(),
			Board: pos.Board.ToASCII(),
		},
	}
}

// handleLegalMoves lists the side to move's legal moves in coordinate
// notation, optionally for a single square
func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	args, _ := cmd.Args.(core.LegalMovesRequest)

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	pos, err := g.CurrentPosition()
	if err != nil {
		return p.errorResponse("error parsing FEN", core.ErrInvalidFEN)
	}

	var from board.Square
	if args.From != "" {
		if from, err = notation.ParseSquare(args.From); err != nil {
			return p.errorResponseDetails("invalid square", core.ErrInvalidRequest, err.Error())
		}
	}

	moves := []string{}
	if !g.State().IsOver() {
		for _, m := range engine.LegalMoves(pos.Board, pos.Turn) {
			if args.From == "" || m.From == from {
				moves = append(moves, notation.FormatMove(m))
			}
		}
	}
	sort.Strings(moves)

	return ProcessorResponse{
		Success: true,
		Data: core.LegalMovesResponse{
			From:  args.From,
			Moves: moves,
		},
	}
}

func (p *Processor) handleResign(cmd Command) ProcessorResponse {
	args, _ := cmd.Args.(core.ResignRequest)

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if g.State().IsOver() {
		return p.errorResponse(fmt.Sprintf("game is over: %s", g.State()), core.ErrGameOver)
	}

	color, ok := colorOr(args.Color, g.NextTurnColor())
	if !ok {
		return p.errorResponse("invalid color", core.ErrInvalidRequest)
	}
	if !g.GetPlayer(color).Seated(cmd.UserID) {
		return p.errorResponse(fmt.Sprintf("%s is seated by another user", color.Name()), core.ErrUnauthorized)
	}

	if err := p.svc.SetResult(cmd.GameID, core.WinFor(color.Opposite()), core.ReasonResign); err != nil {
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}

	return p.gameResponse(cmd.GameID, g)
}

// handleDraw offers, accepts or declines a draw by agreement
func (p *Processor) handleDraw(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.DrawRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}
	if g.State().IsOver() {
		return p.errorResponse(fmt.Sprintf("game is over: %s", g.State()), core.ErrGameOver)
	}

	offerer, pending := g.DrawOfferedBy()

	def := g.NextTurnColor()
	if args.Action != "offer" {
		if !pending {
			return p.errorResponse("no draw offer pending", core.ErrNoDrawOffer)
		}
		def = offerer.Opposite()
	}
	color, ok := colorOr(args.Color, def)
	if !ok {
		return p.errorResponse("invalid color", core.ErrInvalidRequest)
	}
	if !g.GetPlayer(color).Seated(cmd.UserID) {
		return p.errorResponse(fmt.Sprintf("%s is seated by another user", color.Name()), core.ErrUnauthorized)
	}

	switch args.Action {
	case "offer":
		err = p.svc.OfferDraw(cmd.GameID, color)
	case "accept":
		if color == offerer {
			return p.errorResponse("cannot accept your own draw offer", core.ErrInvalidRequest)
		}
		err = p.svc.SetResult(cmd.GameID, core.StateDraw, core.ReasonAgreement)
	case "decline":
		// The offerer declining withdraws the offer
		err = p.svc.DeclineDraw(cmd.GameID)
	default:
		return p.errorResponse(fmt.Sprintf("unknown draw action %q", args.Action), core.ErrInvalidRequest)
	}
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	return p.gameResponse(cmd.GameID, g)
}

func (p *Processor) gameResponse(gameID string, g *game.Game) ProcessorResponse {
	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(gameID, g),
	}
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID: gameID,
		FEN:    g.CurrentFEN(),
		Turn:   g.NextTurnColor().String(),
		State:  g.State().String(),
		Reason: g.Reason(),
		Moves:  g.Moves(),
		Players: core.PlayersResponse{
			White: g.GetPlayer(board.White),
			Black: g.GetPlayer(board.Black),
		},
	}

	if pos, err := g.CurrentPosition(); err == nil {
		resp.Check = engine.InCheck(pos.Board, pos.Turn)
	}
	if c, ok := g.DrawOfferedBy(); ok {
		resp.DrawOffer = c.String()
	}

	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        result.Move,
			PlayerColor: result.PlayerColor.String(),
		}
	}

	return resp
}

// seatedAnywhere reports whether userID may act on the game as a whole
func seatedAnywhere(g *game.Game, userID string) bool {
	return g.GetPlayer(board.White).Seated(userID) || g.GetPlayer(board.Black).Seated(userID)
}

// colorOr parses "w" or "b", returning def for the empty string
func colorOr(s string, def board.Color) (board.Color, bool) {
	switch s {
	case "":
		return def, true
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	}
	return def, false
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return p.errorResponseDetails(message, code, "")
}

func (p *Processor) errorResponseDetails(message, code, details string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error:   message,
			Code:    code,
			Details: details,
		},
	}
}
