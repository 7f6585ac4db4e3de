package processor

import (
	"chessrules/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdLegalMoves
	CmdResign
	CmdDraw
)

var commandNames = [...]string{
	"create game", "get game", "delete game", "make move", "undo move",
	"get board", "legal moves", "resign", "draw",
}

func (t CommandType) String() string {
	if t >= 0 && int(t) < len(commandNames) {
		return commandNames[t]
	}
	return "unknown"
}

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	UserID string // Authenticated user, empty for anonymous callers
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{
		Type:   CmdUndoMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewLegalMovesCommand(gameID string, req core.LegalMovesRequest) Command {
	return Command{
		Type:   CmdLegalMoves,
		GameID: gameID,
		Args:   req,
	}
}

func NewResignCommand(gameID string, req core.ResignRequest) Command {
	return Command{
		Type:   CmdResign,
		GameID: gameID,
		Args:   req,
	}
}

func NewDrawCommand(gameID string, req core.DrawRequest) Command {
	return Command{
		Type:   CmdDraw,
		GameID: gameID,
		Args:   req,
	}
}
