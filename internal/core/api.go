package core

// Request types

type CreateGameRequest struct {
	White PlayerConfig `json:"white"`
	Black PlayerConfig `json:"black"`
	FEN   string       `json:"fen,omitempty" validate:"omitempty,max=100"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=3,max=7"` // e2e4, e7e8q, O-O, O-O-O
}

type UndoRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=300"` // zero means one
}

// ResignRequest names the resigning color; empty means the side to move
type ResignRequest struct {
	Color string `json:"color,omitempty" validate:"omitempty,oneof=w b"`
}

// DrawRequest carries the draw action: offer, accept or decline. Color
// defaults to the side to move for offers and to the other side otherwise.
type DrawRequest struct {
	Action string `json:"action" validate:"required,oneof=offer accept decline"`
	Color  string `json:"color,omitempty" validate:"omitempty,oneof=w b"`
}

// LegalMovesRequest restricts the listing to the piece on From when set
type LegalMovesRequest struct {
	From string `json:"from,omitempty" validate:"omitempty,len=2"`
}

// Response types

type GameResponse struct {
	GameID    string          `json:"gameId"`
	FEN       string          `json:"fen"`
	Turn      string          `json:"turn"`  // "w" or "b"
	State     string          `json:"state"` // "ongoing", "white wins", etc
	Reason    string          `json:"reason,omitempty"`
	Check     bool            `json:"check"`
	DrawOffer string          `json:"drawOffer,omitempty"` // color that offered
	Moves     []string        `json:"moves"`
	Players   PlayersResponse `json:"players"`
	LastMove  *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board"` // ASCII representation
}

type LegalMovesResponse struct {
	From  string   `json:"from,omitempty"`
	Moves []string `json:"moves"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
