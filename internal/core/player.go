package core

import (
	"github.com/google/uuid"

	"chessrules/internal/board"
)

// Player occupies one seat of a game. UserID is set when an authenticated
// account claimed the seat; moves for that color then require the same user.
type Player struct {
	ID     string      `json:"id"`
	Color  board.Color `json:"-"`
	Name   string      `json:"name,omitempty"`
	UserID string      `json:"userId,omitempty"`
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Name  string `json:"name,omitempty" validate:"omitempty,max=40"`
	Claim bool   `json:"claim,omitempty"` // bind the seat to the requesting user
}

type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, color board.Color) *Player {
	name := config.Name
	if name == "" {
		name = color.Name()
	}
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
		Name:  name,
	}
}

// Seated reports whether userID may move for this player. Unclaimed seats
// accept anyone.
func (p *Player) Seated(userID string) bool {
	return p.UserID == "" || p.UserID == userID
}
