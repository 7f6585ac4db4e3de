package core

import "chessrules/internal/board"

type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
	StateDraw
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateDraw:
		return "draw"
	case StateStalemate:
		return "stalemate"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether no further moves may be played
func (s State) IsOver() bool {
	return s != StateOngoing
}

// WinFor returns the winning state for color c
func WinFor(c board.Color) State {
	if c == board.White {
		return StateWhiteWins
	}
	return StateBlackWins
}

// Result reasons
const (
	ReasonCheckmate = "checkmate"
	ReasonStalemate = "stalemate"
	ReasonResign    = "resignation"
	ReasonAgreement = "agreement"
)
