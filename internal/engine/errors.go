package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove covers every rejected move or castle
	ErrIllegalMove = errors.New("illegal move")

	ErrPromotionRequired = fmt.Errorf("%w: promotion piece required", ErrIllegalMove)
	ErrInvalidPromotion  = fmt.Errorf("%w: invalid promotion", ErrIllegalMove)

	// ErrOffBoard is a caller error, not a rules decision
	ErrOffBoard = errors.New("square off board")
)

// MoveError carries the reason a move was rejected
type MoveError struct {
	Move   Move
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return ErrIllegalMove
}

func reject(m Move, format string, args ...any) error {
	return &MoveError{Move: m, Reason: fmt.Sprintf(format, args...)}
}
