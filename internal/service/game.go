package service

import (
	"fmt"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/google/uuid"
)

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, whitePlayer, blackPlayer *core.Player, initialFEN string, startingTurn board.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("game %s already exists", id)
	}
	if len(s.games) >= MaxGames {
		return ErrTooManyGames
	}

	s.games[id] = game.New(initialFEN, whitePlayer, blackPlayer, startingTurn)

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        id,
			InitialFEN:    initialFEN,
			WhitePlayerID: whitePlayer.ID,
			WhiteName:     whitePlayer.Name,
			WhiteUserID:   whitePlayer.UserID,
			BlackPlayerID: blackPlayer.ID,
			BlackName:     blackPlayer.Name,
			BlackUserID:   blackPlayer.UserID,
			Result:        core.StateOngoing.String(),
			StartTimeUTC:  time.Now().UTC(),
		})
	}

	return nil
}

// GetGame retrieves a game by ID. Callers mutate the game only through
// Service methods.
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// MoveCount returns the number of moves played in a game
func (s *Service) MoveCount(gameID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return len(g.Moves()), nil
}

// GameCount returns the number of games in memory
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// lookup returns the game or ErrGameNotFound. Caller holds s.mu.
func (s *Service) lookup(gameID string) (*game.Game, error) {
	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// ApplyMove adds a validated move to the game history
func (s *Service) ApplyMove(gameID, move, newFEN string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	mover := g.NextTurnColor()
	g.AddSnapshot(newFEN, move, mover.Opposite())
	moveNumber := len(g.Moves())

	s.waiter.NotifyGame(gameID, moveNumber)

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:       gameID,
			MoveNumber:   moveNumber,
			Move:         move,
			FENAfterMove: newFEN,
			PlayerColor:  mover.String(),
			MoveTimeUTC:  time.Now().UTC(),
		})
	}

	return nil
}

// SetResult records the outcome of a game and wakes its waiters
func (s *Service) SetResult(gameID string, state core.State, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	g.SetResult(state, reason)
	s.waiter.NotifyChange(gameID)

	if s.store != nil {
		s.store.RecordResult(gameID, state.String(), reason, time.Now().UTC())
	}

	return nil
}

// SetLastMoveResult stores metadata about the last move
func (s *Service) SetLastMoveResult(gameID string, result *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	g.SetLastResult(result)
	return nil
}

// UndoMoves removes the specified number of moves from game history. A
// finished game returns to ongoing.
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	wasOver := g.State().IsOver()
	if err := g.UndoMoves(count); err != nil {
		return err
	}
	remaining := len(g.Moves())

	s.waiter.NotifyGame(gameID, remaining)

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, remaining)
		if wasOver {
			s.store.RecordResult(gameID, core.StateOngoing.String(), "", time.Now().UTC())
		}
	}

	return nil
}

// OfferDraw records a pending draw offer by color
func (s *Service) OfferDraw(gameID string, color board.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	if err := g.OfferDraw(color); err != nil {
		return err
	}
	s.waiter.NotifyChange(gameID)
	return nil
}

// DeclineDraw withdraws or declines a pending draw offer
func (s *Service) DeclineDraw(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	g.ClearDrawOffer()
	s.waiter.NotifyChange(gameID)
	return nil
}

// DeleteGame removes a game from memory. The stored record is kept.
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(gameID); err != nil {
		return err
	}

	s.waiter.RemoveGame(gameID)

	delete(s.games, gameID)
	return nil
}
