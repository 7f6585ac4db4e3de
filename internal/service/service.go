package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/game"
	"chessrules/internal/storage"
)

const (
	// MaxGames bounds the in-memory registry
	MaxGames   = 1000
	TokenTTL   = 7 * 24 * time.Hour
	MinSecretN = 32 // HS256 key floor enforced by lixenwraith/auth
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrTooManyGames    = errors.New("game limit reached")
	ErrStorageDisabled = errors.New("storage disabled")
)

// Service coordinates game state, user management and storage. A nil store
// runs the service memory-only with accounts disabled.
type Service struct {
	games     map[string]*game.Game
	mu        sync.RWMutex
	store     *storage.Store
	jwtSecret []byte
	waiter    *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store, jwtSecret []byte) (*Service, error) {
	if store != nil && len(jwtSecret) < MinSecretN {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretN)
	}
	return &Service{
		games:     make(map[string]*game.Game),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
	}, nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// AccountsEnabled reports whether user registration and login are available
func (s *Service) AccountsEnabled() bool {
	return s.store != nil
}

// RegisterWait registers a client to wait for game state changes
func (s *Service) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(gameID, moveCount, ctx)
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
