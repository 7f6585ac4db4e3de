package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second

	// WaitChannelBuffer size for notification channels
	WaitChannelBuffer = 1
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	shutdown chan struct{}
	closed   bool
	timeout  time.Duration
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	MoveCount int             // Last known move count
	Notify    chan struct{}   // Buffered channel for notifications
	Timer     *time.Timer     // Timeout timer
	Context   context.Context // Client connection context
	GameID    string          // Game being watched
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return newWaitRegistry(WaitTimeout)
}

func newWaitRegistry(timeout time.Duration) *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
		timeout:  timeout,
	}
}

// RegisterWait registers a client to wait for game state changes. The
// returned channel fires on change, on timeout, or when the game is
// deleted; it is closed on shutdown.
func (w *WaitRegistry) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &WaitRequest{
		MoveCount: moveCount,
		Notify:    make(chan struct{}, WaitChannelBuffer),
		Context:   ctx,
		GameID:    gameID,
	}

	if w.closed {
		close(req.Notify)
		return req.Notify
	}

	req.Timer = time.AfterFunc(w.timeout, func() {
		w.handleTimeout(req)
	})

	w.waiters[gameID] = append(w.waiters[gameID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			// Client disconnected
			w.removeWaiter(gameID, req)
		case <-w.shutdown:
			w.mu.Lock()
			w.detach(gameID, req)
			close(req.Notify)
			w.mu.Unlock()
		}
	}()

	return req.Notify
}

// NotifyGame wakes waiters whose known move count differs from currentMoveCount
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		if req.MoveCount != currentMoveCount {
			send(req)
		}
	}
}

// NotifyChange wakes every waiter on a game. Used for changes that leave
// the move count alone: results, draw offers.
func (w *WaitRegistry) NotifyChange(gameID string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		send(req)
	}
}

// RemoveGame removes all waiters for a game (called before game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, req := range w.waiters[gameID] {
		req.Timer.Stop()
		send(req)
	}
	delete(w.waiters, gameID)
}

// Count returns the number of registered waiters for a game
func (w *WaitRegistry) Count(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.shutdown)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) handleTimeout(req *WaitRequest) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.registered(req) {
		send(req)
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.detach(gameID, req)
}

// detach drops req from the registry. Caller holds w.mu.
func (w *WaitRegistry) detach(gameID string, req *WaitRequest) {
	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}

	req.Timer.Stop()
}

// registered reports whether req is still in the registry. Caller holds w.mu.
func (w *WaitRegistry) registered(req *WaitRequest) bool {
	for _, waiter := range w.waiters[req.GameID] {
		if waiter == req {
			return true
		}
	}
	return false
}

// send delivers a non-blocking notification. Caller holds w.mu, which keeps
// the shutdown path from closing Notify underneath the send.
func send(req *WaitRequest) {
	select {
	case req.Notify <- struct{}{}:
	default:
		// Already pending
	}
}
