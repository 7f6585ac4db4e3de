package core

// Error codes
const (
	ErrGameNotFound       = "GAME_NOT_FOUND"
	ErrInvalidMove        = "INVALID_MOVE"
	ErrPromotionRequired  = "PROMOTION_REQUIRED"
	ErrNotYourTurn        = "NOT_YOUR_TURN"
	ErrGameOver           = "GAME_OVER"
	ErrNoDrawOffer        = "NO_DRAW_OFFER"
	ErrRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent     = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest     = "INVALID_REQUEST"
	ErrInvalidFEN         = "INVALID_FEN"
	ErrInternalError      = "INTERNAL_ERROR"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrStorageUnavailable = "STORAGE_UNAVAILABLE"
)
