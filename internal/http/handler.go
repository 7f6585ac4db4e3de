package http

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/processor"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const rateLimitRate = 10 // req/sec

// HTTPHandler handles HTTP requests and routes them to the processor
type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: service.WaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	validateToken := TokenValidator(svc.ValidateToken)

	auth := api.Group("/auth")
	auth.Post("/register", perMinuteLimiter(5, "registrations"), h.RegisterHandler)
	auth.Post("/login", perMinuteLimiter(10, "login attempts"), h.LoginHandler)
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)

	maxReq := rateLimitRate
	if devMode {
		maxReq = rateLimitRate * 2 // Loosen rate limiter for testing
	}
	games := api.Group("/games")
	games.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   1 * time.Second,
		KeyGenerator: clientKey,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))
	games.Use(contentTypeValidator)
	games.Use(validationMiddleware)
	games.Use(OptionalAuth(validateToken))

	games.Post("", h.CreateGame)
	games.Get("/:gameId", h.GetGame)
	games.Delete("/:gameId", h.DeleteGame)
	games.Post("/:gameId/moves", h.MakeMove)
	games.Get("/:gameId/moves", h.LegalMoves)
	games.Post("/:gameId/undo", h.UndoMove)
	games.Post("/:gameId/resign", h.Resign)
	games.Post("/:gameId/draw", h.Draw)
	games.Get("/:gameId/board", h.GetBoard)

	return app
}

func perMinuteLimiter(max int, what string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.ErrRateLimitExceeded,
				Details: fmt.Sprintf("%d %s per minute allowed", max, what),
			})
		},
	})
}

// clientKey prefers the first X-Forwarded-For hop over the peer address
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// contentTypeValidator ensures POST requests carry JSON when they carry a body
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// statusFor maps processor error codes to HTTP status
func statusFor(code string) int {
	switch code {
	case core.ErrGameNotFound:
		return fiber.StatusNotFound
	case core.ErrUnauthorized, core.ErrNotYourTurn:
		return fiber.StatusForbidden
	case core.ErrGameOver:
		return fiber.StatusConflict
	case core.ErrRateLimitExceeded:
		return fiber.StatusTooManyRequests
	case core.ErrInternalError:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// execute runs cmd as the authenticated user, if any, and writes the result
func (h *HTTPHandler) execute(c *fiber.Ctx, cmd processor.Command, okStatus int) error {
	cmd.UserID, _ = c.Locals("userID").(string)

	resp := h.proc.Execute(cmd)
	if !resp.Success {
		return c.Status(statusFor(resp.Error.Code)).JSON(resp.Error)
	}
	if resp.Data == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(okStatus).JSON(resp.Data)
}

// gameID returns the validated path parameter, writing the error response on failure
func gameID(c *fiber.Ctx) (string, error) {
	id := c.Params("gameId")
	if !isValidUUID(id) {
		return "", c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}
	return id, nil
}

// Health check endpoint with storage status
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"games":   h.svc.GameCount(),
		"storage": h.svc.GetStorageHealth(),
	})
}

// CreateGame creates a new game, optionally from a FEN and with claimed seats
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[core.CreateGameRequest](c)
	if err != nil {
		return err
	}
	return h.execute(c, processor.NewCreateGameCommand(*req), fiber.StatusCreated)
}

// GetGame retrieves current game state. With wait=true and the caller's
// moveCount it long-polls until the game changes or WaitTimeout passes.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}

	if c.Query("wait", "false") != "true" {
		return h.execute(c, processor.NewGetGameCommand(id), fiber.StatusOK)
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	current, err := h.svc.MoveCount(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// Client is already behind, answer immediately
	if moveCount != current {
		return h.execute(c, processor.NewGetGameCommand(id), fiber.StatusOK)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	<-h.svc.RegisterWait(id, moveCount, ctx)

	return h.execute(c, processor.NewGetGameCommand(id), fiber.StatusOK)
}

// MakeMove submits a move in coordinate notation or O-O / O-O-O
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}
	req, err := validatedBody[core.MoveRequest](c)
	if err != nil {
		return err
	}
	return h.execute(c, processor.NewMakeMoveCommand(id, *req), fiber.StatusOK)
}

// LegalMoves lists legal moves for the side to move, ?from=e2 narrows to one piece
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}
	req := core.LegalMovesRequest{From: c.Query("from")}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: "from must be a square such as e2",
		})
	}
	return h.execute(c, processor.NewLegalMovesCommand(id, req), fiber.StatusOK)
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}
	req, err := validatedBody[core.UndoRequest](c)
	if err != nil {
		return err
	}
	return h.execute(c, processor.NewUndoMoveCommand(id, *req), fiber.StatusOK)
}

func (h *HTTPHandler) Resign(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}
	req, err := validatedBody[core.ResignRequest](c)
	if err != nil {
		return err
	}
	return h.execute(c, processor.NewResignCommand(id, *req), fiber.StatusOK)
}

// Draw offers, accepts or declines a draw
func (h *HTTPHandler) Draw(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}
	req, err := validatedBody[core.DrawRequest](c)
	if err != nil {
		return err
	}
	return h.execute(c, processor.NewDrawCommand(id, *req), fiber.StatusOK)
}

// DeleteGame removes a game from memory
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}
	return h.execute(c, processor.NewDeleteGameCommand(id), fiber.StatusNoContent)
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	id, err := gameID(c)
	if id == "" {
		return err
	}
	return h.execute(c, processor.NewGetBoardCommand(id), fiber.StatusOK)
}
