// Package api is a typed client for the chessd REST API with optional
// request tracing for debugging.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

const (
	// waitTimeout matches the server's long-poll limit
	waitTimeout = 25 * time.Second
	pollSlack   = 10 * time.Second
)

// Error is a non-2xx API answer
type Error struct {
	Status   int
	Response core.ErrorResponse
}

func (e *Error) Error() string {
	r := e.Response
	if r.Details != "" {
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, r.Code, r.Error, r.Details)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, r.Code, r.Error)
}

// Code returns the API error code of err, or "" when err is not an API error
func Code(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Response.Code
	}
	return ""
}

type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
	Verbose    bool
	Trace      io.Writer // request log, nil for silence
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) SetToken(token string) {
	c.AuthToken = token
}

func (c *Client) tracef(format string, args ...any) {
	if c.Trace != nil {
		fmt.Fprintf(c.Trace, format, args...)
	}
}

func (c *Client) doRequest(ctx context.Context, hc *http.Client, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		c.tracef("%s[API] %s %s%s %s\n", display.Blue, method, path, display.Reset, jsonData)
	} else {
		c.tracef("%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	c.tracef("%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)
	if c.Verbose && len(respBody) > 0 {
		var pretty bytes.Buffer
		if json.Indent(&pretty, respBody, "", "  ") == nil {
			c.tracef("%s\n", pretty.String())
		} else {
			c.tracef("%s\n", respBody)
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.Response); err != nil || apiErr.Response.Code == "" {
			apiErr.Response = core.ErrorResponse{
				Error: strings.TrimSpace(string(respBody)),
				Code:  http.StatusText(resp.StatusCode),
			}
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) do(method, path string, body, result any) error {
	return c.doRequest(context.Background(), c.HTTPClient, method, path, body, result)
}

func gamePath(gameID string, parts ...string) string {
	return "/api/v1/games/" + url.PathEscape(gameID) + strings.Join(parts, "")
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.do("GET", "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do("POST", "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do("GET", gamePath(gameID), nil, &resp)
	return &resp, err
}

// WaitGame long-polls until the game differs from moveCount moves or the
// server times the wait out, then returns the current state
func (c *Client) WaitGame(ctx context.Context, gameID string, moveCount int) (*core.GameResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, waitTimeout+pollSlack)
	defer cancel()

	// The context deadline replaces the client timeout, which is shorter than a long-poll
	hc := &http.Client{Transport: c.HTTPClient.Transport}

	var resp core.GameResponse
	path := fmt.Sprintf("%s?wait=true&moveCount=%d", gamePath(gameID), moveCount)
	err := c.doRequest(ctx, hc, "GET", path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.do("DELETE", gamePath(gameID), nil, nil)
}

func (c *Client) MakeMove(gameID, move string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do("POST", gamePath(gameID, "/moves"), core.MoveRequest{Move: move}, &resp)
	return &resp, err
}

func (c *Client) LegalMoves(gameID, from string) (*core.LegalMovesResponse, error) {
	path := gamePath(gameID, "/moves")
	if from != "" {
		path += "?from=" + url.QueryEscape(from)
	}
	var resp core.LegalMovesResponse
	err := c.do("GET", path, nil, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do("POST", gamePath(gameID, "/undo"), core.UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) Resign(gameID, color string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do("POST", gamePath(gameID, "/resign"), core.ResignRequest{Color: color}, &resp)
	return &resp, err
}

func (c *Client) Draw(gameID, action, color string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.do("POST", gamePath(gameID, "/draw"), core.DrawRequest{Action: action, Color: color}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.do("GET", gamePath(gameID, "/board"), nil, &resp)
	return &resp, err
}

func (c *Client) Register(username, password, email string) (*AuthResponse, error) {
	req := &RegisterRequest{
		Username: username,
		Password: password,
		Email:    email,
	}
	var resp AuthResponse
	err := c.do("POST", "/api/v1/auth/register", req, &resp)
	return &resp, err
}

func (c *Client) Login(identifier, password string) (*AuthResponse, error) {
	req := &LoginRequest{
		Identifier: identifier,
		Password:   password,
	}
	var resp AuthResponse
	err := c.do("POST", "/api/v1/auth/login", req, &resp)
	return &resp, err
}

func (c *Client) GetCurrentUser() (*UserResponse, error) {
	var resp UserResponse
	err := c.do("GET", "/api/v1/auth/me", nil, &resp)
	return &resp, err
}

// RawRequest sends body verbatim and returns the raw response body
func (c *Client) RawRequest(method, path, body string) (json.RawMessage, error) {
	var payload any
	if body != "" {
		payload = json.RawMessage(body)
	}
	var resp json.RawMessage
	err := c.do(strings.ToUpper(method), path, payload, &resp)
	return resp, err
}
