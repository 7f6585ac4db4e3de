package commands

import (
	"bytes"
	"errors"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chessrules/internal/client/api"
	"chessrules/internal/core"
	chesshttp "chessrules/internal/http"
	"chessrules/internal/processor"
	"chessrules/internal/service"
	"chessrules/internal/storage"
)

// scriptPrompter answers prompts from a fixed list
type scriptPrompter struct {
	answers []string
}

func (p *scriptPrompter) next() (string, error) {
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptPrompter) ReadLine(string) (string, error)     { return p.next() }
func (p *scriptPrompter) ReadPassword(string) (string, error) { return p.next() }

// startServer serves the real API on a loopback port and returns its URL
func startServer(t *testing.T) string {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "client.db"), false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	svc, err := service.New(store, []byte("client-test-secret-0123456789abcdef"))
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	app := chesshttp.NewFiberApp(processor.New(svc), svc, true)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() {
		svc.Shutdown(time.Second)
		app.ShutdownWithTimeout(time.Second)
	})

	return "http://" + ln.Addr().String()
}

type harness struct {
	reg    *Registry
	out    *bytes.Buffer
	prompt *scriptPrompter
}

func newHarness(t *testing.T, baseURL string) *harness {
	t.Helper()
	out := &bytes.Buffer{}
	p := &scriptPrompter{}
	reg := NewRegistry(&Session{Client: api.New(baseURL)}, p, out)
	return &harness{reg: reg, out: out, prompt: p}
}

// run executes line and returns what it printed
func (h *harness) run(t *testing.T, line string, answers ...string) string {
	t.Helper()
	h.out.Reset()
	h.prompt.answers = answers
	if err := h.reg.Execute(line); err != nil {
		t.Fatalf("%q returned %v", line, err)
	}
	return h.out.String()
}

func expect(t *testing.T, line, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("%q output missing %q:\n%s", line, w, got)
		}
	}
}

func TestGameCommands(t *testing.T) {
	h := newHarness(t, startServer(t))
	s := h.reg.Session()

	out := h.run(t, "new")
	expect(t, "new", out, "Game created: ", "Turn: White  Moves: 0")
	if s.CurrentGame == "" {
		t.Fatal("new did not set the current game")
	}

	out = h.run(t, "v e2")
	expect(t, "v e2", out, "Legal moves (2): e2e3 e2e4")

	for _, m := range []string{"f2f3", "e7e5", "g2g4"} {
		h.run(t, "m "+m)
	}
	if s.MoveCount != 3 {
		t.Errorf("MoveCount = %d, want 3", s.MoveCount)
	}

	out = h.run(t, "u 2")
	expect(t, "u 2", out, "Undid 2 move(s)", "Moves: 1")

	h.run(t, "m e7e5")
	h.run(t, "m g2g4")
	out = h.run(t, "move d8h4")
	expect(t, "move d8h4", out, "Black played d8h4", "Game over: black wins by checkmate")

	out = h.run(t, "show")
	expect(t, "show", out, "FEN: rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", "8 r n b")

	out = h.run(t, "m a2a3")
	expect(t, "m a2a3", out, "Error: ", core.ErrGameOver)

	out = h.run(t, "state")
	expect(t, "state", out, `"state": "black wins"`, `"reason": "checkmate"`)

	id := s.CurrentGame
	out = h.run(t, "d")
	expect(t, "d", out, "Game deleted: "+id)
	if s.CurrentGame != "" {
		t.Error("delete kept the current game")
	}

	out = h.run(t, "join "+id)
	expect(t, "join", out, core.ErrGameNotFound)

	out = h.run(t, "m e2e4")
	expect(t, "m without game", out, "no current game")
}

func TestPromotionAndDraw(t *testing.T) {
	h := newHarness(t, startServer(t))
	s := h.reg.Session()

	h.run(t, "new 7k/P7/8/8/8/8/8/K7 w - - 0 1")

	// An invalid answer re-prompts, then the rook is chosen
	out := h.run(t, "m a7a8", "x", "r")
	expect(t, "m a7a8", out, "Choose q, r, b or n.", "White played a7a8r")

	out = h.run(t, "draw offer")
	expect(t, "draw offer", out, "draw offered by Black")
	out = h.run(t, "draw accept")
	expect(t, "draw accept", out, "Game over: draw by agreement")

	h.run(t, "new 7k/P7/8/8/8/8/8/K7 w - - 0 1")
	out = h.run(t, "m a7a8", "")
	expect(t, "cancelled promotion", out, "Move cancelled.")
	if s.MoveCount != 0 {
		t.Errorf("cancelled promotion recorded a move")
	}

	out = h.run(t, "resign")
	expect(t, "resign", out, "Game over: black wins by resignation")
}

func TestPoll(t *testing.T) {
	url := startServer(t)
	a := newHarness(t, url)
	b := newHarness(t, url)

	a.run(t, "new")
	b.run(t, "join "+a.reg.Session().CurrentGame)

	a.run(t, "m e2e4")

	// b still believes zero moves were played, so the wait returns at once
	out := b.run(t, "poll")
	expect(t, "poll", out, "White played e2e4", "Turn: Black  Moves: 1")
	if b.reg.Session().MoveCount != 1 {
		t.Errorf("poll MoveCount = %d", b.reg.Session().MoveCount)
	}
}

func TestAuthCommands(t *testing.T) {
	h := newHarness(t, startServer(t))
	s := h.reg.Session()

	out := h.run(t, "whoami")
	expect(t, "whoami", out, "Not authenticated")

	out = h.run(t, "register alice", "password123", "")
	expect(t, "register", out, "Registered successfully", "Username: alice")
	if s.UserID == "" || s.Client.AuthToken == "" {
		t.Fatal("register did not sign in")
	}

	out = h.run(t, "new -w")
	expect(t, "new -w", out, "Game created: ")
	if s.PlayerColor != "w" {
		t.Errorf("PlayerColor = %q, want w", s.PlayerColor)
	}

	out = h.run(t, "whoami")
	expect(t, "whoami", out, "Username: alice", "Seat:     White in "+s.CurrentGame)

	h.run(t, "logout")
	if s.Client.AuthToken != "" || s.PlayerColor != "" {
		t.Error("logout kept credentials")
	}

	// The white seat now belongs to alice
	out = h.run(t, "m e2e4")
	expect(t, "anonymous move", out, core.ErrNotYourTurn)

	out = h.run(t, "login alice", "wrong-password")
	expect(t, "bad login", out, "Error: ")

	out = h.run(t, "l alice", "password123")
	expect(t, "login", out, "Logged in successfully")
	if s.PlayerColor != "w" {
		t.Errorf("login did not restore the seat, got %q", s.PlayerColor)
	}

	out = h.run(t, "m e2e4")
	expect(t, "seated move", out, "White played e2e4")
}

func TestUtilityCommands(t *testing.T) {
	h := newHarness(t, startServer(t))

	out := h.run(t, "health")
	expect(t, "health", out, "Status:  healthy", "Games:   0")

	out = h.run(t, "raw POST /api/v1/games {}")
	expect(t, "raw", out, `"state": "ongoing"`)

	out = h.run(t, "verbose")
	expect(t, "verbose", out, "Verbose mode on")
	out = h.run(t, ".")
	expect(t, "traced health", out, "[API] GET /health", "[200 OK]")
	h.run(t, "verbose")

	out = h.run(t, "health -v")
	expect(t, "health -v", out, "[API] GET /health")

	out = h.run(t, "url")
	expect(t, "url", out, "Current API URL: http://127.0.0.1:")

	out = h.run(t, "help")
	expect(t, "help", out, "Game Commands:", "Auth Commands:", "Utility Commands:", "[?] help")

	out = h.run(t, "help m")
	expect(t, "help m", out, "move - Make a move", "Usage: move")

	out = h.run(t, "frobnicate")
	expect(t, "unknown", out, "Unknown command: frobnicate")

	h.out.Reset()
	if err := h.reg.Execute("exit"); !errors.Is(err, ErrExit) {
		t.Errorf("exit returned %v", err)
	}
}
