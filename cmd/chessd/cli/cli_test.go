package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chessrules/internal/storage"
)

// capture runs the db command and returns its output
func capture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	defer func() { out = prev }()

	err := Run(args)
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	s, err := capture(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return s
}

func TestUserCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	mustRun(t, "init", "-path", path)

	s := mustRun(t, "user", "add", "-path", path, "-username", "Dave", "-email", "Dave@Example.com", "-password", "secret123")
	if !strings.Contains(s, "Username: dave") || !strings.Contains(s, "Email: dave@example.com") {
		t.Errorf("user add output:\n%s", s)
	}

	if _, err := capture(t, "user", "add", "-path", path, "-username", "dave", "-password", "secret123"); err == nil {
		t.Error("duplicate username accepted")
	}
	if _, err := capture(t, "user", "add", "-path", path, "-username", "erin", "-password", "short"); err == nil {
		t.Error("short password accepted")
	}

	mustRun(t, "user", "set-email", "-path", path, "-username", "dave", "-email", "d@example.org")
	mustRun(t, "user", "set-username", "-path", path, "-current", "dave", "-new", "David")
	mustRun(t, "user", "set-password", "-path", path, "-username", "david", "-password", "another123")

	s = mustRun(t, "user", "list", "-path", path)
	if !strings.Contains(s, "david") || !strings.Contains(s, "d@example.org") || !strings.Contains(s, "Total users: 1") {
		t.Errorf("user list output:\n%s", s)
	}

	mustRun(t, "user", "delete", "-path", path, "-username", "david")
	if _, err := capture(t, "user", "delete", "-path", path, "-id", "missing"); err == nil {
		t.Error("deleting unknown id succeeded")
	}
	if s = mustRun(t, "user", "list", "-path", path); !strings.Contains(s, "No users found") {
		t.Errorf("user list after delete:\n%s", s)
	}
}

func TestQueryAndMoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	mustRun(t, "init", "-path", path)

	if s := mustRun(t, "query", "-path", path); !strings.Contains(s, "No games found") {
		t.Errorf("empty query output:\n%s", s)
	}

	store, err := storage.NewStore(path, false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.RecordNewGame(storage.GameRecord{
		GameID:        "game-1",
		InitialFEN:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		WhitePlayerID: "w1",
		WhiteName:     "White",
		WhiteUserID:   "0123456789abcdef",
		BlackPlayerID: "b1",
		BlackName:     "Black",
		StartTimeUTC:  time.Now().UTC(),
	})
	store.RecordMove(storage.MoveRecord{
		GameID:       "game-1",
		MoveNumber:   1,
		Move:         "e2e4",
		FENAfterMove: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		PlayerColor:  "w",
		MoveTimeUTC:  time.Now().UTC(),
	})
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s := mustRun(t, "query", "-path", path, "-playerId", "0123456789abcdef")
	for _, want := range []string{"game-1", "White [01234567...]", "ongoing", "Found 1 game(s)"} {
		if !strings.Contains(s, want) {
			t.Errorf("query output missing %q:\n%s", want, s)
		}
	}

	s = mustRun(t, "moves", "-path", path, "-gameId", "game-1")
	if !strings.Contains(s, "e2e4") || !strings.Contains(s, "4P3") {
		t.Errorf("moves output:\n%s", s)
	}
}

func TestDeleteAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	mustRun(t, "init", "-path", path)
	mustRun(t, "delete", "-path", path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database file still present: %v", err)
	}

	for _, args := range [][]string{
		{},
		{"bogus"},
		{"user"},
		{"user", "bogus"},
		{"init"},
		{"moves", "-path", filepath.Join(t.TempDir(), "x.db")},
	} {
		if _, err := capture(t, args...); err == nil {
			t.Errorf("Run(%v) succeeded", args)
		}
	}
}
