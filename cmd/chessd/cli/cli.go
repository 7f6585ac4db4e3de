// Package cli implements the chessd "db" maintenance subcommands.
package cli

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"golang.org/x/term"

	"chessrules/internal/storage"
)

const minPasswordLength = 8

// out receives command output; tests swap it
var out io.Writer = os.Stdout

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves, user")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "moves":
		return runMoves(args[1:])
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("user subcommand required: add, delete, set-password, set-email, set-username, list")
		}
		return runUser(args[1], args[2:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// dbFlags is a flag set carrying the mandatory -path flag
type dbFlags struct {
	*flag.FlagSet
	path *string
}

func newFlags(name string) *dbFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return &dbFlags{
		FlagSet: fs,
		path:    fs.String("path", "", "Database file path (required)"),
	}
}

// open parses args and opens the store named by -path
func (f *dbFlags) open(args []string) (*storage.Store, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	if *f.path == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewStore(*f.path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	store, err := newFlags("init").open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized\n")
	return nil
}

func runDelete(args []string) error {
	fs := newFlags("delete")
	store, err := fs.open(args)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", *fs.path)
	return nil
}

func runQuery(args []string) error {
	fs := newFlags("query")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	playerID := fs.String("playerId", "", "Player or user ID to filter (optional, * for all)")

	store, err := fs.open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *playerID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tWhite\tBlack\tResult\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, g := range games {
		result := g.Result
		if g.Reason != "" {
			result += " (" + g.Reason + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			g.GameID,
			playerLabel(g.WhiteName, g.WhiteUserID),
			playerLabel(g.BlackName, g.BlackUserID),
			result,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func playerLabel(name, userID string) string {
	if userID == "" {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, shortID(userID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}

// runMoves prints the recorded moves of one game with the FEN after each
func runMoves(args []string) error {
	fs := newFlags("moves")
	gameID := fs.String("gameId", "", "Game ID (required)")

	store, err := fs.open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	moves, err := store.GameMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tColor\tMove\tFEN")
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.MoveNumber, m.PlayerColor, m.Move, m.FENAfterMove)
	}
	w.Flush()
	return nil
}

func runUser(subcommand string, args []string) error {
	switch subcommand {
	case "add":
		return runUserAdd(args)
	case "delete":
		return runUserDelete(args)
	case "set-password":
		return runUserSetPassword(args)
	case "set-email":
		return runUserSetEmail(args)
	case "set-username":
		return runUserSetUsername(args)
	case "list":
		return runUserList(args)
	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

// readPassword returns the flag value, or prompts on the terminal when
// interactive is set
func readPassword(flagValue string, interactive bool) (string, error) {
	password := flagValue
	switch {
	case interactive && flagValue != "":
		return "", fmt.Errorf("cannot use -interactive with -password")
	case interactive:
		fmt.Fprint(out, "Enter password: ")
		pwBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(pwBytes)
	case flagValue == "":
		return "", fmt.Errorf("password required: use -password or -interactive")
	}

	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}

func runUserAdd(args []string) error {
	fs := newFlags("user add")
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (optional)")
	password := fs.String("password", "", "Password")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")

	store, err := fs.open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" {
		return fmt.Errorf("username required")
	}
	pw, err := readPassword(*password, *interactive)
	if err != nil {
		return err
	}

	// Hash password (Argon2)
	passwordHash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Generate user ID with conflict check
	var userID string
	for attempts := 0; ; attempts++ {
		if attempts == 10 {
			return fmt.Errorf("failed to generate unique user ID after 10 attempts")
		}
		userID = uuid.New().String()
		if _, err := store.GetUserByID(userID); errors.Is(err, sql.ErrNoRows) {
			break
		}
	}

	record := storage.UserRecord{
		UserID:       userID,
		Username:     strings.ToLower(*username),
		Email:        strings.ToLower(*email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(record); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(out, "User created successfully:\n")
	fmt.Fprintf(out, "  ID: %s\n", userID)
	fmt.Fprintf(out, "  Username: %s\n", record.Username)
	if record.Email != "" {
		fmt.Fprintf(out, "  Email: %s\n", record.Email)
	}
	return nil
}

// lookupUser resolves -username to a stored user
func lookupUser(store *storage.Store, username string) (*storage.UserRecord, error) {
	if username == "" {
		return nil, fmt.Errorf("username required")
	}
	user, err := store.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("user not found: %s", username)
	}
	return user, nil
}

func runUserDelete(args []string) error {
	fs := newFlags("user delete")
	username := fs.String("username", "", "Username to delete")
	userID := fs.String("id", "", "User ID to delete")

	store, err := fs.open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	if (*username == "") == (*userID == "") {
		return fmt.Errorf("specify exactly one of -username or -id")
	}

	targetID := *userID
	if *username != "" {
		user, err := lookupUser(store, *username)
		if err != nil {
			return err
		}
		targetID = user.UserID
	}

	if err := store.DeleteUserByID(targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user not found: %s", targetID)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Fprintf(out, "User deleted: %s\n", targetID)
	return nil
}

func runUserSetPassword(args []string) error {
	fs := newFlags("user set-password")
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")

	store, err := fs.open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := lookupUser(store, *username)
	if err != nil {
		return err
	}
	pw, err := readPassword(*password, *interactive)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := store.UpdateUserPassword(user.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Fprintf(out, "Password updated for user: %s\n", user.Username)
	return nil
}

func runUserSetEmail(args []string) error {
	fs := newFlags("user set-email")
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "New email address (required)")

	store, err := fs.open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := lookupUser(store, *username)
	if err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("email required")
	}

	if err := store.UpdateUserEmail(user.UserID, strings.ToLower(*email)); err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}

	fmt.Fprintf(out, "Email updated for user: %s\n", user.Username)
	return nil
}

func runUserSetUsername(args []string) error {
	fs := newFlags("user set-username")
	current := fs.String("current", "", "Current username (required)")
	newName := fs.String("new", "", "New username (required)")

	store, err := fs.open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := lookupUser(store, *current)
	if err != nil {
		return err
	}
	if *newName == "" {
		return fmt.Errorf("new username required")
	}

	if err := store.UpdateUserUsername(user.UserID, strings.ToLower(*newName)); err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}

	fmt.Fprintf(out, "Username updated: %s -> %s\n", user.Username, strings.ToLower(*newName))
	return nil
}

func runUserList(args []string) error {
	store, err := newFlags("user list").open(args)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "User ID\tUsername\tEmail\tCreated\tLast Login")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		email := u.Email
		if email == "" {
			email = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.UserID,
			u.Username,
			email,
			u.CreatedAt.Format("2006-01-02 15:04"),
			lastLogin,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal users: %d\n", len(users))
	return nil
}
