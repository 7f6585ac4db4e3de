// Package commands implements the remote debug client's command set on top
// of the typed API client.
package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

// ErrExit is returned by the exit command; the read loop stops on it
var ErrExit = errors.New("exit requested")

// Prompter reads interactive input for commands that ask follow-up questions
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}

// Session is the client-side state shared by all commands
type Session struct {
	Client      *api.Client
	CurrentGame string
	MoveCount   int
	Game        *core.GameResponse
	UserID      string
	Username    string
	PlayerColor string // seat claimed by the logged-in user, if any
	Color       bool   // ANSI colors in output
}

// track records the latest known state of the current game
func (s *Session) track(g *core.GameResponse) {
	s.CurrentGame = g.GameID
	s.MoveCount = len(g.Moves)
	s.Game = g
}

func (s *Session) requireGame(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if s.CurrentGame == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return s.CurrentGame, nil
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Group       string
	Description string
	Usage       string
	Handler     func(*Registry, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *Session
	out      io.Writer
	prompt   Prompter
	commands map[string]*Command
	verbose  bool
}

const (
	groupGame = "Game Commands"
	groupAuth = "Auth Commands"
	groupUtil = "Utility Commands"
)

var groupOrder = []string{groupGame, groupAuth, groupUtil}

func NewRegistry(session *Session, prompt Prompter, out io.Writer) *Registry {
	r := &Registry{
		session:  session,
		out:      out,
		prompt:   prompt,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerAuthCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Group:       groupUtil,
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     (*Registry).helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Group:       groupUtil,
		Description: "Exit the client",
		Usage:       "exit",
		Handler:     exitHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Session returns the state the commands operate on
func (r *Registry) Session() *Session {
	return r.session
}

// Execute runs one input line. Command failures are printed; only ErrExit
// is returned.
func (r *Registry) Execute(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	// A trailing -v traces this one request
	verbose := r.verbose
	if n := len(args); n > 0 && args[n-1] == "-v" {
		verbose = true
		args = args[:n-1]
	}

	cmd, exists := r.commands[cmdName]
	if !exists {
		r.printf("%s\n", r.paint(display.Red, "Unknown command: "+cmdName))
		r.printf("Type 'help' for available commands\n")
		return nil
	}

	c := r.session.Client
	c.SetVerbose(verbose)
	if verbose {
		c.Trace = r.out
	} else {
		c.Trace = nil
	}

	err := cmd.Handler(r, args)
	if errors.Is(err, ErrExit) {
		return err
	}
	if err != nil {
		r.printf("%s\n", r.paint(display.Red, "Error: "+err.Error()))
	}
	return nil
}

func (r *Registry) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Registry) paint(color, text string) string {
	if !r.session.Color {
		return text
	}
	return display.Paint(color, text)
}

func (r *Registry) ask(prompt string) (string, error) {
	line, err := r.prompt.ReadLine(r.promptText(prompt))
	return strings.TrimSpace(line), err
}

func (r *Registry) promptText(text string) string {
	if !r.session.Color {
		return text + " > "
	}
	return display.Prompt(text)
}

func (r *Registry) helpHandler(args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[strings.ToLower(args[0])]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		r.printf("\n%s - %s\n", r.paint(display.Cyan, cmd.Name), cmd.Description)
		if cmd.ShortName != "" {
			r.printf("Short form: %s\n", r.paint(display.Cyan, cmd.ShortName))
		}
		r.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	groups := make(map[string][]*Command)
	for name, cmd := range r.commands {
		if name == cmd.Name {
			groups[cmd.Group] = append(groups[cmd.Group], cmd)
		}
	}

	r.printf("\n%s\n", r.paint(display.Cyan, "Available Commands:"))
	for _, group := range groupOrder {
		cmds := groups[group]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		r.printf("\n%s\n", r.paint(display.Yellow, group+":"))
		for _, cmd := range cmds {
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = "[" + r.paint(display.Cyan, cmd.ShortName) + "] "
			}
			r.printf("  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	r.printf("\nType 'help <command>' for detailed usage\n")
	r.printf("Add '-v' to any command for verbose output\n")
	return nil
}

func exitHandler(r *Registry, args []string) error {
	r.printf("%s\n", r.paint(display.Cyan, "Goodbye!"))
	return ErrExit
}
