// Package main implements an interactive debugging client for the chessd API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"chessrules/internal/client/api"
	"chessrules/internal/client/commands"
	"chessrules/internal/client/display"
)

// terminal reads command lines through readline and passwords without echo
type terminal struct {
	rl *readline.Instance
}

func (t *terminal) ReadLine(prompt string) (string, error) {
	t.rl.SetPrompt(prompt)
	return t.rl.Readline()
}

func (t *terminal) ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func main() {
	var (
		apiURL  = flag.String("url", "http://localhost:8080", "chessd base URL")
		history = flag.String("history", ".chess_client_history", "Readline history file, empty to disable")
		noColor = flag.Bool("no-color", false, "Disable ANSI colors")
	)
	flag.Parse()

	s := &commands.Session{
		Client: api.New(*apiURL),
		Color:  !*noColor && term.IsTerminal(int(os.Stdout.Fd())),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%s\n", paint(s, display.Cyan, "Chess Debug Client"))
	fmt.Printf("%s\n", paint(s, display.Cyan, "API: "+s.Client.BaseURL))
	fmt.Printf("Type 'help' for commands\n\n")

	t := &terminal{rl: rl}
	registry := commands.NewRegistry(s, t, os.Stdout)

	for {
		line, err := t.ReadLine(buildPrompt(s))
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			fmt.Println(err)
			break
		}

		if err := registry.Execute(strings.TrimSpace(line)); errors.Is(err, commands.ErrExit) {
			break
		}
	}
}

func paint(s *commands.Session, color, text string) string {
	if !s.Color {
		return text
	}
	return display.Paint(color, text)
}

// buildPrompt shows the user, the current game and whose turn it is
func buildPrompt(s *commands.Session) string {
	var parts []string
	if s.Username != "" {
		parts = append(parts, paint(s, display.Magenta, s.Username))
	}
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, paint(s, display.White, id))
	}
	if s.PlayerColor != "" {
		parts = append(parts, turnText(s, s.PlayerColor))
	}

	promptStr := "chess"
	if len(parts) > 0 {
		promptStr += " [" + strings.Join(parts, " - ") + "]"
	}

	if g := s.Game; g != nil {
		if g.State == "ongoing" {
			promptStr += " - Turn:" + turnText(s, g.Turn)
		} else {
			promptStr += " - " + g.State
		}
	}

	if !s.Color {
		return promptStr + " > "
	}
	return display.Prompt(promptStr)
}

func turnText(s *commands.Session, color string) string {
	if s.Color {
		return display.ColorForTurn(color)
	}
	if color == "w" {
		return "White"
	}
	return "Black"
}
