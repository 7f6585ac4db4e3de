// Package main is the local terminal chess game: two players share one
// keyboard and the rules engine arbitrates every move.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"chessrules/internal/cli"
	"chessrules/internal/processor"
	"chessrules/internal/service"
	clitransport "chessrules/internal/transport/cli"
)

// lineEditor adapts readline to the view's LineReader
type lineEditor struct {
	rl *readline.Instance
}

func (l *lineEditor) ReadLine(prompt string) (string, error) {
	l.rl.SetPrompt(prompt)
	line, err := l.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func main() {
	var (
		theme   = flag.String("theme", "", "Board color theme: off, brown, green, gray (default brown on a terminal)")
		style   = flag.String("style", "ascii", "Board style: ascii, textured")
		history = flag.String("history", ".chess_history", "Readline history file, empty to disable")
	)
	flag.Parse()

	svc, err := service.New(nil, nil)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer svc.Shutdown(time.Second)

	// Line editing and colors only make sense on an interactive terminal
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	var input cli.LineReader
	if interactive {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     *history,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			fmt.Printf("Failed to start line editor: %v\n", err)
			os.Exit(1)
		}
		defer rl.Close()
		input = &lineEditor{rl: rl}
	} else {
		input = cli.NewScannerReader(os.Stdin, os.Stdout)
	}

	view := cli.New(input, os.Stdout)

	if *theme == "" {
		*theme = string(cli.ThemeOff)
		if interactive {
			*theme = string(cli.ThemeBrown)
		}
	}
	if err := view.SetTheme(cli.ColorTheme(*theme)); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	if err := view.SetStyle(cli.BoardStyle(*style)); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	handler := clitransport.New(processor.New(svc), view)

	view.ShowWelcome()
	handler.Run()
}
