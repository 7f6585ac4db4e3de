package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdUndo
	CmdResign
	CmdDraw
	CmdHint
	CmdFEN
	CmdBoard
	CmdColor
	CmdStyle
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// LineReader supplies one line of input per call. The prompt is shown by the
// reader, so line editors can redraw it.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// scannerReader is the plain bufio fallback for pipes and tests
type scannerReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewScannerReader reads lines from r and writes prompts to out
func NewScannerReader(r io.Reader, out io.Writer) LineReader {
	return &scannerReader{sc: bufio.NewScanner(r), out: out}
}

func (s *scannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

// BoardStyle selects the board renderer
type BoardStyle string

const (
	StyleASCII    BoardStyle = "ascii"
	StyleTextured BoardStyle = "textured"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// Unicode chess glyphs indexed by Kind, white then black
var glyphs = [2][7]rune{
	{' ', '♙', '♘', '♗', '♖', '♕', '♔'},
	{' ', '♟', '♞', '♝', '♜', '♛', '♚'},
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	style   BoardStyle
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
		style:  StyleASCII,
	}
}

// GetCommand reads and parses one command. End of input reads as quit.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	line, err := c.input.ReadLine(prompt)
	if err != nil {
		if err == io.EOF {
			return &Command{Type: CmdQuit}, nil
		}
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return ParseCommand(input), nil
}

// ParseCommand maps a command line to a Command; unknown words are moves
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "resign":
		return &Command{Type: CmdResign}
	case "draw":
		return &Command{Type: CmdDraw, Args: args}
	case "hint", "moves":
		return &Command{Type: CmdHint, Args: args}
	case "fen":
		return &Command{Type: CmdFEN}
	case "board":
		return &Command{Type: CmdBoard}
	case "color", "theme":
		return &Command{Type: CmdColor, Args: args}
	case "style":
		return &Command{Type: CmdStyle, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Assume it's a move
		return &Command{Type: CmdMove, Args: []string{parts[0]}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) SetStyle(style BoardStyle) error {
	switch style {
	case StyleASCII, StyleTextured:
		c.style = style
		return nil
	}
	return fmt.Errorf("invalid board style: %s (use: ascii, textured)", style)
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v\n", err))
}

// ReadLine prompts for a single answer, returning "" at end of input
func (c *CLI) ReadLine(prompt string) string {
	line, err := c.input.ReadLine(prompt)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// DisplayBoard renders b in the current style
func (c *CLI) DisplayBoard(b *board.Board) {
	if c.style == StyleTextured {
		c.ShowMessage(RenderTextured(b))
		return
	}
	c.ShowMessage(RenderASCII(b, c.theme))
}

// RenderASCII draws one character per square, colored by theme
func RenderASCII(b *board.Board, theme ColorTheme) string {
	colors := themes[theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			piece := b.At(board.Sq(r, f))
			ch := piece.Letter()

			if theme == ThemeOff || colors.reset == "" {
				if ch == 0 {
					sb.WriteString("  ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", ch))
				}
				continue
			}

			bg := colors.darkBg
			if (r+f)%2 == 0 {
				bg = colors.lightBg
			}
			if ch == 0 {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, colors.reset))
				continue
			}
			fg := colors.black
			if piece.Color == board.White {
				fg = colors.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, ch, colors.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	return sb.String()
}

// RenderTextured draws each square as a 4x3 cell with dark squares shaded by
// '#', pieces as unicode glyphs on the middle line
func RenderTextured(b *board.Board) string {
	var sb strings.Builder

	for r := 0; r < 8; r++ {
		for line := 0; line < 3; line++ {
			if line == 1 {
				sb.WriteString(fmt.Sprintf("%d ", 8-r))
			} else {
				sb.WriteString("  ")
			}
			for f := 0; f < 8; f++ {
				fill := "#"
				if (r+f)%2 == 0 {
					fill = " "
				}
				piece := b.At(board.Sq(r, f))
				if line != 1 || piece.IsEmpty() {
					sb.WriteString(strings.Repeat(fill, 4))
					continue
				}
				sb.WriteString(fmt.Sprintf("%s%c %s", fill, glyphs[piece.Color][piece.Kind], fill))
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("   a   b   c   d   e   f   g   h\n")

	return sb.String()
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game from the standard position
  resume <FEN>     - Resume from a specific board position
  <move>           - Make a move (e.g., e2e4, g1f3, e7e8q, O-O, O-O-O)
  undo [count]     - Undo last move(s), default 1
  resign           - Resign for the side to move
  draw offer       - Offer a draw for the side to move
  draw accept      - Accept the pending draw offer
  draw decline     - Decline or withdraw the pending draw offer
  hint [square]    - List legal moves, optionally for one square
  fen              - Show the current position as FEN
  board            - Redraw the board
  color <theme>    - Set board color theme (off|brown|green|gray)
  style <style>    - Set board style (ascii|textured)
  verbose          - Toggle detailed move information
  history          - Show game move history
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, resume <FEN>, <move>, undo, resign, draw, hint, history, help/?, quit/exit")
	c.ShowMessage("Example: 'resume 4k3/8/8/8/8/8/8/4K2R w K - 0 1' to start from a puzzle.")
	c.ShowMessage("")
}

// ShowGameHistory prints move pairs followed by the current position
func (c *CLI) ShowGameHistory(g core.GameResponse) {
	moves := g.Moves
	if len(moves) == 0 {
		c.ShowMessage("No moves yet.")
	}
	for i := 0; i < len(moves); i += 2 {
		moveNum := i/2 + 1
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, moves[i], moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, moves[i]))
		}
	}
	c.ShowMessage(fmt.Sprintf("Current FEN: %s", g.FEN))
	c.ShowMessage(fmt.Sprintf("Game state: %s", g.State))
}

// ShowMove reports the move just played; verbose adds the resulting FEN
func (c *CLI) ShowMove(g core.GameResponse) {
	if g.LastMove == nil {
		return
	}
	color := board.White
	if g.LastMove.PlayerColor == board.Black.String() {
		color = board.Black
	}
	if c.verbose {
		c.ShowMessage(fmt.Sprintf("%s: %s (%s)", color.Name(), g.LastMove.Move, g.FEN))
	} else {
		c.ShowMessage(fmt.Sprintf("%s: %s", color.Name(), g.LastMove.Move))
	}
}

// ShowStatus announces check and pending draw offers
func (c *CLI) ShowStatus(g core.GameResponse) {
	if g.State != core.StateOngoing.String() {
		return
	}
	if g.Check {
		c.ShowMessage("Check!")
	}
	if g.DrawOffer != "" {
		offerer := "White"
		if g.DrawOffer == board.Black.String() {
			offerer = "Black"
		}
		c.ShowMessage(fmt.Sprintf("%s offers a draw. Use 'draw accept' or 'draw decline'.", offerer))
	}
}

func (c *CLI) ShowGameOver(g core.GameResponse) {
	if g.Reason != "" && g.Reason != g.State {
		c.ShowMessage(fmt.Sprintf("\nGame Over: %s by %s\n", g.State, g.Reason))
	} else {
		c.ShowMessage(fmt.Sprintf("\nGame Over: %s\n", g.State))
	}
	c.ShowMessage("Start a new game with 'new' or 'resume'.")
}
