package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// RenderBoard writes the server's ASCII board with white pieces blue, black
// pieces red and coordinates cyan. With color off the board passes through.
func RenderBoard(w io.Writer, asciiBoard string, color bool) {
	for _, line := range strings.Split(asciiBoard, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !color {
			fmt.Fprintln(w, line)
			continue
		}

		legend := !strings.ContainsAny(line[:1], "12345678")
		var sb strings.Builder
		for _, char := range line {
			switch {
			case legend && char >= 'a' && char <= 'h', char >= '1' && char <= '8':
				sb.WriteString(Cyan + string(char) + Reset)
			case char >= 'A' && char <= 'Z':
				sb.WriteString(Blue + string(char) + Reset)
			case char >= 'a' && char <= 'z':
				sb.WriteString(Red + string(char) + Reset)
			default:
				sb.WriteRune(char)
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}

// PrettyPrintJSON writes v as indented JSON
func PrettyPrintJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%sError formatting JSON: %s%s\n", Red, err.Error(), Reset)
		return
	}
	fmt.Fprintln(w, string(data))
}
