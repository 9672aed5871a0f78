package stats

import (
	"os"

	"golang.org/x/term"
)

const fallbackWidth = 80

// TerminalWidth returns the width of f when it is a terminal, otherwise a default.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// ColorEnabled reports whether ANSI colour should be written to f. NO_COLOR always wins.
func ColorEnabled(f *os.File, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}
