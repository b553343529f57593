package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when w is not a terminal.
	DefaultTerminalWidth = 80
	// MinTerminalWidth is the narrowest rule drawn under table headers.
	MinTerminalWidth = 40
	// MaxTerminalWidth caps rules on very wide terminals.
	MaxTerminalWidth = 160
)

// TerminalWidth returns the column count of the terminal behind w, clamped
// to [MinTerminalWidth, MaxTerminalWidth].
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultTerminalWidth
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return min(max(width, MinTerminalWidth), MaxTerminalWidth)
}

// IsWriterTerminal returns true if w is backed by a terminal file descriptor.
func IsWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
