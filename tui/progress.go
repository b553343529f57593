package tui

import (
	"fmt"
	"io"
	"strings"
)

const (
	clearLineReturn = "\033[2K\r"
	progressBarSize = 20
)

// ProgressWriter redraws a single terminal line with the progress of a
// batch. Nothing is written when w is not a terminal.
type ProgressWriter struct {
	w          io.Writer
	color      *Colorizer
	isTerminal bool
}

// NewProgressWriter creates a new ProgressWriter.
func NewProgressWriter(w io.Writer, useColors bool) *ProgressWriter {
	return &ProgressWriter{
		w:          w,
		color:      NewColorizer(w, useColors),
		isTerminal: IsWriterTerminal(w),
	}
}

// Step shows that item done of total is being processed.
func (p *ProgressWriter) Step(done, total int, label string) {
	if !p.isTerminal {
		return
	}
	fmt.Fprint(p.w, clearLineReturn+p.color.Dim(progressLine(done, total, label)))
}

// Clear clears the progress line.
func (p *ProgressWriter) Clear() {
	if !p.isTerminal {
		return
	}
	fmt.Fprint(p.w, clearLineReturn)
}

// progressLine renders "[████░░░░] 2/5 label".
func progressLine(done, total int, label string) string {
	filled := 0
	if total > 0 {
		filled = min(done*progressBarSize/total, progressBarSize)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarSize-filled)
	return fmt.Sprintf("[%s] %d/%d %s", bar, done, total, label)
}
