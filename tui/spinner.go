package tui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinner struct {
	w     io.Writer
	frame lipgloss.Style
	err   error
}

func (s *spinner) draw(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

// SpinnerOption configures RunWithSpinner.
type SpinnerOption func(*spinner)

// WithWriter draws the spinner on w instead of stderr.
func WithWriter(w io.Writer) SpinnerOption {
	return func(s *spinner) {
		s.w = w
	}
}

// RunWithSpinner calls fn while a spinner with message animates on the
// writer. When the writer is not a terminal fn runs without output.
func RunWithSpinner[T any](message string, fn func() (T, error), opts ...SpinnerOption) (T, error) {
	s := &spinner{
		w:     os.Stderr,
		frame: lipgloss.NewStyle().Foreground(ColorAccent),
	}
	for _, opt := range opts {
		opt(s)
	}

	if !IsWriterTerminal(s.w) {
		return fn()
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.draw(clearLineReturn+"%s %s", s.frame.Render(spinnerFrames[i%len(spinnerFrames)]), message)

			select {
			case <-done:
				s.draw(clearLineReturn)
				return
			case <-ticker.C:
			}
		}
	}()

	result, err := fn()

	close(done)
	wg.Wait()

	if err != nil {
		return result, err
	}
	return result, s.err
}
