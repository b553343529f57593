// Package tui provides the presentation layer for terminal output.
package tui

import (
	"io"
	"os"
	"time"
)

// Format represents the output format.
type Format string

const (
	// FormatTable is the default table format.
	FormatTable Format = "table"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
	// FormatJSONL is newline-delimited JSON format.
	FormatJSONL Format = "jsonl"
)

// Presenter defines the interface for output rendering.
type Presenter interface {
	// RenderStatus renders the tool status.
	RenderStatus(status *StatusView) error

	// RenderSelections renders committed start times, newest first.
	RenderSelections(selections []*SelectionView) error

	// RenderTimelines renders imported timelines.
	RenderTimelines(timelines []*TimelineView) error

	// RenderSummary renders the summary of a rendered chart.
	RenderSummary(summary *SummaryView) error

	// RenderConfig renders the configuration.
	RenderConfig(config *ConfigView) error

	// RenderError renders an error message.
	RenderError(err error) error

	// RenderMessage renders a simple message.
	RenderMessage(message string) error
}

// PresenterOptions configures presenter behavior.
type PresenterOptions struct {
	// Writer is the output destination.
	Writer io.Writer
	// UseColors indicates if colors should be used.
	UseColors bool
	// TerminalWidth is the width of the terminal for table rendering.
	// If 0, the width will be auto-detected.
	TerminalWidth int
	// Location is the time zone table output is shown in. Nil keeps the
	// zone of each time.
	Location *time.Location
}

// NewPresenter creates a new presenter for the given format.
func NewPresenter(format Format, opts PresenterOptions) Presenter {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case FormatJSON:
		return NewJSONPresenter(opts)
	case FormatJSONL:
		return NewJSONLPresenter(opts)
	default:
		return NewTablePresenter(opts)
	}
}
