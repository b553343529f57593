package scrubber

import (
	"time"

	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/widget"
)

// Options configures the scrubber.
type Options struct {
	// Title is shown in the header, usually the timeline id or file name.
	Title    string
	Metadata *timeline.Metadata
	Store    widget.StartTimeStore

	// Width fixes the chart width in columns. Zero follows the terminal.
	Width int

	Location         *time.Location
	SliderHandleHref string
	ScrollPinHref    string
	SliderPosition   *time.Time
}
