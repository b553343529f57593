package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette shared by the presenters and the interactive chart.
var (
	ColorError   = lipgloss.Color("#E33D3D")
	ColorWarning = lipgloss.Color("#FFC107")
	ColorAccent  = lipgloss.Color("#4A90E2")
	ColorPin     = lipgloss.Color("#9B59B6")
	ColorText    = lipgloss.Color("#ECF0F1")
	ColorMuted   = lipgloss.Color("#7F8C8D")
	ColorPanel   = lipgloss.Color("#1E1E2E")
)

// SeverityColor returns the color circles of a severity are drawn in.
func SeverityColor(severity string) lipgloss.Color {
	switch severity {
	case "error":
		return ColorError
	case "warning":
		return ColorWarning
	default:
		return ColorMuted
	}
}

// Colorizer styles presenter output. A disabled colorizer returns text
// unchanged.
type Colorizer struct {
	enabled  bool
	renderer *lipgloss.Renderer
}

// NewColorizer creates a Colorizer writing to w. When enabled, ANSI colors
// are emitted even if w is not a terminal.
func NewColorizer(w io.Writer, enabled bool) *Colorizer {
	r := lipgloss.NewRenderer(w)
	if enabled {
		r.SetColorProfile(termenv.ANSI256)
	}
	return &Colorizer{enabled: enabled, renderer: r}
}

func (c *Colorizer) fg(color lipgloss.Color, text string) string {
	if !c.enabled {
		return text
	}
	return c.renderer.NewStyle().Foreground(color).Render(text)
}

// Header formats text as a section header.
func (c *Colorizer) Header(text string) string {
	if !c.enabled {
		return text
	}
	return c.renderer.NewStyle().Foreground(ColorText).Bold(true).Render(text)
}

// Path formats a file path.
func (c *Colorizer) Path(text string) string {
	return c.fg(ColorAccent, text)
}

// Error formats error text.
func (c *Colorizer) Error(text string) string {
	return c.fg(ColorError, text)
}

// Warning formats warning text.
func (c *Colorizer) Warning(text string) string {
	return c.fg(ColorWarning, text)
}

// Dim formats secondary text.
func (c *Colorizer) Dim(text string) string {
	return c.fg(ColorMuted, text)
}

// ID formats widget and timeline identifiers.
func (c *Colorizer) ID(text string) string {
	return c.fg(ColorPin, text)
}

// Number formats counts.
func (c *Colorizer) Number(text string) string {
	return c.fg(ColorWarning, text)
}

// Severity formats text in the color of a series severity.
func (c *Colorizer) Severity(severity, text string) string {
	return c.fg(SeverityColor(severity), text)
}
