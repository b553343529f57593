package scrubber

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/tui"
)

var (
	colorRed    = tui.ColorError
	colorAmber  = tui.ColorWarning
	colorBlue   = tui.ColorAccent
	colorViolet = tui.ColorPin
	colorWhite  = tui.ColorText
	colorDim    = tui.ColorMuted
	colorBg     = tui.ColorPanel

	titleStyle = lipgloss.NewStyle().
			Background(colorBg).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Background(colorBg).
			Foreground(colorDim).
			Padding(0, 1)

	axisStyle   = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	fillStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	handleStyle = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)
	pinStyle    = lipgloss.NewStyle().Foreground(colorViolet).Bold(true)
	needleStyle = lipgloss.NewStyle().Foreground(colorDim)

	tooltipStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorViolet).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(colorRed)

	helpOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorViolet).
				Padding(1, 2).
				Foreground(colorWhite)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true).
			Width(16)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

func circleStyle(sev timeline.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tui.SeverityColor(string(sev)))
}
