package scrubber

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/charmbracelet/lipgloss"
	"github.com/safedep/timescope/core/geometry"
	"github.com/safedep/timescope/widget"
)

// Rows of the terminal chart. One chart pixel maps to one column.
const (
	rowPin     = 0
	rowCircles = 1
	rowTrack   = rowCircles + geometry.StackLimit
	rowLabels  = rowTrack + 1
	chartRows  = rowLabels + 1
)

const (
	runeCircle = '●'
	runePin    = '▼'
	runeNeedle = '│'
	runeHandle = '┃'
	runeFill   = '━'
	runeTrack  = '─'
	runeTick   = '┬'
)

// termCanvas keeps what the widget drew and rasterizes it into an ntcharts
// canvas on demand, so moves only touch the retained glyphs.
type termCanvas struct {
	layout  geometry.Layout
	bottom  *widget.Axis
	top     *widget.Axis
	circles []geometry.Circle
	slider  *widget.SliderGlyph
	pin     *widget.PinGlyph
	tooltip *widget.Tooltip
}

var _ widget.Canvas = (*termCanvas)(nil)

func newTermCanvas() *termCanvas {
	return &termCanvas{}
}

func (c *termCanvas) Reset(layout geometry.Layout) {
	*c = termCanvas{layout: layout}
}

func (c *termCanvas) DrawAxis(axis widget.Axis) {
	a := axis
	switch axis.Kind {
	case widget.AxisBottom:
		c.bottom = &a
	case widget.AxisTop:
		c.top = &a
	}
}

func (c *termCanvas) DrawCircle(circle geometry.Circle) {
	c.circles = append(c.circles, circle)
}

func (c *termCanvas) DrawSlider(s widget.SliderGlyph) {
	c.slider = &s
}

func (c *termCanvas) MoveSlider(s widget.SliderGlyph) {
	if c.slider == nil {
		return
	}
	c.slider = &s
}

func (c *termCanvas) DrawPin(p widget.PinGlyph) {
	c.pin = &p
}

func (c *termCanvas) MovePin(p widget.PinGlyph) {
	if c.pin == nil {
		return
	}
	c.pin = &p
}

func (c *termCanvas) ShowTooltip(tip widget.Tooltip) {
	c.tooltip = &tip
}

func (c *termCanvas) HideTooltip() {
	c.tooltip = nil
}

func (c *termCanvas) width() int {
	return int(c.layout.Width)
}

// column maps a chart x position to a terminal column.
func (c *termCanvas) column(x float64) int {
	col := int(math.Round(x))
	if col < 0 {
		return 0
	}
	if last := c.width() - 1; col > last {
		return last
	}
	return col
}

// raster draws the retained glyphs. Later layers overwrite earlier ones:
// axes, circles, needle, slider, pin.
func (c *termCanvas) raster() canvas.Model {
	w := c.width()
	if w <= 0 {
		return canvas.New(0, chartRows)
	}
	cv := canvas.New(w, chartRows)

	if c.top != nil {
		c.drawTrack(&cv, rowPin, c.top.RangeMax, runeTrack, axisStyle)
	}

	if c.bottom != nil {
		c.drawTrack(&cv, rowTrack, c.bottom.RangeMax, runeTrack, axisStyle)
		c.drawLabels(&cv, c.bottom.Ticks)
	}

	for _, circle := range c.circles {
		row := rowCircles + int(circle.CY/geometry.StackSpacing) - 1
		if row < rowCircles || row >= rowTrack {
			continue
		}
		cv.SetCell(canvas.Point{X: c.column(circle.CX), Y: row},
			canvas.NewCellWithStyle(runeCircle, circleStyle(circle.Severity)))
	}

	if c.pin != nil {
		col := c.column(c.pin.X)
		for row := rowCircles; row < rowTrack; row++ {
			p := canvas.Point{X: col, Y: row}
			if cv.Cell(p).Rune == runes.Null {
				cv.SetCell(p, canvas.NewCellWithStyle(runeNeedle, needleStyle))
			}
		}
	}

	if c.slider != nil {
		handle := c.column(c.slider.X)
		for col := 0; col < handle; col++ {
			cv.SetCell(canvas.Point{X: col, Y: rowTrack}, canvas.NewCellWithStyle(runeFill, fillStyle))
		}
		cv.SetCell(canvas.Point{X: handle, Y: rowTrack}, canvas.NewCellWithStyle(runeHandle, handleStyle))
	}

	if c.pin != nil {
		cv.SetCell(canvas.Point{X: c.column(c.pin.X), Y: rowPin}, canvas.NewCellWithStyle(runePin, pinStyle))
	}

	return cv
}

func (c *termCanvas) drawTrack(cv *canvas.Model, row int, rangeMax float64, r rune, style lipgloss.Style) {
	last := c.column(rangeMax)
	for col := 0; col <= last; col++ {
		cv.SetCell(canvas.Point{X: col, Y: row}, canvas.NewCellWithStyle(r, style))
	}
}

// drawLabels writes tick labels left to right, skipping a label that would
// overlap the previous one or run past the right edge.
func (c *termCanvas) drawLabels(cv *canvas.Model, ticks []widget.Tick) {
	next := 0
	for _, tick := range ticks {
		col := c.column(tick.X)
		cv.SetCell(canvas.Point{X: col, Y: rowTrack}, canvas.NewCellWithStyle(runeTick, axisStyle))

		if tick.Label == "" || col < next {
			continue
		}
		if col+len([]rune(tick.Label)) > c.width() {
			continue
		}
		cv.SetStringWithStyle(canvas.Point{X: col, Y: rowLabels}, tick.Label, labelStyle)
		next = col + len([]rune(tick.Label)) + 1
	}
}

// pinHit reports whether a chart-relative cell is on the pin glyph, allowing
// one column either side.
func (c *termCanvas) pinHit(col, row int) bool {
	if c.pin == nil || row != rowPin {
		return false
	}
	d := col - c.column(c.pin.X)
	return d >= -1 && d <= 1
}

func (c *termCanvas) view() string {
	cv := c.raster()
	return cv.View()
}
