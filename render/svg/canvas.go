package svg

import (
	"fmt"

	"github.com/safedep/timescope/core/geometry"
	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/widget"
)

// Canvas draws a timeline into a Document.
type Canvas struct {
	doc    *Document
	layout geometry.Layout

	chart  *Node
	bar    *Node
	slide  *Node
	pinBox *Node

	sliderBar    *Node
	sliderHandle *Node
	pinHandle    *Node
	needle       *Node
}

var _ widget.Canvas = (*Canvas)(nil)

// NewCanvas creates a canvas drawing into doc.
func NewCanvas(doc *Document) *Canvas {
	return &Canvas{doc: doc}
}

// Document returns the document being drawn.
func (c *Canvas) Document() *Document {
	return c.doc
}

// CircleClass is the style class of an event circle.
func CircleClass(sev timeline.Severity) string {
	switch sev {
	case timeline.SeverityError:
		return "red-circle"
	case timeline.SeverityWarning:
		return "yellow-circle"
	default:
		return "other-circle"
	}
}

func (c *Canvas) Reset(layout geometry.Layout) {
	if c.chart != nil {
		c.chart.Children = nil
		c.chart.Remove()
	}
	if c.bar != nil {
		c.bar.Remove()
	}
	c.HideTooltip()

	c.layout = layout
	c.chart = c.doc.Chart.AppendNew("svg").
		SetNum("width", layout.Width).
		SetNum("height", layout.Height)
	c.bar = c.doc.TopBar.AppendNew("svg").
		SetNum("width", layout.Width).
		SetNum("height", geometry.TopBarHeight)

	c.slide = nil
	c.pinBox = nil
	c.sliderBar = nil
	c.sliderHandle = nil
	c.pinHandle = nil
	c.needle = nil
}

func (c *Canvas) DrawAxis(axis widget.Axis) {
	var g *Node
	switch axis.Kind {
	case widget.AxisBottom:
		g = c.chart.AppendNew("g").
			SetAttr("class", "xaxis-bottom").
			SetAttr("transform", translate(axis.TranslateX, axis.TranslateY))
	default:
		g = c.bar.AppendNew("g").SetAttr("class", "xaxis-top")
	}

	for _, tick := range axis.Ticks {
		t := g.AppendNew("g").
			SetAttr("class", "tick").
			SetAttr("transform", translate(tick.X, 0))
		t.AppendNew("line").
			SetNum("x2", 0).
			SetNum("y2", axis.InnerTickSize)
		if tick.Label != "" {
			label := t.AppendNew("text").
				SetNum("x", 0).
				SetNum("y", maxf(axis.InnerTickSize, 0)+axis.TickPadding).
				SetAttr("dy", ".71em").
				SetAttr("style", "text-anchor: middle;")
			label.Text = tick.Label
		}
	}

	domain := fmt.Sprintf("M0,%sV0H%sV%s",
		geometry.FormatNumber(axis.OuterTickSize),
		geometry.FormatNumber(axis.RangeMax),
		geometry.FormatNumber(axis.OuterTickSize))
	g.AppendNew("path").SetAttr("class", "domain").SetAttr("d", domain)
	if axis.Kind == widget.AxisTop {
		// The top bar draws its domain line twice for a heavier rule.
		g.AppendNew("path").SetAttr("class", "domain").SetAttr("d", domain)
	}
}

func (c *Canvas) DrawCircle(circle geometry.Circle) {
	c.chart.AppendNew("circle").
		SetNum("cx", circle.CX).
		SetNum("cy", circle.CY).
		SetNum("r", circle.R).
		SetAttr("class", CircleClass(circle.Severity))
}

func (c *Canvas) DrawSlider(s widget.SliderGlyph) {
	left := c.chart.AppendNew("g").SetAttr("class", "slider leftSlider")
	c.sliderBar = left.AppendNew("path").
		SetAttr("class", "fill-bar").
		SetAttr("d", s.BarPath)

	c.slide = c.chart.AppendNew("g").
		SetAttr("class", "slider").
		SetAttr("transform", translate(0, 10))
	c.sliderHandle = c.slide.AppendNew("image").
		SetNum("width", geometry.HandleWidth).
		SetNum("height", geometry.HandleHeight).
		SetAttr("xlink:href", s.Href).
		SetNum("x", s.X).
		SetNum("y", -10)
}

func (c *Canvas) MoveSlider(s widget.SliderGlyph) {
	if c.sliderHandle == nil {
		return
	}
	c.sliderHandle.SetNum("x", s.X)
	c.sliderBar.SetAttr("d", s.BarPath)
}

func (c *Canvas) DrawPin(p widget.PinGlyph) {
	c.pinBox = c.bar.AppendNew("g").
		SetAttr("class", "slider").
		SetNum("width", c.layout.Width)
	c.pinBox.AppendNew("rect").
		SetAttr("class", "background").
		SetNum("height", geometry.TrackHeight).
		SetNum("width", c.layout.MaxRange)
	c.pinHandle = c.pinBox.AppendNew("image").
		SetAttr("class", "scroll-pin").
		SetNum("width", geometry.PinWidth).
		SetNum("height", geometry.PinHeight).
		SetAttr("xlink:href", p.Href).
		SetNum("x", p.GlyphX).
		SetNum("y", 0)

	parent := c.slide
	if parent == nil {
		parent = c.chart
	}
	c.needle = parent.AppendNew("line").
		SetNum("x1", p.NeedleX).
		SetNum("x2", p.NeedleX).
		SetNum("y1", -10).
		SetNum("y2", 40).
		SetNum("stroke-width", 1).
		SetAttr("stroke", "grey")
}

func (c *Canvas) MovePin(p widget.PinGlyph) {
	if c.pinHandle == nil {
		return
	}
	c.pinHandle.SetNum("x", p.GlyphX)
	c.needle.SetNum("x1", p.NeedleX).SetNum("x2", p.NeedleX)
}

func (c *Canvas) ShowTooltip(tip widget.Tooltip) {
	div := c.doc.Body.AppendNew("div").
		SetAttr("class", ClassTooltip).
		SetAttr("style", fmt.Sprintf("opacity: %s; left: %spx; top: %spx;",
			geometry.FormatNumber(tip.Opacity),
			geometry.FormatNumber(tip.Left),
			geometry.FormatNumber(tip.Top)))
	div.Text = tip.Text
}

func (c *Canvas) HideTooltip() {
	for _, n := range c.doc.Tooltips() {
		n.Remove()
	}
}

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", geometry.FormatNumber(x), geometry.FormatNumber(y))
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
