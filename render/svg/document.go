package svg

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Container classes the canvas draws into.
const (
	ClassContainer = "timeline-container"
	ClassChart     = "timeline-log-chart"
	ClassTopBar    = "top-bar"
	ClassTooltip   = "timeline-tooltip"
)

// ErrNotRendered is returned when writing an image before the first render.
var ErrNotRendered = errors.New("timeline has not been rendered")

// Palette holds the colors used in the emitted stylesheet.
type Palette struct {
	Error   string
	Warning string
	Other   string
	Axis    string
	FillBar string
	Tooltip string
}

// DefaultPalette returns the stock chart colors.
func DefaultPalette() Palette {
	return Palette{
		Error:   "#e33d3d",
		Warning: "#ffc107",
		Other:   "#4a90e2",
		Axis:    "#999999",
		FillBar: "#333333",
		Tooltip: "#ffffff",
	}
}

// Document is a page body holding the top bar and the chart container.
type Document struct {
	Body    *Node
	TopBar  *Node
	Chart   *Node
	Palette Palette
}

// NewDocument creates an empty page with both containers.
func NewDocument() *Document {
	body := NewNode("body")
	container := body.AppendNew("div").SetAttr("class", ClassContainer)
	topBar := container.AppendNew("div").SetAttr("class", ClassTopBar)
	chart := container.AppendNew("div").SetAttr("class", ClassChart)

	return &Document{
		Body:    body,
		TopBar:  topBar,
		Chart:   chart,
		Palette: DefaultPalette(),
	}
}

// Tooltips returns the tooltip elements attached to the body.
func (d *Document) Tooltips() []*Node {
	return d.Body.FindClass(ClassTooltip)
}

// WriteHTML writes the document as a complete HTML page.
func (d *Document) WriteHTML(w io.Writer, title string) error {
	html := NewNode("html")
	head := html.AppendNew("head")
	head.AppendNew("title").Text = title
	head.AppendNew("style").Text = d.stylesheet()

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	// The body is borrowed for serialisation and handed back afterwards.
	html.Children = append(html.Children, d.Body)
	_, err := html.WriteTo(w)
	html.Children = html.Children[:len(html.Children)-1]
	if err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// WriteSVG writes the top bar and the chart stacked into one standalone
// SVG image. Tooltips are not part of the image.
func (d *Document) WriteSVG(w io.Writer) error {
	bar := firstChild(d.TopBar, "svg")
	chart := firstChild(d.Chart, "svg")
	if bar == nil || chart == nil {
		return ErrNotRendered
	}

	width, _ := chart.Attr("width")
	barHeight, _ := bar.Attr("height")
	chartHeight, _ := chart.Attr("height")

	root := NewNode("svg").
		SetAttr("xmlns", "http://www.w3.org/2000/svg").
		SetAttr("xmlns:xlink", "http://www.w3.org/1999/xlink").
		SetAttr("width", width).
		SetAttr("height", sumAttrs(barHeight, chartHeight)).
		SetAttr("class", ClassContainer)
	root.AppendNew("style").Text = d.stylesheet()

	top := root.AppendNew("g").SetAttr("class", ClassTopBar)
	top.Children = bar.Children
	body := root.AppendNew("g").
		SetAttr("class", ClassChart).
		SetAttr("transform", fmt.Sprintf("translate(0,%s)", barHeight))
	body.Children = chart.Children

	if _, err := root.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func (d *Document) stylesheet() string {
	p := d.Palette
	rules := []string{
		fmt.Sprintf(".red-circle{fill:%s}", p.Error),
		fmt.Sprintf(".yellow-circle{fill:%s}", p.Warning),
		fmt.Sprintf(".other-circle{fill:%s}", p.Other),
		fmt.Sprintf(".xaxis-bottom line,.xaxis-top line,.xaxis-top path{stroke:%s;fill:none}", p.Axis),
		".xaxis-bottom .domain{stroke:none;fill:none}",
		fmt.Sprintf(".xaxis-bottom text{fill:%s;font:10px sans-serif}", p.Axis),
		fmt.Sprintf(".fill-bar{stroke:%s;stroke-width:15}", p.FillBar),
		fmt.Sprintf(".timeline-tooltip{position:absolute;width:250px;background:%s;font:12px sans-serif;pointer-events:none}", p.Tooltip),
	}
	return strings.Join(rules, "")
}

func firstChild(n *Node, tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func sumAttrs(a, b string) string {
	var x, y float64
	_, _ = fmt.Sscanf(a, "%g", &x)
	_, _ = fmt.Sscanf(b, "%g", &y)
	return fmt.Sprintf("%g", x+y)
}
