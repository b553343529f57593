package svg

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() *timeline.Metadata {
	return &timeline.Metadata{QID: timeline.Range{
		StartTime: 1000,
		EndTime:   2000,
		Series: []timeline.Series{
			{MetricName: timeline.MetricLogError, Data: []timeline.Sample{{Time: 1500, Value: 3}}},
			{MetricName: timeline.MetricLogWarn, Data: []timeline.Sample{{Time: 1200, Value: 1}}},
			{MetricName: "system.app.log.info", Data: []timeline.Sample{{Time: 1800, Value: 2}}},
		},
	}}
}

func renderTimeline(t *testing.T) (*Document, *widget.Timeline) {
	t.Helper()

	doc := NewDocument()
	w := widget.New(NewCanvas(doc), nil, widget.Options{Location: time.UTC})
	require.NoError(t, w.Initialize(context.Background(), testMetadata(), 1000))
	return doc, w
}

func TestCanvas_DrawsChart(t *testing.T) {
	doc, _ := renderTimeline(t)

	svgs := doc.Chart.FindTag("svg")
	require.Len(t, svgs, 1)
	width, _ := svgs[0].Attr("width")
	height, _ := svgs[0].Attr("height")
	assert.Equal(t, "1000", width)
	assert.Equal(t, "50", height)

	assert.Len(t, doc.Chart.FindClass("red-circle"), 3)
	assert.Len(t, doc.Chart.FindClass("yellow-circle"), 1)
	assert.Len(t, doc.Chart.FindClass("other-circle"), 2)

	red := doc.Chart.FindClass("red-circle")
	for i, c := range red {
		cx, _ := c.Attr("cx")
		cy, _ := c.Attr("cy")
		r, _ := c.Attr("r")
		assert.Equal(t, "494", cx)
		assert.Equal(t, []string{"7", "14", "21"}[i], cy)
		assert.Equal(t, "2", r)
	}

	axis := doc.Chart.FindClass("xaxis-bottom")
	require.Len(t, axis, 1)
	transform, _ := axis[0].Attr("transform")
	assert.Equal(t, "translate(8,30)", transform)
	assert.NotEmpty(t, axis[0].FindTag("text"))
	assert.LessOrEqual(t, len(axis[0].FindClass("tick")), 8)

	bars := doc.Chart.FindClass("fill-bar")
	require.Len(t, bars, 1)
	d, _ := bars[0].Attr("d")
	assert.Equal(t, "M0,0V0H0V0", d)

	top := doc.TopBar.FindClass("xaxis-top")
	require.Len(t, top, 1)
	assert.Len(t, top[0].FindClass("domain"), 2)
	assert.Empty(t, top[0].FindTag("text"))
}

func TestCanvas_GlyphPositions(t *testing.T) {
	doc, w := renderTimeline(t)

	images := doc.Chart.FindTag("image")
	require.Len(t, images, 1)
	href, _ := images[0].Attr("xlink:href")
	x, _ := images[0].Attr("x")
	y, _ := images[0].Attr("y")
	assert.Equal(t, widget.DefaultSliderHandleHref, href)
	assert.Equal(t, "0", x)
	assert.Equal(t, "-10", y)

	pins := doc.TopBar.FindClass("scroll-pin")
	require.Len(t, pins, 1)
	pinHref, _ := pins[0].Attr("xlink:href")
	pinX, _ := pins[0].Attr("x")
	assert.Equal(t, widget.DefaultScrollPinHref, pinHref)
	assert.Equal(t, "-13", pinX)

	lines := doc.Chart.FindAll(func(n *Node) bool {
		stroke, _ := n.Attr("stroke")
		return n.Tag == "line" && stroke == "grey"
	})
	require.Len(t, lines, 1)
	x1, _ := lines[0].Attr("x1")
	y1, _ := lines[0].Attr("y1")
	y2, _ := lines[0].Attr("y2")
	assert.Equal(t, "7", x1)
	assert.Equal(t, "-10", y1)
	assert.Equal(t, "40", y2)

	_, err := w.OnDragEnd(context.Background(), 300)
	require.NoError(t, err)

	x, _ = images[0].Attr("x")
	assert.Equal(t, "300", x)
	d, _ := doc.Chart.FindClass("fill-bar")[0].Attr("d")
	assert.Equal(t, "M0,0V0H300V0", d)
	pinX, _ = pins[0].Attr("x")
	assert.Equal(t, "287", pinX)
	x1, _ = lines[0].Attr("x1")
	assert.Equal(t, "307", x1)
}

func TestCanvas_ReinitializeKeepsOneChart(t *testing.T) {
	doc, w := renderTimeline(t)

	require.NoError(t, w.Initialize(context.Background(), testMetadata(), 800))
	require.NoError(t, w.Initialize(context.Background(), testMetadata(), 600))

	assert.Len(t, doc.Chart.FindTag("svg"), 1)
	assert.Len(t, doc.TopBar.FindTag("svg"), 1)
	assert.Len(t, doc.Chart.FindClass("red-circle"), 3)
	assert.Len(t, doc.Chart.FindClass("xaxis-bottom"), 1)
	assert.Len(t, doc.TopBar.FindClass("scroll-pin"), 1)

	width, _ := doc.Chart.FindTag("svg")[0].Attr("width")
	assert.Equal(t, "600", width)
}

func TestCanvas_Tooltip(t *testing.T) {
	doc, w := renderTimeline(t)

	w.OnPinHoverEnter(120, 64)
	w.OnPinHoverEnter(130, 64)

	tips := doc.Tooltips()
	require.Len(t, tips, 1)
	style, _ := tips[0].Attr("style")
	assert.Equal(t, "opacity: 0.9; left: 130px; top: 36px;", style)
	assert.Equal(t, "Thu Jan 01 1970 00:16:40 GMT+0000 (UTC)", tips[0].Text)

	w.OnPinHoverLeave()
	assert.Empty(t, doc.Tooltips())
}

func TestDocument_WriteHTML(t *testing.T) {
	doc, w := renderTimeline(t)
	w.OnPinHoverEnter(10, 40)

	var buf bytes.Buffer
	require.NoError(t, doc.WriteHTML(&buf, "run <1>"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html>"))
	assert.Contains(t, out, "<title>run &lt;1&gt;</title>")
	assert.Contains(t, out, `<div class="timeline-container"><div class="top-bar"><svg`)
	assert.Contains(t, out, `<div class="timeline-log-chart"><svg width="1000" height="50">`)
	assert.Contains(t, out, `class="red-circle"`)
	assert.Contains(t, out, `class="timeline-tooltip"`)
	assert.Contains(t, out, ".red-circle{fill:#e33d3d}")
	assert.Equal(t, 1, strings.Count(out, "<body>"))

	// Writing does not disturb the document.
	var again bytes.Buffer
	require.NoError(t, doc.WriteHTML(&again, "run <1>"))
	assert.Equal(t, out, again.String())
}

func TestDocument_WriteSVG(t *testing.T) {
	t.Run("before render", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, NewDocument().WriteSVG(&buf), ErrNotRendered)
	})

	t.Run("rendered", func(t *testing.T) {
		doc, w := renderTimeline(t)
		w.OnPinHoverEnter(10, 40)

		var buf bytes.Buffer
		require.NoError(t, doc.WriteSVG(&buf))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="1000" height="70"`))
		assert.Contains(t, out, `<g class="timeline-log-chart" transform="translate(0,20)">`)
		assert.Contains(t, out, `xlink:href="/assets/img/sliderHandle.svg"`)
		assert.NotContains(t, out, "timeline-tooltip\"")
	})
}

func TestNode(t *testing.T) {
	root := NewNode("g")
	a := root.AppendNew("circle").SetAttr("class", "a b")
	b := root.AppendNew("circle").SetAttr("class", "b")

	assert.True(t, a.HasClass("a"))
	assert.True(t, a.HasClass("b"))
	assert.False(t, b.HasClass("a"))
	assert.Len(t, root.FindClass("b"), 2)

	a.SetAttr("class", "c")
	v, ok := a.Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	a.Remove()
	assert.Nil(t, a.Parent())
	assert.Equal(t, []*Node{b}, root.Children)

	b.SetNum("r", 2.5)
	b.Text = `"x" & y`
	assert.Equal(t, `<g><circle class="b" r="2.5">&#34;x&#34; &amp; y</circle></g>`, root.String())
	assert.Equal(t, `<div></div>`, NewNode("div").String())
}

func TestCircleClass(t *testing.T) {
	assert.Equal(t, "red-circle", CircleClass(timeline.SeverityError))
	assert.Equal(t, "yellow-circle", CircleClass(timeline.SeverityWarning))
	assert.Equal(t, "other-circle", CircleClass(timeline.SeverityOther))
}
