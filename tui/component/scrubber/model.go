// Package scrubber is the interactive terminal view of a timeline: the
// event chart with a slider that commits start times and a movable pin.
package scrubber

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/safedep/dry/log"
	"github.com/safedep/timescope/core/geometry"
	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/widget"
)

const (
	chartZone = "chart"

	// Header, tooltip line and footer around the chart.
	chromeRows = 3

	fastStep = 10
)

type Model struct {
	opts   Options
	width  int
	height int

	header headerModel
	footer footerModel
	help   helpModel

	canvas  *termCanvas
	pending *commitQueue
	widget  *widget.Timeline
	zones   *zone.Manager

	dragging bool
	ready    bool
}

func New(opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Metadata == nil {
		opts.Metadata = &timeline.Metadata{}
	}

	c := newTermCanvas()
	q := &commitQueue{}
	w := widget.New(c, q, widget.Options{
		Location:         opts.Location,
		SliderHandleHref: opts.SliderHandleHref,
		ScrollPinHref:    opts.ScrollPinHref,
		SliderPosition:   opts.SliderPosition,
		TooltipWidth:     float64(tooltipCells(opts.Location)),
	})

	return Model{
		opts:    opts,
		header:  newHeaderModel(opts.Title, opts.Location),
		footer:  newFooterModel(),
		help:    newHelpModel(),
		canvas:  c,
		pending: q,
		widget:  w,
		zones:   zone.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, m.initialize()

	case commitDoneMsg:
		m.footer.lastSaved = time.Now()
		m.footer.lastError = ""
		return m, nil

	case commitErrorMsg:
		m.footer.lastError = msg.err.Error()
		return m, nil
	}

	return m, nil
}

// initialize re-plots the widget for the current width.
func (m *Model) initialize() tea.Cmd {
	width := m.opts.Width
	if width <= 0 {
		width = m.width
	}

	log.Debugf("Initializing scrubber chart at width %d", width)
	if err := m.widget.Initialize(context.Background(), m.opts.Metadata, float64(width)); err != nil {
		log.Errorf("failed to initialize timeline: %v", err)
	}
	return m.flush()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.help.toggle()
		return m, nil

	case "left":
		return m, m.moveSlider(-1)
	case "right":
		return m, m.moveSlider(1)
	case "shift+left":
		return m, m.moveSlider(-fastStep)
	case "shift+right":
		return m, m.moveSlider(fastStep)
	case "home":
		return m, m.setSlider(0)
	case "end":
		return m, m.setSlider(m.widget.Layout().SliderLimit)

	case "[":
		m.movePin(-1)
		return m, nil
	case "]":
		m.movePin(1)
		return m, nil
	}

	return m, nil
}

func (m *Model) moveSlider(delta float64) tea.Cmd {
	return m.setSlider(m.widget.SliderX() + delta)
}

func (m *Model) setSlider(px float64) tea.Cmd {
	if !m.widget.Rendered() {
		return nil
	}
	if err := m.widget.UpdateSlider(context.Background(), px); err != nil {
		log.Errorf("failed to move slider: %v", err)
	}
	return m.flush()
}

// movePin shifts the pin by delta columns. The widget keeps it right of the
// handle and inside the chart.
func (m *Model) movePin(delta float64) {
	if !m.widget.Rendered() {
		return
	}
	layout := m.widget.Layout()
	px := geometry.Clamp(m.widget.PinX()+delta, m.widget.HandleX(), layout.MaxRange)
	m.widget.UpdatePin(m.widget.Scale().InvertTime(px))
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	info := m.zones.Get(chartZone)
	if info == nil {
		return m, nil
	}

	if !info.InBounds(msg) {
		// A drag released off the chart commits where the handle is.
		if m.dragging && msg.Action == tea.MouseActionRelease {
			return m, m.chartMouse(msg, int(m.widget.HandleX()), rowTrack)
		}
		if m.widget.Tooltip() != nil {
			m.widget.OnPinHoverLeave()
		}
		return m, nil
	}

	col, row := info.Pos(msg)
	return m, m.chartMouse(msg, col, row)
}

// chartMouse handles a mouse event at chart-relative cell (col, row).
func (m *Model) chartMouse(msg tea.MouseMsg, col, row int) tea.Cmd {
	if !m.widget.Rendered() {
		return nil
	}

	x := float64(col)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && row == rowTrack:
		m.dragging = true
		m.widget.OnDragMove(x)
		return nil

	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.widget.OnDragMove(x)
		return nil

	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		if _, err := m.widget.OnDragEnd(context.Background(), x); err != nil {
			log.Errorf("failed to commit drag: %v", err)
		}
		return m.flush()
	}

	if m.canvas.pinHit(col, row) {
		m.widget.OnPinHoverEnter(float64(msg.X), float64(msg.Y))
	} else if m.widget.Tooltip() != nil {
		m.widget.OnPinHoverLeave()
	}
	return nil
}

// flush hands the start times the widget committed to the store.
func (m *Model) flush() tea.Cmd {
	times := m.pending.drain()
	if len(times) == 0 || m.opts.Store == nil {
		return nil
	}
	return commitStartTimes(m.opts.Store, times)
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	start, end := m.opts.Metadata.QID.Start(), m.opts.Metadata.QID.End()
	header := m.header.view(m.width, start, end, m.widget.SliderTime())
	footer := m.footer.view(m.width)
	contentHeight := m.height - chromeRows

	if m.help.visible {
		helpOverlay := m.help.view(m.width, contentHeight)
		return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, header, helpOverlay, footer))
	}

	chart := m.zones.Mark(chartZone, m.canvas.view())
	content := lipgloss.NewStyle().Width(m.width).Height(contentHeight).MaxHeight(contentHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, chart, m.tooltipView()))

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (m Model) tooltipView() string {
	tip := m.widget.Tooltip()
	if tip == nil {
		return ""
	}
	left := int(tip.Left)
	if left < 0 {
		left = 0
	}
	return lipgloss.NewStyle().MarginLeft(left).Render(tooltipStyle.Render(tip.Text))
}

// tooltipCells is the rendered width of the pin tooltip. The chart maps one
// column to one pixel, so the widget measures the tooltip in cells.
func tooltipCells(loc *time.Location) int {
	return lipgloss.Width(tooltipStyle.Render(time.Unix(0, 0).In(loc).Format(widget.PinTimeLayout)))
}

// Widget exposes the underlying timeline.
func (m Model) Widget() *widget.Timeline {
	return m.widget
}

// commitQueue collects the start times the widget commits during one
// update so the store write can run as a command.
type commitQueue struct {
	times []time.Time
}

func (q *commitQueue) UpdateStartTime(_ context.Context, t time.Time) error {
	q.times = append(q.times, t)
	return nil
}

func (q *commitQueue) drain() []time.Time {
	times := q.times
	q.times = nil
	return times
}

func commitStartTimes(store widget.StartTimeStore, times []time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		for _, t := range times {
			if err := store.UpdateStartTime(ctx, t); err != nil {
				log.Errorf("failed to update start time: %v", err)
				return commitErrorMsg{err: err}
			}
		}
		last := times[len(times)-1]
		log.Debugf("Committed start time %s", last.Format(time.RFC3339))
		return commitDoneMsg{startTime: last}
	}
}
