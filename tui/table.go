package tui

import (
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// TablePresenter renders output in table format.
type TablePresenter struct {
	w         io.Writer
	color     *Colorizer
	termWidth int
	loc       *time.Location
}

// NewTablePresenter creates a new table presenter.
func NewTablePresenter(opts PresenterOptions) *TablePresenter {
	termWidth := opts.TerminalWidth
	if termWidth == 0 {
		termWidth = TerminalWidth(opts.Writer)
	}
	return &TablePresenter{
		w:         opts.Writer,
		color:     NewColorizer(opts.Writer, opts.UseColors),
		termWidth: termWidth,
		loc:       opts.Location,
	}
}

func (p *TablePresenter) time(t time.Time) string {
	return FormatTime(t, p.loc)
}

// RenderStatus renders the tool status.
func (p *TablePresenter) RenderStatus(status *StatusView) error {
	tw := &tableWriter{w: p.w}

	tw.printf("%s\n\n", p.color.Header("timescope "+status.Version))

	tw.println(p.color.Header("Widget"))
	tw.field(2, "ID", p.color.ID(status.Widget.ID))
	tw.field(2, "Start time", FormatTimeMillis(status.Widget.LatestStart, p.loc))
	tw.println()

	tw.println(p.color.Header("Database"))
	tw.field(2, "Location", p.color.Path(status.Database.Location))
	tw.field(2, "Size", status.Database.SizeHuman)
	tw.field(2, "Selections", p.color.Number(FormatNumber(status.Database.SelectionCount)))
	tw.field(2, "Timelines", p.color.Number(FormatNumber(status.Database.TimelineCount)))
	if !status.Database.OldestSelection.IsZero() {
		tw.field(2, "Oldest", p.time(status.Database.OldestSelection))
		tw.field(2, "Latest", p.time(status.Database.NewestSelection))
	}
	tw.println()

	tw.println(p.color.Header("Config"))
	tw.field(2, "Location", p.color.Path(status.Config.Location))
	tw.field(2, "History", FormatNumber(status.Config.HistoryLimit)+" selections")
	tw.field(2, "Timezone", status.Config.Timezone)

	return tw.Err()
}

// RenderSelections renders committed start times, newest first.
func (p *TablePresenter) RenderSelections(selections []*SelectionView) error {
	tw := &tableWriter{w: p.w}

	if len(selections) == 0 {
		tw.println("No selections found.")
		return tw.Err()
	}

	tw.printf("Selections (%d)\n", len(selections))
	tw.println(HorizontalLine(p.termWidth))

	for _, s := range selections {
		tw.printf("%s  %-12s start %s %s\n",
			p.color.Dim(s.ShortID),
			p.color.ID(s.WidgetID),
			FormatTimeMillis(s.StartTime, p.loc),
			p.color.Dim("("+FormatEpochMillis(s.StartTime)+")"))
		tw.printf("   %s\n", p.color.Dim("committed "+p.time(s.CreatedAt)))
	}

	return tw.Err()
}

// RenderTimelines renders imported timelines.
func (p *TablePresenter) RenderTimelines(timelines []*TimelineView) error {
	tw := &tableWriter{w: p.w}

	if len(timelines) == 0 {
		tw.println("No timelines imported.")
		return tw.Err()
	}

	tw.printf("Timelines (%d)\n", len(timelines))
	tw.println(HorizontalLine(p.termWidth))

	for _, t := range timelines {
		tw.printf("%-20s %s -> %s\n", p.color.ID(t.ID), p.time(t.StartTime), p.time(t.EndTime))
		tw.printf("   %s\n", p.color.Dim(
			FormatNumber(t.SeriesCount)+" series  *  "+
				FormatNumber(t.EventCount)+" events  *  imported "+p.time(t.ImportedAt)))
	}

	return tw.Err()
}

// RenderSummary renders the summary of a rendered chart.
func (p *TablePresenter) RenderSummary(summary *SummaryView) error {
	tw := &tableWriter{w: p.w}

	tw.println(p.color.Header("Timeline " + summary.Source))
	tw.println(HorizontalLine(p.termWidth))
	tw.field(0, "From", p.time(summary.StartTime))
	tw.field(0, "To", p.time(summary.EndTime))
	tw.field(0, "Start time", FormatTimeMillis(summary.SliderStart, p.loc))
	tw.field(0, "Width", strconv.Itoa(int(summary.Width))+"px")
	tw.println()

	if len(summary.Series) > 0 {
		tw.printf("  %-32s %-8s %8s %8s\n", "METRIC", "SEVERITY", "SAMPLES", "EVENTS")
		for _, s := range summary.Series {
			tw.printf("  %-32s %s %8s %8s\n",
				TruncateString(s.MetricName, 32),
				p.color.Severity(s.Severity, PadRight(s.Severity, 8)),
				FormatNumber(s.Samples),
				p.color.Number(FormatNumber(s.Events)))
		}
		tw.println()
	}

	tw.field(0, "Circles", p.color.Number(FormatNumber(summary.Circles)))
	if summary.Dropped > 0 {
		tw.field(0, "Not drawn", p.color.Warning(FormatNumber(summary.Dropped)))
	}

	return tw.Err()
}

// RenderConfig renders the configuration.
func (p *TablePresenter) RenderConfig(config *ConfigView) error {
	tw := &tableWriter{w: p.w}

	tw.println(p.color.Header("Configuration"))
	tw.printf("Location: %s\n", p.color.Path(config.Location))
	tw.println(HorizontalLine(p.termWidth))
	tw.println()

	p.renderConfigMap(tw, config.Values, "")

	return tw.Err()
}

func (p *TablePresenter) renderConfigMap(tw *tableWriter, m map[string]interface{}, prefix string) {
	keys := lo.Keys(m)
	slices.Sort(keys)

	for _, key := range keys {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := m[key].(type) {
		case map[string]interface{}:
			p.renderConfigMap(tw, v, fullKey)
		default:
			tw.printf("  %-30s %v\n", fullKey, v)
		}
	}
}

// RenderError renders an error message.
func (p *TablePresenter) RenderError(err error) error {
	tw := &tableWriter{w: p.w}
	tw.printf("%s %s\n", p.color.Error("Error:"), err.Error())
	return tw.Err()
}

// RenderMessage renders a simple message.
func (p *TablePresenter) RenderMessage(message string) error {
	tw := &tableWriter{w: p.w}
	tw.println(message)
	return tw.Err()
}

// Ensure TablePresenter implements Presenter
var _ Presenter = (*TablePresenter)(nil)
