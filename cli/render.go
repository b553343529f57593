package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/safedep/dry/log"
	"github.com/safedep/timescope/config"
	"github.com/safedep/timescope/render/svg"
	"github.com/safedep/timescope/tui"
	"github.com/safedep/timescope/widget"
	"github.com/spf13/cobra"
)

type renderParams struct {
	timelineID    string
	width         int
	format        string
	output        string
	pin           string
	summary       bool
	summaryFormat string
	noStore       bool
}

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	var p renderParams

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a timeline chart to HTML or SVG",
		Long: `Render a timeline chart to HTML or SVG.

The chart is plotted from a metadata file (JSON or YAML, "-" for stdin) or
from a timeline stored with "import". The slider starts at the last start
time committed for the configured widget (for a stored timeline, for that
timeline); when none exists the start of the chart is committed.`,
		Example: `  timescope render metadata.json -o chart.html
  timescope render --timeline prod-api --format svg -o chart.svg
  timescope render metadata.json --summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var (
				app *App
				err error
			)
			if p.noStore {
				app, err = loadApp()
			} else {
				app, err = openApp(ctx)
			}
			if err != nil {
				return err
			}
			defer closeApp(app)

			md, source, err := loadMetadata(ctx, app, cmd.InOrStdin(), args, p.timelineID)
			if err != nil {
				return err
			}

			opts := widget.Options{
				Location:         app.Config.Location(),
				SliderHandleHref: app.Config.Widget.Assets.SliderHandle,
				ScrollPinHref:    app.Config.Widget.Assets.ScrollPin,
			}
			if p.pin != "" {
				pin, err := parseTimeArg(p.pin)
				if err != nil {
					return ErrInput("invalid --pin", err)
				}
				opts.PinPosition = &pin
			}

			var store widget.StartTimeStore
			if app.Store != nil {
				writer := app.chartWriter(p.timelineID)
				latest, err := writer.Latest(ctx)
				if err != nil {
					return ErrDatabase("failed to read start time", err)
				}
				opts.SliderPosition = latest
				store = writer
			}

			width := renderWidth(app.Config, p.width)
			doc := svg.NewDocument()
			w := widget.New(svg.NewCanvas(doc), store, opts)
			if err := w.Initialize(ctx, md, float64(width)); err != nil {
				return ErrDatabase("failed to store start time", err)
			}
			log.Debugf("Rendered %s at width %d with %d circles", source, width, len(w.Circles()))

			if p.summary {
				return app.presenterFor(cmd, p.summaryFormat).RenderSummary(buildSummary(source, w))
			}

			if p.output == "" || p.output == "-" {
				return writeChart(cmd.OutOrStdout(), doc, p.format, source)
			}

			if err := writeChartFile(p.output, doc, p.format, source); err != nil {
				return err
			}
			if !globalFlags.Quiet {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", p.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&p.timelineID, "timeline", "", "render a stored timeline instead of a file")
	cmd.Flags().IntVar(&p.width, "width", 0, "container width in pixels (default widget.width or 1000)")
	cmd.Flags().StringVar(&p.format, "format", "html", "output format: html, svg")
	cmd.Flags().StringVarP(&p.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&p.pin, "pin", "", "initial pin time (milliseconds or RFC 3339)")
	cmd.Flags().BoolVar(&p.summary, "summary", false, "print a series summary instead of the chart")
	cmd.Flags().StringVar(&p.summaryFormat, "summary-format", "table", "summary format: table, json, jsonl")
	cmd.Flags().BoolVar(&p.noStore, "no-store", false, "do not read or commit the start time")

	return cmd
}

func renderWidth(cfg *config.Config, flagWidth int) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if cfg.Widget.Width > 0 {
		return cfg.Widget.Width
	}
	return config.DefaultRenderWidth
}

func writeChart(w io.Writer, doc *svg.Document, format, title string) error {
	var err error
	switch format {
	case "svg":
		err = doc.WriteSVG(w)
	case "html":
		err = doc.WriteHTML(w, title)
	default:
		return ErrInput("invalid --format", fmt.Errorf("unknown format %q: use html or svg", format))
	}
	if err != nil {
		return ErrRender("failed to write chart", err)
	}
	return nil
}

// writeChartFile writes the chart to path. The file is closed before
// returning so a failed flush is reported.
func writeChartFile(path string, doc *svg.Document, format, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return ErrRender("failed to create output file", err)
	}

	if err := writeChart(f, doc, format, title); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return ErrRender("failed to write output file", err)
	}
	return nil
}

func buildSummary(source string, w *widget.Timeline) *tui.SummaryView {
	md := w.Metadata()
	view := &tui.SummaryView{
		Source:      source,
		StartTime:   md.QID.Start(),
		EndTime:     md.QID.End(),
		Width:       w.Layout().Width,
		Circles:     len(w.Circles()),
		Dropped:     w.DroppedEvents(),
		SliderStart: w.SliderTime(),
	}

	for _, s := range md.QID.Series {
		view.Series = append(view.Series, tui.SeriesSummaryView{
			MetricName: s.MetricName,
			Severity:   string(s.Severity()),
			Samples:    len(s.Data),
			Events:     s.Total(),
		})
	}
	return view
}
