package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/safedep/timescope/tui/component/scrubber"
	"github.com/spf13/cobra"
)

type viewParams struct {
	timelineID string
	width      int
}

// NewViewCmd creates the view command.
func NewViewCmd() *cobra.Command {
	var p viewParams

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Scrub a timeline interactively in the terminal",
		Long: `Launch a fullscreen TUI showing the timeline chart.

Move the start-time slider with the arrow keys or by dragging the handle,
move the pin with [ and ], and hover the pin to see its time. Every slider
move is committed to the start-time history of the configured widget, or
of the stored timeline when --timeline is given.`,
		Example: `  timescope view metadata.json
  timescope view --timeline prod-api`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			md, source, err := loadMetadata(ctx, app, cmd.InOrStdin(), args, p.timelineID)
			if err != nil {
				return err
			}

			writer := app.chartWriter(p.timelineID)
			latest, err := writer.Latest(ctx)
			if err != nil {
				return ErrDatabase("failed to read start time", err)
			}

			width := p.width
			if width <= 0 {
				width = app.Config.Widget.Width
			}

			opts := scrubber.Options{
				Title:            source,
				Metadata:         md,
				Store:            writer,
				Width:            width,
				Location:         app.Config.Location(),
				SliderHandleHref: app.Config.Widget.Assets.SliderHandle,
				ScrollPinHref:    app.Config.Widget.Assets.ScrollPin,
				SliderPosition:   latest,
			}

			prog := tea.NewProgram(scrubber.New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = prog.Run()

			return err
		},
	}

	cmd.Flags().StringVar(&p.timelineID, "timeline", "", "view a stored timeline instead of a file")
	cmd.Flags().IntVar(&p.width, "width", 0, "chart width in columns (default: terminal width)")

	return cmd
}
