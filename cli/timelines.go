package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/storage"
	"github.com/safedep/timescope/tui"
	"github.com/spf13/cobra"
)

// NewTimelinesCmd creates the timelines command.
func NewTimelinesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "timelines",
		Short: "List imported timelines",
		Long: `List imported timelines.

Subcommands export a stored timeline as JSON or remove it.`,
		Example: `  timescope timelines
  timescope timelines --format json
  timescope timelines export prod-api > prod.json
  timescope timelines rm prod-api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			stored, err := app.Store.ListTimelines(ctx)
			if err != nil {
				return ErrDatabase("failed to list timelines", err)
			}

			views := make([]*tui.TimelineView, len(stored))
			for i, tl := range stored {
				views[i] = timelineToView(tl)
			}

			return app.presenterFor(cmd, format).RenderTimelines(views)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, jsonl")

	cmd.AddCommand(
		newTimelinesExportCmd(),
		newTimelinesRemoveCmd(),
	)

	return cmd
}

func newTimelinesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored timeline as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			stored, err := app.Store.GetTimeline(ctx, args[0])
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return ErrInput("failed to export timeline", err)
				}
				return ErrDatabase("failed to export timeline", err)
			}

			if err := timeline.Encode(cmd.OutOrStdout(), &stored.Metadata); err != nil {
				return ErrRender("failed to export timeline", err)
			}
			return nil
		},
	}

	return cmd
}

func newTimelinesRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored timeline",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			if err := app.Store.DeleteTimeline(ctx, args[0]); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return ErrInput("failed to remove timeline", err)
				}
				return ErrDatabase("failed to remove timeline", err)
			}

			return app.presenterFor(cmd, "table").RenderMessage(fmt.Sprintf("Removed %s", args[0]))
		},
	}

	return cmd
}

// timelineToView converts a stored timeline to a view model.
func timelineToView(tl *storage.StoredTimeline) *tui.TimelineView {
	events := 0
	for _, s := range tl.Metadata.QID.Series {
		events += s.Total()
	}

	return &tui.TimelineView{
		ID:          tl.ID,
		StartTime:   tl.Metadata.QID.Start(),
		EndTime:     tl.Metadata.QID.End(),
		SeriesCount: len(tl.Metadata.QID.Series),
		EventCount:  events,
		ImportedAt:  tl.ImportedAt,
	}
}
