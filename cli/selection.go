package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/safedep/timescope/storage"
	"github.com/safedep/timescope/tui"
	"github.com/spf13/cobra"
)

// NewSelectionCmd creates the selection command.
func NewSelectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "selection",
		Aliases: []string{"sel"},
		Short:   "Inspect or change committed start times",
		Long: `Inspect or change the start times committed by the slider.

Every commit is kept as a selection of the configured widget; the newest one
positions the slider the next time the chart is drawn.`,
	}

	cmd.AddCommand(
		newSelectionLatestCmd(),
		newSelectionListCmd(),
		newSelectionShowCmd(),
		newSelectionSetCmd(),
	)

	return cmd
}

func newSelectionLatestCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the current start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			sel, err := app.Store.LatestSelection(ctx, app.Config.Widget.ID)
			if err != nil {
				return ErrDatabase("failed to read start time", err)
			}

			views := []*tui.SelectionView{}
			if sel != nil {
				views = append(views, selectionToView(sel))
			}
			return app.presenterFor(cmd, format).RenderSelections(views)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, jsonl")

	return cmd
}

func newSelectionListCmd() *cobra.Command {
	var (
		format string
		limit  int
		since  string
		widget string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List committed start times, newest first",
		Example: `  timescope selection list
  timescope selection list --limit 5 --format json
  timescope selection list --since 2026-01-01T00:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			filter := &storage.SelectionFilter{
				WidgetID: app.Config.Widget.ID,
				Limit:    limit,
			}
			if widget != "" {
				filter.WidgetID = widget
			}
			if since != "" {
				t, err := parseTimeArg(since)
				if err != nil {
					return ErrInput("invalid --since", err)
				}
				filter.Since = &t
			}

			sels, err := app.Store.QuerySelections(ctx, filter)
			if err != nil {
				return ErrDatabase("failed to list selections", err)
			}

			views := make([]*tui.SelectionView, len(sels))
			for i, sel := range sels {
				views[i] = selectionToView(sel)
			}
			return app.presenterFor(cmd, format).RenderSelections(views)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, jsonl")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of selections (0 for all)")
	cmd.Flags().StringVar(&since, "since", "", "only selections committed after this time")
	cmd.Flags().StringVar(&widget, "widget", "", "widget id (default widget.id)")

	return cmd
}

func newSelectionShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a selection by ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			sel, err := app.Store.GetSelectionByPrefix(ctx, args[0])
			if err != nil {
				return ErrDatabase("failed to read selection", err)
			}
			if sel == nil {
				return ErrInput("selection not found", fmt.Errorf("no selection matches %q", args[0]))
			}

			return app.presenterFor(cmd, format).RenderSelections([]*tui.SelectionView{selectionToView(sel)})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, jsonl")

	return cmd
}

func newSelectionSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <time>",
		Short: "Commit a start time without moving a slider",
		Long: `Commit a start time for the configured widget.

The time is given in milliseconds since the epoch or as RFC 3339. It is
recorded like a slider commit and trims the history to storage.history_limit.`,
		Example: `  timescope selection set 1700000000000
  timescope selection set 2026-03-01T12:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t, err := parseTimeArg(args[0])
			if err != nil {
				return ErrInput("invalid time", err)
			}

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			if err := app.StartTimeWriter().UpdateStartTime(ctx, t); err != nil {
				return ErrDatabase("failed to store start time", err)
			}

			return app.presenterFor(cmd, "table").RenderMessage(
				fmt.Sprintf("Start time set to %s", sliderStart(t, app.Config.Location())))
		},
	}

	return cmd
}

// sliderStart formats a committed start time for messages.
func sliderStart(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

// selectionToView converts a selection to a view model.
func selectionToView(sel *storage.Selection) *tui.SelectionView {
	id := sel.ID.String()
	return &tui.SelectionView{
		ID:        id,
		ShortID:   tui.FormatShortID(id),
		WidgetID:  sel.WidgetID,
		StartTime: sel.StartTime,
		CreatedAt: sel.CreatedAt,
	}
}
