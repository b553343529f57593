package cli

import (
	"context"
	"os"

	"github.com/safedep/dry/log"
	"github.com/safedep/timescope/internal/version"
	"github.com/safedep/timescope/tui"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show widget, database and configuration status",
		Long: `Show widget, database and configuration status.

Displays the current status of the tool including:
- Tool version
- The configured widget and its current start time
- Database information
- Configuration settings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := loadApp()
			if err != nil {
				return err
			}

			view := &tui.StatusView{
				Version: version.Version,
				Widget: tui.WidgetStatusView{
					ID: app.Config.Widget.ID,
				},
				Database: tui.DatabaseView{
					Location: app.Config.GetDatabasePath(),
				},
				Config: tui.ConfigStatusView{
					Location:     app.Paths.ConfigFile,
					HistoryLimit: app.Config.Storage.HistoryLimit,
					Timezone:     string(app.Config.Display.Timezone),
				},
			}

			// Only open an existing database; status never creates one.
			if _, err := os.Stat(view.Database.Location); err == nil {
				if err := app.InitStore(ctx); err != nil {
					log.Warnf("failed to open database: %v", err)
				} else {
					defer closeApp(app)

					if info, err := app.Store.GetDatabaseInfo(ctx); err == nil {
						view.Database.SizeBytes = info.SizeBytes
						view.Database.SizeHuman = tui.FormatBytes(info.SizeBytes)
						view.Database.SelectionCount = info.SelectionCount
						view.Database.TimelineCount = info.TimelineCount
						view.Database.OldestSelection = info.OldestSelection
						view.Database.NewestSelection = info.NewestSelection
					} else {
						log.Warnf("failed to read database info: %v", err)
					}

					if latest, err := app.StartTimeWriter().Latest(ctx); err == nil && latest != nil {
						view.Widget.LatestStart = *latest
					}
				}
			}

			return app.presenterFor(cmd, format).RenderStatus(view)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}
