package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/safedep/timescope/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var (
		addr  string
		width int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored timelines over HTTP",
		Long: `Serve stored timelines as interactive charts over HTTP.

Each imported timeline is available at /timelines/<id>/chart (HTML) and
/timelines/<id>/chart.svg. Slider, drag, pin and tooltip interactions are
accepted as JSON POSTs and committed start times are stored per timeline.`,
		Example: `  timescope serve
  timescope serve --addr 0.0.0.0:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			if addr == "" {
				addr = app.Config.Server.Addr
			}

			srv := server.NewServer(server.Options{
				Addr:             addr,
				Store:            app.Store,
				Width:            float64(renderWidth(app.Config, width)),
				HistoryLimit:     app.Config.Storage.HistoryLimit,
				Location:         app.Config.Location(),
				SliderHandleHref: app.Config.Widget.Assets.SliderHandle,
				ScrollPinHref:    app.Config.Widget.Assets.ScrollPin,
			})

			if !globalFlags.Quiet {
				_ = app.presenterFor(cmd, "table").RenderMessage("Serving timelines on http://" + addr)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().IntVar(&width, "width", 0, "chart width in pixels (default widget.width or 1000)")

	return cmd
}
