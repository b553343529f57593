// Package cli provides the command-line interface for timescope.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/safedep/dry/log"
	"github.com/safedep/timescope/config"
	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/internal/version"
	"github.com/safedep/timescope/storage"
	"github.com/safedep/timescope/tui"
	"github.com/spf13/cobra"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Store  storage.Store
	Paths  *config.Paths
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config) *App {
	paths := config.ResolvePaths()
	if globalFlags.ConfigPath != "" {
		paths.ConfigFile = globalFlags.ConfigPath
	}

	return &App{
		Config: cfg,
		Paths:  paths,
	}
}

// InitStore initializes the database store.
func (a *App) InitStore(ctx context.Context) error {
	dbPath := a.Config.GetDatabasePath()
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return err
	}
	a.Store = store
	return nil
}

// Close closes the application resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// StartTimeWriter returns the writer committing slider start times of the
// configured widget.
func (a *App) StartTimeWriter() *storage.StartTimeWriter {
	return storage.NewStartTimeWriter(a.Store, a.Config.Widget.ID, a.Config.Storage.HistoryLimit)
}

// chartWriter returns the start-time writer of a chart. Stored timelines keep
// their history under the timeline id, the key serve uses, so every surface
// resumes from the same start time.
func (a *App) chartWriter(timelineID string) *storage.StartTimeWriter {
	if timelineID == "" {
		return a.StartTimeWriter()
	}
	return storage.NewStartTimeWriter(a.Store, timelineID, a.Config.Storage.HistoryLimit)
}

// GlobalFlags holds the global command flags.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	NoColor    bool
}

var globalFlags GlobalFlags

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timescope",
		Short: "Event timeline charts with a start-time slider",
		Long: `Timescope plots log-event timelines as density charts.

A slider selects the start time of the data shown by a dashboard and is
persisted per widget. Charts render to HTML or SVG, run interactively in the
terminal, or are served over HTTP.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle NO_COLOR environment variable
			if os.Getenv("NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			if os.Getenv("TIMESCOPE_NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			setupInternalLogger()

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "increase output verbosity")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.NoColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(
		NewRenderCmd(),
		NewViewCmd(),
		NewImportCmd(),
		NewTimelinesCmd(),
		NewSelectionCmd(),
		NewStatusCmd(),
		NewServeCmd(),
		NewConfigCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupInternalLogger sets up the DRY logger
func setupInternalLogger() {
	// Always skip the stdout logger since we are running in a CLI context.
	// with our own TUI.
	_ = os.Setenv("APP_LOG_SKIP_STDOUT_LOGGER", "true")

	log.Init("timescope", "cli")
}

// loadApp loads the application with configuration.
func loadApp() (*App, error) {
	cfg, err := config.Load(globalFlags.ConfigPath)
	if err != nil {
		return nil, ErrConfig("failed to load configuration", err)
	}

	// Override with flags
	if globalFlags.NoColor {
		cfg.Display.Colors = config.ColorNever
	}

	return NewApp(cfg), nil
}

// openApp loads the application and opens its store.
func openApp(ctx context.Context) (*App, error) {
	app, err := loadApp()
	if err != nil {
		return nil, err
	}

	if err := app.InitStore(ctx); err != nil {
		return nil, ErrDatabase("failed to open database", err)
	}

	return app, nil
}

// closeApp closes app, logging failures.
func closeApp(app *App) {
	if err := app.Close(); err != nil {
		log.Errorf("failed to close app: %v", err)
	}
}

// presenterFor returns a presenter writing to the command output.
func (a *App) presenterFor(cmd *cobra.Command, format string) tui.Presenter {
	return tui.NewPresenter(getFormat(format), tui.PresenterOptions{
		Writer:    cmd.OutOrStdout(),
		UseColors: a.Config.ShouldUseColors(),
		Location:  a.Config.Location(),
	})
}

// getFormat returns the output format from flags or default.
func getFormat(format string) tui.Format {
	switch format {
	case "json":
		return tui.FormatJSON
	case "jsonl":
		return tui.FormatJSONL
	default:
		return tui.FormatTable
	}
}

// loadMetadata reads timeline metadata from a stored timeline when id is set,
// otherwise from the file argument ("-" reads stdin). It returns the metadata
// and a name for it.
func loadMetadata(ctx context.Context, app *App, in io.Reader, args []string, id string) (*timeline.Metadata, string, error) {
	if id != "" {
		if len(args) > 0 {
			return nil, "", ErrInput("invalid arguments", errors.New("a file cannot be combined with --timeline"))
		}
		if app.Store == nil {
			return nil, "", ErrDatabase("failed to load timeline", errors.New("storage is disabled"))
		}

		stored, err := app.Store.GetTimeline(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, "", ErrInput("failed to load timeline", err)
			}
			return nil, "", ErrDatabase("failed to load timeline", err)
		}
		return &stored.Metadata, id, nil
	}

	if len(args) != 1 {
		return nil, "", ErrInput("invalid arguments", errors.New("a metadata file or --timeline is required"))
	}

	path := args[0]
	if path == "-" {
		md, err := timeline.Decode(in, timeline.FormatJSON)
		if err != nil {
			return nil, "", ErrInput("failed to read metadata", err)
		}
		return md, "stdin", nil
	}

	md, err := timeline.DecodeFile(path)
	if err != nil {
		return nil, "", ErrInput("failed to read metadata", err)
	}
	return md, path, nil
}

// parseTimeArg accepts milliseconds since the epoch or an RFC 3339 time.
func parseTimeArg(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use milliseconds or RFC 3339", s)
	}
	return t, nil
}
