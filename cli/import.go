package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/safedep/timescope/core/timeline"
	"github.com/safedep/timescope/storage"
	"github.com/safedep/timescope/tui"
	"github.com/spf13/cobra"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Store timeline metadata for render, view and serve",
		Long: `Store timeline metadata documents in the database.

Each file is stored under its base name without extension unless --id is
given. Importing an existing id replaces it.`,
		Example: `  timescope import metadata.json
  timescope import prod.json --id prod-api
  timescope import runs/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if id != "" && len(args) > 1 {
				return NewCLIError(ExitInput, "--id can only be used with a single file")
			}

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			presenter := app.presenterFor(cmd, "table")

			if len(args) == 1 {
				name := id
				if name == "" {
					name = timelineIDFromPath(args[0])
				}

				stored, err := tui.RunWithSpinner("Importing "+args[0], func() (*storage.StoredTimeline, error) {
					return importFile(ctx, app.Store, args[0], name)
				}, tui.WithWriter(cmd.ErrOrStderr()))
				if err != nil {
					return err
				}

				return presenter.RenderMessage(importedMessage(stored))
			}

			progress := tui.NewProgressWriter(cmd.ErrOrStderr(), app.Config.ShouldUseColors())
			var failed int
			for i, path := range args {
				progress.Step(i+1, len(args), path)

				stored, err := importFile(ctx, app.Store, path, timelineIDFromPath(path))
				if err != nil {
					progress.Clear()
					failed++
					_ = presenter.RenderError(err)
					continue
				}

				progress.Clear()
				if !globalFlags.Quiet {
					_ = presenter.RenderMessage(importedMessage(stored))
				}
			}

			if failed > 0 {
				return ErrInput("import failed", fmt.Errorf("%d of %d files could not be imported", failed, len(args)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "timeline id (default: file name)")

	return cmd
}

func importFile(ctx context.Context, store storage.TimelineStore, path, id string) (*storage.StoredTimeline, error) {
	md, err := timeline.DecodeFile(path)
	if err != nil {
		return nil, ErrInput(fmt.Sprintf("failed to read %s", path), err)
	}

	stored := &storage.StoredTimeline{ID: id, Metadata: *md}
	if err := store.SaveTimeline(ctx, stored); err != nil {
		return nil, ErrDatabase("failed to save timeline", err)
	}
	return stored, nil
}

func importedMessage(stored *storage.StoredTimeline) string {
	return fmt.Sprintf("Imported %s (%d series)", stored.ID, len(stored.Metadata.QID.Series))
}

// timelineIDFromPath derives a timeline id from a file name.
func timelineIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
