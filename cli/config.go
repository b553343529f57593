package cli

import (
	"fmt"

	"github.com/safedep/timescope/config"
	"github.com/safedep/timescope/tui"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify configuration",
		Long: `View or modify configuration.

Subcommands allow viewing and modifying configuration values. Values are
validated before they are written.`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigResetCmd(),
	)

	return cmd
}

// configManager opens the config file selected by --config or the default
// location. It does not validate the file so a broken config can be repaired.
func configManager() (*config.Manager, error) {
	path := globalFlags.ConfigPath
	if path == "" {
		path = config.ResolvePaths().ConfigFile
	}

	m, err := config.NewManager(path)
	if err != nil {
		return nil, ErrConfig("failed to load configuration", err)
	}
	return m, nil
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := configManager()
			if err != nil {
				return err
			}

			presenter := tui.NewPresenter(getFormat(format), tui.PresenterOptions{
				Writer:    cmd.OutOrStdout(),
				UseColors: !globalFlags.NoColor && tui.IsWriterTerminal(cmd.OutOrStdout()),
			})

			return presenter.RenderConfig(&tui.ConfigView{
				Location: m.ConfigPath(),
				Values:   m.AllSettings(),
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get specific config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			m, err := configManager()
			if err != nil {
				return err
			}

			value := m.Get(key)
			if value == nil {
				return ErrInput("invalid key", fmt.Errorf("key not found: %s", key))
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set config value",
		Example: `  timescope config set widget.id prod-dashboard
  timescope config set storage.history_limit 50
  timescope config set display.timezone utc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := config.ParseValue(args[1])

			m, err := configManager()
			if err != nil {
				return err
			}

			if err := m.Set(key, value); err != nil {
				return ErrConfig("failed to set configuration", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
			return nil
		},
	}

	return cmd
}

func newConfigResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset to default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := configManager()
			if err != nil {
				return err
			}

			if err := m.Reset(); err != nil {
				return ErrConfig("failed to reset configuration", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
			return nil
		},
	}

	return cmd
}
