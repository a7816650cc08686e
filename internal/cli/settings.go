// internal/cli/settings.go
package cli

import (
	"fmt"

	"github.com/law-makers/plexport/internal/settings"
	"github.com/law-makers/plexport/internal/ui"
	"github.com/law-makers/plexport/pkg/models"
	"github.com/spf13/cobra"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the default export columns",
	Long: `Columns are saved between runs. Every column is enabled until changed.

Valid columns: index, title, artist, album, date, duration, url, cover, explicit`,
	Example: `  # Show the saved columns
  $ plexport settings show

  # Drop cover art and the explicit flag from future exports
  $ plexport settings set cover=false explicit=false

  # Enable every column again
  $ plexport settings reset`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved columns",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <column=true|false>...",
	Short: "Enable or disable columns",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Enable every column again",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

func settingsStore(cmd *cobra.Command) (*settings.Store, error) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a.Settings, nil
}

func printColumns(cfg models.RunConfiguration, path string) {
	fmt.Printf("\n%s %s\n\n", ui.Bold("Export columns"), ui.Info(path))
	for _, f := range models.AllFields {
		mark := ui.Error("✗")
		if cfg.Enabled(f) {
			mark = ui.Success("✓")
		}
		fmt.Printf("  %s %-9s %s\n", mark, f.Key(), ui.ColorDim+f.Label()+ui.ColorReset)
	}
	fmt.Println()
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	store, err := settingsStore(cmd)
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}
	printColumns(cfg, store.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	store, err := settingsStore(cmd)
	if err != nil {
		return err
	}
	changes, err := settings.ParseAssignments(args)
	if err != nil {
		return err
	}
	cfg, err := store.Set(changes)
	if err != nil {
		return err
	}
	printColumns(cfg, store.Path())
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	store, err := settingsStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Reset(); err != nil {
		return err
	}
	printColumns(settings.Defaults(), store.Path())
	return nil
}
