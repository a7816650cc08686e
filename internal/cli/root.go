// internal/cli/root.go
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/plexport/internal/app"
	"github.com/law-makers/plexport/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plexport",
	Short: "Export a streaming-service playlist to CSV",
	Long: `Plexport opens a playlist in a real browser, scrolls through its virtualized
track grid and exports every track it saw, ordered by position.

Columns are chosen with saved settings (see "plexport settings") or per run
with --fields.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
// This is called by main.main().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Lazily initialize the application before running commands (avoid starting app for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	// Runs only after a successful RunE; failing commands close the app themselves
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		closeApp(cmd)
	}

	config.RegisterFlags(rootCmd)

	rootCmd.Flags().BoolP("help", "h", false, "Help for Plexport")
	rootCmd.Flags().Bool("version", false, "Version for Plexport")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
}

// closeApp releases the command's application, if any
func closeApp(cmd *cobra.Command) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = a.Close(ctx)
}
