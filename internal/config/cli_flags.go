package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP/SOCKS5 proxy for the browser (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", DefaultPageTimeout.String(), "Timeout for opening the playlist page")
	cmd.PersistentFlags().String("user-agent", "", "Custom browser user agent string")
	cmd.PersistentFlags().String("chrome-path", "", "Path to the Chrome/Chromium executable")
	cmd.PersistentFlags().Bool("headless", DefaultHeadless, "Run the browser without a window")

	// Scroll tuning for slow connections
	cmd.PersistentFlags().Duration("poll-interval", DefaultPollInterval, "Delay between checks for newly rendered rows")
	cmd.PersistentFlags().Int("stall-cap", DefaultStallCap, "Stop after this many scrolls without new rows")
	_ = cmd.PersistentFlags().MarkHidden("poll-interval")
	_ = cmd.PersistentFlags().MarkHidden("stall-cap")
}
