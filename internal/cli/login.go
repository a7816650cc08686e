// internal/cli/login.go
package cli

import (
	"fmt"
	"time"

	"github.com/law-makers/plexport/internal/auth"
	"github.com/law-makers/plexport/internal/engine/dynamic"
	"github.com/law-makers/plexport/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	loginSession        string
	waitSelector        string
	loginTimeout        string
	remoteDebuggingPort int
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login <url>",
	Short: "Log in through a browser window and save the session",
	Long: `Opens a visible browser window for you to log in manually.
After login, cookies are extracted and stored in your OS keyring
(or ~/.plexport/sessions when no keyring is available).

Pass the session to "plexport export --session" so private playlists and the
full track grid render as they do for you.`,
	Example: `  # Log in and confirm with Enter
  $ plexport login https://accounts.spotify.com/login --session=spotify

  # Finish automatically once the web player shows the user menu
  $ plexport login https://accounts.spotify.com/login --session=spotify --wait='[data-testid="user-widget-link"]'

  # Log in from a dev container through remote debugging
  $ plexport login https://accounts.spotify.com/login --session=spotify --remote-debug=9222`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginSession, "session", "s", "", "Session name to save (required)")
	loginCmd.Flags().StringVarP(&waitSelector, "wait", "w", "", "CSS selector that appears once logged in")
	loginCmd.Flags().StringVar(&loginTimeout, "login-timeout", "5m", "Timeout for login process")
	loginCmd.Flags().IntVar(&remoteDebuggingPort, "remote-debug", 0, "Enable Chrome remote debugging on this port (e.g., 9222)")
	_ = loginCmd.MarkFlagRequired("session")
}

func runLogin(cmd *cobra.Command, args []string) error {
	defer closeApp(cmd)

	url := args[0]

	timeout, err := time.ParseDuration(loginTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	store, err := a.Sessions()
	if err != nil {
		return err
	}

	log.Info().
		Str("url", url).
		Str("session", loginSession).
		Msg("Initiating login")

	fmt.Printf("\n%s\n", ui.Bold("🔐 Interactive Login"))
	fmt.Printf("%s\n\n", ui.ColorDim+"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"+ui.ColorReset)
	fmt.Printf("  %s %s\n", ui.ColorBold+"Session:"+ui.ColorReset, ui.ColorWhite+loginSession+ui.ColorReset)
	fmt.Printf("  %s %s\n", ui.ColorBold+"URL:"+ui.ColorReset, ui.ColorWhite+url+ui.ColorReset)
	if waitSelector != "" {
		fmt.Printf("  %s %s\n", ui.ColorBold+"Waiting:"+ui.ColorReset, ui.ColorWhite+waitSelector+ui.ColorReset)
	}
	fmt.Printf("  %s %s\n\n", ui.ColorBold+"Timeout:"+ui.ColorReset, ui.ColorWhite+timeout.String()+ui.ColorReset)

	session, err := auth.InteractiveLogin(cmd.Context(), auth.LoginOptions{
		SessionName:         loginSession,
		URL:                 url,
		WaitSelector:        waitSelector,
		Timeout:             timeout,
		Browser:             dynamic.OptionsFromConfig(a.Config),
		RemoteDebuggingPort: remoteDebuggingPort,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := store.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println(ui.Success(fmt.Sprintf("\n✓ Session saved (%d cookies, %s)", len(session.Cookies), store.Backend())))
	fmt.Printf("\n%s\n", ui.Bold("Use it with:"))
	fmt.Printf("  %s%s\n\n", ui.ColorCyan+"plexport export <playlist-url> --session="+ui.ColorReset, ui.ColorWhite+loginSession+ui.ColorReset)

	if !session.ExpiresAt.IsZero() {
		fmt.Printf("Session expires: %s\n\n", session.ExpiresAt.Format(time.RFC1123))
	}
	return nil
}
