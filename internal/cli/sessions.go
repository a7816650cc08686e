// internal/cli/sessions.go
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/law-makers/plexport/internal/auth"
	"github.com/law-makers/plexport/internal/ui"
	"github.com/spf13/cobra"
)

var sessionsDeleteYes bool

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved login sessions",
	Long: `List, view, import and delete saved login sessions.

Sessions are stored in your OS keyring and hold the cookies that let the
playlist page render as it does for a logged-in user.`,
	Example: `  # List all saved sessions
  $ plexport sessions list

  # View details of a specific session
  $ plexport sessions view spotify

  # Delete a session
  $ plexport sessions delete spotify`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsViewCmd = &cobra.Command{
	Use:   "view <session-name>",
	Short: "View details of a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsView,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-name>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsViewCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)

	sessionsDeleteCmd.Flags().BoolVarP(&sessionsDeleteYes, "yes", "y", false, "Delete without asking")
}

func sessionStore(cmd *cobra.Command) (*auth.Store, error) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a.Sessions()
}

// expiryLine describes a session's expiry relative to now
func expiryLine(session *auth.SessionData, now time.Time) string {
	switch {
	case session.ExpiresAt.IsZero():
		return "no expiry"
	case session.Expired(now):
		return ui.Warn(fmt.Sprintf("⚠️  Expired (%s ago)", now.Sub(session.ExpiresAt).Round(time.Hour)))
	default:
		return fmt.Sprintf("%s (in %s)", session.ExpiresAt.Format(time.RFC1123), session.ExpiresAt.Sub(now).Round(time.Hour))
	}
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}
	sessions, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("\nNo saved sessions found.")
		fmt.Println("\nCreate a session with:")
		fmt.Println("  plexport login <url> --session=<name>")
		fmt.Println()
		return nil
	}

	fmt.Printf("\n📋 Saved Sessions (%d, %s)\n", len(sessions), store.Backend())
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	now := time.Now()
	for i, name := range sessions {
		fmt.Printf("\n%d. %s\n", i+1, name)

		session, err := store.Load(name)
		if err != nil && !errors.Is(err, auth.ErrSessionExpired) {
			fmt.Printf("   ⚠️  Error loading: %v\n", err)
			continue
		}

		fmt.Printf("   URL: %s\n", session.URL)
		fmt.Printf("   Cookies: %d\n", len(session.Cookies))
		fmt.Printf("   Created: %s\n", session.CreatedAt.Format(time.RFC1123))
		fmt.Printf("   Expires: %s\n", expiryLine(session, now))
	}

	fmt.Println()
	return nil
}

func runSessionsView(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}
	session, err := store.Load(name)
	if err != nil && !errors.Is(err, auth.ErrSessionExpired) {
		return fmt.Errorf("failed to load session '%s': %w", name, err)
	}

	fmt.Printf("\n🔍 Session Details: %s\n", name)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Printf("Name:     %s\n", session.Name)
	fmt.Printf("URL:      %s\n", session.URL)
	fmt.Printf("Created:  %s\n", session.CreatedAt.Format(time.RFC1123))
	fmt.Printf("Expires:  %s\n", expiryLine(session, time.Now()))

	fmt.Printf("\nCookies (%d):\n", len(session.Cookies))
	for i, cookie := range session.Cookies {
		if i >= 5 {
			fmt.Printf("  ... and %d more\n", len(session.Cookies)-5)
			break
		}
		fmt.Printf("  • %s (domain: %s, value: %s)\n", cookie.Name, cookie.Domain, maskValue(cookie.Value))
	}
	fmt.Println()
	return nil
}

// maskValue hides all but the first characters of a cookie value
func maskValue(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return v[:4] + "****"
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}

	if !sessionsDeleteYes {
		fmt.Printf("\n⚠️  Delete session '%s'? [y/N]: ", name)
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.Delete(name); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Printf("\n✓ Session '%s' deleted successfully.\n\n", name)
	return nil
}
