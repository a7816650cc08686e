// internal/cli/sessions_import.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/law-makers/plexport/internal/auth"
	"github.com/spf13/cobra"
)

var (
	importURL    string
	importFormat string
)

// sessionsImportCmd represents the sessions import command
var sessionsImportCmd = &cobra.Command{
	Use:   "import <session-name>",
	Short: "Import cookies from your browser to create a session",
	Long: `Import cookies from your browser's developer tools to create a session.

This is useful in headless environments (Codespaces, dev containers) where the
interactive login browser cannot be shown.

Steps:
1. Open the web player in your regular browser and log in
2. Open DevTools (F12) → Application → Cookies
3. Copy the cookies (sp_dc is the one that matters)
4. Use this command to import them`,
	Example: `  # Import cookies interactively
  $ plexport sessions import spotify --url=https://open.spotify.com

  # Import from a Netscape/curl cookies.txt file
  $ plexport sessions import spotify --url=https://open.spotify.com --format=netscape < cookies.txt

  # Import from JSON
  $ plexport sessions import spotify --url=https://open.spotify.com --format=json < cookies.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsImport,
}

func init() {
	sessionsCmd.AddCommand(sessionsImportCmd)

	sessionsImportCmd.Flags().StringVar(&importURL, "url", "", "Website URL for this session (required)")
	sessionsImportCmd.Flags().StringVar(&importFormat, "format", "interactive", "Import format: interactive, json, netscape")
	_ = sessionsImportCmd.MarkFlagRequired("url")
}

func runSessionsImport(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("\n🔐 Import Session: %s\n", name)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	var cookies []auth.Cookie
	switch importFormat {
	case "interactive":
		cookies, err = importInteractive(os.Stdin, os.Stdout, auth.CookieDomain(importURL))
	case "json":
		cookies, err = auth.ParseJSONCookies(os.Stdin)
	case "netscape":
		cookies, err = auth.ParseNetscapeCookies(os.Stdin)
	default:
		return fmt.Errorf("unsupported format: %s (use: interactive, json, netscape)", importFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to import cookies: %w", err)
	}

	session, err := auth.NewImportedSession(name, importURL, cookies)
	if err != nil {
		return err
	}
	if err := store.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("\n✅ Session '%s' created successfully!\n", name)
	fmt.Printf("   Cookies: %d\n", len(cookies))
	if !session.ExpiresAt.IsZero() {
		fmt.Printf("   Expires: %s\n", session.ExpiresAt.Format(time.RFC1123))
	}
	fmt.Printf("\nUse with:\n")
	fmt.Printf("  plexport export <playlist-url> --session=%s\n\n", name)
	return nil
}

// importInteractive prompts for cookies one at a time until an empty name
func importInteractive(in io.Reader, out io.Writer, domain string) ([]auth.Cookie, error) {
	fmt.Fprintln(out, "📋 Cookie Import Guide:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "1. Open the web player in your browser and log in")
	fmt.Fprintln(out, "2. Press F12 to open DevTools")
	fmt.Fprintln(out, "3. Go to: Application → Storage → Cookies")
	fmt.Fprintln(out, "4. Copy the Name and Value of each cookie you need")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "💡 TIP: the web player only needs sp_dc")

	var cookies []auth.Cookie
	scanner := bufio.NewScanner(in)
	hasDC := false

	for {
		fmt.Fprint(out, "\nCookie Name (or press Enter to finish): ")
		if !scanner.Scan() {
			break
		}
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			break
		}

		fmt.Fprint(out, "Cookie Value: ")
		if !scanner.Scan() {
			break
		}
		value := strings.TrimSpace(scanner.Text())
		if value == "" {
			fmt.Fprintln(out, "⚠️  Skipping cookie with empty value")
			continue
		}

		fmt.Fprintf(out, "Domain [%s]: ", domain)
		if !scanner.Scan() {
			break
		}
		cookieDomain := strings.TrimSpace(scanner.Text())
		if cookieDomain == "" {
			cookieDomain = domain
		}

		cookies = append(cookies, auth.Cookie{
			Name:     name,
			Value:    value,
			Domain:   cookieDomain,
			Path:     "/",
			Secure:   true,
			HTTPOnly: true,
		})
		fmt.Fprintf(out, "✅ Added: %s (domain: %s)\n", name, cookieDomain)
		if name == "sp_dc" {
			hasDC = true
		}
	}

	if len(cookies) > 0 && !hasDC {
		fmt.Fprintln(out, "\n⚠️  WARNING: sp_dc was not added, the playlist may render logged out")
	}
	return cookies, scanner.Err()
}
