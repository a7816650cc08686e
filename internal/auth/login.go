// internal/auth/login.go
package auth

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/plexport/internal/engine/dynamic"
	"github.com/rs/zerolog/log"
)

// LoginOptions configures the interactive login behavior
type LoginOptions struct {
	// SessionName is the name to save the session as
	SessionName string
	// URL to navigate to for login
	URL string
	// WaitSelector is the CSS selector that signals a completed login; when
	// empty the user confirms with Enter
	WaitSelector string
	// Timeout for the entire login process
	Timeout time.Duration
	// Browser carries the user agent, proxy and Chrome path; Headless is
	// always forced off
	Browser dynamic.BrowserOptions
	// RemoteDebuggingPort enables Chrome DevTools on this port (e.g., 9222)
	RemoteDebuggingPort int
	// Confirm blocks until the user reports the login as done
	Confirm func() error
}

// InteractiveLogin launches a visible browser for manual login and captures
// its cookies
func InteractiveLogin(ctx context.Context, opts LoginOptions) (*SessionData, error) {
	if err := validName(opts.SessionName); err != nil {
		return nil, err
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.Confirm == nil {
		opts.Confirm = func() error {
			_, err := fmt.Scanln()
			return err
		}
	}

	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" && opts.RemoteDebuggingPort == 0 {
		return nil, fmt.Errorf("interactive login requires a display server (DISPLAY not set)\n\n" +
			"💡 In headless environments, use --remote-debug=9222, or import cookies with:\n" +
			"   plexport sessions import <name> --url=<url>")
	}

	log.Info().
		Str("session", opts.SessionName).
		Str("url", opts.URL).
		Msg("Starting interactive login")

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	browserOpts := opts.Browser
	browserOpts.Headless = false
	if opts.RemoteDebuggingPort > 0 {
		browserOpts.ExtraArgs = append(browserOpts.ExtraArgs,
			chromedp.Flag("remote-debugging-port", fmt.Sprintf("%d", opts.RemoteDebuggingPort)),
			chromedp.Flag("remote-debugging-address", "0.0.0.0"),
		)
		log.Info().Int("port", opts.RemoteDebuggingPort).Msg("Remote debugging enabled")
		fmt.Printf("\n🔧 Remote debugging enabled on port %d\n", opts.RemoteDebuggingPort)
		fmt.Printf("   Open chrome://inspect locally and configure target localhost:%d\n", opts.RemoteDebuggingPort)
	}

	browser, err := dynamic.NewBrowser(ctx, browserOpts)
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	fmt.Println("\n🌐 Browser opened. Please complete the login process manually.")

	bctx := browser.Context()
	if err := chromedp.Run(bctx, network.Enable(), chromedp.Navigate(opts.URL)); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	if opts.WaitSelector != "" {
		log.Info().Str("selector", opts.WaitSelector).Msg("Waiting for login completion...")
		fmt.Printf("   Waiting for element: %s\n", opts.WaitSelector)

		if err := chromedp.Run(bctx, chromedp.WaitVisible(opts.WaitSelector, chromedp.ByQuery)); err != nil {
			return nil, fmt.Errorf("login timeout or failed: %w", err)
		}
	} else {
		fmt.Println("\n   Press Enter once you have completed login...")
		if err := opts.Confirm(); err != nil {
			log.Debug().Err(err).Msg("Confirmation read failed, continuing")
		}
	}

	log.Info().Msg("Login completed, extracting cookies...")

	var cookies []*network.Cookie
	err = chromedp.Run(bctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to extract cookies: %w", err)
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("no cookies found - login may have failed")
	}

	log.Info().Int("cookie_count", len(cookies)).Msg("Cookies extracted")

	session := &SessionData{
		Name:      opts.SessionName,
		URL:       opts.URL,
		Cookies:   fromNetworkCookies(cookies),
		CreatedAt: time.Now(),
	}
	session.ExpiresAt = latestExpiry(session.Cookies)
	return session, nil
}
