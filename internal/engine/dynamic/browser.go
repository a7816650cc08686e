// internal/engine/dynamic/browser.go
package dynamic

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/law-makers/plexport/internal/config"
	"github.com/rs/zerolog/log"
)

// BrowserOptions configures the Chrome process
type BrowserOptions struct {
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
	ExtraArgs  []chromedp.ExecAllocatorOption
}

// OptionsFromConfig maps the loaded configuration onto BrowserOptions
func OptionsFromConfig(cfg *config.Config) BrowserOptions {
	return BrowserOptions{
		Headless:   cfg.Headless,
		UserAgent:  cfg.UserAgent,
		Proxy:      cfg.Proxy,
		ChromePath: cfg.ChromePath,
	}
}

// Browser owns one Chrome process and its root tab
type Browser struct {
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	headless    bool
}

// allocatorOptions builds the exec allocator flags for opts
func allocatorOptions(opts BrowserOptions) []chromedp.ExecAllocatorOption {
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-client-side-phishing-detection", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		// The grid only renders rows while the tab is painted
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("force-color-profile", "srgb"),
		chromedp.Flag("log-level", "3"),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("safebrowsing-disable-auto-update", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(opts.UserAgent),
	}

	if path := FindChrome(opts.ChromePath); path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}

	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	return append(allocOpts, opts.ExtraArgs...)
}

// NewBrowser starts Chrome and warms up its first tab. Cancelling parent
// tears the browser down.
func NewBrowser(parent context.Context, opts BrowserOptions) (*Browser, error) {
	log.Debug().Bool("headless", opts.Headless).Str("proxy", opts.Proxy).Msg("Starting browser")

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Debug().Msg("Browser ready")

	return &Browser{
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      browserCancel,
		headless:    opts.Headless,
	}, nil
}

// Context returns the chromedp context of the browser's tab. Contexts
// derived from it can drive the page.
func (b *Browser) Context() context.Context {
	return b.ctx
}

// Headless reports whether the browser window is hidden
func (b *Browser) Headless() bool {
	return b.headless
}

// Close shuts down the tab and the Chrome process
func (b *Browser) Close() error {
	b.cancel()
	b.allocCancel()
	log.Debug().Msg("Browser closed")
	return nil
}
