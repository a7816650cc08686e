// internal/engine/dynamic/page.go
package dynamic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/plexport/internal/engine/scroll"
	"github.com/law-makers/plexport/internal/retry"
	"github.com/rs/zerolog/log"
)

// GridSelector matches the playlist grid (and any other grid on the page)
const GridSelector = `div[role="grid"]`

// PageOptions configures how a playlist page is opened
type PageOptions struct {
	// GridWait bounds the wait for the first grid to become visible
	GridWait time.Duration
	// NavigateTries is the number of navigation attempts
	NavigateTries int
	// Cookies are injected before navigation
	Cookies []*network.CookieParam
	// MinGridWidth and LibraryLabel steer grid discovery
	MinGridWidth int
	LibraryLabel string
}

// Page is a scroll.Viewport backed by a live Chrome tab. Every ctx passed to
// its methods must derive from the browser's context.
type Page struct {
	opts      helperOptions
	installed bool
}

var _ scroll.Viewport = (*Page)(nil)

// NewPage returns a Page that discovers grids with the given options
func NewPage(minGridWidth int, libraryLabel string) *Page {
	return &Page{opts: helperOptions{MinWidth: minGridWidth, LibraryLabel: libraryLabel}}
}

// Open navigates the tab behind ctx to url and waits for a grid to render.
// A grid that never appears is not an error here; Locate reports it.
func Open(ctx context.Context, url string, opts PageOptions) (*Page, error) {
	start := time.Now()

	setup := []chromedp.Action{network.Enable()}
	if len(opts.Cookies) > 0 {
		setup = append(setup, network.SetCookies(opts.Cookies))
	}
	if err := chromedp.Run(ctx, setup...); err != nil {
		return nil, fmt.Errorf("failed to prepare tab: %w", err)
	}

	retryCfg := retry.DefaultConfig()
	if opts.NavigateTries > 0 {
		retryCfg.MaxAttempts = opts.NavigateTries
	}
	err := retry.WithRetry(ctx, retryCfg, func() error {
		err := chromedp.Run(ctx, chromedp.Navigate(url))
		if err != nil && permanentNavError(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	if opts.GridWait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, opts.GridWait)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible(GridSelector, chromedp.ByQuery))
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Dur("waited", opts.GridWait).Msg("No grid became visible")
		}
	}

	log.Debug().
		Str("url", url).
		Int("cookies", len(opts.Cookies)).
		Dur("elapsed", time.Since(start)).
		Msg("Page opened")

	return NewPage(opts.MinGridWidth, opts.LibraryLabel), nil
}

// permanentNavError reports navigation failures that another attempt cannot fix
func permanentNavError(err error) bool {
	msg := err.Error()
	for _, code := range []string{"ERR_NAME_NOT_RESOLVED", "ERR_INVALID_URL", "ERR_ABORTED"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

// install injects the helper script once per Page
func (p *Page) install(ctx context.Context) error {
	if p.installed {
		return nil
	}
	expr, err := installExpression(p.opts)
	if err != nil {
		return err
	}
	var fresh bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &fresh)); err != nil {
		return fmt.Errorf("failed to install page helpers: %w", err)
	}
	p.installed = true
	log.Debug().Bool("fresh", fresh).Msg("Page helpers installed")
	return nil
}

func (p *Page) eval(ctx context.Context, expr string, res interface{}) error {
	if err := p.install(ctx); err != nil {
		return err
	}
	return chromedp.Run(ctx, chromedp.Evaluate(expr, res))
}

// Locate discovers the scroll target
func (p *Page) Locate(ctx context.Context) (string, error) {
	var target string
	if err := p.eval(ctx, locateExpression, &target); err != nil {
		return "", err
	}
	if target == "" {
		return "", scroll.ErrGridNotFound
	}
	return target, nil
}

// Metrics reads the scroll target's geometry
func (p *Page) Metrics(ctx context.Context) (scroll.Metrics, error) {
	var m *scroll.Metrics
	if err := p.eval(ctx, metricsExpression, &m); err != nil {
		return scroll.Metrics{}, err
	}
	if m == nil {
		return scroll.Metrics{}, scroll.ErrGridNotFound
	}
	return *m, nil
}

// ScrollTo sets the scroll target's offset
func (p *Page) ScrollTo(ctx context.Context, top float64) error {
	var ok bool
	if err := p.eval(ctx, scrollExpression(top), &ok); err != nil {
		return err
	}
	if !ok {
		return scroll.ErrGridNotFound
	}
	return nil
}

// Rows returns the outer HTML of the rendered rows
func (p *Page) Rows(ctx context.Context) (string, error) {
	var html string
	if err := p.eval(ctx, rowsExpression, &html); err != nil {
		return "", err
	}
	return html, nil
}

// Alert shows message in the page. The dialog is opened asynchronously so
// the call never blocks on the user dismissing it.
func (p *Page) Alert(ctx context.Context, message string) {
	if err := p.eval(ctx, alertExpression(message), nil); err != nil {
		log.Debug().Err(err).Msg("Failed to show in-page alert")
	}
}
