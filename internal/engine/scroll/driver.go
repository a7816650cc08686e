// Package scroll moves the playlist's scroll container and waits for the
// virtualized grid to render new rows.
package scroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/plexport/internal/engine/extract"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrGridNotFound is returned by Locate when the page has no grid to scroll
var ErrGridNotFound = errors.New("playlist grid not found")

// Metrics describes the scroll target's geometry in CSS pixels
type Metrics struct {
	ScrollTop    float64 `json:"scrollTop"`
	ClientHeight float64 `json:"clientHeight"`
	ScrollHeight float64 `json:"scrollHeight"`
}

// MaxScrollTop is the largest reachable scroll offset
func (m Metrics) MaxScrollTop() float64 {
	if m.ScrollHeight <= m.ClientHeight {
		return 0
	}
	return m.ScrollHeight - m.ClientHeight
}

// Viewport is the page surface the driver operates on
type Viewport interface {
	// Locate discovers the scroll target. It returns ErrGridNotFound when
	// the page has no grid and a short description of the target otherwise.
	Locate(ctx context.Context) (string, error)
	// Metrics reads the scroll target's current geometry
	Metrics(ctx context.Context) (Metrics, error)
	// ScrollTo sets the scroll target's vertical offset
	ScrollTo(ctx context.Context, top float64) error
	// Rows returns the outer HTML of every currently rendered grid row
	Rows(ctx context.Context) (string, error)
}

// Options configures a Driver
type Options struct {
	// Overlap is subtracted from the visible height on each step so rows on
	// the boundary are rendered in two consecutive snapshots
	Overlap float64
	// PollInterval is the pause before each check for new rows
	PollInterval time.Duration
	// MaxPolls bounds the wait after a scroll step
	MaxPolls int
	// BottomTolerance is how close to the maximum offset counts as the bottom
	BottomTolerance float64
}

// Driver owns the scroll position of one located container
type Driver struct {
	vp   Viewport
	opts Options
}

// NewDriver creates a Driver over the given viewport
func NewDriver(vp Viewport, opts Options) *Driver {
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Millisecond
	}
	return &Driver{vp: vp, opts: opts}
}

// Locate discovers the scroll target
func (d *Driver) Locate(ctx context.Context) (string, error) {
	target, err := d.vp.Locate(ctx)
	if err != nil {
		return "", err
	}
	log.Debug().Str("target", target).Msg("Scroll target located")
	return target, nil
}

// Reset scrolls back to the top
func (d *Driver) Reset(ctx context.Context) error {
	if err := d.vp.ScrollTo(ctx, 0); err != nil {
		return fmt.Errorf("failed to reset scroll position: %w", err)
	}
	return nil
}

// Advance moves the scroll target down by one step and returns the geometry
// it read before moving
func (d *Driver) Advance(ctx context.Context) (Metrics, error) {
	m, err := d.vp.Metrics(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to read scroll metrics: %w", err)
	}

	step := m.ClientHeight - d.opts.Overlap
	if step < 1 {
		step = 1
	}
	if err := d.vp.ScrollTo(ctx, m.ScrollTop+step); err != nil {
		return m, fmt.Errorf("failed to scroll: %w", err)
	}
	return m, nil
}

// AtBottom reports whether the scroll target is within tolerance of its end
func (d *Driver) AtBottom(ctx context.Context) (bool, error) {
	m, err := d.vp.Metrics(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read scroll metrics: %w", err)
	}
	return m.ScrollTop+m.ClientHeight >= m.ScrollHeight-d.opts.BottomTolerance, nil
}

// Snapshot parses the currently rendered rows
func (d *Driver) Snapshot(ctx context.Context) (*goquery.Document, error) {
	html, err := d.vp.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return extract.ParseSnapshot(html)
}

// poll is the state of one bounded wait
type poll struct {
	remaining int
	limiter   *rate.Limiter
}

// WaitForNew polls until a rendered row reports an index above highWater or
// the poll budget is spent. It reports whether new rows appeared. A failed
// snapshot counts as a poll without new rows.
func (d *Driver) WaitForNew(ctx context.Context, highWater int) (bool, error) {
	p := poll{
		remaining: d.opts.MaxPolls,
		limiter:   rate.NewLimiter(rate.Every(d.opts.PollInterval), 1),
	}
	// Drain the initial token so the first check happens one interval after the scroll.
	p.limiter.Allow()

	for p.remaining > 0 {
		p.remaining--
		if err := p.limiter.Wait(ctx); err != nil {
			return false, err
		}

		doc, err := d.Snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			log.Debug().Err(err).Int("remaining", p.remaining).Msg("Row snapshot failed while waiting")
			continue
		}
		if extract.MaxIndex(doc.Find(extract.RowSelector)) > highWater {
			log.Debug().Int("polls_used", d.opts.MaxPolls-p.remaining).Msg("New rows rendered")
			return true, nil
		}
	}
	return false, nil
}
