package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/law-makers/plexport/internal/engine"
	"github.com/schollz/progressbar/v3"
)

// Progress renders the controller's advisory progress as an open-ended
// spinner bar. The row count is unknown up front so the bar has no total.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress reporter writing to w. A disabled reporter
// drops every update.
func NewProgress(w io.Writer, enabled bool) *Progress {
	if !enabled {
		return &Progress{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Scrolling playlist"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("tracks"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &Progress{bar: bar}
}

// Observe is an engine observer
func (p *Progress) Observe(ev engine.Progress) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(describe(ev))
	_ = p.bar.Set(ev.Collected)
}

// Finish clears the bar
func (p *Progress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

func describe(ev engine.Progress) string {
	switch ev.State {
	case engine.StatePositioning:
		return "Positioning grid"
	case engine.StateDone:
		return fmt.Sprintf("Done after %d cycles, up to #%d", ev.Cycle, ev.HighWater)
	}
	if ev.Stagnation > 0 {
		return fmt.Sprintf("Scraped up to #%d (waiting %d)", ev.HighWater, ev.Stagnation)
	}
	return fmt.Sprintf("Scraped up to #%d", ev.HighWater)
}
