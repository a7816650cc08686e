// Package engine drives the scroll-extract-converge loop over a playlist grid.
//
// A run positions the scroll container at the top, then repeats
// extract → scroll → wait until the bottom has been reached without progress
// or until progress has stalled, and finally hands the collected records to
// a Sink ordered by row index.
package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/law-makers/plexport/internal/engine/extract"
	"github.com/law-makers/plexport/internal/engine/scroll"
	"github.com/law-makers/plexport/internal/runctx"
	"github.com/law-makers/plexport/pkg/models"
	"github.com/rs/zerolog/log"
)

// Termination thresholds. Both are empirical; override them through Policy.
const (
	// DefaultBottomStagnation is the number of non-progressing cycles at the
	// bottom of the container that ends a run
	DefaultBottomStagnation = 2
	// DefaultStallCap ends a run once stagnation exceeds it, wherever the
	// container reports its scroll position to be
	DefaultStallCap = 5
	// DefaultSettleDelay is the pause after scrolling back to the top
	DefaultSettleDelay = time.Second
)

// AlertMessage is shown when no playlist grid can be found
const AlertMessage = "Could not find the playlist. Please refresh and try again."

// ActionStart is the only action a Command may carry
const ActionStart = "start"

// Command triggers a run
type Command struct {
	Action string
	Config models.RunConfiguration
}

// Reason explains why a run finished
type Reason string

const (
	ReasonBottom  Reason = "bottom"
	ReasonStalled Reason = "stalled"
)

// Policy holds the loop's timing and termination constants
type Policy struct {
	SettleDelay      time.Duration
	BottomStagnation int
	StallCap         int
}

// DefaultPolicy returns the stock termination policy
func DefaultPolicy() Policy {
	return Policy{
		SettleDelay:      DefaultSettleDelay,
		BottomStagnation: DefaultBottomStagnation,
		StallCap:         DefaultStallCap,
	}
}

// Sink receives the finished, index-ordered record set
type Sink interface {
	Export(ctx context.Context, records []models.TrackRecord, cfg models.RunConfiguration) error
}

// Alerter surfaces the single fatal condition of a run to the user
type Alerter interface {
	Alert(ctx context.Context, message string)
}

// Progress is reported after every extraction
type Progress struct {
	Cycle      int
	HighWater  int
	Collected  int
	Stagnation int
	State      State
}

// Result summarizes a finished run
type Result struct {
	Records   []models.TrackRecord
	Cycles    int
	HighWater int
	Reason    Reason
	Elapsed   time.Duration
}

// Controller orchestrates one run over a located scroll container
type Controller struct {
	driver   *scroll.Driver
	parser   *extract.Parser
	policy   Policy
	sink     Sink
	alerter  Alerter
	observer func(Progress)
	started  atomic.Bool
}

// Option configures a Controller
type Option func(*Controller)

// WithPolicy overrides the termination policy
func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithAlerter sets the alert surface for discovery failure
func WithAlerter(a Alerter) Option {
	return func(c *Controller) { c.alerter = a }
}

// WithObserver registers a progress callback
func WithObserver(fn func(Progress)) Option {
	return func(c *Controller) { c.observer = fn }
}

// New creates a Controller
func New(driver *scroll.Driver, parser *extract.Parser, sink Sink, opts ...Option) *Controller {
	c := &Controller{
		driver: driver,
		parser: parser,
		policy: DefaultPolicy(),
		sink:   sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle executes a start command. A controller runs at most once; later
// commands return ErrAlreadyStarted without touching the page.
func (c *Controller) Handle(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Action != ActionStart {
		return nil, NewEngineError(ErrCodeInvalidInput, "unsupported action "+cmd.Action, ErrUnknownAction)
	}
	if !c.started.CompareAndSwap(false, true) {
		log.Debug().Msg("Start command ignored, run already started")
		return nil, ErrAlreadyStarted
	}
	return c.Run(ctx, cmd.Config)
}

// Run executes the loop and exports the result. Discovery failure raises one
// alert and returns without exporting.
func (c *Controller) Run(ctx context.Context, cfg models.RunConfiguration) (*Result, error) {
	start := time.Now()
	logger := log.With().Str("run_id", runctx.ID(ctx)).Logger()

	// Positioning
	target, err := c.driver.Locate(ctx)
	if err != nil {
		if errors.Is(err, scroll.ErrGridNotFound) {
			if c.alerter != nil {
				c.alerter.Alert(ctx, AlertMessage)
			}
			return nil, NewEngineError(ErrCodeNotFound, "no scrollable playlist grid", err).
				WithDetail("url", runctx.Get(ctx).PageURL)
		}
		return nil, c.wrap(ctx, "failed to locate scroll target", err)
	}
	logger.Info().Str("target", target).Msg("Starting scroll")

	if err := c.driver.Reset(ctx); err != nil {
		return nil, c.wrap(ctx, "failed to position scroll target", err)
	}
	c.report(Progress{State: StatePositioning})
	if err := sleep(ctx, c.policy.SettleDelay); err != nil {
		return nil, c.wrap(ctx, "interrupted while settling", err)
	}

	state := newRunState()
	cycles := 0
	var reason Reason

	for reason == "" {
		cycles++

		// Extracting
		batch := extract.Batch{MaxIndex: -1}
		doc, err := c.driver.Snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, c.wrap(ctx, "interrupted while extracting", ctx.Err())
			}
			logger.Warn().Err(err).Int("cycle", cycles).Msg("Row snapshot failed, counting cycle as stagnant")
		} else {
			batch = c.parser.ParseDocument(doc, cfg, state.Known)
		}

		if state.Merge(batch) {
			logger.Debug().Int("high_water", state.HighWater).Int("collected", state.Len()).Msg("Scraped up to new index")
		}
		c.report(c.progress(cycles, state, StateExtracting))

		// Scrolling
		c.report(c.progress(cycles, state, StateScrolling))
		if _, err := c.driver.Advance(ctx); err != nil {
			if !c.targetLost(ctx, err) {
				return nil, c.wrap(ctx, "failed to scroll", err)
			}
			logger.Warn().Err(err).Int("cycle", cycles).Msg("Scroll target lost, counting cycle as stagnant")
			reason = c.terminate(false, state.Stagnation)
			continue
		}

		// Waiting
		c.report(c.progress(cycles, state, StateWaiting))
		if _, err := c.driver.WaitForNew(ctx, state.HighWater); err != nil {
			return nil, c.wrap(ctx, "interrupted while waiting for rows", err)
		}

		atBottom, err := c.driver.AtBottom(ctx)
		if err != nil {
			if !c.targetLost(ctx, err) {
				return nil, c.wrap(ctx, "failed to read scroll position", err)
			}
			logger.Warn().Err(err).Int("cycle", cycles).Msg("Scroll target lost, counting cycle as stagnant")
			atBottom = false
		}
		reason = c.terminate(atBottom, state.Stagnation)
	}

	records := state.Sorted()
	result := &Result{
		Records:   records,
		Cycles:    cycles,
		HighWater: state.HighWater,
		Reason:    reason,
		Elapsed:   time.Since(start),
	}
	c.report(c.progress(cycles, state, StateDone))

	logger.Info().
		Str("reason", string(reason)).
		Int("cycles", cycles).
		Int("high_water", state.HighWater).
		Int("records", len(records)).
		Dur("elapsed", result.Elapsed).
		Msg("Scroll converged")

	if c.sink != nil {
		if err := c.sink.Export(ctx, records, cfg); err != nil {
			return result, NewEngineError(ErrCodeExport, "failed to export records", errors.Join(ErrExportFailed, err)).
				WithDetail("records", len(records))
		}
	}
	return result, nil
}

// terminate applies the termination policy after a scroll+wait cycle
func (c *Controller) terminate(atBottom bool, stagnation int) Reason {
	if atBottom && stagnation >= c.policy.BottomStagnation {
		return ReasonBottom
	}
	if stagnation > c.policy.StallCap {
		return ReasonStalled
	}
	return ""
}

// targetLost reports a grid that disappeared after discovery succeeded. Only
// discovery itself is fatal; later losses are non-progress cycles.
func (c *Controller) targetLost(ctx context.Context, err error) bool {
	return ctx.Err() == nil && errors.Is(err, scroll.ErrGridNotFound)
}

func (c *Controller) progress(cycle int, state *RunState, st State) Progress {
	return Progress{
		Cycle:      cycle,
		HighWater:  state.HighWater,
		Collected:  state.Len(),
		Stagnation: state.Stagnation,
		State:      st,
	}
}

func (c *Controller) report(p Progress) {
	if c.observer != nil {
		c.observer(p)
	}
}

func (c *Controller) wrap(ctx context.Context, msg string, err error) error {
	if ctx.Err() != nil {
		return NewEngineError(ErrCodeCancelled, msg, err)
	}
	return NewEngineError(ErrCodeBrowser, msg, err)
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
