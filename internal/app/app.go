// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/law-makers/plexport/internal/auth"
	"github.com/law-makers/plexport/internal/config"
	"github.com/law-makers/plexport/internal/engine"
	"github.com/law-makers/plexport/internal/engine/dynamic"
	"github.com/law-makers/plexport/internal/engine/extract"
	"github.com/law-makers/plexport/internal/engine/scroll"
	"github.com/law-makers/plexport/internal/settings"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation. The browser is started lazily
// so commands that never open a page (settings, sessions) stay cheap.
// Use Close() to ensure the browser is shut down.
type Application struct {
	Config    *config.Config
	Logger    *zerolog.Logger
	Settings  *settings.Store
	browser   *dynamic.Browser
	browserMu sync.Mutex
	sessions  *auth.Store
	startTime time.Time
}

// New creates and initializes a new Application.
//
// It configures logging from cfg and resolves the settings file location.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := ConfigureLogging(cfg, os.Stderr)

	store, err := settings.DefaultStore()
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("settings", store.Path()).
		Msg("Application initialized")

	return &Application{
		Config:    cfg,
		Logger:    &logger,
		Settings:  store,
		startTime: time.Now(),
	}, nil
}

// ConfigureLogging sets the global zerolog level and writer from cfg and
// returns the resulting logger. Info is hidden unless -v is given; the
// progress bar covers normal runs.
func ConfigureLogging(cfg *config.Config, w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var logWriter io.Writer = w
	if !cfg.JSONLog {
		logWriter = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	return log.Logger
}

// Sessions returns the session store, probing the keyring on first use
func (a *Application) Sessions() (*auth.Store, error) {
	if a.sessions != nil {
		return a.sessions, nil
	}
	store, err := auth.NewStore()
	if err != nil {
		return nil, err
	}
	a.Logger.Debug().Str("backend", store.Backend()).Msg("Session store ready")
	a.sessions = store
	return store, nil
}

// EnsureBrowser lazily starts the browser. The browser lives until Close or
// until ctx is cancelled.
func (a *Application) EnsureBrowser(ctx context.Context) (*dynamic.Browser, error) {
	a.browserMu.Lock()
	defer a.browserMu.Unlock()

	if a.browser != nil {
		return a.browser, nil
	}

	a.Logger.Debug().Msg("Starting browser on demand")
	browser, err := dynamic.NewBrowser(ctx, dynamic.OptionsFromConfig(a.Config))
	if err != nil {
		return nil, err
	}
	a.browser = browser
	return browser, nil
}

// NewController wires a controller over vp using the configured scroll and
// termination tuning. pageURL resolves relative cover image sources.
func (a *Application) NewController(pageURL string, vp scroll.Viewport, sink engine.Sink, opts ...engine.Option) *engine.Controller {
	return NewController(a.Config, pageURL, vp, sink, opts...)
}

// NewController wires a controller from cfg without an Application
func NewController(cfg *config.Config, pageURL string, vp scroll.Viewport, sink engine.Sink, opts ...engine.Option) *engine.Controller {
	driver := scroll.NewDriver(vp, scroll.Options{
		Overlap:         cfg.ScrollOverlap,
		PollInterval:    cfg.PollInterval,
		MaxPolls:        cfg.MaxPolls,
		BottomTolerance: cfg.BottomTolerance,
	})
	parser := extract.NewParser(extract.Options{TrackBaseURL: cfg.TrackBaseURL, PageURL: pageURL})
	policy := engine.Policy{
		SettleDelay:      cfg.SettleDelay,
		BottomStagnation: cfg.BottomStagnation,
		StallCap:         cfg.StallCap,
	}
	return engine.New(driver, parser, sink, append([]engine.Option{engine.WithPolicy(policy)}, opts...)...)
}

// Close gracefully shuts down the application and all its resources.
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.browserMu.Lock()
	defer a.browserMu.Unlock()

	if a.browser != nil {
		if err := a.browser.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser")
		}
		a.browser = nil
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
