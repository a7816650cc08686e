package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Browser
	PageTimeout   time.Duration
	GridWaitTime  time.Duration
	UserAgent     string
	Proxy         string
	Headless      bool
	ChromePath    string
	NavigateTries int

	// Scroll loop
	SettleDelay      time.Duration
	PollInterval     time.Duration
	MaxPolls         int
	ScrollOverlap    float64
	BottomTolerance  float64
	BottomStagnation int
	StallCap         int
	MinGridWidth     int
	LibraryGridLabel string

	// Export
	TrackBaseURL string
	OutputFile   string
}

// Load builds a Config by combining defaults, environment variables, and CLI flags.
// Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:         DefaultLogLevel,
		JSONLog:          DefaultJSONLog,
		PageTimeout:      DefaultPageTimeout,
		GridWaitTime:     DefaultGridWaitTime,
		UserAgent:        DefaultUserAgent,
		Headless:         DefaultHeadless,
		NavigateTries:    DefaultNavigateTries,
		SettleDelay:      DefaultSettleDelay,
		PollInterval:     DefaultPollInterval,
		MaxPolls:         DefaultMaxPolls,
		ScrollOverlap:    DefaultScrollOverlap,
		BottomTolerance:  DefaultBottomTolerance,
		BottomStagnation: DefaultBottomStagnation,
		StallCap:         DefaultStallCap,
		MinGridWidth:     DefaultMinGridWidth,
		LibraryGridLabel: DefaultLibraryGridLabel,
		TrackBaseURL:     DefaultTrackBaseURL,
		OutputFile:       DefaultOutputFile,
	}

	// Override from environment variables
	if v := os.Getenv("PLEXPORT_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("PLEXPORT_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PLEXPORT_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("PLEXPORT_OUTPUT"); v != "" {
		cfg.OutputFile = v
	}
	if v := os.Getenv("PLEXPORT_TRACK_BASE_URL"); v != "" {
		cfg.TrackBaseURL = v
	}
	if v := os.Getenv("PLEXPORT_STALL_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.StallCap = n
		}
	}
	if v := os.Getenv("PLEXPORT_BOTTOM_STAGNATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BottomStagnation = n
		}
	}

	// Read CLI flags if provided
	if cmd != nil {
		if f := lookupFlag(cmd, "user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := lookupFlag(cmd, "proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if f := lookupFlag(cmd, "chrome-path"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.ChromePath = s
			}
		}
		if f := lookupFlag(cmd, "timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.PageTimeout = d
				}
			}
		}
		if f := lookupFlag(cmd, "poll-interval"); f != nil && f.Changed {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.PollInterval = d
			}
		}
		if f := lookupFlag(cmd, "stall-cap"); f != nil && f.Changed {
			if n, err := strconv.Atoi(f.Value.String()); err == nil {
				cfg.StallCap = n
			}
		}
		if f := lookupFlag(cmd, "headless"); f != nil {
			cfg.Headless = f.Value.String() != "false"
		}
		if f := lookupFlag(cmd, "json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := lookupFlag(cmd, "quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
		if f := lookupFlag(cmd, "verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// lookupFlag finds a flag on the command, falling back to its persistent set
// before cobra has merged the two (e.g. when Load runs outside Execute).
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.PersistentFlags().Lookup(name)
}
