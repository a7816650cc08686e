package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel      = "info"
	DefaultJSONLog       = false
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	DefaultPageTimeout   = 60 * time.Second
	DefaultHeadless      = true
	DefaultGridWaitTime  = 20 * time.Second
	DefaultTrackBaseURL  = "https://open.spotify.com"
	DefaultOutputFile    = "spotify_playlist.csv"
	DefaultNavigateTries = 3

	// Scroll loop tuning. The stagnation thresholds are empirical.
	DefaultSettleDelay      = 1 * time.Second
	DefaultPollInterval     = 200 * time.Millisecond
	DefaultMaxPolls         = 10
	DefaultMaxPollsLimit    = 100
	DefaultScrollOverlap    = 150
	DefaultBottomTolerance  = 50
	DefaultBottomStagnation = 2
	DefaultStallCap         = 5
	DefaultMinGridWidth     = 400
	DefaultLibraryGridLabel = "Your Library"
)
