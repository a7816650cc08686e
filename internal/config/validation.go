package config

import "fmt"

func validate(c *Config) error {
	if c.PageTimeout <= 0 {
		return fmt.Errorf("page timeout must be > 0")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be > 0")
	}
	if c.MaxPolls <= 0 || c.MaxPolls > DefaultMaxPollsLimit {
		return fmt.Errorf("max polls must be between 1 and %d", DefaultMaxPollsLimit)
	}
	if c.ScrollOverlap < 0 {
		return fmt.Errorf("scroll overlap must be >= 0")
	}
	if c.BottomStagnation <= 0 {
		return fmt.Errorf("bottom stagnation threshold must be > 0")
	}
	if c.StallCap < c.BottomStagnation {
		return fmt.Errorf("stall cap (%d) must be >= bottom stagnation threshold (%d)", c.StallCap, c.BottomStagnation)
	}
	if c.TrackBaseURL == "" {
		return fmt.Errorf("track base URL is required")
	}
	return nil
}
