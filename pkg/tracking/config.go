package tracking

import (
	"fmt"
	"time"
)

// Config holds all tunable parameters for the tracking loop
type Config struct {
	// Timing
	FrameWait  time.Duration // Sleep when no frame has been captured yet
	KeyTimeout time.Duration // Key poll per rendered frame

	// Perception
	LostAfter int // Consecutive misses before the brush counts as lost

	// Logging
	StatsInterval time.Duration // Debug stats period (0 = off)
}

// DefaultConfig returns the recommended configuration
func DefaultConfig() Config {
	return Config{
		FrameWait:  10 * time.Millisecond,
		KeyTimeout: 5 * time.Millisecond,

		LostAfter: 30, // ~1s at 30fps

		StatsInterval: 5 * time.Second,
	}
}

// ResponsiveConfig trades CPU for lower key and frame latency
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameWait = 2 * time.Millisecond
	cfg.KeyTimeout = time.Millisecond
	return cfg
}

// QuietConfig disables periodic stats and lost-brush logging
func QuietConfig() Config {
	cfg := DefaultConfig()
	cfg.LostAfter = 0
	cfg.StatsInterval = 0
	return cfg
}

// Validate checks timing values
func (c Config) Validate() []string {
	var errs []string
	if c.FrameWait <= 0 {
		errs = append(errs, fmt.Sprintf("frame wait must be positive, got %v", c.FrameWait))
	}
	if c.KeyTimeout < time.Millisecond {
		errs = append(errs, fmt.Sprintf("key timeout must be at least 1ms, got %v", c.KeyTimeout))
	}
	if c.LostAfter < 0 {
		errs = append(errs, fmt.Sprintf("lost-after must not be negative, got %d", c.LostAfter))
	}
	if c.StatsInterval < 0 {
		errs = append(errs, fmt.Sprintf("stats interval must not be negative, got %v", c.StatsInterval))
	}
	return errs
}
