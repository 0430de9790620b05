// Package camera wraps the video source the paintbrush reads frames from.
// A source is either a local capture device or a video file / stream URL.
package camera

import (
	"strconv"
)

// Config holds the camera parameters applied when the source is opened.
type Config struct {
	// Device is a capture device index ("0", "-1" for any) or a file/URL.
	Device string `json:"device"`

	// === Resolution ===
	Width     int `json:"width"`     // Requested frame width in pixels
	Height    int `json:"height"`    // Requested frame height in pixels
	Framerate int `json:"framerate"` // Requested FPS, 0 leaves the driver default

	// BufferSize is the driver-side frame queue. 1 keeps reads close to live.
	BufferSize int `json:"buffer_size"`
}

// Limits accepted by Validate.
const (
	MinWidth  = 160
	MinHeight = 120
	MaxWidth  = 4096
	MaxHeight = 2160
	MaxFPS    = 240
)

// DefaultConfig returns the full-HD configuration the paintbrush was tuned on.
func DefaultConfig() Config {
	return Config{
		Device:     "-1",
		Width:      1920,
		Height:     1080,
		Framerate:  0,
		BufferSize: 1,
	}
}

// LegacyConfig returns a 640x480 configuration for older webcams.
func LegacyConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 640
	cfg.Height = 480
	return cfg
}

// IsDeviceIndex reports whether Device names a capture index rather than a path.
func (c Config) IsDeviceIndex() bool {
	_, err := strconv.Atoi(c.Device)
	return err == nil
}

// DeviceIndex returns the numeric device, or -1 when Device is a path.
func (c Config) DeviceIndex() int {
	n, err := strconv.Atoi(c.Device)
	if err != nil {
		return -1
	}
	return n
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device == "" {
		errors = append(errors, "device must not be empty")
	}
	if c.Width < MinWidth || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 4096")
	}
	if c.Height < MinHeight || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 0 || c.Framerate > MaxFPS {
		errors = append(errors, "framerate must be 0 (driver default) or between 1 and 240")
	}
	if c.BufferSize < 0 {
		errors = append(errors, "buffer_size must not be negative")
	}

	return errors
}
