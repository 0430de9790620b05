// Package paint wires the paintbrush together: camera, calibration, the
// capture and tracking loops, and the window.
package paint

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-paintbrush/internal/config"
	"github.com/teslashibe/go-paintbrush/pkg/calibration"
	"github.com/teslashibe/go-paintbrush/pkg/camera"
	"github.com/teslashibe/go-paintbrush/pkg/capture"
	"github.com/teslashibe/go-paintbrush/pkg/tracking"
	"github.com/teslashibe/go-paintbrush/pkg/tracking/detection"
)

// DefaultWindowName is the title of the preview window.
const DefaultWindowName = "paint"

// Config holds all configuration for the paintbrush application.
// Flag parsing is done in cmd/paint/main.go; this struct is data only.
type Config struct {
	// Debug enables debug-level logging regardless of LogLevel.
	Debug bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// WindowName is the preview window title.
	WindowName string

	// Component configuration.
	Camera      camera.Config
	Detection   detection.Config
	Calibration calibration.Config
	Capture     capture.Config
	Tracking    tracking.Config
}

// DefaultConfig returns sensible defaults for the paintbrush.
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		WindowName:  DefaultWindowName,
		Camera:      camera.DefaultConfig(),
		Detection:   detection.DefaultConfig(),
		Calibration: calibration.DefaultConfig(),
		Capture:     capture.DefaultConfig(),
		Tracking:    tracking.DefaultConfig(),
	}
}

// LoadEnvConfig applies environment overrides.
// Call it before applying explicitly set flags.
func (c *Config) LoadEnvConfig() {
	c.Camera.Device = config.Device(c.Camera.Device)
	c.Camera.Width = config.Int(config.EnvWidth, c.Camera.Width)
	c.Camera.Height = config.Int(config.EnvHeight, c.Camera.Height)
	c.LogLevel = config.LogLevel(c.LogLevel)
}

// EffectiveLogLevel returns the level the logger should run at.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if errs := c.Camera.Validate(); len(errs) > 0 {
		return &ConfigError{Field: "Camera", Message: strings.Join(errs, "; ")}
	}
	if c.Detection.MinRadius < 0 || c.Detection.MaxRadius <= c.Detection.MinRadius {
		return &ConfigError{Field: "Detection", Message: fmt.Sprintf(
			"radius gate must satisfy 0 <= min < max, got (%v, %v)", c.Detection.MinRadius, c.Detection.MaxRadius)}
	}
	if c.Detection.KernelSize < 1 {
		return &ConfigError{Field: "Detection.KernelSize", Message: fmt.Sprintf(
			"kernel size must be positive, got %d", c.Detection.KernelSize)}
	}
	if c.Calibration.PatchHalfSize < 1 {
		return &ConfigError{Field: "Calibration.PatchHalfSize", Message: fmt.Sprintf(
			"patch half-size must be positive, got %d", c.Calibration.PatchHalfSize)}
	}
	if c.Calibration.Sigma <= 0 {
		return &ConfigError{Field: "Calibration.Sigma", Message: fmt.Sprintf(
			"sigma must be positive, got %v", c.Calibration.Sigma)}
	}
	if c.Capture.MaxReadFailures < 0 {
		return &ConfigError{Field: "Capture.MaxReadFailures", Message: fmt.Sprintf(
			"max read failures must not be negative (0 disables), got %d", c.Capture.MaxReadFailures)}
	}
	if errs := c.Tracking.Validate(); len(errs) > 0 {
		return &ConfigError{Field: "Tracking", Message: strings.Join(errs, "; ")}
	}
	if strings.TrimSpace(c.WindowName) == "" {
		return &ConfigError{Field: "WindowName", Message: "window name is required"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
