package paint

import (
	"errors"
	"testing"

	"github.com/teslashibe/go-paintbrush/internal/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig should validate: %v", err)
	}
	if cfg.WindowName != DefaultWindowName {
		t.Errorf("WindowName: got %q", cfg.WindowName)
	}
	if cfg.Capture.MaxReadFailures != 300 {
		t.Errorf("MaxReadFailures: got %d, want 300", cfg.Capture.MaxReadFailures)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"tiny frame", func(c *Config) { c.Camera.Width = 10 }, "Camera"},
		{"inverted radius gate", func(c *Config) { c.Detection.MinRadius, c.Detection.MaxRadius = 50, 20 }, "Detection"},
		{"zero kernel", func(c *Config) { c.Detection.KernelSize = 0 }, "Detection.KernelSize"},
		{"zero patch", func(c *Config) { c.Calibration.PatchHalfSize = 0 }, "Calibration.PatchHalfSize"},
		{"zero sigma", func(c *Config) { c.Calibration.Sigma = 0 }, "Calibration.Sigma"},
		{"negative read failures", func(c *Config) { c.Capture.MaxReadFailures = -1 }, "Capture.MaxReadFailures"},
		{"zero frame wait", func(c *Config) { c.Tracking.FrameWait = 0 }, "Tracking"},
		{"blank window", func(c *Config) { c.WindowName = "  " }, "WindowName"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cerr.Field != tc.field {
				t.Errorf("Field: got %q, want %q", cerr.Field, tc.field)
			}
		})
	}
}

func TestConfig_ReadFailuresDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capture.MaxReadFailures = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("0 should disable the threshold, got %v", err)
	}
}

func TestConfig_LoadEnvConfig(t *testing.T) {
	t.Setenv(config.EnvDevice, "clip.mp4")
	t.Setenv(config.EnvWidth, "640")
	t.Setenv(config.EnvHeight, "480")
	t.Setenv(config.EnvLogLevel, "warn")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()

	if cfg.Camera.Device != "clip.mp4" || cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("camera: got %+v", cfg.Camera)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
}

func TestConfig_LoadEnvConfigKeepsDefaults(t *testing.T) {
	t.Setenv(config.EnvWidth, "wide")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()

	if cfg.Camera.Width != DefaultConfig().Camera.Width {
		t.Errorf("unparsable width should keep the default, got %d", cfg.Camera.Width)
	}
}

func TestConfig_EffectiveLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.EffectiveLogLevel(); got != "info" {
		t.Errorf("got %q, want info", got)
	}
	cfg.Debug = true
	if got := cfg.EffectiveLogLevel(); got != "debug" {
		t.Errorf("got %q, want debug", got)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowName = ""

	_, err := New(cfg)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}
