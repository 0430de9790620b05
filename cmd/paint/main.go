// Paint - color-tracking virtual paintbrush
//
// Calibrates on a colored object held in front of the camera, then draws a
// trail wherever the object moves.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/teslashibe/go-paintbrush/internal/log"
	"github.com/teslashibe/go-paintbrush/pkg/calibration"
	"github.com/teslashibe/go-paintbrush/pkg/camera"
	"github.com/teslashibe/go-paintbrush/pkg/paint"
	"github.com/teslashibe/go-paintbrush/pkg/session"
)

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.EffectiveLogLevel())
	printHelp()

	app, err := paint.New(cfg)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := app.Init(); err != nil {
		app.Shutdown()
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = app.Run(ctx)
	cancel()
	app.Shutdown()

	if err != nil {
		if errors.Is(err, calibration.ErrNoSamples) || errors.Is(err, calibration.ErrCancelled) {
			log.Warn("calibration aborted", "error", err)
		} else {
			log.Error("runtime error", "error", err)
		}
		os.Exit(1)
	}
}

// parseFlags builds the configuration: defaults, then environment, then
// any flag given explicitly on the command line.
func parseFlags() (paint.Config, error) {
	cfg := paint.DefaultConfig()

	device := flag.String("device", cfg.Camera.Device, "Camera index or video file/URL (PAINT_DEVICE)")
	width := flag.Int("width", cfg.Camera.Width, "Capture width (PAINT_WIDTH)")
	height := flag.Int("height", cfg.Camera.Height, "Capture height (PAINT_HEIGHT)")
	preset := flag.String("preset", "", "Camera preset: "+strings.Join(camera.PresetNames(), ", "))
	minRadius := flag.Float64("min-radius", cfg.Detection.MinRadius, "Smallest accepted brush radius (exclusive)")
	maxRadius := flag.Float64("max-radius", cfg.Detection.MaxRadius, "Largest accepted brush radius (exclusive)")
	patch := flag.Int("patch", cfg.Calibration.PatchHalfSize, "Calibration square half-size in pixels")
	maxFailures := flag.Int("max-read-failures", cfg.Capture.MaxReadFailures, "Consecutive empty reads before giving up (0 = retry forever)")
	window := flag.String("window", cfg.WindowName, "Preview window title")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	if *preset != "" {
		p := camera.GetPreset(*preset)
		if p == nil {
			return cfg, &paint.ConfigError{Field: "preset", Message: fmt.Sprintf("unknown preset %q", *preset)}
		}
		cfg.Camera = *p
	}

	// Environment variables
	cfg.LoadEnvConfig()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["device"] {
		cfg.Camera.Device = *device
	}
	if set["width"] {
		cfg.Camera.Width = *width
	}
	if set["height"] {
		cfg.Camera.Height = *height
	}
	cfg.Detection.MinRadius = *minRadius
	cfg.Detection.MaxRadius = *maxRadius
	cfg.Calibration.PatchHalfSize = *patch
	cfg.Capture.MaxReadFailures = *maxFailures
	cfg.WindowName = *window
	cfg.Debug = *debug
	return cfg, nil
}

func printHelp() {
	colors := session.ColorKeys()
	keys := make([]int, 0, len(colors))
	for k := range colors {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %c=%s", k, colors[k])
	}

	fmt.Println("Paint - virtual paintbrush")
	fmt.Println("  calibration: hold the object in the red square, press c (Esc aborts)")
	fmt.Println("  painting:    p pause/resume, c clear, s/m/l brush size, Esc quit")
	fmt.Println("  colors:     " + b.String())
}
