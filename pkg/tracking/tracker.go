// Package tracking runs the consumer side of the paintbrush: it takes the
// latest captured frame, finds the brush, records the trail and renders it.
package tracking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-paintbrush/pkg/display"
	"github.com/teslashibe/go-paintbrush/pkg/frame"
	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"github.com/teslashibe/go-paintbrush/pkg/session"
	"github.com/teslashibe/go-paintbrush/pkg/trail"
	"github.com/teslashibe/go-paintbrush/pkg/tracking/detection"
	"gocv.io/x/gocv"
)

// Stats summarises tracker activity
type Stats struct {
	Frames     uint64
	Detections uint64
	Strokes    int
	Mode       session.Mode
}

// Tracker owns the session state and the trail
type Tracker struct {
	config  Config
	surface display.Surface
	slot    *frame.Slot
	halt    *session.Halt
	logger  *slog.Logger

	// Core components
	perception *Perception
	recorder   *trail.Recorder

	// Frame buffers, reused every iteration
	raw      gocv.Mat
	mirrored gocv.Mat

	// State
	mu         sync.RWMutex
	state      session.State
	frames     uint64
	detections uint64
}

// New creates a tracker for the calibrated range. logger may be nil.
func New(config Config, detector detection.Detector, rng hsv.Range, surface display.Surface,
	slot *frame.Slot, halt *session.Halt, logger *slog.Logger) *Tracker {
	return &Tracker{
		config:     config,
		surface:    surface,
		slot:       slot,
		halt:       halt,
		logger:     logger,
		perception: NewPerception(detector, rng),
		recorder:   trail.NewRecorder(),
		raw:        gocv.NewMat(),
		mirrored:   gocv.NewMat(),
		state:      session.New(),
	}
}

// Run processes frames until the user quits, ctx is cancelled or another
// goroutine raises the halt flag. On return the flag is always raised.
// The result is the cause recorded with the flag, nil for a normal quit.
func (t *Tracker) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if t.config.StatsInterval > 0 {
		ticker := time.NewTicker(t.config.StatsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	t.log().Info("tracker started",
		"range", t.perception.Range().String(),
		"mode", t.State().Mode.String())

	for !t.halt.Raised() {
		if ctx.Err() != nil {
			t.log().Info("tracker interrupted", "reason", ctx.Err())
			break
		}

		if !t.Step() {
			time.Sleep(t.config.FrameWait)
			continue
		}
		if t.State().Halted() {
			break
		}

		select {
		case <-tick:
			t.logStats()
		default:
		}
	}

	t.halt.Raise(nil)
	stats := t.Stats()
	t.log().Info("tracker stopped",
		"frames", stats.Frames,
		"detections", stats.Detections,
		"strokes", stats.Strokes)
	return t.halt.Err()
}

// Step runs one iteration: process the latest frame, then poll the keyboard.
// Returns false when no frame has been captured yet.
func (t *Tracker) Step() bool {
	if _, ok := t.slot.Load(&t.raw); !ok {
		return false
	}

	t.processFrame()

	if key, ok := t.surface.PollKey(t.config.KeyTimeout); ok {
		t.HandleKey(key)
	}
	return true
}

// processFrame detects, records and renders t.raw
func (t *Tracker) processFrame() {
	blob, found := t.perception.Detect(t.raw)

	t.mu.Lock()
	t.frames++
	state := t.state
	if found {
		t.detections++
		if state.Recording() {
			t.recorder.Record(blob.Center, state.Color, state.Thickness)
		}
	}
	t.mu.Unlock()

	if !found && t.config.LostAfter > 0 && t.perception.ConsecutiveMisses() == t.config.LostAfter {
		last, _ := t.perception.LastCenter()
		t.log().Debug("brush lost", "misses", t.config.LostAfter, "last_center", last)
	}

	t.mu.RLock()
	t.recorder.RenderOnto(trail.MatCanvas{Mat: &t.raw})
	t.mu.RUnlock()

	display.Mirror(t.raw, &t.mirrored)
	t.surface.Show(t.mirrored)
}

// HandleKey maps a key press to a command and applies it.
// Unbound keys are ignored.
func (t *Tracker) HandleKey(key int) {
	cmd, ok := session.ParseKey(key)
	if !ok {
		return
	}

	t.mu.Lock()
	if _, wipe := cmd.(session.Clear); wipe && !t.state.Halted() {
		t.recorder.Clear()
	}
	t.state = session.Apply(t.state, cmd)
	state := t.state
	t.mu.Unlock()

	t.log().Info("command",
		"command", cmd.String(),
		"mode", state.Mode.String(),
		"thickness", state.Thickness)
}

// State returns the current session state
func (t *Tracker) State() session.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Strokes returns a copy of the recorded trail
func (t *Tracker) Strokes() []trail.Stroke {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.recorder.Strokes()
}

// Stats returns activity counters
func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Stats{
		Frames:     t.frames,
		Detections: t.detections,
		Strokes:    t.recorder.Len(),
		Mode:       t.state.Mode,
	}
}

// Close frees the frame buffers. The detector is owned by the caller.
func (t *Tracker) Close() error {
	t.raw.Close()
	t.mirrored.Close()
	return t.perception.Close()
}

func (t *Tracker) logStats() {
	stats := t.Stats()
	slot := t.slot.Stats()
	t.log().Debug("tracker.stats",
		"frames", stats.Frames,
		"detections", stats.Detections,
		"strokes", stats.Strokes,
		"mode", stats.Mode.String(),
		"slot_dropped", slot.Dropped)
}

func (t *Tracker) log() *slog.Logger {
	if t.logger == nil {
		return slog.Default()
	}
	return t.logger
}
