// Package capture runs the producer side of the paintbrush: it pulls frames
// from the camera as fast as the device delivers them and keeps only the
// newest one in a frame.Slot.
package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-paintbrush/pkg/camera"
	"github.com/teslashibe/go-paintbrush/pkg/frame"
	"github.com/teslashibe/go-paintbrush/pkg/session"
	"gocv.io/x/gocv"
)

// Config holds capture loop parameters.
type Config struct {
	MaxReadFailures int           // Consecutive empty reads before giving up (0 = never)
	RetryWait       time.Duration // Pause after an empty read
	StatsInterval   time.Duration // Debug stats period (0 = off)
}

// DefaultConfig returns the standard capture settings.
func DefaultConfig() Config {
	return Config{
		MaxReadFailures: 300,
		RetryWait:       time.Millisecond,
		StatsInterval:   5 * time.Second,
	}
}

// Stats is a snapshot of capture counters.
type Stats struct {
	Captures   uint64
	Skipped    uint64
	AvgCapture time.Duration
}

// Loop copies frames from a camera.Source into a frame.Slot until halted.
type Loop struct {
	config   Config
	source   camera.Source
	slot     *frame.Slot
	halt     *session.Halt
	teardown func()
	logger   *slog.Logger

	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64

	closeOnce sync.Once
}

// New creates a capture loop. teardown runs once after the source is
// released and may be nil. logger may be nil.
func New(cfg Config, source camera.Source, slot *frame.Slot, halt *session.Halt, teardown func(), logger *slog.Logger) *Loop {
	return &Loop{
		config:   cfg,
		source:   source,
		slot:     slot,
		halt:     halt,
		teardown: teardown,
		logger:   logger,
	}
}

// Run blocks until the halt flag is raised. A fatal read error raises the
// flag with that error as cause.
func (l *Loop) Run() {
	defer l.close()

	mat := gocv.NewMat()
	defer mat.Close()

	var tick <-chan time.Time
	if l.config.StatsInterval > 0 {
		ticker := time.NewTicker(l.config.StatsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	failures := 0
	for !l.halt.Raised() {
		start := time.Now()
		err := l.source.Read(&mat)
		if err != nil {
			if !errors.Is(err, camera.ErrEmptyFrame) {
				l.fail(fmt.Errorf("capture: read frame: %w", err))
				return
			}
			l.skipped.Add(1)
			failures++
			if l.config.MaxReadFailures > 0 && failures >= l.config.MaxReadFailures {
				l.fail(fmt.Errorf("%w: %d consecutive empty reads", camera.ErrDeviceUnavailable, failures))
				return
			}
			time.Sleep(l.config.RetryWait)
			continue
		}
		failures = 0

		l.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
		l.captures.Add(1)
		l.slot.Store(mat)

		select {
		case <-tick:
			l.logStats()
		default:
		}
	}
}

// Stats returns capture counters.
func (l *Loop) Stats() Stats {
	captures := l.captures.Load()
	var avg time.Duration
	if captures > 0 {
		avg = time.Duration(l.captureNanos.Load() / captures)
	}
	return Stats{
		Captures:   captures,
		Skipped:    l.skipped.Load(),
		AvgCapture: avg,
	}
}

func (l *Loop) fail(err error) {
	if l.logger != nil {
		l.logger.Error("capture stopped", "error", err)
	}
	l.halt.Raise(err)
}

func (l *Loop) close() {
	l.closeOnce.Do(func() {
		if err := l.source.Release(); err != nil && l.logger != nil {
			l.logger.Warn("release source", "error", err)
		}
		if l.teardown != nil {
			l.teardown()
		}
		if l.logger != nil {
			stats := l.Stats()
			l.logger.Info("capture loop exited",
				"captures", stats.Captures,
				"skipped", stats.Skipped)
		}
	})
}

func (l *Loop) logStats() {
	if l.logger == nil {
		return
	}
	stats := l.Stats()
	slot := l.slot.Stats()
	l.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"dropped", slot.Dropped)
}
