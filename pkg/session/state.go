// Package session holds the paintbrush's per-session state machine.
//
// State is a value. Apply is a pure transition from (State, Command) to the
// next State; side effects such as wiping the trail belong to the caller.
package session

import (
	"image/color"
)

// Mode is the tracking loop's state.
type Mode int

const (
	// Running records strokes for every valid detection.
	Running Mode = iota
	// Paused still detects but records nothing.
	Paused
	// Halted is terminal.
	Halted
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// Brush thickness presets, in pixels.
const (
	ThicknessSmall  = 5
	ThicknessMedium = 10
	ThicknessLarge  = 15
)

// State is the mutable brush and control state owned by the tracking loop.
type State struct {
	Mode      Mode
	Color     color.RGBA
	Thickness int
}

// New returns the starting state: running with a medium orange brush.
func New() State {
	return State{
		Mode:      Running,
		Color:     Orange,
		Thickness: ThicknessMedium,
	}
}

// Recording reports whether strokes should be appended.
func (s State) Recording() bool {
	return s.Mode == Running
}

// Halted reports whether the loop should stop.
func (s State) Halted() bool {
	return s.Mode == Halted
}

// Apply returns the state after cmd. Halted absorbs every command.
func Apply(s State, cmd Command) State {
	if s.Mode == Halted {
		return s
	}

	switch c := cmd.(type) {
	case Quit:
		s.Mode = Halted
	case TogglePause:
		if s.Mode == Running {
			s.Mode = Paused
		} else {
			s.Mode = Running
		}
	case Clear:
		// Trail side effect only.
	case SelectColor:
		s.Color = c.Color
	case SelectSize:
		s.Thickness = c.Thickness
	}
	return s
}
