package session

import (
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"
)

// Command is one user instruction to the tracking loop.
// The set is closed: Quit, TogglePause, Clear, SelectColor, SelectSize.
type Command interface {
	command()
	String() string
}

// Quit halts the session.
type Quit struct{}

// TogglePause flips between running and paused.
type TogglePause struct{}

// Clear wipes the trail.
type Clear struct{}

// SelectColor changes the brush color.
type SelectColor struct {
	Name  string
	Color color.RGBA
}

// SelectSize changes the brush thickness.
type SelectSize struct {
	Name      string
	Thickness int
}

func (Quit) command()        {}
func (TogglePause) command() {}
func (Clear) command()       {}
func (SelectColor) command() {}
func (SelectSize) command()  {}

func (Quit) String() string          { return "quit" }
func (TogglePause) String() string   { return "toggle-pause" }
func (Clear) String() string         { return "clear" }
func (c SelectColor) String() string { return "color:" + c.Name }
func (c SelectSize) String() string  { return fmt.Sprintf("size:%s(%d)", c.Name, c.Thickness) }

// Brush palette.
var (
	Red    = colornames.Red
	Blue   = colornames.Blue
	Green  = color.RGBA{R: 127, G: 255, B: 85, A: 255}
	Yellow = colornames.Yellow
	Orange = color.RGBA{R: 217, G: 89, B: 0, A: 255}
	Black  = colornames.Black
	White  = colornames.White
)

// Key codes.
const (
	KeyEsc   = 27
	KeyClear = 'c'
	KeyPause = 'p'
	KeySmall = 's'
	KeyMed   = 'm'
	KeyLarge = 'l'
)

var colorKeys = map[int]SelectColor{
	'r': {Name: "red", Color: Red},
	'b': {Name: "blue", Color: Blue},
	'g': {Name: "green", Color: Green},
	'y': {Name: "yellow", Color: Yellow},
	'o': {Name: "orange", Color: Orange},
	'k': {Name: "black", Color: Black},
	'w': {Name: "white", Color: White},
}

var sizeKeys = map[int]SelectSize{
	KeySmall: {Name: "small", Thickness: ThicknessSmall},
	KeyMed:   {Name: "medium", Thickness: ThicknessMedium},
	KeyLarge: {Name: "large", Thickness: ThicknessLarge},
}

// ParseKey maps a tracking-mode key press to a command.
func ParseKey(key int) (Command, bool) {
	switch key {
	case KeyEsc:
		return Quit{}, true
	case KeyPause:
		return TogglePause{}, true
	case KeyClear:
		return Clear{}, true
	}
	if c, ok := colorKeys[key]; ok {
		return c, true
	}
	if s, ok := sizeKeys[key]; ok {
		return s, true
	}
	return nil, false
}

// ColorKeys returns the color command keys, for help output.
func ColorKeys() map[int]string {
	out := make(map[int]string, len(colorKeys))
	for k, c := range colorKeys {
		out[k] = c.Name
	}
	return out
}
