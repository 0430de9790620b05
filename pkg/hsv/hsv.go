// Package hsv defines the HSV color range used for segmentation.
//
// Channel domains follow OpenCV's 8-bit HSV layout: hue is halved to fit a
// byte (0-179), saturation and value span 0-255.
package hsv

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// Channel domain limits.
const (
	MaxHue        = 179
	MaxSaturation = 255
	MaxValue      = 255
)

// Triple is one HSV color.
type Triple struct {
	H, S, V int
}

// At returns channel i (0=H, 1=S, 2=V).
func (t Triple) At(i int) int {
	switch i {
	case 0:
		return t.H
	case 1:
		return t.S
	default:
		return t.V
	}
}

// Scalar converts the triple for gocv range operations.
func (t Triple) Scalar() gocv.Scalar {
	return gocv.NewScalar(float64(t.H), float64(t.S), float64(t.V), 0)
}

// Clamp limits every channel to its legal domain.
func (t Triple) Clamp() Triple {
	return Triple{
		H: clamp(t.H, MaxHue),
		S: clamp(t.S, MaxSaturation),
		V: clamp(t.V, MaxValue),
	}
}

func (t Triple) String() string {
	return fmt.Sprintf("(%d,%d,%d)", t.H, t.S, t.V)
}

// Range is an inclusive lower/upper HSV bound.
type Range struct {
	Lower Triple
	Upper Triple
}

// NewRange builds a clamped range, swapping channels that arrive inverted.
func NewRange(lower, upper Triple) Range {
	lower, upper = lower.Clamp(), upper.Clamp()
	if lower.H > upper.H {
		lower.H, upper.H = upper.H, lower.H
	}
	if lower.S > upper.S {
		lower.S, upper.S = upper.S, lower.S
	}
	if lower.V > upper.V {
		lower.V, upper.V = upper.V, lower.V
	}
	return Range{Lower: lower, Upper: upper}
}

// FromStats derives a range as ceil(mean ± k*std) per channel.
func FromStats(mean, std [3]float64, k float64) Range {
	var lo, hi [3]int
	for i := 0; i < 3; i++ {
		lo[i] = int(math.Ceil(mean[i] - k*std[i]))
		hi[i] = int(math.Ceil(mean[i] + k*std[i]))
	}
	return NewRange(
		Triple{H: lo[0], S: lo[1], V: lo[2]},
		Triple{H: hi[0], S: hi[1], V: hi[2]},
	)
}

// Valid reports whether the range is ordered and inside the domain.
func (r Range) Valid() bool {
	if r.Lower != r.Lower.Clamp() || r.Upper != r.Upper.Clamp() {
		return false
	}
	for i := 0; i < 3; i++ {
		if r.Lower.At(i) > r.Upper.At(i) {
			return false
		}
	}
	return true
}

// Contains reports whether t lies inside the range.
func (r Range) Contains(t Triple) bool {
	for i := 0; i < 3; i++ {
		if t.At(i) < r.Lower.At(i) || t.At(i) > r.Upper.At(i) {
			return false
		}
	}
	return true
}

func (r Range) String() string {
	return r.Lower.String() + "-" + r.Upper.String()
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
