package hsv

import "testing"

func TestFromStats(t *testing.T) {
	tests := []struct {
		name      string
		mean, std [3]float64
		want      Range
	}{
		{
			name: "zero variance collapses to the mean",
			mean: [3]float64{60, 200, 200},
			want: Range{Lower: Triple{60, 200, 200}, Upper: Triple{60, 200, 200}},
		},
		{
			name: "two sigma band rounded up",
			mean: [3]float64{100.25, 150, 120},
			std:  [3]float64{5.125, 10, 2.5},
			want: Range{Lower: Triple{90, 130, 115}, Upper: Triple{111, 170, 125}},
		},
		{
			name: "clamped at both ends",
			mean: [3]float64{5, 250, 10},
			std:  [3]float64{10, 20, 30},
			want: Range{Lower: Triple{0, 210, 0}, Upper: Triple{25, 255, 70}},
		},
		{
			name: "hue clamped to 179",
			mean: [3]float64{175, 100, 100},
			std:  [3]float64{10, 0, 0},
			want: Range{Lower: Triple{155, 100, 100}, Upper: Triple{179, 100, 100}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromStats(tc.mean, tc.std, 2)
			if got != tc.want {
				t.Errorf("FromStats: got %v, want %v", got, tc.want)
			}
			if !got.Valid() {
				t.Errorf("FromStats produced invalid range %v", got)
			}
		})
	}
}

func TestNewRange_OrdersAndClamps(t *testing.T) {
	r := NewRange(Triple{200, 300, 10}, Triple{-5, 20, 400})

	want := Range{Lower: Triple{0, 20, 10}, Upper: Triple{179, 255, 255}}
	if r != want {
		t.Errorf("NewRange: got %v, want %v", r, want)
	}
	if !r.Valid() {
		t.Error("NewRange result should be valid")
	}
}

func TestRange_Valid(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want bool
	}{
		{"ordered", Range{Triple{10, 10, 10}, Triple{20, 20, 20}}, true},
		{"equal bounds", Range{Triple{60, 200, 200}, Triple{60, 200, 200}}, true},
		{"inverted hue", Range{Triple{30, 10, 10}, Triple{20, 20, 20}}, false},
		{"hue out of domain", Range{Triple{0, 0, 0}, Triple{180, 20, 20}}, false},
		{"negative", Range{Triple{0, -1, 0}, Triple{1, 1, 1}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Valid(); got != tc.want {
				t.Errorf("Valid: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRange_Contains(t *testing.T) {
	r := Range{Lower: Triple{100, 150, 0}, Upper: Triple{130, 255, 255}}

	if !r.Contains(Triple{120, 255, 255}) {
		t.Error("expected blue to be inside range")
	}
	if r.Contains(Triple{60, 200, 200}) {
		t.Error("expected green to be outside range")
	}
	if !r.Contains(r.Lower) || !r.Contains(r.Upper) {
		t.Error("bounds are inclusive")
	}
}
