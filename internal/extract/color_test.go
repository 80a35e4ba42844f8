package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHighlightColor(t *testing.T) {
	tests := []struct {
		name  string
		color []float64
		want  bool
		class ColorClass
	}{
		{name: "pure_green", color: []float64{0, 1, 0}, want: true, class: ColorGreen},
		{name: "pure_yellow", color: []float64{1, 1, 0}, want: true, class: ColorYellow},
		{name: "light_green_marker", color: []float64{0.5, 1, 0.5}, want: true, class: ColorGreen},
		{name: "pale_yellow_marker", color: []float64{1, 0.95, 0.5}, want: true, class: ColorYellow},
		{name: "cmyk_yellow", color: []float64{0, 0, 1, 0}, want: true, class: ColorYellow},
		{name: "cmyk_green", color: []float64{1, 0, 1, 0}, want: true, class: ColorGreen},
		{name: "cmyk_dark_yellow", color: []float64{0, 0, 1, 0.5}, want: false, class: ColorNone},
		{name: "pure_red", color: []float64{1, 0, 0}, want: false, class: ColorNone},
		{name: "pure_blue", color: []float64{0, 0, 1}, want: false, class: ColorNone},
		{name: "black", color: []float64{0, 0, 0}, want: false, class: ColorNone},
		{name: "white", color: []float64{1, 1, 1}, want: false, class: ColorNone},
		{name: "gray", color: []float64{0.9}, want: false, class: ColorNone},
		{name: "absent", color: nil, want: false, class: ColorNone},
		{name: "malformed", color: []float64{0, 1}, want: false, class: ColorNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHighlightColor(tt.color))
			assert.Equal(t, tt.class, Classify(tt.color))
		})
	}
}
