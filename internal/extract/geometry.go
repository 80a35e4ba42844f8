package extract

import "math"

// Box is an axis-aligned rectangle in top-down page coordinates (y grows downwards).
type Box struct {
	X0     float64 `json:"x0"`
	Top    float64 `json:"top"`
	X1     float64 `json:"x1"`
	Bottom float64 `json:"bottom"`
}

// Intersects reports whether two boxes share an area. Touching edges do not count.
func (b Box) Intersects(o Box) bool {
	x0 := math.Max(b.X0, o.X0)
	top := math.Max(b.Top, o.Top)
	x1 := math.Min(b.X1, o.X1)
	bottom := math.Min(b.Bottom, o.Bottom)
	return x1 > x0 && bottom > top
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	return Box{
		X0:     math.Min(b.X0, o.X0),
		Top:    math.Min(b.Top, o.Top),
		X1:     math.Max(b.X1, o.X1),
		Bottom: math.Max(b.Bottom, o.Bottom),
	}
}

// Highlight is a marker rectangle found on a page.
type Highlight struct {
	Box   Box        `json:"box"`
	Class ColorClass `json:"class"`
}

// anyOverlap is the first-match-wins overlap test used to mark options correct.
func anyOverlap(box Box, highlights []Highlight) bool {
	for _, h := range highlights {
		if box.Intersects(h.Box) {
			return true
		}
	}
	return false
}
