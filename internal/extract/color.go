package extract

// ColorClass is the marker ink a highlight color was recognised as.
type ColorClass string

const (
	ColorNone   ColorClass = "none"
	ColorGreen  ColorClass = "green"
	ColorYellow ColorClass = "yellow"
)

// IsHighlightColor reports whether a device color looks like green or yellow marker ink.
// Three components are read as RGB, four as CMYK; anything else (including gray) is not a highlight.
func IsHighlightColor(c []float64) bool {
	switch len(c) {
	case 3:
		r, g, b := c[0], c[1], c[2]
		switch {
		case r < 0.2 && g > 0.8 && b < 0.2: // green
			return true
		case r > 0.8 && g > 0.8 && b < 0.2: // yellow
			return true
		case g > 0.8 && r < 0.9 && b < 0.9: // light green markers
			return true
		case r > 0.8 && g > 0.8 && b < 0.6: // pale yellow markers
			return true
		}
	case 4:
		y, k := c[2], c[3]
		return y > 0.8 && k < 0.2
	}
	return false
}

// Classify returns the ink class of a highlight color, or ColorNone.
func Classify(c []float64) ColorClass {
	if !IsHighlightColor(c) {
		return ColorNone
	}
	if len(c) == 4 {
		if c[0] > 0.5 {
			return ColorGreen
		}
		return ColorYellow
	}
	if c[0] > 0.8 {
		return ColorYellow
	}
	return ColorGreen
}
