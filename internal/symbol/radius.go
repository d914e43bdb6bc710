package symbol

import "math"

// ScaleFactor multiplies the scaled attendance before it becomes circle area.
const ScaleFactor = 2.0

// Radius converts an attendance value to a marker radius in pixels: the
// circle's area is value/100 * ScaleFactor. Negative and NaN values map to 0.
func Radius(value float64) float64 {
	if !(value > 0) {
		return 0
	}
	area := value / 100.0 * ScaleFactor
	return math.Sqrt(area / math.Pi)
}
