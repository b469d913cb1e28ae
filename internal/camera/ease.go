package camera

import "math"

// EaseInOutCubic maps normalized time t in [0,1] onto a cubic ease-in-out
// curve. The curve and its first derivative are continuous, and the
// derivative is zero at both ends. t is clamped to [0,1].
func EaseInOutCubic(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		return 1 - math.Pow(-2*t+2, 3)/2
	}
}
