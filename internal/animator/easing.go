package animator

import "math"

// Curve maps linear progress t in [0,1] to eased progress in [0,1]
type Curve func(t float64) float64

// Linear is uniform motion
func Linear(t float64) float64 {
	return t
}

// EaseInCubic starts slow and finishes fast: f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic starts fast and settles slowly: f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic is slow at both ends
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad is a softer ease-out: f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
