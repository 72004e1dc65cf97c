// Package tween provides the smoothing step and the per-frame task scheduler
// that drive every card animation.
package tween

import "math"

// Smooth moves current toward target by the frame-rate scaled factor
// rate*dt, clamped so it never overshoots.
func Smooth(current, target, rate, dt float64) float64 {
	t := math.Min(math.Max(rate*dt, 0), 1)
	return current + (target-current)*t
}
