// Package navigation implements the orbit navigation core for exploring a
// captured 3D scene: a spherical-coordinate camera pose around a movable
// pivot, gesture translation into direct pose changes or decaying inertia
// velocities, per-frame integration, and composition of the resulting
// camera transform.
package navigation

// Clamp restricts v to the inclusive range [lo, hi].
// Clamping is silent and total: it always produces a value in range and is
// applied after every mutation of a bounded pose field.
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: v restricted to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
