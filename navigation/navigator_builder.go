package navigation

import "github.com/Carmen-Shannon/oxy-view/common"

// NavigatorOption is a functional option for configuring a Navigator.
type NavigatorOption func(*navigatorImpl)

// WithPivot sets the initial orbit pivot point.
//
// Parameters:
//   - pivot: the world-space pivot point
//
// Returns:
//   - NavigatorOption: functional option to set the pivot
func WithPivot(pivot common.Vec3) NavigatorOption {
	return func(n *navigatorImpl) {
		n.pivot = pivot
	}
}

// WithDistance sets the initial orbit distance (clamped to the distance
// bounds after all options are applied).
//
// Parameters:
//   - distance: distance from the pivot
//
// Returns:
//   - NavigatorOption: functional option to set the distance
func WithDistance(distance float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.distance = distance
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - NavigatorOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane
// (clamped to the elevation bounds after all options are applied).
//
// Parameters:
//   - elevation: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - NavigatorOption: functional option to set the elevation
func WithElevation(elevation float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.elevation = elevation
	}
}

// WithDistanceBounds sets the minimum and maximum orbit distance.
//
// Parameters:
//   - min: minimum zoom distance (must be > 0)
//   - max: maximum zoom distance
//
// Returns:
//   - NavigatorOption: functional option to set distance bounds
func WithDistanceBounds(min, max float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.minDistance = min
		n.maxDistance = max
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles.
// Both must stay strictly inside (-π/2, π/2): at exactly ±90° the look
// direction is parallel to world up and the camera basis degenerates, so
// these bounds are a correctness requirement, not just a feel preference.
//
// Parameters:
//   - min: minimum vertical angle in radians
//   - max: maximum vertical angle in radians
//
// Returns:
//   - NavigatorOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.minElevation = min
		n.maxElevation = max
	}
}

// WithOrbitSensitivity sets the screen-units-to-radians factor for orbit
// drags.
//
// Parameters:
//   - sensitivity: radians per screen unit (default 0.005)
//
// Returns:
//   - NavigatorOption: functional option to set orbit sensitivity
func WithOrbitSensitivity(sensitivity float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.orbitSensitivity = sensitivity
	}
}

// WithPanSensitivity sets the screen-units-to-world factor for pan drags,
// applied on top of the distance scaling.
//
// Parameters:
//   - sensitivity: pan factor per screen unit (default 0.003)
//
// Returns:
//   - NavigatorOption: functional option to set pan sensitivity
func WithPanSensitivity(sensitivity float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.panSensitivity = sensitivity
	}
}

// WithZoomSensitivity sets the pinch sensitivity multiplier. Reserved: the
// live pinch formula already carries its own scale factor, but the knob is
// kept so bindings can expose it without an interface change.
//
// Parameters:
//   - sensitivity: zoom multiplier (default 1.0)
//
// Returns:
//   - NavigatorOption: functional option to set zoom sensitivity
func WithZoomSensitivity(sensitivity float32) NavigatorOption {
	return func(n *navigatorImpl) {
		n.zoomSensitivity = sensitivity
	}
}

// WithFriction sets the per-tick multiplicative velocity decay factor.
// Values must be in (0, 1]; 1 means velocities never decay, which is valid
// structurally but makes every glide endless.
//
// Parameters:
//   - friction: decay factor per tick (default 0.92)
//
// Returns:
//   - NavigatorOption: functional option to set friction
func WithFriction(friction float32) NavigatorOption {
	return func(n *navigatorImpl) {
		if friction > 0 && friction <= 1 {
			n.friction = friction
		}
	}
}
