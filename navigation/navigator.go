package navigation

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
)

const (
	// velocityEpsilon is the magnitude below which a velocity is treated as
	// zero, halting inertia instead of integrating infinitely tiny motion.
	velocityEpsilon = 1e-4

	// inertiaSeedScale converts the terminal drag delta supplied at gesture
	// end into roughly one frame's worth of starting inertia velocity.
	inertiaSeedScale = 0.3

	// zoomInertiaScale converts a pinch gesture's ending velocity into a
	// signed per-tick distance fraction continuing the zoom trend. Negative
	// because pinch-out (growing scale) moves the camera closer.
	zoomInertiaScale = -0.01

	// extentDistanceScale sizes the initial orbit distance from the largest
	// bounding-box extent so the whole scene starts in view.
	extentDistanceScale = 2.0
)

// NominalDeltaTime is the delta time a frame clock should report for its
// first tick, before a previous timestamp exists.
const NominalDeltaTime float32 = 1.0 / 60.0

// navigatorImpl is the single implementation of Navigator.
// Owns the spherical pose state (pivot, distance, azimuth, elevation), the
// inertia velocities seeded at gesture end, and the session configuration.
type navigatorImpl struct {
	mu *sync.Mutex

	// Spherical pose around the pivot
	pivot     common.Vec3
	distance  float32
	azimuth   float32 // Horizontal angle around the Y axis
	elevation float32 // Vertical angle from the horizontal plane

	// Inertia velocities, decayed geometrically each tick
	azimuthVelocity   float32
	elevationVelocity float32
	panVelocity       [2]float32 // screen-space units per tick
	zoomVelocity      float32    // signed distance fraction per tick

	// Pose constraints
	minDistance  float32
	maxDistance  float32
	minElevation float32
	maxElevation float32

	// Gesture sensitivities
	orbitSensitivity float32
	panSensitivity   float32
	zoomSensitivity  float32 // reserved: live pinch already carries its own scale

	// Per-tick multiplicative velocity decay, in (0, 1]
	friction float32
}

// Navigator owns the orbit navigation state for one exploration session.
// Gesture callbacks feed it classified orbit/pan/zoom deltas; a frame clock
// drives Tick once per rendered frame; the renderer consumes the resulting
// camera Transform. Methods are safe to call from the window callback and
// frame clock goroutines.
type Navigator interface {
	// Initialize resets the session from a scene bounding box: the pivot
	// moves to the box center, the distance is derived from the largest
	// extent, the angles return to their starting view, and all inertia is
	// cleared. A zero-extent box falls back to the minimum distance.
	//
	// Parameters:
	//   - center: the bounding box center in world space
	//   - extents: the bounding box extents along each axis
	Initialize(center, extents common.Vec3)

	// ApplyOrbit translates an orbit drag delta in screen units.
	// While the gesture is live the angles change immediately; when ending
	// is true the delta instead seeds decaying orbit inertia.
	//
	// Parameters:
	//   - dx, dy: drag delta in screen units
	//   - ending: true when this is the gesture's terminal delta
	ApplyOrbit(dx, dy float32, ending bool)

	// ApplyPan translates a pan drag delta in screen units.
	// While the gesture is live the pivot moves along the current camera
	// right/up basis, scaled by distance so the drag feels the same at any
	// zoom level; when ending is true the delta seeds decaying pan inertia.
	//
	// Parameters:
	//   - dx, dy: drag delta in screen units
	//   - ending: true when this is the gesture's terminal delta
	ApplyPan(dx, dy float32, ending bool)

	// ApplyZoom translates a pinch gesture.
	// While the gesture is live the distance is divided by the scale factor
	// (pinch-out decreases distance); a scale of zero or less is invalid
	// input and is ignored. When ending is true, endingVelocity seeds
	// decaying zoom inertia continuing the trend.
	//
	// Parameters:
	//   - scale: pinch scale factor (1.0 = no change)
	//   - endingVelocity: the gesture recognizer's terminal scale velocity
	//   - ending: true when the gesture has ended
	ApplyZoom(scale, endingVelocity float32, ending bool)

	// ClearVelocity zeroes all inertia velocities, stopping any glide.
	ClearVelocity()

	// Tick advances inertia by one frame and returns the resulting camera
	// transform. A deltaTime of zero (or less) is a cold tick: state is left
	// unchanged and the current transform is returned.
	//
	// Velocity decay is applied per tick, not per unit time, so the glide
	// duration varies with display refresh rate. deltaTime is accepted so a
	// future time-normalized decay can slot in without an interface change.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick
	//
	// Returns:
	//   - Transform: the camera pose after integration
	Tick(deltaTime float32) Transform

	// Transform composes and returns the camera pose for the current state.
	//
	// Returns:
	//   - Transform: the current camera pose
	Transform() Transform

	// Pivot returns the world-space point the camera orbits.
	//
	// Returns:
	//   - common.Vec3: the pivot point
	Pivot() common.Vec3

	// SetPivot moves the orbit pivot directly.
	//
	// Parameters:
	//   - pivot: the new world-space pivot point
	SetPivot(pivot common.Vec3)

	// Distance returns the radial distance from pivot to camera.
	//
	// Returns:
	//   - float32: the current distance
	Distance() float32

	// SetDistance sets the orbit distance directly, clamped to bounds.
	//
	// Parameters:
	//   - distance: the new distance
	SetDistance(distance float32)

	// Azimuth returns the horizontal orbit angle in radians.
	//
	// Returns:
	//   - float32: the current azimuth
	Azimuth() float32

	// SetAzimuth sets the horizontal orbit angle directly.
	//
	// Parameters:
	//   - azimuth: the new azimuth in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical orbit angle in radians.
	//
	// Returns:
	//   - float32: the current elevation
	Elevation() float32

	// SetElevation sets the vertical orbit angle directly, clamped to bounds.
	//
	// Parameters:
	//   - elevation: the new elevation in radians
	SetElevation(elevation float32)

	// MinDistance returns the minimum allowed orbit distance.
	//
	// Returns:
	//   - float32: the minimum distance
	MinDistance() float32

	// MaxDistance returns the maximum allowed orbit distance.
	//
	// Returns:
	//   - float32: the maximum distance
	MaxDistance() float32

	// MinElevation returns the minimum allowed elevation angle.
	//
	// Returns:
	//   - float32: the minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation angle.
	//
	// Returns:
	//   - float32: the maximum elevation in radians
	MaxElevation() float32

	// Friction returns the per-tick velocity decay factor.
	//
	// Returns:
	//   - float32: the friction factor in (0, 1]
	Friction() float32
}

// Compile-time interface compliance check
var _ Navigator = &navigatorImpl{}

// NewNavigator creates a Navigator with sensible defaults for exploring a
// captured scene a few units across. Call Initialize once the scene's
// bounding box is known.
//
// Parameters:
//   - options: functional options to configure the navigator
//
// Returns:
//   - Navigator: the newly created navigator
func NewNavigator(options ...NavigatorOption) Navigator {
	n := &navigatorImpl{
		mu: &sync.Mutex{},

		distance:  5.0,
		azimuth:   0.0,
		elevation: float32(math.Pi / 4),

		minDistance:  0.3,
		maxDistance:  50.0,
		minElevation: 0.1,
		maxElevation: float32(math.Pi/2 - 0.1),

		orbitSensitivity: 0.005,
		panSensitivity:   0.003,
		zoomSensitivity:  1.0,

		friction: 0.92,
	}

	for _, option := range options {
		option(n)
	}

	n.distance = Clamp(n.distance, n.minDistance, n.maxDistance)
	n.elevation = Clamp(n.elevation, n.minElevation, n.maxElevation)
	return n
}

// Initialize resets the pose from a scene bounding box and clears inertia.
func (n *navigatorImpl) Initialize(center, extents common.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()

	maxExtent := extents.X
	if extents.Y > maxExtent {
		maxExtent = extents.Y
	}
	if extents.Z > maxExtent {
		maxExtent = extents.Z
	}

	n.pivot = center
	if maxExtent <= 0 {
		// Degenerate bounding box; a distance of zero would collapse the pose.
		n.distance = n.minDistance
	} else {
		n.distance = Clamp(maxExtent*extentDistanceScale, n.minDistance, n.maxDistance)
	}
	n.azimuth = 0
	n.elevation = Clamp(float32(math.Pi/4), n.minElevation, n.maxElevation)
	n.clearVelocityLocked()
}

// Tick runs the per-frame inertia step: apply each velocity that is above
// the negligible-motion threshold, decay it by friction, and snap it to zero
// once it falls below the threshold. The transform is recomposed
// unconditionally since a live gesture may have mutated state between ticks.
func (n *navigatorImpl) Tick(deltaTime float32) Transform {
	n.mu.Lock()
	defer n.mu.Unlock()

	if deltaTime <= 0 {
		// Duplicate or cold tick; integrating nothing keeps this idempotent.
		return n.composeLocked()
	}

	if abs32(n.azimuthVelocity) > velocityEpsilon || abs32(n.elevationVelocity) > velocityEpsilon {
		n.azimuth -= n.azimuthVelocity
		n.elevation = Clamp(n.elevation+n.elevationVelocity, n.minElevation, n.maxElevation)
		n.azimuthVelocity *= n.friction
		n.elevationVelocity *= n.friction
		if abs32(n.azimuthVelocity) <= velocityEpsilon {
			n.azimuthVelocity = 0
		}
		if abs32(n.elevationVelocity) <= velocityEpsilon {
			n.elevationVelocity = 0
		}
	}

	if pvx, pvy := n.panVelocity[0], n.panVelocity[1]; float32(math.Hypot(float64(pvx), float64(pvy))) > velocityEpsilon {
		// Sensitivity was applied when the velocity was seeded; only the
		// distance scaling is applied per tick.
		pose := n.composeLocked()
		delta := pose.Right.Scale(-pvx).Add(pose.Up.Scale(pvy)).Scale(n.distance)
		n.pivot = n.pivot.Add(delta)
		n.panVelocity[0] *= n.friction
		n.panVelocity[1] *= n.friction
		if float32(math.Hypot(float64(n.panVelocity[0]), float64(n.panVelocity[1]))) <= velocityEpsilon {
			n.panVelocity = [2]float32{}
		}
	}

	if abs32(n.zoomVelocity) > velocityEpsilon {
		// Multiplicative-feel zoom, consistent with live pinch behavior.
		n.distance = Clamp(n.distance+n.zoomVelocity*n.distance, n.minDistance, n.maxDistance)
		n.zoomVelocity *= n.friction
		if abs32(n.zoomVelocity) <= velocityEpsilon {
			n.zoomVelocity = 0
		}
	}

	return n.composeLocked()
}

func (n *navigatorImpl) Transform() Transform {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.composeLocked()
}

// composeLocked composes the camera transform from the current pose.
// Caller must hold the mutex.
func (n *navigatorImpl) composeLocked() Transform {
	return ComposePose(n.pivot, n.distance, n.azimuth, n.elevation)
}

func (n *navigatorImpl) Pivot() common.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pivot
}

func (n *navigatorImpl) SetPivot(pivot common.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pivot = pivot
}

func (n *navigatorImpl) Distance() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.distance
}

func (n *navigatorImpl) SetDistance(distance float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.distance = Clamp(distance, n.minDistance, n.maxDistance)
}

func (n *navigatorImpl) Azimuth() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.azimuth
}

func (n *navigatorImpl) SetAzimuth(azimuth float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.azimuth = azimuth
}

func (n *navigatorImpl) Elevation() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.elevation
}

func (n *navigatorImpl) SetElevation(elevation float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.elevation = Clamp(elevation, n.minElevation, n.maxElevation)
}

func (n *navigatorImpl) MinDistance() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.minDistance
}

func (n *navigatorImpl) MaxDistance() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.maxDistance
}

func (n *navigatorImpl) MinElevation() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.minElevation
}

func (n *navigatorImpl) MaxElevation() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.maxElevation
}

func (n *navigatorImpl) Friction() float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.friction
}

// abs32 is math.Abs for float32 without the double conversion dance.
func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
