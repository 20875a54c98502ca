package navigation

import (
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// worldUp is the fixed world-space up axis. Elevation bounds must stay
// strictly inside (-π/2, π/2) so the camera's look direction never becomes
// parallel to this axis, which would make the right-axis derivation unstable.
var worldUp = common.Vec3{X: 0, Y: 1, Z: 0}

// Transform is the rigid camera pose produced from spherical coordinates:
// a world-space position plus an orthonormal right/up/forward basis.
type Transform struct {
	// Position is the camera position in world space.
	Position common.Vec3

	// Right is the camera's local +X axis in world space.
	Right common.Vec3

	// Up is the camera's local +Y axis in world space.
	Up common.Vec3

	// Forward is the look direction (from the camera toward the pivot).
	Forward common.Vec3
}

// Matrix returns the camera-to-world rigid transform as a column-major 4x4
// matrix. The rotation columns are [right, up, -forward] per the right-handed
// camera convention (camera-space +Z points away from the look direction).
//
// Returns:
//   - [16]float32: the rigid transform matrix
func (t Transform) Matrix() [16]float32 {
	var m [16]float32
	common.ComposeRigid(m[:], t.Right, t.Up, t.Forward.Scale(-1), t.Position)
	return m
}

// ComposePose converts a spherical-coordinate pose into a camera Transform.
// Pure function of its inputs.
//
// The position is pivot + distance * (cosE·sinA, sinE, cosE·cosA): Y-up,
// right-handed, azimuth 0 on the +Z axis.
//
// Parameters:
//   - pivot: the world-space point the camera orbits
//   - distance: radial distance from pivot to camera
//   - azimuth: horizontal orbit angle in radians
//   - elevation: vertical orbit angle in radians
//
// Returns:
//   - Transform: the composed camera pose
func ComposePose(pivot common.Vec3, distance, azimuth, elevation float32) Transform {
	cosElev := float32(math.Cos(float64(elevation)))
	sinElev := float32(math.Sin(float64(elevation)))
	cosAzim := float32(math.Cos(float64(azimuth)))
	sinAzim := float32(math.Sin(float64(azimuth)))

	position := pivot.Add(common.Vec3{
		X: distance * cosElev * sinAzim,
		Y: distance * sinElev,
		Z: distance * cosElev * cosAzim,
	})

	forward := pivot.Sub(position).Normalize()
	z := forward.Scale(-1)

	x := worldUp.Cross(z).Normalize()
	if x == (common.Vec3{}) {
		// Look direction parallel to world up. The elevation clamp keeps this
		// unreachable in a running session; fall back to a fixed right axis.
		x = common.Vec3{X: 1}
	}
	y := z.Cross(x)

	return Transform{
		Position: position,
		Right:    x,
		Up:       y,
		Forward:  forward,
	}
}
