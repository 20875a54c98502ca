package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/navigation"
)

func closeEnough(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestUpdateTracksNavigatorPose(t *testing.T) {
	nav := navigation.NewNavigator(
		navigation.WithDistance(5),
		navigation.WithAzimuth(0),
		navigation.WithElevation(float32(math.Pi/4)),
	)
	cam := NewCamera(WithNavigator(nav), WithAspect(16.0/9.0))

	before := cam.ViewMatrix()
	nav.SetAzimuth(1.2)
	cam.Update()
	if cam.ViewMatrix() == before {
		t.Errorf("view matrix did not follow the navigator pose")
	}
}

// The view matrix must transform the camera position to the origin and the
// pivot onto the negative Z axis at the orbit distance.
func TestViewMatrixLooksAtPivot(t *testing.T) {
	nav := navigation.NewNavigator(
		navigation.WithPivot(common.Vec3{X: 1, Y: 2, Z: -1}),
		navigation.WithDistance(6),
		navigation.WithAzimuth(0.7),
		navigation.WithElevation(0.5),
	)
	cam := NewCamera(WithNavigator(nav))

	view := cam.ViewMatrix()
	pivot := nav.Pivot()
	pose := nav.Transform()

	transformPoint := func(m [16]float32, p common.Vec3) common.Vec3 {
		return common.Vec3{
			X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
			Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
			Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
		}
	}

	origin := transformPoint(view, pose.Position)
	if origin.Len() > 1e-4 {
		t.Errorf("camera position maps to %+v, want origin", origin)
	}

	target := transformPoint(view, pivot)
	if !closeEnough(target.X, 0, 1e-4) || !closeEnough(target.Y, 0, 1e-4) || !closeEnough(target.Z, -6, 1e-3) {
		t.Errorf("pivot maps to %+v, want (0, 0, -6)", target)
	}
}

// InverseViewMatrix must equal the navigator's rigid camera-to-world matrix.
func TestInverseViewMatchesRigidTransform(t *testing.T) {
	nav := navigation.NewNavigator(
		navigation.WithPivot(common.Vec3{X: -2, Y: 0.5, Z: 4}),
		navigation.WithDistance(3),
		navigation.WithAzimuth(2.1),
		navigation.WithElevation(0.9),
	)
	cam := NewCamera(WithNavigator(nav))

	inv := cam.InverseViewMatrix()
	rigid := nav.Transform().Matrix()
	for i := range inv {
		if !closeEnough(inv[i], rigid[i], 1e-4) {
			t.Fatalf("inverse view differs from rigid transform at %d: %v vs %v", i, inv[i], rigid[i])
		}
	}
}

func TestViewProjectionComposition(t *testing.T) {
	nav := navigation.NewNavigator()
	cam := NewCamera(WithNavigator(nav), WithFov(1.0), WithAspect(2.0), WithNear(0.01), WithFar(50))

	var want [16]float32
	proj := cam.ProjectionMatrix()
	view := cam.ViewMatrix()
	common.Mul4(want[:], proj[:], view[:])

	if got := cam.ViewProjectionMatrix(); got != want {
		t.Errorf("view-projection is not projection * view")
	}
}
