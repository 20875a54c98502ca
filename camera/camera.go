package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/navigation"
)

type cameraImpl struct {
	mu *sync.Mutex

	up common.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
	inverseViewMatrix    [16]float32

	navigator navigation.Navigator
}

// Camera holds perspective settings and computes view/projection matrices
// from an attached Navigator's pose each frame via Update().
type Camera interface {
	// Up returns the camera's world up vector.
	//
	// Returns:
	//   - common.Vec3: the up vector
	Up() common.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix
	// as 16 floats (column-major). This is what the renderer uploads.
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseViewMatrix returns the inverse of the current view matrix, i.e.
	// the camera-to-world transform. Useful for unprojecting screen rays.
	//
	// Returns:
	//   - [16]float32: the inverse view matrix
	InverseViewMatrix() [16]float32

	// Navigator returns the attached Navigator, or nil if none is attached.
	//
	// Returns:
	//   - navigation.Navigator: the attached navigator or nil
	Navigator() navigation.Navigator

	// Update reads the pose from the navigator and recomputes matrices.
	// Should be called once per frame after the navigator tick.
	// If no navigator is attached, this method does nothing.
	Update()

	// SetUp sets the camera's world up vector.
	//
	// Parameters:
	//   - up: the new up vector
	SetUp(up common.Vec3)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetNavigator attaches a Navigator to the camera.
	//
	// Parameters:
	//   - nav: the navigator to attach
	SetNavigator(nav navigation.Navigator)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
// A navigator must be attached via SetNavigator or the WithNavigator option
// before pose data is available.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                   &sync.Mutex{},
		up:                   common.Vec3{Y: 1},
		fov:                  45.0 * (math.Pi / 180.0), // radians
		aspect:               1.0,
		near:                 0.01,
		far:                  100.0,
		viewMatrix:           [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		projectionMatrix:     [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		viewProjectionMatrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		inverseViewMatrix:    [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, option := range options {
		option(c)
	}
	if c.navigator != nil {
		c.updateMatrices()
	}
	return c
}

func (c *cameraImpl) Up() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewMatrix
}

func (c *cameraImpl) SetUp(up common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Navigator() navigation.Navigator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigator
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.navigator == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetNavigator(nav navigation.Navigator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigator = nav
}

// updateMatrices recalculates the view, projection, view-projection, and
// inverse view matrices from the navigator's pose. No-op when the navigator
// is nil. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.navigator == nil {
		return
	}

	pose := c.navigator.Transform()
	pivot := c.navigator.Pivot()

	common.LookAt(c.viewMatrix[:], pose.Position, pivot, c.up)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.InvertRigid(c.inverseViewMatrix[:], c.viewMatrix[:])
}
