package camera

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/navigation"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: functional option to set the field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the aspect ratio.
//
// Parameters:
//   - aspect: the aspect ratio (width / height)
//
// Returns:
//   - CameraBuilderOption: functional option to set the aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithUp sets the camera's world up vector.
//
// Parameters:
//   - up: the up vector (typically 0,1,0)
//
// Returns:
//   - CameraBuilderOption: functional option to set the up vector
func WithUp(up common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithNavigator attaches a Navigator at construction time.
//
// Parameters:
//   - nav: the navigator to attach
//
// Returns:
//   - CameraBuilderOption: functional option to attach the navigator
func WithNavigator(nav navigation.Navigator) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.navigator = nav
	}
}
