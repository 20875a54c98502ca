package input

// ControllerOption is a functional option for configuring a controllerImpl.
// Use the With* functions to create options.
type ControllerOption func(c *controllerImpl)

// WithZoomStep sets the pinch scale factor applied per scroll wheel notch.
// Values at or below 1 are ignored.
//
// Parameters:
//   - step: scale factor per notch (must be > 1)
//
// Returns:
//   - ControllerOption: option function to apply
func WithZoomStep(step float32) ControllerOption {
	return func(c *controllerImpl) {
		if step > 1 {
			c.zoomStep = step
		}
	}
}

// WithResetCallback sets the function invoked when the reset key is pressed.
//
// Parameters:
//   - callback: function to call on reset (or nil to disable)
//
// Returns:
//   - ControllerOption: option function to apply
func WithResetCallback(callback func()) ControllerOption {
	return func(c *controllerImpl) {
		c.onReset = callback
	}
}
