// Package input translates raw window events into navigation gestures.
// A left drag orbits, a right drag (or shift plus left drag) pans, and the
// scroll wheel zooms. Releasing a drag hands its terminal delta to the
// navigator so the motion can glide to a stop.
package input

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/navigation"
	"github.com/Carmen-Shannon/oxy-view/viewer/window"
)

// dragMode identifies which gesture an active mouse drag is driving.
type dragMode int

const (
	dragNone dragMode = iota
	dragOrbit
	dragPan
)

const (
	// scrollZoomStep is the pinch scale factor applied per scroll wheel notch.
	scrollZoomStep float32 = 1.1

	// endingDeltaWindow bounds how stale the last move delta may be and still
	// seed glide on release. A drag that pauses before release stops dead.
	endingDeltaWindow = 80 * time.Millisecond
)

// Controller routes window input events to a navigation.Navigator.
type Controller interface {
	// Bind registers the controller's event handlers on the window.
	// Any previously registered mouse, scroll, and key handlers are replaced.
	//
	// Parameters:
	//   - win: the window whose events drive navigation
	Bind(win window.Window)

	// Dragging reports whether a mouse drag gesture is currently active.
	//
	// Returns:
	//   - bool: true while a button drag is in progress
	Dragging() bool
}

// controllerImpl is the implementation of the Controller interface.
type controllerImpl struct {
	mu sync.Mutex

	// navigator receives the classified gestures.
	navigator navigation.Navigator

	// mode is the gesture the active drag is driving, or dragNone.
	mode dragMode

	// lastX, lastY hold the cursor position of the previous move event.
	lastX, lastY int32

	// lastDelta holds the most recent per-event cursor delta, used to seed
	// glide velocity when the drag ends.
	lastDelta [2]float32

	// lastMoveAt is when lastDelta was recorded.
	lastMoveAt time.Time

	// zoomStep is the scale factor applied per scroll wheel notch.
	zoomStep float32

	// onReset is called when the reset key is pressed (if set).
	onReset func()
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller driving the given navigator.
//
// Parameters:
//   - navigator: the navigator to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the configured controller (not yet bound to a window)
func NewController(navigator navigation.Navigator, options ...ControllerOption) Controller {
	c := &controllerImpl{
		navigator: navigator,
		zoomStep:  scrollZoomStep,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controllerImpl) Bind(win window.Window) {
	win.SetMouseButtonCallback(c.handleMouseButton)
	win.SetMouseMoveCallback(c.handleMouseMove)
	win.SetScrollCallback(c.handleScroll)
	win.SetKeyDownCallback(c.handleKeyDown)
}

func (c *controllerImpl) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode != dragNone
}

// handleMouseButton starts or ends a drag. Press classifies the gesture and
// anchors the cursor; release seeds glide from the last delta if the cursor
// was still moving.
func (c *controllerImpl) handleMouseButton(button window.MouseButton, pressed bool, x, y int32, shift bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pressed {
		switch {
		case button == window.MouseButtonLeft && !shift:
			c.mode = dragOrbit
		case button == window.MouseButtonRight,
			button == window.MouseButtonMiddle,
			button == window.MouseButtonLeft && shift:
			c.mode = dragPan
		default:
			return
		}
		c.lastX, c.lastY = x, y
		c.lastDelta = [2]float32{}
		c.lastMoveAt = time.Time{}
		return
	}

	if c.mode == dragNone {
		return
	}
	mode := c.mode
	c.mode = dragNone

	dx, dy := c.lastDelta[0], c.lastDelta[1]
	if c.lastMoveAt.IsZero() || time.Since(c.lastMoveAt) > endingDeltaWindow {
		dx, dy = 0, 0
	}

	switch mode {
	case dragOrbit:
		c.navigator.ApplyOrbit(dx, dy, true)
	case dragPan:
		c.navigator.ApplyPan(dx, dy, true)
	}
}

// handleMouseMove feeds cursor deltas into the active gesture.
func (c *controllerImpl) handleMouseMove(x, y int32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == dragNone {
		return
	}

	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y
	c.lastDelta = [2]float32{dx, dy}
	c.lastMoveAt = time.Now()

	switch c.mode {
	case dragOrbit:
		c.navigator.ApplyOrbit(dx, dy, false)
	case dragPan:
		c.navigator.ApplyPan(dx, dy, false)
	}
}

// handleScroll converts wheel notches into live pinch scale factors.
// Scrolling up zooms in.
func (c *controllerImpl) handleScroll(delta float32) {
	c.mu.Lock()
	zoomStep := c.zoomStep
	c.mu.Unlock()

	if delta == 0 {
		return
	}
	scale := pow32(zoomStep, delta)
	c.navigator.ApplyZoom(scale, 0, false)
}

// handleKeyDown dispatches navigation key bindings.
func (c *controllerImpl) handleKeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyR:
		c.mu.Lock()
		onReset := c.onReset
		c.mu.Unlock()
		if onReset != nil {
			onReset()
		}
	case common.KeySpace:
		c.navigator.ClearVelocity()
	}
}

func pow32(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}
