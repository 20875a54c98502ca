package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/navigation"
	"github.com/Carmen-Shannon/oxy-view/viewer/window"
)

func newTestController(t *testing.T) (*controllerImpl, navigation.Navigator) {
	t.Helper()
	nav := navigation.NewNavigator()
	c, ok := NewController(nav).(*controllerImpl)
	if !ok {
		t.Fatal("NewController did not return a *controllerImpl")
	}
	return c, nav
}

func TestLeftDragOrbits(t *testing.T) {
	c, nav := newTestController(t)
	startAzimuth := nav.Azimuth()

	c.handleMouseButton(window.MouseButtonLeft, true, 100, 100, false)
	if !c.Dragging() {
		t.Fatal("expected an active drag after left press")
	}
	c.handleMouseMove(140, 100)

	if nav.Azimuth() == startAzimuth {
		t.Error("left drag did not change the azimuth")
	}
}

func TestShiftLeftDragPans(t *testing.T) {
	c, nav := newTestController(t)
	startPivot := nav.Pivot()
	startAzimuth := nav.Azimuth()

	c.handleMouseButton(window.MouseButtonLeft, true, 100, 100, true)
	c.handleMouseMove(160, 120)

	if nav.Pivot() == startPivot {
		t.Error("shift-left drag did not move the pivot")
	}
	if nav.Azimuth() != startAzimuth {
		t.Error("pan drag should not change the azimuth")
	}
}

func TestRightDragPans(t *testing.T) {
	c, nav := newTestController(t)
	startPivot := nav.Pivot()

	c.handleMouseButton(window.MouseButtonRight, true, 100, 100, false)
	c.handleMouseMove(130, 90)

	if nav.Pivot() == startPivot {
		t.Error("right drag did not move the pivot")
	}
}

func TestReleaseAfterMoveSeedsGlide(t *testing.T) {
	c, nav := newTestController(t)

	c.handleMouseButton(window.MouseButtonLeft, true, 100, 100, false)
	c.handleMouseMove(150, 100)
	c.handleMouseButton(window.MouseButtonLeft, false, 150, 100, false)

	if c.Dragging() {
		t.Fatal("drag should be inactive after release")
	}

	azimuthAtRelease := nav.Azimuth()
	nav.Tick(navigation.NominalDeltaTime)
	if nav.Azimuth() == azimuthAtRelease {
		t.Error("release after a fast move should leave the orbit gliding")
	}
}

func TestReleaseWithoutMoveStopsDead(t *testing.T) {
	c, nav := newTestController(t)

	c.handleMouseButton(window.MouseButtonLeft, true, 100, 100, false)
	c.handleMouseButton(window.MouseButtonLeft, false, 100, 100, false)

	azimuthAtRelease := nav.Azimuth()
	for i := 0; i < 5; i++ {
		nav.Tick(navigation.NominalDeltaTime)
	}
	if nav.Azimuth() != azimuthAtRelease {
		t.Error("release without movement should not glide")
	}
}

func TestScrollZoomsIn(t *testing.T) {
	c, nav := newTestController(t)
	startDistance := nav.Distance()

	c.handleScroll(1)
	if nav.Distance() >= startDistance {
		t.Errorf("scroll up should zoom in: distance %v -> %v", startDistance, nav.Distance())
	}

	zoomed := nav.Distance()
	c.handleScroll(-1)
	if nav.Distance() <= zoomed {
		t.Errorf("scroll down should zoom out: distance %v -> %v", zoomed, nav.Distance())
	}
}

func TestScrollZeroDeltaIsIgnored(t *testing.T) {
	c, nav := newTestController(t)
	startDistance := nav.Distance()

	c.handleScroll(0)
	if nav.Distance() != startDistance {
		t.Error("zero scroll delta should not change the distance")
	}
}

func TestResetKeyInvokesCallback(t *testing.T) {
	nav := navigation.NewNavigator()
	resets := 0
	c := NewController(nav, WithResetCallback(func() { resets++ })).(*controllerImpl)

	c.handleKeyDown(82) // R
	if resets != 1 {
		t.Errorf("expected 1 reset, got %d", resets)
	}
	c.handleKeyDown(87) // W is unbound
	if resets != 1 {
		t.Errorf("unbound key triggered the reset callback")
	}
}

func TestSpaceClearsGlide(t *testing.T) {
	c, nav := newTestController(t)

	c.handleMouseButton(window.MouseButtonLeft, true, 100, 100, false)
	c.handleMouseMove(200, 100)
	c.handleMouseButton(window.MouseButtonLeft, false, 200, 100, false)

	c.handleKeyDown(32) // space
	azimuth := nav.Azimuth()
	for i := 0; i < 5; i++ {
		nav.Tick(navigation.NominalDeltaTime)
	}
	if nav.Azimuth() != azimuth {
		t.Error("space should stop the glide immediately")
	}
}
