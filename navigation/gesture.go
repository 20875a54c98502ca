package navigation

// ApplyOrbit mutates the orbit angles for a live drag, or seeds orbit
// inertia from the terminal delta when the gesture ends.
func (n *navigatorImpl) ApplyOrbit(dx, dy float32, ending bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ending {
		n.azimuthVelocity = dx * n.orbitSensitivity * inertiaSeedScale
		n.elevationVelocity = dy * n.orbitSensitivity * inertiaSeedScale
		return
	}

	if dx == 0 && dy == 0 {
		return
	}

	n.azimuth -= dx * n.orbitSensitivity
	n.elevation = Clamp(n.elevation+dy*n.orbitSensitivity, n.minElevation, n.maxElevation)
}

// ApplyPan moves the pivot along the current camera right/up basis for a
// live drag, or seeds pan inertia from the terminal delta when the gesture
// ends. The displacement is scaled by the current distance so a drag covers
// the same fraction of the view at any zoom level.
//
// Ending velocity is stored in screen space and converted through the basis
// on each integration tick. Pan inertia does not itself rotate the camera,
// so the basis is effectively frozen at gesture end unless orbit inertia is
// gliding at the same time.
func (n *navigatorImpl) ApplyPan(dx, dy float32, ending bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ending {
		n.panVelocity[0] = dx * n.panSensitivity * inertiaSeedScale
		n.panVelocity[1] = dy * n.panSensitivity * inertiaSeedScale
		return
	}

	if dx == 0 && dy == 0 {
		return
	}

	pose := n.composeLocked()
	delta := pose.Right.Scale(-dx).Add(pose.Up.Scale(dy)).Scale(n.distance * n.panSensitivity)
	n.pivot = n.pivot.Add(delta)
}

// ApplyZoom divides the distance by a live pinch scale factor (pinch-out
// brings the camera closer), or seeds zoom inertia from the recognizer's
// ending velocity. A non-positive scale factor is invalid gesture input and
// is dropped before it can reach the distance.
func (n *navigatorImpl) ApplyZoom(scale, endingVelocity float32, ending bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ending {
		n.zoomVelocity = endingVelocity * zoomInertiaScale
		return
	}

	if scale <= 0 || scale == 1 {
		return
	}

	n.distance = Clamp(n.distance/scale, n.minDistance, n.maxDistance)
}

// ClearVelocity zeroes all four velocity fields. Used when navigation is
// reset or re-initialized.
func (n *navigatorImpl) ClearVelocity() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearVelocityLocked()
}

// clearVelocityLocked zeroes the velocity state. Caller must hold the mutex.
func (n *navigatorImpl) clearVelocityLocked() {
	n.azimuthVelocity = 0
	n.elevationVelocity = 0
	n.panVelocity = [2]float32{}
	n.zoomVelocity = 0
}
