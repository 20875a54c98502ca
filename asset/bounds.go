// Package asset loads captured scene meshes and derives the bounding-box
// inputs the navigation session is initialized from.
package asset

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/common"
)

// parallelThreshold is the vertex count below which the bounding box is
// reduced serially; pool dispatch overhead dominates under this size.
const parallelThreshold = 1 << 14

// Bounds is an axis-aligned bounding box in world space.
type Bounds struct {
	// Min is the component-wise minimum corner.
	Min common.Vec3

	// Max is the component-wise maximum corner.
	Max common.Vec3
}

// Center returns the box center, the initial orbit pivot for a scene.
//
// Returns:
//   - common.Vec3: the center point
func (b Bounds) Center() common.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the full box size along each axis. The largest component
// sizes the initial orbit distance.
//
// Returns:
//   - common.Vec3: the per-axis extents
func (b Bounds) Extents() common.Vec3 {
	return b.Max.Sub(b.Min)
}

// ComputeBounds reduces mesh vertex positions to their axis-aligned bounding
// box. Large meshes are split into chunks reduced in parallel on a dynamic
// worker pool; the partial boxes are merged afterwards. An empty position
// slice yields the zero Bounds, which Navigator.Initialize treats as the
// degenerate-box case.
//
// Parameters:
//   - positions: the mesh vertex positions
//
// Returns:
//   - Bounds: the bounding box of all positions
func ComputeBounds(positions [][3]float32) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	if len(positions) < parallelThreshold {
		return reduceBounds(positions)
	}

	workers := max(runtime.NumCPU()-1, 1)
	chunk := (len(positions) + workers - 1) / workers

	pool := worker.NewDynamicWorkerPool(workers, workers, 100*time.Millisecond)
	partials := make([]Bounds, 0, workers)
	for start := 0; start < len(positions); start += chunk {
		partials = append(partials, Bounds{})
	}

	// WaitGroup barrier instead of pool.Wait, which only returns once the
	// workers idle-exit.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(positions); start += chunk {
		end := min(start+chunk, len(positions))
		slot := taskID
		sub := positions[start:end]

		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				partials[slot] = reduceBounds(sub)
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	merged := partials[0]
	for _, p := range partials[1:] {
		merged = mergeBounds(merged, p)
	}
	return merged
}

// reduceBounds is the serial min/max reduction over a position slice.
// Caller guarantees the slice is non-empty.
func reduceBounds(positions [][3]float32) Bounds {
	b := Bounds{
		Min: common.Vec3{X: positions[0][0], Y: positions[0][1], Z: positions[0][2]},
		Max: common.Vec3{X: positions[0][0], Y: positions[0][1], Z: positions[0][2]},
	}
	for _, p := range positions[1:] {
		b.Min.X = min(b.Min.X, p[0])
		b.Min.Y = min(b.Min.Y, p[1])
		b.Min.Z = min(b.Min.Z, p[2])
		b.Max.X = max(b.Max.X, p[0])
		b.Max.Y = max(b.Max.Y, p[1])
		b.Max.Z = max(b.Max.Z, p[2])
	}
	return b
}

// mergeBounds returns the smallest box containing both inputs.
func mergeBounds(a, b Bounds) Bounds {
	return Bounds{
		Min: common.Vec3{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y), Z: min(a.Min.Z, b.Min.Z)},
		Max: common.Vec3{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y), Z: max(a.Max.Z, b.Max.Z)},
	}
}
