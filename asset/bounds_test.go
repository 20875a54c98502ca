package asset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
)

func boundsClose(t *testing.T, got, want Bounds, tol float64) {
	t.Helper()
	check := func(name string, g, w common.Vec3) {
		if math.Abs(float64(g.X-w.X)) > tol ||
			math.Abs(float64(g.Y-w.Y)) > tol ||
			math.Abs(float64(g.Z-w.Z)) > tol {
			t.Errorf("%s = %+v, want %+v", name, g, w)
		}
	}
	check("Min", got.Min, want.Min)
	check("Max", got.Max, want.Max)
}

func TestComputeBoundsEmpty(t *testing.T) {
	b := ComputeBounds(nil)
	if b != (Bounds{}) {
		t.Errorf("ComputeBounds(nil) = %+v, want zero bounds", b)
	}
}

func TestComputeBoundsSinglePoint(t *testing.T) {
	b := ComputeBounds([][3]float32{{1, -2, 3}})
	want := Bounds{
		Min: common.Vec3{X: 1, Y: -2, Z: 3},
		Max: common.Vec3{X: 1, Y: -2, Z: 3},
	}
	boundsClose(t, b, want, 0)
}

func TestComputeBoundsSmallSet(t *testing.T) {
	positions := [][3]float32{
		{-1, 0, 2},
		{3, -4, 0},
		{0, 5, -6},
	}
	b := ComputeBounds(positions)
	want := Bounds{
		Min: common.Vec3{X: -1, Y: -4, Z: -6},
		Max: common.Vec3{X: 3, Y: 5, Z: 2},
	}
	boundsClose(t, b, want, 0)
}

func TestComputeBoundsParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	count := parallelThreshold*3 + 17
	positions := make([][3]float32, count)
	for i := range positions {
		for c := 0; c < 3; c++ {
			positions[i][c] = rng.Float32()*200 - 100
		}
	}

	got := ComputeBounds(positions)
	want := reduceBounds(positions)
	boundsClose(t, got, want, 0)
}

func TestBoundsCenterAndExtents(t *testing.T) {
	b := Bounds{
		Min: common.Vec3{X: -2, Y: 0, Z: 4},
		Max: common.Vec3{X: 6, Y: 2, Z: 10},
	}

	center := b.Center()
	if center != (common.Vec3{X: 2, Y: 1, Z: 7}) {
		t.Errorf("Center() = %+v, want {2 1 7}", center)
	}

	extents := b.Extents()
	if extents != (common.Vec3{X: 4, Y: 1, Z: 3}) {
		t.Errorf("Extents() = %+v, want {4 1 3}", extents)
	}
}
