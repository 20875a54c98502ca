package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/asset"
)

func TestInterleaveVerticesWithColors(t *testing.T) {
	mesh := &asset.Mesh{
		Positions: [][3]float32{{1, 2, 3}, {4, 5, 6}},
		Colors:    [][4]float32{{1, 0, 0, 1}, {0, 1, 0, 0.5}},
	}

	data := interleaveVertices(mesh)
	if len(data) != 14 {
		t.Fatalf("got %d floats, want 14", len(data))
	}

	want := []float32{
		1, 2, 3, 1, 0, 0, 1,
		4, 5, 6, 0, 1, 0, 0.5,
	}
	for i, v := range want {
		if data[i] != v {
			t.Errorf("data[%d] = %v, want %v", i, data[i], v)
		}
	}
}

func TestInterleaveVerticesFillsWhite(t *testing.T) {
	mesh := &asset.Mesh{
		Positions: [][3]float32{{0, 0, 0}},
	}

	data := interleaveVertices(mesh)
	if len(data) != 7 {
		t.Fatalf("got %d floats, want 7", len(data))
	}
	for i := 3; i < 7; i++ {
		if data[i] != 1 {
			t.Errorf("color channel %d = %v, want 1", i-3, data[i])
		}
	}
}

func TestVertexStrideMatchesLayout(t *testing.T) {
	// 3 position floats + 4 color floats.
	if vertexStride != 7*4 {
		t.Errorf("vertexStride = %d, want %d", vertexStride, 7*4)
	}
}
