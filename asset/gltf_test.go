package asset

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// buildTriangleBuffer packs three float vec3 positions followed by three
// uint16 indices, matching the accessor layout the test documents describe.
func buildTriangleBuffer(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	positions := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	for _, p := range positions {
		for _, c := range p {
			if err := binary.Write(&buf, binary.LittleEndian, math.Float32bits(c)); err != nil {
				t.Fatalf("failed to write position: %v", err)
			}
		}
	}
	for _, idx := range []uint16{0, 1, 2} {
		if err := binary.Write(&buf, binary.LittleEndian, idx); err != nil {
			t.Fatalf("failed to write index: %v", err)
		}
	}
	return buf.Bytes()
}

// triangleDocument returns a minimal glTF document as a JSON-ready map,
// with the buffer entry left to the caller.
func triangleDocument(buffer map[string]any) map[string]any {
	return map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"buffers": []any{buffer},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": componentFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": componentUShort, "count": 3, "type": "SCALAR"},
		},
		"meshes": []any{
			map[string]any{
				"primitives": []any{
					map[string]any{
						"attributes": map[string]any{"POSITION": 0},
						"indices":    1,
					},
				},
			},
		},
	}
}

func writeJSONFile(t *testing.T, dir, name string, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal document: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func assertTriangleMesh(t *testing.T, mesh *Mesh) {
	t.Helper()
	if len(mesh.Positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(mesh.Positions))
	}
	if mesh.Positions[1] != [3]float32{1, 0, 0} {
		t.Errorf("Positions[1] = %v, want [1 0 0]", mesh.Positions[1])
	}
	if len(mesh.Indices) != 3 {
		t.Fatalf("got %d indices, want 3", len(mesh.Indices))
	}
	for i, idx := range mesh.Indices {
		if idx != uint32(i) {
			t.Errorf("Indices[%d] = %d, want %d", i, idx, i)
		}
	}
	if mesh.Colors != nil {
		t.Errorf("expected nil colors for a colorless mesh, got %d entries", len(mesh.Colors))
	}
}

func TestLoadMeshDataURI(t *testing.T) {
	buffer := buildTriangleBuffer(t)
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buffer)
	doc := triangleDocument(map[string]any{
		"byteLength": len(buffer),
		"uri":        uri,
	})
	path := writeJSONFile(t, t.TempDir(), "triangle.gltf", doc)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	assertTriangleMesh(t, mesh)
}

func TestLoadMeshExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	buffer := buildTriangleBuffer(t)
	if err := os.WriteFile(filepath.Join(dir, "triangle.bin"), buffer, 0o644); err != nil {
		t.Fatalf("failed to write buffer file: %v", err)
	}
	doc := triangleDocument(map[string]any{
		"byteLength": len(buffer),
		"uri":        "triangle.bin",
	})
	path := writeJSONFile(t, dir, "triangle.gltf", doc)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	assertTriangleMesh(t, mesh)
}

func TestLoadMeshGLB(t *testing.T) {
	buffer := buildTriangleBuffer(t)
	doc := triangleDocument(map[string]any{"byteLength": len(buffer)})
	jsonChunk, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal document: %v", err)
	}
	// Chunks must be 4-byte aligned; JSON pads with spaces, BIN with zeros.
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := append([]byte(nil), buffer...)
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	var glb bytes.Buffer
	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)
	for _, v := range []uint32{glbMagic, glbVersion, uint32(total)} {
		binary.Write(&glb, binary.LittleEndian, v)
	}
	binary.Write(&glb, binary.LittleEndian, uint32(len(jsonChunk)))
	binary.Write(&glb, binary.LittleEndian, uint32(glbChunkJSON))
	glb.Write(jsonChunk)
	binary.Write(&glb, binary.LittleEndian, uint32(len(binChunk)))
	binary.Write(&glb, binary.LittleEndian, uint32(glbChunkBIN))
	glb.Write(binChunk)

	path := filepath.Join(t.TempDir(), "triangle.glb")
	if err := os.WriteFile(path, glb.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write GLB file: %v", err)
	}

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	assertTriangleMesh(t, mesh)
}

func TestLoadMeshVertexColors(t *testing.T) {
	var buf bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, p := range positions {
		for _, c := range p {
			binary.Write(&buf, binary.LittleEndian, math.Float32bits(c))
		}
	}
	// Normalized ubyte RGB colors.
	colors := [][3]byte{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	for _, c := range colors {
		buf.Write(c[:])
		buf.WriteByte(0) // padding byte keeps elements 4-byte aligned
	}
	buffer := buf.Bytes()

	stride := 4
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"buffers": []any{map[string]any{
			"byteLength": len(buffer),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buffer),
		}},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 12, "byteStride": stride},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": componentFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": componentUByte, "count": 3, "type": "VEC3"},
		},
		"meshes": []any{
			map[string]any{
				"primitives": []any{
					map[string]any{
						"attributes": map[string]any{"POSITION": 0, "COLOR_0": 1},
					},
				},
			},
		},
	}
	path := writeJSONFile(t, t.TempDir(), "colored.gltf", doc)

	mesh, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if len(mesh.Colors) != 3 {
		t.Fatalf("got %d colors, want 3", len(mesh.Colors))
	}
	want := [][4]float32{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}}
	for i, c := range mesh.Colors {
		for ch := 0; ch < 4; ch++ {
			if math.Abs(float64(c[ch]-want[i][ch])) > 1e-3 {
				t.Errorf("Colors[%d] = %v, want %v", i, c, want[i])
				break
			}
		}
	}
	// Non-indexed primitive gets a synthesized sequential index list.
	if len(mesh.Indices) != 3 {
		t.Errorf("got %d indices, want 3", len(mesh.Indices))
	}
}

func TestLoadMeshRejectsWrongVersion(t *testing.T) {
	doc := map[string]any{
		"asset": map[string]any{"version": "1.0"},
	}
	path := writeJSONFile(t, t.TempDir(), "old.gltf", doc)

	if _, err := LoadMesh(path); !errors.Is(err, errInvalidGLTFVersion) {
		t.Errorf("LoadMesh error = %v, want %v", err, errInvalidGLTFVersion)
	}
}

func TestLoadMeshRejectsEmptyScene(t *testing.T) {
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
	}
	path := writeJSONFile(t, t.TempDir(), "empty.gltf", doc)

	if _, err := LoadMesh(path); !errors.Is(err, errNoGeometry) {
		t.Errorf("LoadMesh error = %v, want %v", err, errNoGeometry)
	}
}

func TestLoadMeshBufferTooShort(t *testing.T) {
	buffer := buildTriangleBuffer(t)
	truncated := buffer[:len(buffer)-4]
	doc := triangleDocument(map[string]any{
		"byteLength": len(buffer),
		"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(truncated),
	})
	path := writeJSONFile(t, t.TempDir(), "short.gltf", doc)

	if _, err := LoadMesh(path); !errors.Is(err, errBufferSizeMismatch) {
		t.Errorf("LoadMesh error = %v, want %v", err, errBufferSizeMismatch)
	}
}

func TestMeshBounds(t *testing.T) {
	mesh := &Mesh{Positions: [][3]float32{{-1, 2, 0}, {3, -2, 5}}}
	b := mesh.Bounds()
	if b.Min.X != -1 || b.Min.Y != -2 || b.Min.Z != 0 {
		t.Errorf("Min = %+v, want {-1 -2 0}", b.Min)
	}
	if b.Max.X != 3 || b.Max.Y != 2 || b.Max.Z != 5 {
		t.Errorf("Max = %+v, want {3 2 5}", b.Max)
	}
}
