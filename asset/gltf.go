package asset

import (
	"encoding/base64"
	"encoding/json"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Common errors returned by the mesh loader
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errNoGeometry         = errors.New("file contains no triangle geometry")
)

// GLB container constants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A
	glbChunkBIN  = 0x004E4942
)

// glTF accessor component types
const (
	componentUByte  = 5121
	componentUShort = 5123
	componentUInt   = 5125
	componentFloat  = 5126
)

// Mesh is the captured scene geometry handed to the viewer: triangle
// positions, optional per-vertex colors, and a flat index list. Multiple
// glTF primitives are merged into one mesh with rebased indices.
type Mesh struct {
	// Positions holds the vertex positions.
	Positions [][3]float32

	// Colors holds RGBA vertex colors, or nil when the file carries none.
	// When non-nil it is the same length as Positions.
	Colors [][4]float32

	// Indices holds the triangle list indices into Positions.
	Indices []uint32
}

// Bounds computes the axis-aligned bounding box of the mesh positions.
//
// Returns:
//   - Bounds: the mesh bounding box
func (m *Mesh) Bounds() Bounds {
	return ComputeBounds(m.Positions)
}

// Subset of the glTF 2.0 document model, limited to what mesh geometry needs.
type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	Buffers     []gltfBuffer     `json:"buffers"`
	BufferViews []gltfBufferView `json:"bufferViews"`
	Accessors   []gltfAccessor   `json:"accessors"`
	Meshes      []gltfMesh       `json:"meshes"`
}

type gltfBuffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri"`

	data []byte // loaded lazily from URI or GLB binary chunk
}

type gltfBufferView struct {
	Buffer     int  `json:"buffer"`
	ByteOffset int  `json:"byteOffset"`
	ByteLength int  `json:"byteLength"`
	ByteStride *int `json:"byteStride"`
}

type gltfAccessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type gltfMesh struct {
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices"`
	Mode       *int           `json:"mode"`
}

// LoadMesh loads a glTF 2.0 (.gltf JSON or .glb binary) file and merges all
// triangle primitives into a single Mesh. Format detection is by magic
// number, not extension. Materials, animations, and scene hierarchy are
// ignored; only geometry reaches the viewer.
//
// Parameters:
//   - path: path to the glTF or GLB file
//
// Returns:
//   - *Mesh: the merged triangle mesh
//   - error: error if reading or parsing fails
func LoadMesh(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mesh file: %w", err)
	}

	var doc *gltfDocument
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == glbMagic {
		doc, err = parseGLB(data)
	} else {
		doc, err = parseGLTF(data, filepath.Dir(path))
	}
	if err != nil {
		return nil, err
	}

	return extractMesh(doc)
}

// unmarshalGLTF decodes a glTF JSON document and checks the asset version.
func unmarshalGLTF(data []byte, doc *gltfDocument) error {
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	return nil
}

// parseGLTF parses a JSON glTF document and loads its buffers, resolving
// relative buffer URIs against baseDir.
func parseGLTF(data []byte, baseDir string) (*gltfDocument, error) {
	var doc gltfDocument
	if err := unmarshalGLTF(data, &doc); err != nil {
		return nil, err
	}

	if err := loadBuffers(&doc, baseDir, nil); err != nil {
		return nil, err
	}
	return &doc, nil
}

// parseGLB parses a GLB container: a 12-byte header followed by
// length-prefixed chunks, of which the JSON chunk is mandatory and the BIN
// chunk backs the URI-less first buffer.
func parseGLB(data []byte) (*gltfDocument, error) {
	if len(data) < 12 {
		return nil, errors.New("GLB file too small")
	}
	if binary.LittleEndian.Uint32(data[:4]) != glbMagic {
		return nil, errInvalidGLBMagic
	}
	if binary.LittleEndian.Uint32(data[4:8]) != glbVersion {
		return nil, errInvalidGLBVersion
	}

	var jsonChunk, binChunk []byte
	for offset := 12; offset+8 <= len(data); {
		length := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8
		if offset+length > len(data) {
			return nil, errors.New("GLB chunk exceeds file size")
		}
		switch chunkType {
		case glbChunkJSON:
			jsonChunk = data[offset : offset+length]
		case glbChunkBIN:
			binChunk = data[offset : offset+length]
		}
		offset += length
	}

	if jsonChunk == nil {
		return nil, errMissingJSONChunk
	}

	var doc gltfDocument
	if err := unmarshalGLTF(jsonChunk, &doc); err != nil {
		return nil, err
	}

	if err := loadBuffers(&doc, "", binChunk); err != nil {
		return nil, err
	}
	return &doc, nil
}

// loadBuffers resolves every buffer's backing bytes: the GLB binary chunk
// for a URI-less buffer 0, base64 data URIs, or files relative to baseDir.
func loadBuffers(doc *gltfDocument, baseDir string, glbBinary []byte) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		if buf.URI == "" {
			if i == 0 && glbBinary != nil {
				buf.data = glbBinary
			} else {
				return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
			}
		} else if strings.HasPrefix(buf.URI, "data:") {
			decoded, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = decoded
		} else {
			data, err := os.ReadFile(filepath.Join(baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("buffer %d: failed to load %q: %w", i, buf.URI, err)
			}
			buf.data = data
		}

		if len(buf.data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidBufferURI
	}

	header := uri[5:commaIdx]
	if !strings.Contains(header, "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}

	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// extractMesh merges every triangle primitive with a POSITION attribute into
// one Mesh, rebasing indices onto the merged vertex list.
func extractMesh(doc *gltfDocument) (*Mesh, error) {
	mesh := &Mesh{}
	hasColors := false

	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != nil && *prim.Mode != 4 { // triangles only
				continue
			}
			posAccessor, ok := prim.Attributes["POSITION"]
			if !ok {
				continue
			}

			base := uint32(len(mesh.Positions))

			positions, err := readVec3Accessor(doc, posAccessor)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d positions: %w", mi, pi, err)
			}
			mesh.Positions = append(mesh.Positions, positions...)

			if colAccessor, ok := prim.Attributes["COLOR_0"]; ok {
				colors, err := readColorAccessor(doc, colAccessor)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d colors: %w", mi, pi, err)
				}
				mesh.Colors = append(mesh.Colors, colors...)
				hasColors = true
			} else {
				// Pad so colors stay aligned when only some primitives carry them.
				for range positions {
					mesh.Colors = append(mesh.Colors, [4]float32{1, 1, 1, 1})
				}
			}

			if prim.Indices != nil {
				indices, err := readIndexAccessor(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %d primitive %d indices: %w", mi, pi, err)
				}
				for _, idx := range indices {
					mesh.Indices = append(mesh.Indices, base+idx)
				}
			} else {
				// Non-indexed primitive: synthesize a sequential index list.
				for i := range positions {
					mesh.Indices = append(mesh.Indices, base+uint32(i))
				}
			}
		}
	}

	if len(mesh.Positions) == 0 {
		return nil, errNoGeometry
	}
	if !hasColors {
		mesh.Colors = nil
	}
	return mesh, nil
}

// readAccessorData copies an accessor's elements out of its buffer view,
// honoring interleaved byte strides, into a tightly packed byte slice.
func readAccessorData(doc *gltfDocument, accessorIndex int) ([]byte, *gltfAccessor, error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]
	if acc.BufferView == nil {
		return nil, nil, errors.New("accessor has no bufferView")
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("bufferView index %d out of range", *acc.BufferView)
	}

	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}
	buf := &doc.Buffers[bv.Buffer]

	elementSize := componentTypeSize(acc.ComponentType) * accessorComponentCount(acc.Type)
	if elementSize == 0 {
		return nil, nil, fmt.Errorf("unsupported accessor layout %q/%d", acc.Type, acc.ComponentType)
	}

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	start := bv.ByteOffset + acc.ByteOffset
	if last := start + (acc.Count-1)*stride + elementSize; acc.Count > 0 && last > len(buf.data) {
		return nil, nil, errBufferSizeMismatch
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := start + i*stride
		copy(result[i*elementSize:(i+1)*elementSize], buf.data[src:src+elementSize])
	}
	return result, acc, nil
}

// readVec3Accessor reads an accessor as float vec3 data.
func readVec3Accessor(doc *gltfDocument, accessorIndex int) ([][3]float32, error) {
	data, acc, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != "VEC3" || acc.ComponentType != componentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %q/%d", acc.Type, acc.ComponentType)
	}

	out := make([][3]float32, acc.Count)
	for i := range out {
		for c := 0; c < 3; c++ {
			out[i][c] = math.Float32frombits(binary.LittleEndian.Uint32(data[(i*3+c)*4:]))
		}
	}
	return out, nil
}

// readColorAccessor reads a COLOR_0 accessor as RGBA floats. glTF permits
// VEC3 or VEC4 in float or normalized ubyte/ushort; a missing alpha channel
// fills with 1.
func readColorAccessor(doc *gltfDocument, accessorIndex int) ([][4]float32, error) {
	data, acc, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}

	components := accessorComponentCount(acc.Type)
	if components != 3 && components != 4 {
		return nil, fmt.Errorf("expected VEC3 or VEC4 color, got %q", acc.Type)
	}

	read := func(i, c int) float32 {
		idx := i*components + c
		switch acc.ComponentType {
		case componentFloat:
			return math.Float32frombits(binary.LittleEndian.Uint32(data[idx*4:]))
		case componentUByte:
			return float32(data[idx]) / 255.0
		case componentUShort:
			return float32(binary.LittleEndian.Uint16(data[idx*2:])) / 65535.0
		}
		return 0
	}

	switch acc.ComponentType {
	case componentFloat, componentUByte, componentUShort:
	default:
		return nil, fmt.Errorf("unsupported color component type %d", acc.ComponentType)
	}

	out := make([][4]float32, acc.Count)
	for i := range out {
		out[i][3] = 1
		for c := 0; c < components; c++ {
			out[i][c] = read(i, c)
		}
	}
	return out, nil
}

// readIndexAccessor reads an index accessor, widening ubyte/ushort indices
// to uint32.
func readIndexAccessor(doc *gltfDocument, accessorIndex int) ([]uint32, error) {
	data, acc, err := readAccessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("expected SCALAR indices, got %q", acc.Type)
	}

	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case componentUByte:
		for i := range out {
			out[i] = uint32(data[i])
		}
	case componentUShort:
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case componentUInt:
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type %d", acc.ComponentType)
	}
	return out, nil
}

// componentTypeSize returns the byte size of a glTF component type,
// or 0 if unsupported.
func componentTypeSize(componentType int) int {
	switch componentType {
	case componentUByte:
		return 1
	case componentUShort:
		return 2
	case componentUInt, componentFloat:
		return 4
	default:
		return 0
	}
}

// accessorComponentCount returns the number of components in a glTF accessor
// type, or 0 if unsupported.
func accessorComponentCount(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4":
		return 4
	default:
		return 0
	}
}
