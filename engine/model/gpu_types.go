package model

import (
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// GPULitVertex is the GPU-aligned vertex of a lit body mesh.
// Matches the WGSL VertexInput of the body shader.
// Size: 24 bytes.
type GPULitVertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	Normal   [3]float32 // offset 12: model-space normal (12 bytes)
}

// Size returns the size of the GPULitVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPULitVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULitVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPULitVertex) Marshal() []byte {
	buf := make([]byte, 24)
	common.PutFloat32s(buf, 0, g.Position[0], g.Position[1], g.Position[2], g.Normal[0], g.Normal[1], g.Normal[2])
	return buf
}

// GPULineVertex is the GPU-aligned vertex of a line set.
// Size: 12 bytes.
type GPULineVertex struct {
	Position [3]float32 // offset 0: model-space position (12 bytes)
}

// Size returns the size of the GPULineVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPULineVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// LitVertexData packs a mesh's positions and normals as consecutive GPULitVertex records.
func LitVertexData(m *Mesh) []byte {
	verts := make([]GPULitVertex, len(m.Positions))
	for i, p := range m.Positions {
		verts[i] = GPULitVertex{Position: p, Normal: m.Normals[i]}
	}
	return append([]byte(nil), common.SliceToBytes(verts)...)
}

// LineVertexData packs positions as consecutive GPULineVertex records.
func LineVertexData(e *Edges) []byte {
	verts := make([]GPULineVertex, len(e.Positions))
	for i, p := range e.Positions {
		verts[i] = GPULineVertex{Position: p}
	}
	return append([]byte(nil), common.SliceToBytes(verts)...)
}

// IndexData packs indices as little-endian uint32s.
func IndexData(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
