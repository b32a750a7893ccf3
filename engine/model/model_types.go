package model

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape names a procedural body shape.
type Shape string

const (
	// ShapeSphere is a UV sphere.
	ShapeSphere Shape = "sphere"
	// ShapeTetrahedron is a regular tetrahedron.
	ShapeTetrahedron Shape = "tetrahedron"
	// ShapeIcosahedron is an icosahedron, optionally subdivided toward a sphere.
	ShapeIcosahedron Shape = "icosahedron"
)

// ParseShape resolves a shape name, case-insensitively.
//
// Parameters:
//   - name: the shape name
//
// Returns:
//   - Shape: the shape
//   - error: a ConfigurationError for unknown names
func ParseShape(name string) (Shape, error) {
	switch s := Shape(strings.ToLower(strings.TrimSpace(name))); s {
	case ShapeSphere, ShapeTetrahedron, ShapeIcosahedron:
		return s, nil
	default:
		return "", &common.ConfigurationError{Field: "shape", Reason: fmt.Sprintf("unknown shape %q", name)}
	}
}

// Mesh is CPU-side triangle geometry in model space.
// Positions and Normals are parallel; Indices lists triangles counter-clockwise from outside.
type Mesh struct {
	// Name is a debug label.
	Name string

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// BoundingRadius returns the largest vertex distance from the origin.
func (m *Mesh) BoundingRadius() float32 {
	var r float32
	for _, p := range m.Positions {
		if l := p.Len(); l > r {
			r = l
		}
	}
	return r
}

// Edges is line-list geometry: Indices holds pairs into Positions.
type Edges struct {
	Positions []mgl32.Vec3
	Indices   []uint32
}

// Count returns the number of line segments.
func (e *Edges) Count() int {
	return len(e.Indices) / 2
}
