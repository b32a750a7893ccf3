package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	phi = (1 + math32.Sqrt(5)) / 2

	icosahedronVertices = []mgl32.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	icosahedronFaces = []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	tetrahedronVertices = []mgl32.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}}
	tetrahedronFaces    = []uint32{2, 1, 0, 0, 3, 2, 1, 3, 0, 2, 3, 1}
)

// NewShape builds the mesh for a named shape.
//
// Parameters:
//   - shape: the shape to build
//   - radius: the circumscribed radius, must be > 0
//   - detail: subdivision level for icosahedra (0 is the plain solid); ignored otherwise
//
// Returns:
//   - *Mesh: the mesh
//   - error: a ConfigurationError for a non-positive radius, negative detail or unknown shape
func NewShape(shape Shape, radius float32, detail int) (*Mesh, error) {
	if radius <= 0 {
		return nil, &common.ConfigurationError{Field: "radius", Reason: "must be positive"}
	}
	if detail < 0 {
		return nil, &common.ConfigurationError{Field: "detail", Reason: "must not be negative"}
	}
	switch shape {
	case ShapeSphere:
		return Sphere(radius, 32, 32), nil
	case ShapeTetrahedron:
		return Tetrahedron(radius), nil
	case ShapeIcosahedron:
		return Icosahedron(radius, detail), nil
	default:
		return nil, &common.ConfigurationError{Field: "shape", Reason: fmt.Sprintf("unknown shape %q", shape)}
	}
}

// Sphere builds a UV sphere with smooth normals. The pole rows produce one triangle per segment.
func Sphere(radius float32, widthSegments, heightSegments int) *Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	m := &Mesh{Name: "sphere"}
	grid := make([][]uint32, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		theta := v * math32.Pi
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			az := u * 2 * math32.Pi
			n := mgl32.Vec3{
				-math32.Cos(az) * math32.Sin(theta),
				math32.Cos(theta),
				math32.Sin(az) * math32.Sin(theta),
			}
			row[ix] = uint32(len(m.Positions))
			m.Positions = append(m.Positions, n.Mul(radius))
			m.Normals = append(m.Normals, n)
		}
		grid[iy] = row
	}

	for iy := range heightSegments {
		for ix := range widthSegments {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	return m
}

// Tetrahedron builds a flat-shaded regular tetrahedron.
func Tetrahedron(radius float32) *Mesh {
	m := polyhedron(tetrahedronVertices, tetrahedronFaces, radius, 0)
	m.Name = "tetrahedron"
	return m
}

// Icosahedron builds an icosahedron whose faces are each split into (detail+1)² triangles
// projected onto the circumscribed sphere. Detail 0 is flat shaded; higher detail uses
// smooth normals.
func Icosahedron(radius float32, detail int) *Mesh {
	m := polyhedron(icosahedronVertices, icosahedronFaces, radius, detail)
	m.Name = fmt.Sprintf("icosahedron_%d", detail)
	return m
}

// polyhedron subdivides each base face and projects the result onto a sphere.
// Every triangle gets its own three vertices so flat normals stay per face.
func polyhedron(base []mgl32.Vec3, faces []uint32, radius float32, detail int) *Mesh {
	m := &Mesh{}
	cols := detail + 1

	emit := func(a, b, c mgl32.Vec3) {
		a, b, c = a.Normalize(), b.Normalize(), c.Normalize()
		flat := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, p := range []mgl32.Vec3{a, b, c} {
			m.Indices = append(m.Indices, uint32(len(m.Positions)))
			m.Positions = append(m.Positions, p.Mul(radius))
			if detail == 0 {
				m.Normals = append(m.Normals, flat)
			} else {
				m.Normals = append(m.Normals, p)
			}
		}
	}

	for f := 0; f+2 < len(faces); f += 3 {
		a, b, c := base[faces[f]], base[faces[f+1]], base[faces[f+2]]

		// v[i][j] walks from edge a-b toward c in cols rows.
		v := make([][]mgl32.Vec3, cols+1)
		for i := 0; i <= cols; i++ {
			t := float32(i) / float32(cols)
			aj := lerp(a, c, t)
			bj := lerp(b, c, t)
			rows := cols - i
			v[i] = make([]mgl32.Vec3, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					v[i][j] = aj
				} else {
					v[i][j] = lerp(aj, bj, float32(j)/float32(rows))
				}
			}
		}

		for i := range cols {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					emit(v[i][k+1], v[i+1][k], v[i][k])
				} else {
					emit(v[i][k+1], v[i+1][k+1], v[i+1][k])
				}
			}
		}
	}
	return m
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// ExtractEdges returns the unique edges of a mesh's triangles, welding vertices that share
// a position so flat-shaded meshes yield each geometric edge once.
//
// Parameters:
//   - m: the source mesh
//
// Returns:
//   - *Edges: the welded positions and line-list indices
func ExtractEdges(m *Mesh) *Edges {
	type key [3]int32
	quantize := func(p mgl32.Vec3) key {
		return key{
			int32(math32.Round(p[0] * 1e4)),
			int32(math32.Round(p[1] * 1e4)),
			int32(math32.Round(p[2] * 1e4)),
		}
	}

	e := &Edges{}
	welded := make(map[key]uint32)
	remap := make([]uint32, len(m.Positions))
	for i, p := range m.Positions {
		k := quantize(p)
		idx, ok := welded[k]
		if !ok {
			idx = uint32(len(e.Positions))
			welded[k] = idx
			e.Positions = append(e.Positions, p)
		}
		remap[i] = idx
	}

	seen := make(map[[2]uint32]bool)
	for t := 0; t+2 < len(m.Indices); t += 3 {
		tri := [3]uint32{remap[m.Indices[t]], remap[m.Indices[t+1]], remap[m.Indices[t+2]]}
		for s := range 3 {
			a, b := tri[s], tri[(s+1)%3]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			if seen[[2]uint32{a, b}] {
				continue
			}
			seen[[2]uint32{a, b}] = true
			e.Indices = append(e.Indices, a, b)
		}
	}
	return e
}
