package kernel

import "math"

// Mesh is a triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Volume returns the enclosed volume of a closed mesh, summing the signed
// volumes of the tetrahedra spanned by the origin and each triangle.
// The result is independent of winding direction.
func (m *Mesh) Volume() float64 {
	if m.IsEmpty() {
		return 0
	}
	vertex := func(i uint32) (x, y, z float64) {
		return float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2])
	}

	var sum float64
	for t := 0; t+2 < len(m.Indices); t += 3 {
		ax, ay, az := vertex(m.Indices[t])
		bx, by, bz := vertex(m.Indices[t+1])
		cx, cy, cz := vertex(m.Indices[t+2])
		// a . (b x c)
		sum += ax*(by*cz-bz*cy) - ay*(bx*cz-bz*cx) + az*(bx*cy-by*cx)
	}
	return math.Abs(sum) / 6
}
