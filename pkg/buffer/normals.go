package buffer

import v3 "github.com/deadsy/sdfx/vec/v3"

// forEachTriangle calls fn for every triangle of the raw index lists, with
// each quad split along its 0-2 diagonal.
func (m *Mesh) forEachTriangle(fn func(i0, i1, i2 uint32)) {
	for t := 0; t+2 < len(m.Triangles); t += 3 {
		fn(m.Triangles[t], m.Triangles[t+1], m.Triangles[t+2])
	}
	for q := 0; q+3 < len(m.Quads); q += 4 {
		fn(m.Quads[q], m.Quads[q+1], m.Quads[q+2])
		fn(m.Quads[q], m.Quads[q+2], m.Quads[q+3])
	}
}

func (m *Mesh) position(i uint32) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[i*3+0]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// ComputeNormals generates per-vertex normals by summing the unnormalized
// (area-weighted) normals of every incident triangle. Vertices that share a
// position, as happens on texture seams, share the summed normal.
func ComputeNormals(m *Mesh) {
	n := m.VertexCount()
	acc := make([]v3.Vec, n)

	m.forEachTriangle(func(i0, i1, i2 uint32) {
		a, b, c := m.position(i0), m.position(i1), m.position(i2)
		fn := b.Sub(a).Cross(c.Sub(a))
		acc[i0] = acc[i0].Add(fn)
		acc[i1] = acc[i1].Add(fn)
		acc[i2] = acc[i2].Add(fn)
	})

	byPos := make(map[[3]float32]v3.Vec, n)
	for i := 0; i < n; i++ {
		k := [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		byPos[k] = byPos[k].Add(acc[i])
	}

	m.Normals = make([]float32, n*3)
	for i := 0; i < n; i++ {
		k := [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		nv := byPos[k]
		if l := nv.Length(); l > 1e-12 {
			nv = nv.DivScalar(l)
		}
		m.Normals[i*3+0] = float32(nv.X)
		m.Normals[i*3+1] = float32(nv.Y)
		m.Normals[i*3+2] = float32(nv.Z)
	}
}
