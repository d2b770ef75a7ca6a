package buffer

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ComputeTangents generates per-vertex tangents for tangent-space normal
// mapping from texture channel 0. Normals must be present; call
// ComputeNormals first. Triangles with a degenerate UV area are skipped and
// vertices left without a tangent get an arbitrary one perpendicular to the
// normal.
func ComputeTangents(m *Mesh) {
	n := m.VertexCount()
	acc := make([]v3.Vec, n)

	if m.Channels() > 0 && len(m.Normals) == 3*n {
		uv := m.TexCoords[0]
		m.forEachTriangle(func(i0, i1, i2 uint32) {
			p0, p1, p2 := m.position(i0), m.position(i1), m.position(i2)
			e1, e2 := p1.Sub(p0), p2.Sub(p0)

			du1 := float64(uv[i1*2] - uv[i0*2])
			dv1 := float64(uv[i1*2+1] - uv[i0*2+1])
			du2 := float64(uv[i2*2] - uv[i0*2])
			dv2 := float64(uv[i2*2+1] - uv[i0*2+1])

			denom := du1*dv2 - du2*dv1
			if denom == 0 {
				return
			}
			r := 1 / denom
			t := e1.MulScalar(dv2 * r).Sub(e2.MulScalar(dv1 * r))
			acc[i0] = acc[i0].Add(t)
			acc[i1] = acc[i1].Add(t)
			acc[i2] = acc[i2].Add(t)
		})
	}

	m.Tangents = make([]float32, n*3)
	for i := 0; i < n; i++ {
		var nrm v3.Vec
		if len(m.Normals) == 3*n {
			nrm = v3.Vec{X: float64(m.Normals[i*3]), Y: float64(m.Normals[i*3+1]), Z: float64(m.Normals[i*3+2])}
		}
		// Gram-Schmidt: T = normalize(T - N*(N.T))
		t := acc[i].Sub(nrm.MulScalar(nrm.Dot(acc[i])))
		if t.Length() < 1e-8 {
			if math.Abs(nrm.X) < 0.9 {
				t = v3.Vec{X: 1}.Sub(nrm.MulScalar(nrm.X))
			} else {
				t = v3.Vec{Y: 1}.Sub(nrm.MulScalar(nrm.Y))
			}
		}
		t = t.DivScalar(t.Length())
		m.Tangents[i*3+0] = float32(t.X)
		m.Tangents[i*3+1] = float32(t.Y)
		m.Tangents[i*3+2] = float32(t.Z)
	}
}
