package buffer

import (
	"fmt"
	"strings"

	"github.com/chazu/gregmesh/pkg/mesh"
)

// FromMesh flattens m into a raw buffer. Mesh vertices are split where faces
// disagree on their texture coordinates; triangles and quads keep their
// arity. Normals and tangents are left empty.
func FromMesh(m *mesh.Mesh) (*Mesh, error) {
	out := &Mesh{TexCoords: make([][]float32, m.Channels())}
	index := make(map[string]uint32)

	var key strings.Builder
	emit := func(face *mesh.Face, c int) uint32 {
		v := face.Verts[c]
		key.Reset()
		fmt.Fprintf(&key, "%d", v)
		for ch := range face.TexCoords {
			uv := face.TexCoords[ch][c]
			fmt.Fprintf(&key, "|%g,%g", float32(uv.X), float32(uv.Y))
		}
		if i, ok := index[key.String()]; ok {
			return i
		}
		i := uint32(out.VertexCount())
		index[key.String()] = i
		p := m.Position(v)
		out.Vertices = append(out.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		for ch := range face.TexCoords {
			uv := face.TexCoords[ch][c]
			out.TexCoords[ch] = append(out.TexCoords[ch], float32(uv.X), float32(uv.Y))
		}
		return i
	}

	for fi := 0; fi < m.NumFaces(); fi++ {
		face, _ := m.Face(mesh.FaceID(fi))
		switch face.Sides() {
		case 3:
			for c := range face.Verts {
				out.Triangles = append(out.Triangles, emit(face, c))
			}
		case 4:
			for c := range face.Verts {
				out.Quads = append(out.Quads, emit(face, c))
			}
		default:
			return nil, fmt.Errorf("buffer: face %d: %w", fi, mesh.ErrInvalidArity)
		}
	}
	return out, nil
}
