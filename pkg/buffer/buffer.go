// Package buffer defines the flat vertex and index arrays handed to a GPU
// loader or to the PCHM codec. A buffer is either a raw polygon mesh
// (triangles and quads, with normals and tangents) or a Gregory patch mesh
// (15 indices per triangle patch, 20 per quad patch, no normals).
package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrLayout reports array lengths that disagree with the vertex count.
	ErrLayout = errors.New("buffer: inconsistent array lengths")
	// ErrIndexRange reports an index at or beyond the vertex count.
	ErrIndexRange = errors.New("buffer: index out of range")
	// ErrRawQuads reports raw quads, which the renderer's mesh loader rejects.
	ErrRawQuads = errors.New("buffer: raw quads are not renderable")
)

// Per-primitive index counts.
const (
	TriangleIndices      = 3
	QuadIndices          = 4
	TrianglePatchIndices = 15
	QuadPatchIndices     = 20
)

// Mesh holds flat arrays: 3 floats per vertex for positions, normals and
// tangents, 2 floats per vertex for each texture coordinate channel.
type Mesh struct {
	Vertices  []float32   `json:"vertices"`  // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32   `json:"normals"`   // empty for patch meshes
	Tangents  []float32   `json:"tangents"`  // empty for patch meshes
	TexCoords [][]float32 `json:"texcoords"` // [channel][u0,v0, u1,v1, ...]
	Triangles []uint32    `json:"triangles"` // 3 (raw) or 15 (patch) per primitive
	Quads     []uint32    `json:"quads"`     // 4 (raw) or 20 (patch) per primitive
	Patches   bool        `json:"patches"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangle primitives.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / m.triangleStride()
}

// QuadCount returns the number of quad primitives.
func (m *Mesh) QuadCount() int {
	return len(m.Quads) / m.quadStride()
}

// Channels returns the number of texture coordinate channels.
func (m *Mesh) Channels() int {
	return len(m.TexCoords)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

func (m *Mesh) triangleStride() int {
	if m.Patches {
		return TrianglePatchIndices
	}
	return TriangleIndices
}

func (m *Mesh) quadStride() int {
	if m.Patches {
		return QuadPatchIndices
	}
	return QuadIndices
}

// Validate checks that every array agrees with the vertex count and that
// every index addresses a vertex.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("%w: %d position floats", ErrLayout, len(m.Vertices))
	}
	n := m.VertexCount()
	if m.Patches && (len(m.Normals) > 0 || len(m.Tangents) > 0) {
		return fmt.Errorf("%w: patch meshes carry no normals or tangents", ErrLayout)
	}
	if len(m.Normals) != 0 && len(m.Normals) != 3*n {
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrLayout, len(m.Normals), n)
	}
	if len(m.Tangents) != 0 && len(m.Tangents) != 3*n {
		return fmt.Errorf("%w: %d tangent floats for %d vertices", ErrLayout, len(m.Tangents), n)
	}
	for ch, tc := range m.TexCoords {
		if len(tc) != 2*n {
			return fmt.Errorf("%w: channel %d has %d floats for %d vertices", ErrLayout, ch, len(tc), n)
		}
	}
	if len(m.Triangles)%m.triangleStride() != 0 {
		return fmt.Errorf("%w: %d triangle indices", ErrLayout, len(m.Triangles))
	}
	if len(m.Quads)%m.quadStride() != 0 {
		return fmt.Errorf("%w: %d quad indices", ErrLayout, len(m.Quads))
	}
	for _, list := range [][]uint32{m.Triangles, m.Quads} {
		for i, idx := range list {
			if int(idx) >= n {
				return fmt.Errorf("%w: index %d at %d, %d vertices", ErrIndexRange, idx, i, n)
			}
		}
	}
	return nil
}

// CheckRenderable reports whether the non-tessellated loader can draw m.
func (m *Mesh) CheckRenderable() error {
	if !m.Patches && len(m.Quads) > 0 {
		return fmt.Errorf("%w: %d quads", ErrRawQuads, m.QuadCount())
	}
	return nil
}
