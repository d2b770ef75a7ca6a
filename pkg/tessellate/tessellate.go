// Package tessellate flattens Gregory patches into the fixed per-patch vertex
// layout consumed by hardware tessellation. Patches are not deduplicated:
// every patch contributes its own control points.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/gregmesh/pkg/buffer"
	"github.com/chazu/gregmesh/pkg/logx"
	"github.com/chazu/gregmesh/pkg/mesh"
	"github.com/chazu/gregmesh/pkg/patch"
)

// patchWriter appends control points and their indices to a patch buffer.
type patchWriter struct {
	out *buffer.Mesh
}

func newPatchWriter(channels, vertices int) *patchWriter {
	out := &buffer.Mesh{
		Patches:   true,
		Vertices:  make([]float32, 0, vertices*3),
		TexCoords: make([][]float32, channels),
	}
	for ch := range out.TexCoords {
		out.TexCoords[ch] = make([]float32, 0, vertices*2)
	}
	return &patchWriter{out: out}
}

// write appends p corner-major, kinds in patch.Kind order, and returns the
// indices of the emitted vertices.
func (w *patchWriter) write(p *patch.Patch) ([]uint32, error) {
	if len(p.Tex) != len(w.out.TexCoords) {
		return nil, fmt.Errorf("face %d has %d texture channels, want %d", p.Face, len(p.Tex), len(w.out.TexCoords))
	}
	idx := make([]uint32, 0, p.Sides()*patch.PointsPerCorner)
	for c := 0; c < p.Sides(); c++ {
		for k := patch.KindP; k <= patch.KindFMinus; k++ {
			idx = append(idx, uint32(w.out.VertexCount()))
			v := p.At(c, k)
			w.out.Vertices = append(w.out.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			for ch := range p.Tex {
				uv := p.Tex[ch].At(c, k)
				w.out.TexCoords[ch] = append(w.out.TexCoords[ch], float32(uv.X), float32(uv.Y))
			}
		}
	}
	return idx, nil
}

// Tessellate flattens s into a patch buffer: quad patches first, 20 vertices
// each, then triangle patches, 15 vertices each. The index lists enumerate
// the vertices in order.
func Tessellate(s *patch.Set) (*buffer.Mesh, error) {
	if s == nil {
		return nil, errors.New("tessellate: nil patch set")
	}

	vertices := len(s.Quads)*patch.QuadPoints + len(s.Triangles)*patch.TrianglePoints
	w := newPatchWriter(s.Channels, vertices)

	for _, p := range s.Quads {
		if p.Sides() != 4 {
			return nil, fmt.Errorf("tessellate: quad list holds a %d-sided patch for face %d", p.Sides(), p.Face)
		}
		idx, err := w.write(p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		w.out.Quads = append(w.out.Quads, idx...)
	}
	for _, p := range s.Triangles {
		if p.Sides() != 3 {
			return nil, fmt.Errorf("tessellate: triangle list holds a %d-sided patch for face %d", p.Sides(), p.Face)
		}
		idx, err := w.write(p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		w.out.Triangles = append(w.out.Triangles, idx...)
	}

	logx.Logger().Debug("tessellate: flattened patches",
		"vertices", w.out.VertexCount(),
		"quads", w.out.QuadCount(),
		"triangles", w.out.TriangleCount())
	return w.out, nil
}

// Convert runs the whole pipeline: import, patch generation and flattening.
// Like patch.GeneratePatches it returns a usable buffer together with a
// *patch.SkippedFacesError when the input contains triangles; any other
// error leaves both results nil.
func Convert(desc *mesh.Description, policy mesh.WeldPolicy) (*buffer.Mesh, *patch.Set, error) {
	m, err := mesh.Import(desc, policy)
	if err != nil {
		return nil, nil, fmt.Errorf("tessellate: %w", err)
	}

	set, genErr := patch.GeneratePatches(m)
	var skipped *patch.SkippedFacesError
	if genErr != nil && !errors.As(genErr, &skipped) {
		return nil, nil, fmt.Errorf("tessellate: %w", genErr)
	}

	out, err := Tessellate(set)
	if err != nil {
		return nil, nil, err
	}
	return out, set, genErr
}
