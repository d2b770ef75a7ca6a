package patch

import (
	"fmt"

	"github.com/chazu/gregmesh/pkg/logx"
	"github.com/chazu/gregmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// GeneratePatches validates m and derives one patch per face.
//
// Return semantics:
//   - malformed topology: nil Set and an error wrapping the mesh sentinel;
//     nothing is retained
//   - triangle faces present: the Set holds every quad patch and the error is
//     a *SkippedFacesError (errors.Is ErrNotImplemented)
//   - otherwise: the Set and nil
func GeneratePatches(m *mesh.Mesh) (*Set, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	set := &Set{Channels: m.Channels()}
	var skipped []mesh.FaceID
	for fi := 0; fi < m.NumFaces(); fi++ {
		f := mesh.FaceID(fi)
		face, _ := m.Face(f)
		if face.Sides() == 3 {
			p, err := TrianglePatch(m, f)
			if err != nil {
				skipped = append(skipped, f)
				continue
			}
			set.Triangles = append(set.Triangles, p)
			continue
		}
		p, err := QuadPatch(m, f)
		if err != nil {
			return nil, fmt.Errorf("patch: face %d: %w", f, err)
		}
		set.Quads = append(set.Quads, p)
	}

	log := logx.Logger()
	log.Debug("patch: generated", "quads", len(set.Quads), "triangles", len(set.Triangles))
	if len(skipped) > 0 {
		log.Warn("patch: skipped triangle faces", "count", len(skipped))
		return set, &SkippedFacesError{Faces: skipped}
	}
	return set, nil
}

// TrianglePatch is reserved for 15-point triangle patches. It always fails
// with ErrNotImplemented.
func TrianglePatch(m *mesh.Mesh, f mesh.FaceID) (*Patch, error) {
	return nil, fmt.Errorf("face %d: %w", f, ErrNotImplemented)
}

// QuadPatch derives the Gregory patch of quad face f. The mesh topology must
// be complete; f must have exactly four vertices.
func QuadPatch(m *mesh.Mesh, f mesh.FaceID) (*Patch, error) {
	face, err := m.Face(f)
	if err != nil {
		return nil, err
	}
	if face.Sides() != 4 {
		return nil, fmt.Errorf("%w: face %d has %d vertices", mesh.ErrInvalidArity, f, face.Sides())
	}

	const n = 4
	pt := newPatch(f, n, m.Channels())
	verts := face.Verts

	for c, v := range verts {
		if pt.P[c], err = cornerPoint(m, v); err != nil {
			return nil, err
		}
	}

	plus := make([]mesh.Edge, n)
	minus := make([]mesh.Edge, n)
	for c, v := range verts {
		plus[c] = mesh.NewEdge(v, face.Next(c))
		minus[c] = mesh.NewEdge(v, face.Prev(c))
		if pt.EPlus[c], err = edgePoint(m, v, plus[c], f, pt.P[c]); err != nil {
			return nil, err
		}
		if pt.EMinus[c], err = edgePoint(m, v, minus[c], f, pt.P[c]); err != nil {
			return nil, err
		}
	}

	for c, v := range verts {
		next, prev := (c+1)%n, (c+n-1)%n
		if pt.FPlus[c], err = facePoint(m, v, plus[c], f, pt.P[c], pt.EPlus[c], pt.EMinus[next]); err != nil {
			return nil, err
		}
		if pt.FMinus[c], err = facePoint(m, v, minus[c], f, pt.P[c], pt.EMinus[c], pt.EPlus[prev]); err != nil {
			return nil, err
		}
	}

	// Texture coordinates are piecewise constant per corner.
	for ch := range pt.Tex {
		tex := &pt.Tex[ch]
		for c := range verts {
			uv := face.TexCoords[ch][c]
			tex.P[c], tex.EPlus[c], tex.EMinus[c], tex.FPlus[c], tex.FMinus[c] = uv, uv, uv, uv, uv
		}
	}
	return pt, nil
}

// ControlPoints returns the positions of p in export order.
func (p *Patch) ControlPoints() []v3.Vec {
	out := make([]v3.Vec, 0, p.Sides()*PointsPerCorner)
	for c := 0; c < p.Sides(); c++ {
		for k := KindP; k <= KindFMinus; k++ {
			out = append(out, p.At(c, k))
		}
	}
	return out
}
