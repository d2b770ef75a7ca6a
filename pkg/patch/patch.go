// Package patch derives Gregory patches from a quad mesh. Each quad face
// becomes 20 control points (corner, two edge points and two face points per
// corner) approximating the Catmull-Clark limit surface, ready for hardware
// tessellation without a subdivision pass.
package patch

import (
	"github.com/chazu/gregmesh/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind identifies one of the five control points stored per corner.
type Kind int

const (
	KindP      Kind = iota // corner
	KindEPlus              // edge point toward the next corner
	KindEMinus             // edge point toward the previous corner
	KindFPlus              // face point next to the EPlus edge
	KindFMinus             // face point next to the EMinus edge
)

// PointsPerCorner is the number of control points per patch corner.
const PointsPerCorner = 5

const (
	// QuadPoints is the control point count of a quad Gregory patch.
	QuadPoints = 4 * PointsPerCorner
	// TrianglePoints is the control point count of a triangle Gregory patch.
	TrianglePoints = 3 * PointsPerCorner
)

// Corners holds the five per-corner arrays of a patch, each of length n.
type Corners[T any] struct {
	P      []T
	EPlus  []T
	EMinus []T
	FPlus  []T
	FMinus []T
}

func newCorners[T any](n int) Corners[T] {
	return Corners[T]{
		P:      make([]T, n),
		EPlus:  make([]T, n),
		EMinus: make([]T, n),
		FPlus:  make([]T, n),
		FMinus: make([]T, n),
	}
}

// Sides returns the number of corners.
func (c *Corners[T]) Sides() int { return len(c.P) }

// At returns the control point of the given kind at corner.
func (c *Corners[T]) At(corner int, k Kind) T {
	switch k {
	case KindEPlus:
		return c.EPlus[corner]
	case KindEMinus:
		return c.EMinus[corner]
	case KindFPlus:
		return c.FPlus[corner]
	case KindFMinus:
		return c.FMinus[corner]
	}
	return c.P[corner]
}

// Patch is a Gregory patch with n = 3 or 4 corners. Tex holds one sub-patch
// per texture coordinate channel with the same layout as the positions.
type Patch struct {
	Face mesh.FaceID
	Corners[v3.Vec]
	Tex []Corners[v2.Vec]
}

func newPatch(f mesh.FaceID, sides, channels int) *Patch {
	p := &Patch{Face: f, Corners: newCorners[v3.Vec](sides)}
	for i := 0; i < channels; i++ {
		p.Tex = append(p.Tex, newCorners[v2.Vec](sides))
	}
	return p
}

// Less orders patches by corner count and then by corner positions. It gives
// tests a deterministic order; generation never relies on it.
func (p *Patch) Less(o *Patch) bool {
	if p.Sides() != o.Sides() {
		return p.Sides() < o.Sides()
	}
	for i := range p.P {
		a, b := p.P[i], o.P[i]
		switch {
		case a.X != b.X:
			return a.X < b.X
		case a.Y != b.Y:
			return a.Y < b.Y
		case a.Z != b.Z:
			return a.Z < b.Z
		}
	}
	return false
}

// Set is the output of GeneratePatches: the quad patches in face order and
// the triangle patches, which stay empty until triangle generation exists.
type Set struct {
	Channels  int
	Quads     []*Patch
	Triangles []*Patch
}

// Len returns the total number of patches.
func (s *Set) Len() int { return len(s.Quads) + len(s.Triangles) }
