// Package meshtest provides small mesh descriptions shared by tests.
package meshtest

import (
	"github.com/chazu/gregmesh/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Quad is a single unit square in the XY plane with one texture channel.
func Quad() *mesh.Description {
	return &mesh.Description{
		Positions: []v3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Faces:     [][]int{{0, 1, 2, 3}},
		TexCoords: [][][]v2.Vec{{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}},
	}
}

// Grid returns a w x h grid of unit quads in the XY plane, without texture
// coordinates. Vertex (i, j) has index j*(w+1)+i.
func Grid(w, h int) *mesh.Description {
	d := &mesh.Description{}
	for j := 0; j <= h; j++ {
		for i := 0; i <= w; i++ {
			d.Positions = append(d.Positions, v3.Vec{X: float64(i), Y: float64(j)})
		}
	}
	idx := func(i, j int) int { return j*(w+1) + i }
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			d.Faces = append(d.Faces, []int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	return d
}

// Cube returns the closed quad cube with corners at ±1, faces wound outward.
func Cube() *mesh.Description {
	return &mesh.Description{
		Positions: []v3.Vec{
			{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
		},
		Faces: [][]int{
			{0, 3, 2, 1}, // -z
			{4, 5, 6, 7}, // +z
			{0, 1, 5, 4}, // -y
			{2, 3, 7, 6}, // +y
			{1, 2, 6, 5}, // +x
			{0, 4, 7, 3}, // -x
		},
	}
}

// QuadAndTriangle is a unit quad with a triangle glued to its right side.
func QuadAndTriangle() *mesh.Description {
	return &mesh.Description{
		Positions: []v3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 2, Y: 0.5}},
		Faces:     [][]int{{0, 1, 2, 3}, {1, 4, 2}},
	}
}
