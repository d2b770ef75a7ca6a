// Package cage renders the control hulls of Gregory patches as triangles so
// generated patches can be inspected in any STL viewer.
package cage

import (
	"errors"
	"fmt"

	"github.com/chazu/gregmesh/pkg/logx"
	"github.com/chazu/gregmesh/pkg/patch"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// TrianglesPerQuad is the number of hull triangles emitted per quad patch.
const TrianglesPerQuad = 18

// Grid arranges the 20 control points of a quad patch as a 4x4 bicubic
// control net, indexed [u][v] with u running from corner 0 to corner 1 and
// v from corner 0 to corner 3. Each interior point is the mean of the two
// face points at its corner.
func Grid(p *patch.Patch) ([4][4]v3.Vec, error) {
	var g [4][4]v3.Vec
	if p.Sides() != 4 {
		return g, fmt.Errorf("cage: face %d: %d-sided patch has no 4x4 net", p.Face, p.Sides())
	}
	mid := func(c int) v3.Vec { return p.FPlus[c].Add(p.FMinus[c]).MulScalar(0.5) }

	g[0][0], g[1][0], g[2][0], g[3][0] = p.P[0], p.EPlus[0], p.EMinus[1], p.P[1]
	g[3][1], g[3][2], g[3][3] = p.EPlus[1], p.EMinus[2], p.P[2]
	g[2][3], g[1][3], g[0][3] = p.EPlus[2], p.EMinus[3], p.P[3]
	g[0][2], g[0][1] = p.EPlus[3], p.EMinus[0]

	g[1][1], g[2][1], g[2][2], g[1][2] = mid(0), mid(1), mid(2), mid(3)
	return g, nil
}

// Triangles returns the hull triangles of every quad patch in s, two per
// control net cell, wound like the source face.
func Triangles(s *patch.Set) ([]*sdf.Triangle3, error) {
	if s == nil {
		return nil, errors.New("cage: nil patch set")
	}
	out := make([]*sdf.Triangle3, 0, len(s.Quads)*TrianglesPerQuad)
	for _, p := range s.Quads {
		g, err := Grid(p)
		if err != nil {
			return nil, err
		}
		for u := 0; u < 3; u++ {
			for v := 0; v < 3; v++ {
				a, b, c, d := g[u][v], g[u+1][v], g[u+1][v+1], g[u][v+1]
				out = append(out, &sdf.Triangle3{a, b, c}, &sdf.Triangle3{a, c, d})
			}
		}
	}
	if len(s.Triangles) > 0 {
		logx.Logger().Debug("cage: triangle patches not drawn", "count", len(s.Triangles))
	}
	return out, nil
}

// SaveSTL writes the hulls of s to an STL file at path.
func SaveSTL(path string, s *patch.Set) error {
	tris, err := Triangles(s)
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("cage: %w", err)
	}
	logx.Logger().Debug("cage: saved", "path", path, "triangles", len(tris))
	return nil
}
