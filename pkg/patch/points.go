package patch

import (
	"fmt"
	"math"

	"github.com/chazu/gregmesh/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// cornerPoint approximates the Catmull-Clark limit position of v.
func cornerPoint(m *mesh.Mesh, v mesh.VertexID) (v3.Vec, error) {
	pos := m.Position(v)

	if m.IsBorderVertex(v) {
		if len(m.FacesOfVertex(v)) == 1 {
			return pos, nil
		}
		border := m.BorderEdgesOfVertex(v)
		if len(border) != 2 {
			return v3.Vec{}, fmt.Errorf("%w: vertex %d has %d border edges",
				mesh.ErrNonManifoldBoundary, v, len(border))
		}
		a, _ := m.OtherEndpoint(border[0], v)
		b, _ := m.OtherEndpoint(border[1], v)
		return a.Add(b).Add(pos.MulScalar(4)).DivScalar(6), nil
	}

	n := float64(m.Valence(v))
	var sum v3.Vec
	for _, e := range m.EdgesOfVertex(v) {
		sum = sum.Add(m.Midpoint(e))
	}
	for _, f := range m.FacesOfVertex(v) {
		sum = sum.Add(m.Centroid(f))
	}
	return sum.MulScalar(4 / (n * (n + 5))).Add(pos.MulScalar((n - 3) / (n + 5))), nil
}

// edgePoint returns the tangential control point on edge e next to corner v
// of face f, whose corner point is p.
func edgePoint(m *mesh.Mesh, v mesh.VertexID, e mesh.Edge, f mesh.FaceID, p v3.Vec) (v3.Vec, error) {
	pos := m.Position(v)
	other, err := m.OtherEndpoint(e, v)
	if err != nil {
		return v3.Vec{}, err
	}

	faces := m.FacesOfEdge(e)
	switch {
	case len(faces) == 0:
		return v3.Vec{}, fmt.Errorf("%w: %v", mesh.ErrUnknownEdge, e)
	case len(faces) > 2:
		return v3.Vec{}, fmt.Errorf("%w: edge %v has %d faces", mesh.ErrNonManifoldEdge, e, len(faces))
	case len(faces) == 1:
		return pos.MulScalar(2).Add(other).DivScalar(3), nil
	case m.IsBorderVertex(v):
		return borderEdgePoint(m, v, e, faces)
	}

	fan, err := m.Fan(v, e, f)
	if err != nil {
		return v3.Vec{}, err
	}
	n := float64(len(fan))
	cosPi := math.Cos(math.Pi / n)
	sigma := 1 / math.Sqrt(4+cosPi*cosPi)
	lambda := (cosPi*math.Sqrt(18+2*math.Cos(2*math.Pi/n)) + math.Cos(2*math.Pi/n) + 5) / 16

	var q v3.Vec
	for i, s := range fan {
		fi := float64(i)
		wm := (1 - sigma*cosPi) * math.Cos(2*math.Pi*fi/n)
		wc := 2 * sigma * math.Cos((2*math.Pi*fi+math.Pi)/n)
		q = q.Add(m.Midpoint(s.Edge).MulScalar(wm)).Add(m.Centroid(s.Face).MulScalar(wc))
	}
	q = q.MulScalar(2 / n)
	return p.Add(q.MulScalar(2.0 / 3.0 * lambda)), nil
}

// borderEdgePoint handles an interior edge leaving a boundary vertex: v and
// the far endpoint share 3/4 of the weight, each adjoining face adds 1/8
// through its remaining corners.
func borderEdgePoint(m *mesh.Mesh, v mesh.VertexID, e mesh.Edge, faces []mesh.FaceID) (v3.Vec, error) {
	w, _ := e.Other(v)
	gamma := 3.0/8.0 - (math.Pi/4)/float64(m.Valence(v)+1)
	r := m.Position(v).MulScalar(0.75 - gamma).Add(m.Position(w).MulScalar(gamma))

	for _, fid := range faces {
		face, err := m.Face(fid)
		if err != nil {
			return v3.Vec{}, err
		}
		i, j := face.IndexOf(v), face.IndexOf(w)
		if i < 0 || j < 0 {
			return v3.Vec{}, fmt.Errorf("%w: face %d does not contain edge %v", mesh.ErrUnknownEdge, fid, e)
		}
		switch face.Sides() {
		case 3:
			third := face.Verts[3-i-j]
			r = r.Add(m.Position(third).MulScalar(1.0 / 8.0))
		case 4:
			var third, fourth mesh.VertexID
			if face.Next(i) == w {
				third, fourth = face.Next(j), face.Prev(i)
			} else {
				third, fourth = face.Prev(j), face.Next(i)
			}
			r = r.Add(m.Position(third).Add(m.Position(fourth)).MulScalar(1.0 / 16.0))
		default:
			return v3.Vec{}, fmt.Errorf("%w: face %d has %d vertices", mesh.ErrInvalidArity, fid, face.Sides())
		}
	}
	return r, nil
}

// facePoint returns the interior control point of face f next to corner v on
// edge e. e1 is the edge point of v on e, e2 the edge point of the far
// endpoint on e.
func facePoint(m *mesh.Mesh, v mesh.VertexID, e mesh.Edge, f mesh.FaceID, p, e1, e2 v3.Vec) (v3.Vec, error) {
	face, err := m.Face(f)
	if err != nil {
		return v3.Vec{}, err
	}
	d := float64(face.Sides())

	var r v3.Vec
	var n0 int
	if m.IsBorderVertex(v) {
		second, err := m.SecondSpoke(f, v, e)
		if err != nil {
			return v3.Vec{}, err
		}
		r = m.Midpoint(second).Sub(p).MulScalar(2.0 / 3.0).
			Add(m.Centroid(f).Sub(m.Midpoint(e)).MulScalar(4.0 / 3.0))
		n0 = m.Valence(v) + 1
	} else {
		fan, err := m.Fan(v, e, f)
		if err != nil {
			return v3.Vec{}, err
		}
		last := fan[len(fan)-1]
		near, _ := m.OtherEndpoint(fan[1].Edge, v)
		far, _ := m.OtherEndpoint(last.Edge, v)
		r = near.Sub(far).MulScalar(1.0 / 3.0).
			Add(m.Centroid(fan[0].Face).Sub(m.Centroid(last.Face)).MulScalar(2.0 / 3.0))
		n0 = m.Valence(v)
	}

	w, _ := e.Other(v)
	c0 := math.Cos(2 * math.Pi / float64(n0))
	c1 := math.Cos(2 * math.Pi / float64(m.Valence(w)))

	return p.MulScalar(c1).
		Add(e1.MulScalar(d - 2*c0 - c1)).
		Add(e2.MulScalar(2 * c0)).
		Add(r).
		DivScalar(d), nil
}
