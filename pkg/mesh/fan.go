package mesh

import "fmt"

// Spoke is one step of a fan walk: an edge leaving the center vertex and the
// face that follows it in the walk direction.
type Spoke struct {
	Edge Edge
	Face FaceID
}

// Fan walks the star of v starting at edge start and face face, alternating
// "other edge of this face at v" and "other face of that edge", until the walk
// returns to face. Spoke i holds edge m[i] and the face c[i] lying between
// m[i] and m[i+1]. The walk fails with ErrOpenFan when it reaches a border
// edge or does not close within the number of faces around v.
func (m *Mesh) Fan(v VertexID, start Edge, face FaceID) ([]Spoke, error) {
	if !start.Has(v) {
		return nil, fmt.Errorf("%w: vertex %d not on edge %v", ErrUnknownEdge, v, start)
	}
	limit := len(m.vertexFaces[v])
	spokes := make([]Spoke, 0, limit)

	e, f := start, face
	for {
		spokes = append(spokes, Spoke{Edge: e, Face: f})
		if len(spokes) > limit {
			return nil, fmt.Errorf("%w: vertex %d exceeded %d faces", ErrOpenFan, v, limit)
		}

		next, ok := m.nextEdgeOnFace(f, v, e)
		if !ok {
			return nil, fmt.Errorf("%w: face %d has no second edge at vertex %d", ErrOpenFan, f, v)
		}
		nf, ok := m.otherFace(next, f)
		if !ok {
			return nil, fmt.Errorf("%w: vertex %d reached border edge %v", ErrOpenFan, v, next)
		}
		if nf == face {
			if next != start {
				return nil, fmt.Errorf("%w: vertex %d closed on edge %v instead of %v", ErrOpenFan, v, next, start)
			}
			return spokes, nil
		}
		e, f = next, nf
	}
}

// nextEdgeOnFace returns the side of f incident to v other than e.
func (m *Mesh) nextEdgeOnFace(f FaceID, v VertexID, e Edge) (Edge, bool) {
	for _, fe := range m.faceEdges[f] {
		if fe != e && fe.Has(v) {
			return fe, true
		}
	}
	return Edge{}, false
}

// otherFace returns the face across e from f.
func (m *Mesh) otherFace(e Edge, f FaceID) (FaceID, bool) {
	for _, g := range m.edgeFaces[e] {
		if g != f {
			return g, true
		}
	}
	return 0, false
}

// SecondSpoke returns the side of f at v other than e.
func (m *Mesh) SecondSpoke(f FaceID, v VertexID, e Edge) (Edge, error) {
	next, ok := m.nextEdgeOnFace(f, v, e)
	if !ok {
		return Edge{}, fmt.Errorf("%w: face %d has no second edge at vertex %d", ErrUnknownEdge, f, v)
	}
	return next, nil
}
