package mesh

import "fmt"

// Validate checks the structural preconditions of patch generation: every
// face is a triangle or a quad, no edge has more than two faces and no
// boundary vertex has more than two border edges. It returns the first
// violation found.
func (m *Mesh) Validate() error {
	for fi := range m.faces {
		if n := m.faces[fi].Sides(); n != 3 && n != 4 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidArity, fi, n)
		}
	}
	for _, e := range m.edges {
		if n := len(m.edgeFaces[e]); n > 2 {
			return fmt.Errorf("%w: edge %v has %d faces", ErrNonManifoldEdge, e, n)
		}
	}
	for v := range m.positions {
		if n := len(m.BorderEdgesOfVertex(VertexID(v))); n > 2 {
			return fmt.Errorf("%w: vertex %d has %d border edges", ErrNonManifoldBoundary, v, n)
		}
	}
	return nil
}

// QuadCount returns the number of four-sided faces.
func (m *Mesh) QuadCount() int {
	n := 0
	for i := range m.faces {
		if m.faces[i].Sides() == 4 {
			n++
		}
	}
	return n
}
