// Package mesh holds the polygon mesh and its adjacency index. Vertices live
// in an arena and are referenced by VertexID; edges are canonical id pairs so
// that (a,b) and (b,a) name the same edge.
package mesh

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// VertexID indexes the vertex arena of a Mesh.
type VertexID int

// FaceID indexes the face list of a Mesh.
type FaceID int

// Edge is an unordered vertex pair, stored with the smaller id first.
type Edge struct {
	A, B VertexID
}

// NewEdge returns the canonical edge between a and b.
func NewEdge(a, b VertexID) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Has reports whether v is an endpoint of e.
func (e Edge) Has(v VertexID) bool {
	return e.A == v || e.B == v
}

// Other returns the endpoint of e that is not v.
func (e Edge) Other(v VertexID) (VertexID, bool) {
	switch v {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	return 0, false
}

func (e Edge) String() string {
	return fmt.Sprintf("(%d,%d)", e.A, e.B)
}

// Face is an ordered polygon. TexCoords holds one slice per channel, each with
// one coordinate per vertex in the same order as Verts.
type Face struct {
	Verts     []VertexID
	TexCoords [][]v2.Vec
}

// Sides returns the number of vertices of the face.
func (f *Face) Sides() int { return len(f.Verts) }

// IndexOf returns the position of v in the face, or -1.
func (f *Face) IndexOf(v VertexID) int {
	for i, fv := range f.Verts {
		if fv == v {
			return i
		}
	}
	return -1
}

// Next returns the vertex following corner i in winding order.
func (f *Face) Next(i int) VertexID { return f.Verts[(i+1)%len(f.Verts)] }

// Prev returns the vertex preceding corner i in winding order.
func (f *Face) Prev(i int) VertexID { return f.Verts[(i+len(f.Verts)-1)%len(f.Verts)] }

// Mesh owns the vertex arena, the faces and the four adjacency relations
// derived from them. It is built once by Import and read-only afterwards.
type Mesh struct {
	positions []v3.Vec
	faces     []Face
	channels  int

	vertexFaces map[VertexID][]FaceID
	vertexEdges map[VertexID][]Edge
	faceEdges   map[FaceID][]Edge
	edgeFaces   map[Edge][]FaceID
	edges       []Edge
}

func newMesh() *Mesh {
	return &Mesh{
		vertexFaces: make(map[VertexID][]FaceID),
		vertexEdges: make(map[VertexID][]Edge),
		faceEdges:   make(map[FaceID][]Edge),
		edgeFaces:   make(map[Edge][]FaceID),
	}
}

// AddFaceToVertex registers f as incident to v.
func (m *Mesh) AddFaceToVertex(v VertexID, f FaceID) {
	m.vertexFaces[v] = appendUnique(m.vertexFaces[v], f)
}

// AddEdgeToVertex registers e as incident to v.
func (m *Mesh) AddEdgeToVertex(v VertexID, e Edge) {
	m.vertexEdges[v] = appendUnique(m.vertexEdges[v], e)
}

// AddEdgeToFace registers e as a side of f.
func (m *Mesh) AddEdgeToFace(f FaceID, e Edge) {
	m.faceEdges[f] = appendUnique(m.faceEdges[f], e)
}

// AddFaceToEdge registers f as incident to e. The first registration of an
// edge also adds it to the mesh-wide edge list.
func (m *Mesh) AddFaceToEdge(e Edge, f FaceID) {
	faces, ok := m.edgeFaces[e]
	if !ok {
		m.edges = append(m.edges, e)
	}
	m.edgeFaces[e] = appendUnique(faces, f)
}

func appendUnique[T comparable](s []T, x T) []T {
	for _, y := range s {
		if y == x {
			return s
		}
	}
	return append(s, x)
}

// NumVertices returns the size of the vertex arena.
func (m *Mesh) NumVertices() int { return len(m.positions) }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Channels returns the number of texture coordinate channels per face.
func (m *Mesh) Channels() int { return m.channels }

// Edges returns every edge in discovery order.
func (m *Mesh) Edges() []Edge { return m.edges }

// Position returns the position of v. v must be a valid id.
func (m *Mesh) Position(v VertexID) v3.Vec { return m.positions[v] }

// Vertex returns the position of v, or ErrUnknownVertex.
func (m *Mesh) Vertex(v VertexID) (v3.Vec, error) {
	if v < 0 || int(v) >= len(m.positions) {
		return v3.Vec{}, fmt.Errorf("%w: %d", ErrUnknownVertex, v)
	}
	return m.positions[v], nil
}

// Face returns face f, or ErrUnknownFace.
func (m *Mesh) Face(f FaceID) (*Face, error) {
	if f < 0 || int(f) >= len(m.faces) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFace, f)
	}
	return &m.faces[f], nil
}

// FacesOfVertex returns the faces incident to v in registration order.
func (m *Mesh) FacesOfVertex(v VertexID) []FaceID { return m.vertexFaces[v] }

// EdgesOfVertex returns the edges incident to v in registration order.
func (m *Mesh) EdgesOfVertex(v VertexID) []Edge { return m.vertexEdges[v] }

// EdgesOfFace returns the sides of f in winding order.
func (m *Mesh) EdgesOfFace(f FaceID) []Edge { return m.faceEdges[f] }

// FacesOfEdge returns the faces incident to e.
func (m *Mesh) FacesOfEdge(e Edge) []FaceID { return m.edgeFaces[e] }

// HasEdge reports whether e belongs to the mesh.
func (m *Mesh) HasEdge(e Edge) bool {
	_, ok := m.edgeFaces[e]
	return ok
}

// Midpoint returns the midpoint of e.
func (m *Mesh) Midpoint(e Edge) v3.Vec {
	return m.positions[e.A].Add(m.positions[e.B]).MulScalar(0.5)
}

// Centroid returns the average of the vertices of f.
func (m *Mesh) Centroid(f FaceID) v3.Vec {
	face := &m.faces[f]
	var c v3.Vec
	for _, v := range face.Verts {
		c = c.Add(m.positions[v])
	}
	return c.DivScalar(float64(len(face.Verts)))
}

// OtherEndpoint returns the position of the endpoint of e that is not v.
func (m *Mesh) OtherEndpoint(e Edge, v VertexID) (v3.Vec, error) {
	o, ok := e.Other(v)
	if !ok {
		return v3.Vec{}, fmt.Errorf("%w: vertex %d not on edge %v", ErrUnknownEdge, v, e)
	}
	return m.positions[o], nil
}
