package mesh_test

import (
	"testing"

	"github.com/chazu/gregmesh/pkg/mesh"
	"github.com/chazu/gregmesh/pkg/mesh/meshtest"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustImport(t *testing.T, d *mesh.Description) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Import(d, mesh.WeldPolicy{})
	require.NoError(t, err)
	return m
}

func TestNewEdgeCanonical(t *testing.T) {
	assert.Equal(t, mesh.NewEdge(3, 7), mesh.NewEdge(7, 3))
	e := mesh.NewEdge(9, 2)
	assert.Equal(t, mesh.VertexID(2), e.A)
	assert.Equal(t, mesh.VertexID(9), e.B)

	o, ok := e.Other(2)
	assert.True(t, ok)
	assert.Equal(t, mesh.VertexID(9), o)
	_, ok = e.Other(5)
	assert.False(t, ok)
}

func TestImportSingleQuad(t *testing.T) {
	m := mustImport(t, meshtest.Quad())

	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 1, m.NumFaces())
	assert.Equal(t, 1, m.Channels())
	assert.Len(t, m.Edges(), 4)
	assert.Len(t, m.EdgesOfFace(0), 4)

	for v := mesh.VertexID(0); v < 4; v++ {
		assert.True(t, m.IsBorderVertex(v), "vertex %d", v)
		assert.Equal(t, 2, m.Valence(v), "vertex %d", v)
		assert.Equal(t, []mesh.FaceID{0}, m.FacesOfVertex(v))
	}
	for _, e := range m.Edges() {
		assert.True(t, m.IsBorderEdge(e), "edge %v", e)
	}
}

func TestClosedCubeHasNoBorder(t *testing.T) {
	m := mustImport(t, meshtest.Cube())
	require.NoError(t, m.Validate())

	assert.Len(t, m.Edges(), 12)
	for _, e := range m.Edges() {
		assert.Len(t, m.FacesOfEdge(e), 2, "edge %v", e)
		assert.False(t, m.IsBorderEdge(e), "edge %v", e)
	}
	for v := 0; v < m.NumVertices(); v++ {
		assert.False(t, m.IsBorderVertex(mesh.VertexID(v)), "vertex %d", v)
		assert.Equal(t, 3, m.Valence(mesh.VertexID(v)))
	}
}

// neighbours counts the distinct vertices adjacent to v by scanning faces.
func neighbours(d *mesh.Description, v int) int {
	seen := map[int]bool{}
	for _, f := range d.Faces {
		for i, fv := range f {
			if fv != v {
				continue
			}
			seen[f[(i+1)%len(f)]] = true
			seen[f[(i+len(f)-1)%len(f)]] = true
		}
	}
	return len(seen)
}

func TestValenceMatchesFaceScan(t *testing.T) {
	tests := []struct {
		name string
		desc *mesh.Description
	}{
		{"quad", meshtest.Quad()},
		{"grid 3x2", meshtest.Grid(3, 2)},
		{"cube", meshtest.Cube()},
		{"quad and triangle", meshtest.QuadAndTriangle()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustImport(t, tt.desc)
			for v := 0; v < m.NumVertices(); v++ {
				assert.Equal(t, neighbours(tt.desc, v), m.Valence(mesh.VertexID(v)), "vertex %d", v)
			}
		})
	}
}

func TestGridSharedEdge(t *testing.T) {
	m := mustImport(t, meshtest.Grid(2, 1))
	shared := mesh.NewEdge(1, 4)

	require.True(t, m.HasEdge(shared))
	assert.Len(t, m.FacesOfEdge(shared), 2)
	assert.False(t, m.IsBorderEdge(shared))

	for _, v := range []mesh.VertexID{1, 4} {
		assert.Equal(t, 3, m.Valence(v))
		assert.True(t, m.IsBorderVertex(v))
		assert.Len(t, m.BorderEdgesOfVertex(v), 2)
	}
}

func TestQueriesAreRepeatable(t *testing.T) {
	m := mustImport(t, meshtest.Grid(3, 3))
	for v := 0; v < m.NumVertices(); v++ {
		id := mesh.VertexID(v)
		assert.Equal(t, m.Valence(id), m.Valence(id))
		assert.Equal(t, m.IsBorderVertex(id), m.IsBorderVertex(id))
		assert.Equal(t, m.FacesOfVertex(id), m.FacesOfVertex(id))
		assert.Equal(t, m.EdgesOfVertex(id), m.EdgesOfVertex(id))
	}
	for _, e := range m.Edges() {
		assert.Equal(t, m.IsBorderEdge(e), m.IsBorderEdge(e))
		assert.Equal(t, m.FacesOfEdge(e), m.FacesOfEdge(e))
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name   string
		desc   *mesh.Description
		policy mesh.WeldPolicy
		want   error
	}{
		{
			name: "index out of range",
			desc: &mesh.Description{Positions: []v3.Vec{{}, {X: 1}, {Y: 1}}, Faces: [][]int{{0, 1, 5}}},
			want: mesh.ErrUnknownVertex,
		},
		{
			name: "channel mismatch",
			desc: func() *mesh.Description {
				d := meshtest.Grid(2, 1)
				d.TexCoords = [][][]v2.Vec{{make([]v2.Vec, 4)}, {}}
				return d
			}(),
			want: mesh.ErrChannelMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mesh.Import(tt.desc, tt.policy)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := mesh.Import(meshtest.Quad(), mesh.WeldPolicy{Mode: mesh.WeldEpsilon})
	assert.Error(t, err, "epsilon weld without epsilon")
}

func TestWeldPolicies(t *testing.T) {
	// Two quads sharing an edge, with the shared positions duplicated and the
	// second copy nudged by 1e-9.
	d := &mesh.Description{
		Positions: []v3.Vec{
			{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
			{X: 1 + 1e-9}, {X: 2}, {X: 2, Y: 1}, {X: 1, Y: 1},
		},
		Faces: [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}},
	}

	tests := []struct {
		policy   mesh.WeldPolicy
		vertices int
		edges    int
	}{
		{mesh.WeldPolicy{Mode: mesh.WeldNone}, 8, 8},
		{mesh.WeldPolicy{Mode: mesh.WeldExact}, 7, 8},
		{mesh.WeldPolicy{Mode: mesh.WeldEpsilon, Epsilon: 1e-6}, 6, 7},
	}
	for _, tt := range tests {
		t.Run(tt.policy.Mode.String(), func(t *testing.T) {
			m, err := mesh.Import(d, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.vertices, m.NumVertices())
			assert.Len(t, m.Edges(), tt.edges)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		desc *mesh.Description
		want error
	}{
		{"grid", meshtest.Grid(2, 2), nil},
		{"mixed", meshtest.QuadAndTriangle(), nil},
		{
			name: "pentagon",
			desc: &mesh.Description{
				Positions: []v3.Vec{{}, {X: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {Y: 1}},
				Faces:     [][]int{{0, 1, 2, 3, 4}},
			},
			want: mesh.ErrInvalidArity,
		},
		{
			name: "three faces on one edge",
			desc: &mesh.Description{
				Positions: []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: 1, Z: 1}, {Z: 1}, {X: 1, Z: -1}, {Z: -1}},
				Faces:     [][]int{{0, 1, 2, 3}, {0, 1, 4, 5}, {0, 1, 6, 7}},
			},
			want: mesh.ErrNonManifoldEdge,
		},
		{
			name: "bowtie vertex",
			desc: &mesh.Description{
				Positions: []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2}},
				Faces:     [][]int{{0, 1, 2, 3}, {2, 4, 5, 6}},
			},
			want: mesh.ErrNonManifoldBoundary,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustImport(t, tt.desc)
			err := m.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFanAroundInteriorVertex(t *testing.T) {
	m := mustImport(t, meshtest.Grid(2, 2))
	center := mesh.VertexID(4)
	start := mesh.NewEdge(4, 5)

	face := m.FacesOfEdge(start)[0]
	spokes, err := m.Fan(center, start, face)
	require.NoError(t, err)
	require.Len(t, spokes, 4)

	assert.Equal(t, start, spokes[0].Edge)
	assert.Equal(t, face, spokes[0].Face)
	seen := map[mesh.FaceID]bool{}
	for i, s := range spokes {
		assert.True(t, s.Edge.Has(center))
		seen[s.Face] = true
		// Face i lies between spoke i and spoke i+1.
		next := spokes[(i+1)%len(spokes)].Edge
		f, err := m.Face(s.Face)
		require.NoError(t, err)
		o1, _ := s.Edge.Other(center)
		o2, _ := next.Other(center)
		assert.GreaterOrEqual(t, f.IndexOf(o1), 0)
		assert.GreaterOrEqual(t, f.IndexOf(o2), 0)
	}
	assert.Len(t, seen, 4)
}

func TestFanOpenAtBorder(t *testing.T) {
	m := mustImport(t, meshtest.Grid(2, 1))
	_, err := m.Fan(1, mesh.NewEdge(1, 4), 0)
	assert.ErrorIs(t, err, mesh.ErrOpenFan)
}

func TestLookupErrors(t *testing.T) {
	m := mustImport(t, meshtest.Quad())
	_, err := m.Face(3)
	assert.ErrorIs(t, err, mesh.ErrUnknownFace)
	_, err = m.Vertex(-1)
	assert.ErrorIs(t, err, mesh.ErrUnknownVertex)
	_, err = m.OtherEndpoint(mesh.NewEdge(0, 1), 2)
	assert.ErrorIs(t, err, mesh.ErrUnknownEdge)
}

func TestGeometryHelpers(t *testing.T) {
	m := mustImport(t, meshtest.Quad())
	assert.Equal(t, v3.Vec{X: 0.5}, m.Midpoint(mesh.NewEdge(0, 1)))
	assert.Equal(t, v3.Vec{X: 0.5, Y: 0.5}, m.Centroid(0))

	p, err := m.OtherEndpoint(mesh.NewEdge(0, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, v3.Vec{X: 1}, p)
}
