package mesh

// IsBorderEdge reports whether fewer than two faces are incident to e.
func (m *Mesh) IsBorderEdge(e Edge) bool {
	return len(m.edgeFaces[e]) < 2
}

// IsBorderVertex reports whether any edge incident to v is a border edge.
func (m *Mesh) IsBorderVertex(v VertexID) bool {
	for _, e := range m.vertexEdges[v] {
		if m.IsBorderEdge(e) {
			return true
		}
	}
	return false
}

// Valence returns the number of edges incident to v.
func (m *Mesh) Valence(v VertexID) int {
	return len(m.vertexEdges[v])
}

// BorderEdgesOfVertex returns the border edges incident to v.
func (m *Mesh) BorderEdgesOfVertex(v VertexID) []Edge {
	var out []Edge
	for _, e := range m.vertexEdges[v] {
		if m.IsBorderEdge(e) {
			out = append(out, e)
		}
	}
	return out
}
