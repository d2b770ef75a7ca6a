package mesh

import (
	"fmt"
	"math"

	"github.com/chazu/gregmesh/pkg/logx"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Description is the flat input mesh: positions, per-face position indices
// and per-face texture coordinates indexed [face][channel][corner].
// TexCoords may be nil for a mesh without texture coordinates.
type Description struct {
	Positions []v3.Vec
	Faces     [][]int
	TexCoords [][][]v2.Vec
}

// WeldMode selects how input positions are mapped to arena vertices.
type WeldMode int

const (
	// WeldNone trusts the input indices: one arena vertex per input position.
	WeldNone WeldMode = iota
	// WeldExact merges positions with identical coordinates.
	WeldExact
	// WeldEpsilon merges positions closer than WeldPolicy.Epsilon.
	WeldEpsilon
)

func (m WeldMode) String() string {
	switch m {
	case WeldNone:
		return "none"
	case WeldExact:
		return "exact"
	case WeldEpsilon:
		return "epsilon"
	}
	return fmt.Sprintf("WeldMode(%d)", int(m))
}

// WeldPolicy is the vertex deduplication rule applied by Import.
type WeldPolicy struct {
	Mode    WeldMode
	Epsilon float64
}

// Import builds a Mesh from desc. Every consecutive vertex pair of every face,
// including the wrap-around pair, becomes a canonical edge registered in all
// four adjacency relations. Face arity and manifoldness are not checked here;
// see Validate.
func Import(desc *Description, policy WeldPolicy) (*Mesh, error) {
	if desc == nil {
		return newMesh(), nil
	}
	if policy.Mode == WeldEpsilon && !(policy.Epsilon > 0) {
		return nil, fmt.Errorf("mesh: weld epsilon must be positive, got %v", policy.Epsilon)
	}

	channels, err := checkTexCoords(desc)
	if err != nil {
		return nil, err
	}

	m := newMesh()
	m.channels = channels
	remap := weld(m, desc.Positions, policy)

	for fi, src := range desc.Faces {
		verts := make([]VertexID, len(src))
		for i, idx := range src {
			if idx < 0 || idx >= len(remap) {
				return nil, fmt.Errorf("%w: face %d references position %d of %d",
					ErrUnknownVertex, fi, idx, len(remap))
			}
			verts[i] = remap[idx]
		}
		face := Face{Verts: verts}
		if channels > 0 {
			face.TexCoords = desc.TexCoords[fi]
		}
		m.faces = append(m.faces, face)

		f := FaceID(fi)
		for i, v := range verts {
			w := verts[(i+1)%len(verts)]
			e := NewEdge(v, w)
			m.AddFaceToVertex(v, f)
			m.AddEdgeToVertex(v, e)
			m.AddEdgeToVertex(w, e)
			m.AddEdgeToFace(f, e)
			m.AddFaceToEdge(e, f)
		}
	}

	logx.Logger().Debug("mesh: imported",
		"positions", len(desc.Positions),
		"vertices", len(m.positions),
		"faces", len(m.faces),
		"edges", len(m.edges),
		"weld", policy.Mode.String())
	return m, nil
}

// checkTexCoords returns the channel count shared by every face.
func checkTexCoords(desc *Description) (int, error) {
	if len(desc.TexCoords) == 0 {
		return 0, nil
	}
	if len(desc.TexCoords) != len(desc.Faces) {
		return 0, fmt.Errorf("%w: %d texture coordinate sets for %d faces",
			ErrChannelMismatch, len(desc.TexCoords), len(desc.Faces))
	}
	channels := len(desc.TexCoords[0])
	for fi, tc := range desc.TexCoords {
		if len(tc) != channels {
			return 0, fmt.Errorf("%w: face %d has %d channels, face 0 has %d",
				ErrChannelMismatch, fi, len(tc), channels)
		}
		for ch, coords := range tc {
			if len(coords) != len(desc.Faces[fi]) {
				return 0, fmt.Errorf("%w: face %d channel %d has %d coordinates for %d vertices",
					ErrChannelMismatch, fi, ch, len(coords), len(desc.Faces[fi]))
			}
		}
	}
	return channels, nil
}

// weld fills the arena of m and returns the input-index to VertexID map.
func weld(m *Mesh, positions []v3.Vec, policy WeldPolicy) []VertexID {
	remap := make([]VertexID, len(positions))
	switch policy.Mode {
	case WeldExact:
		seen := make(map[v3.Vec]VertexID, len(positions))
		for i, p := range positions {
			id, ok := seen[p]
			if !ok {
				id = VertexID(len(m.positions))
				m.positions = append(m.positions, p)
				seen[p] = id
			}
			remap[i] = id
		}
	case WeldEpsilon:
		g := newWeldGrid(policy.Epsilon)
		for i, p := range positions {
			id, ok := g.find(m.positions, p)
			if !ok {
				id = VertexID(len(m.positions))
				m.positions = append(m.positions, p)
				g.insert(p, id)
			}
			remap[i] = id
		}
	default:
		m.positions = append(m.positions, positions...)
		for i := range positions {
			remap[i] = VertexID(i)
		}
	}
	return remap
}

type cellKey [3]int64

// weldGrid buckets vertices into cubes of side eps so a lookup only has to
// inspect the 27 cells around a point.
type weldGrid struct {
	eps   float64
	cells map[cellKey][]VertexID
}

func newWeldGrid(eps float64) *weldGrid {
	return &weldGrid{eps: eps, cells: make(map[cellKey][]VertexID)}
}

func (g *weldGrid) key(p v3.Vec) cellKey {
	return cellKey{
		int64(math.Floor(p.X / g.eps)),
		int64(math.Floor(p.Y / g.eps)),
		int64(math.Floor(p.Z / g.eps)),
	}
}

func (g *weldGrid) insert(p v3.Vec, id VertexID) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], id)
}

// find returns the first inserted vertex within eps of p.
func (g *weldGrid) find(arena []v3.Vec, p v3.Vec) (VertexID, bool) {
	k := g.key(p)
	best, found := VertexID(0), false
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, id := range g.cells[cellKey{k[0] + dx, k[1] + dy, k[2] + dz}] {
					if arena[id].Sub(p).Length() > g.eps {
						continue
					}
					if !found || id < best {
						best, found = id, true
					}
				}
			}
		}
	}
	return best, found
}
