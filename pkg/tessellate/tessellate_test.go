package tessellate_test

import (
	"testing"

	"github.com/chazu/gregmesh/pkg/mesh"
	"github.com/chazu/gregmesh/pkg/mesh/meshtest"
	"github.com/chazu/gregmesh/pkg/patch"
	"github.com/chazu/gregmesh/pkg/tessellate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, d *mesh.Description) *patch.Set {
	t.Helper()
	m, err := mesh.Import(d, mesh.WeldPolicy{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	set, err := patch.GeneratePatches(m)
	if err != nil {
		t.Fatalf("GeneratePatches failed: %v", err)
	}
	return set
}

func TestSingleQuad(t *testing.T) {
	set := generate(t, meshtest.Quad())

	out, err := tessellate.Tessellate(set)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if !out.Patches {
		t.Error("expected a patch buffer")
	}
	if got := out.VertexCount(); got != patch.QuadPoints {
		t.Errorf("VertexCount() = %d, want %d", got, patch.QuadPoints)
	}
	if got := out.QuadCount(); got != 1 {
		t.Errorf("QuadCount() = %d, want 1", got)
	}
	if got := out.Channels(); got != 1 {
		t.Errorf("Channels() = %d, want 1", got)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	for i, idx := range out.Quads {
		if idx != uint32(i) {
			t.Fatalf("Quads[%d] = %d, want %d", i, idx, i)
		}
	}
}

func TestCornerMajorOrder(t *testing.T) {
	set := generate(t, meshtest.Cube())

	out, err := tessellate.Tessellate(set)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if got := out.QuadCount(); got != 6 {
		t.Fatalf("QuadCount() = %d, want 6", got)
	}

	for pi, p := range set.Quads {
		for c := 0; c < 4; c++ {
			for k := patch.KindP; k <= patch.KindFMinus; k++ {
				slot := pi*patch.QuadPoints + c*patch.PointsPerCorner + int(k)
				want := p.At(c, k)
				got := out.Vertices[slot*3 : slot*3+3]
				if got[0] != float32(want.X) || got[1] != float32(want.Y) || got[2] != float32(want.Z) {
					t.Errorf("patch %d corner %d kind %d = %v, want %v", pi, c, k, got, want)
				}
			}
		}
	}
}

func TestEmptySet(t *testing.T) {
	out, err := tessellate.Tessellate(&patch.Set{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if !out.IsEmpty() {
		t.Error("expected an empty buffer")
	}
	if _, err := tessellate.Tessellate(nil); err == nil {
		t.Error("expected an error for a nil set")
	}
}

func TestRejectsMisfiledPatch(t *testing.T) {
	set := generate(t, meshtest.Quad())
	set.Triangles, set.Quads = set.Quads, nil

	if _, err := tessellate.Tessellate(set); err == nil {
		t.Fatal("expected an error for a quad patch in the triangle list")
	}
}

func TestConvertSkipsTriangles(t *testing.T) {
	out, set, err := tessellate.Convert(meshtest.QuadAndTriangle(), mesh.WeldPolicy{})

	var skipped *patch.SkippedFacesError
	require.ErrorAs(t, err, &skipped)
	assert.ErrorIs(t, err, patch.ErrNotImplemented)
	require.NotNil(t, out, "expected quad output alongside the skipped faces")
	require.NotNil(t, set)
	if got := out.QuadCount(); got != 1 {
		t.Errorf("QuadCount() = %d, want 1", got)
	}
	if got := out.TriangleCount(); got != 0 {
		t.Errorf("TriangleCount() = %d, want 0", got)
	}
}

func TestConvertMalformed(t *testing.T) {
	d := meshtest.Quad()
	d.Positions = append(d.Positions, d.Positions[3].Add(d.Positions[0]).MulScalar(0.5))
	d.Faces = [][]int{{0, 1, 2, 3, 4}}
	d.TexCoords = nil

	out, set, err := tessellate.Convert(d, mesh.WeldPolicy{})
	assert.ErrorIs(t, err, mesh.ErrInvalidArity)
	assert.Nil(t, out)
	assert.Nil(t, set)
}
