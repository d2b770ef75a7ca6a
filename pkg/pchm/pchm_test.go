package pchm_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/gregmesh/pkg/buffer"
	"github.com/chazu/gregmesh/pkg/mesh"
	"github.com/chazu/gregmesh/pkg/mesh/meshtest"
	"github.com/chazu/gregmesh/pkg/pchm"
	"github.com/chazu/gregmesh/pkg/tessellate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patchMesh(t *testing.T, d *mesh.Description) *buffer.Mesh {
	t.Helper()
	out, _, err := tessellate.Convert(d, mesh.WeldPolicy{})
	require.NoError(t, err)
	return out
}

func encode(t *testing.T, m *buffer.Mesh) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, pchm.Encode(&b, m))
	return b.Bytes()
}

func TestHeaderSize(t *testing.T) {
	assert.Equal(t, pchm.HeaderSize, binary.Size(pchm.Header{}))
}

func TestPatchRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		desc     *mesh.Description
		quads    int
		channels int
	}{
		{"quad", meshtest.Quad(), 1, 1},
		{"grid", meshtest.Grid(3, 3), 9, 0},
		{"cube", meshtest.Cube(), 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := patchMesh(t, tt.desc)
			data := encode(t, src)

			got, err := pchm.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.True(t, got.Patches)
			assert.Equal(t, src.VertexCount(), got.VertexCount())
			assert.Equal(t, tt.quads, got.QuadCount())
			assert.Equal(t, tt.channels, got.Channels())
			assert.Len(t, got.Quads, got.QuadCount()*20)
			assert.Equal(t, src.Vertices, got.Vertices)
			assert.Equal(t, src.Quads, got.Quads)
			assert.Empty(t, got.Normals)
			assert.Empty(t, got.Tangents)

			wantSize := pchm.HeaderSize + 4*(3*src.VertexCount()+2*tt.channels*src.VertexCount()+len(src.Quads))
			assert.Len(t, data, wantSize)
		})
	}
}

func TestRawRoundTrip(t *testing.T) {
	m, err := mesh.Import(meshtest.QuadAndTriangle(), mesh.WeldPolicy{})
	require.NoError(t, err)
	src, err := buffer.FromMesh(m)
	require.NoError(t, err)

	// Missing normals and tangents are written as zero vectors.
	got, err := pchm.Decode(bytes.NewReader(encode(t, src)))
	require.NoError(t, err)
	assert.False(t, got.Patches)
	assert.Equal(t, 1, got.TriangleCount())
	assert.Equal(t, 1, got.QuadCount())
	assert.Equal(t, make([]float32, 3*src.VertexCount()), got.Normals)
	assert.ErrorIs(t, got.CheckRenderable(), pchm.ErrRawQuads)

	buffer.ComputeNormals(src)
	buffer.ComputeTangents(src)
	got, err = pchm.Decode(bytes.NewReader(encode(t, src)))
	require.NoError(t, err)
	assert.Equal(t, src.Vertices, got.Vertices)
	assert.Equal(t, src.Normals, got.Normals)
	assert.Equal(t, src.Tangents, got.Tangents)
	assert.Equal(t, src.Triangles, got.Triangles)
	assert.Equal(t, src.Quads, got.Quads)
}

func TestDecodeRejects(t *testing.T) {
	valid := encode(t, patchMesh(t, meshtest.Quad()))
	corrupt := func(fn func(b []byte)) []byte {
		b := bytes.Clone(valid)
		fn(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, pchm.ErrTruncated},
		{"magic", corrupt(func(b []byte) { b[0] = 'X' }), pchm.ErrBadMagic},
		{"version", corrupt(func(b []byte) { binary.LittleEndian.PutUint16(b[4:], 1) }), pchm.ErrBadVersion},
		{"index range", corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[len(b)-4:], 1000) }), pchm.ErrIndexRange},
		{"extra quad", corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[18:], 2) }), pchm.ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := pchm.Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, m)
		})
	}
}

func TestDecodeTruncatedAnywhere(t *testing.T) {
	data := encode(t, patchMesh(t, meshtest.Quad()))
	for n := 0; n < len(data); n++ {
		m, err := pchm.Decode(bytes.NewReader(data[:n]))
		if !assert.ErrorIs(t, err, pchm.ErrTruncated, "prefix %d", n) {
			return
		}
		assert.Nil(t, m)
	}
}

func TestDecodeHugeCountFailsFast(t *testing.T) {
	var b bytes.Buffer
	h := pchm.Header{Magic: pchm.Magic, VertexCount: 1 << 31}
	require.NoError(t, binary.Write(&b, binary.LittleEndian, &h))
	b.Write(make([]byte, 64))

	_, err := pchm.Decode(&b)
	assert.ErrorIs(t, err, pchm.ErrTruncated)
}

func TestEncodeRejectsInvalid(t *testing.T) {
	m := &buffer.Mesh{Vertices: make([]float32, 9), Triangles: []uint32{0, 1, 5}}
	assert.ErrorIs(t, pchm.Encode(&bytes.Buffer{}, m), pchm.ErrIndexRange)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.pchm")
	src := patchMesh(t, meshtest.Cube())
	require.NoError(t, pchm.Save(path, src))

	got, err := pchm.Load(path)
	require.NoError(t, err)
	assert.Equal(t, src.Vertices, got.Vertices)
	assert.Equal(t, src.Quads, got.Quads)

	_, err = pchm.Load(filepath.Join(t.TempDir(), "missing.pchm"))
	assert.Error(t, err)
}

func TestLoadIntoKeepsDestinationOnFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pchm")
	bad := filepath.Join(dir, "bad.pchm")
	require.NoError(t, pchm.Save(good, patchMesh(t, meshtest.Quad())))

	data := encode(t, patchMesh(t, meshtest.Cube()))
	f := filepath.Join(dir, "cut.pchm")
	require.NoError(t, os.WriteFile(f, data[:len(data)/2], 0o644))
	require.NoError(t, os.WriteFile(bad, append([]byte("NOPE"), data[4:]...), 0o644))

	var dst buffer.Mesh
	require.NoError(t, pchm.LoadInto(&dst, good))
	before := dst

	assert.ErrorIs(t, pchm.LoadInto(&dst, f), pchm.ErrTruncated)
	assert.ErrorIs(t, pchm.LoadInto(&dst, bad), pchm.ErrBadMagic)
	assert.Equal(t, before, dst)
	assert.Equal(t, 1, dst.QuadCount())
}
