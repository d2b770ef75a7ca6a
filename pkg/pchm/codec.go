package pchm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/chazu/gregmesh/pkg/buffer"
	"github.com/chazu/gregmesh/pkg/logx"
)

// chunk bounds each array read so a lying header cannot force a huge
// allocation before the data runs out.
const chunk = 1 << 16

func readSlice[T float32 | uint32](r io.Reader, n uint64, what string) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	out := make([]T, 0, min(n, chunk))
	buf := make([]T, min(n, chunk))
	for rem := n; rem > 0; {
		k := min(rem, chunk)
		if err := binary.Read(r, byteorder, buf[:k]); err != nil {
			return nil, truncated(what, err)
		}
		out = append(out, buf[:k]...)
		rem -= k
	}
	return out, nil
}

// Decode reads one mesh from r. The result is nil unless the whole mesh was
// read and every index addresses a vertex.
func Decode(r io.Reader) (*buffer.Mesh, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	n := uint64(h.VertexCount)
	m := &buffer.Mesh{Patches: h.Patches()}
	if m.Vertices, err = readSlice[float32](r, 3*n, "positions"); err != nil {
		return nil, err
	}
	if !m.Patches {
		if m.Normals, err = readSlice[float32](r, 3*n, "normals"); err != nil {
			return nil, err
		}
		if m.Tangents, err = readSlice[float32](r, 3*n, "tangents"); err != nil {
			return nil, err
		}
	}
	m.TexCoords = make([][]float32, h.NumTexCoords)
	for ch := range m.TexCoords {
		tc, err := readSlice[float32](r, 2*n, fmt.Sprintf("texcoord channel %d", ch))
		if err != nil {
			return nil, err
		}
		if tc == nil {
			tc = []float32{}
		}
		m.TexCoords[ch] = tc
	}
	if m.Triangles, err = readSlice[uint32](r, uint64(h.TriangleCount)*h.triangleStride(), "triangle indices"); err != nil {
		return nil, err
	}
	if m.Quads, err = readSlice[uint32](r, uint64(h.QuadCount)*h.quadStride(), "quad indices"); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("pchm: %w", err)
	}
	return m, nil
}

// Encode writes m to w. Raw meshes without normals or tangents get zero
// vectors in their place; patch meshes must not carry either.
func Encode(w io.Writer, m *buffer.Mesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("pchm: %w", err)
	}
	h, err := HeaderOf(m)
	if err != nil {
		return err
	}

	parts := []any{&h, m.Vertices}
	if !m.Patches {
		parts = append(parts, orZeros(m.Normals, 3*m.VertexCount()), orZeros(m.Tangents, 3*m.VertexCount()))
	}
	for _, tc := range m.TexCoords {
		parts = append(parts, tc)
	}
	parts = append(parts, m.Triangles, m.Quads)

	for _, p := range parts {
		switch s := p.(type) {
		case []float32:
			if len(s) == 0 {
				continue
			}
		case []uint32:
			if len(s) == 0 {
				continue
			}
		}
		if err := binary.Write(w, byteorder, p); err != nil {
			return fmt.Errorf("pchm: write: %w", err)
		}
	}
	return nil
}

func orZeros(s []float32, n int) []float32 {
	if len(s) == n {
		return s
	}
	return make([]float32, n)
}

// Load reads the PCHM file at path.
func Load(path string) (*buffer.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pchm: %w", err)
	}
	defer f.Close()

	m, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logx.Logger().Debug("pchm: loaded", "path", path,
		"vertices", m.VertexCount(), "triangles", m.TriangleCount(), "quads", m.QuadCount(),
		"patches", m.Patches)
	return m, nil
}

// LoadInto reads path and replaces *dst with the result. On failure dst is
// left untouched.
func LoadInto(dst *buffer.Mesh, path string) error {
	m, err := Load(path)
	if err != nil {
		return err
	}
	*dst = *m
	return nil
}

// Save writes m to path, creating or truncating the file.
func Save(path string, m *buffer.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pchm: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, m); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("pchm: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pchm: %w", err)
	}
	logx.Logger().Debug("pchm: saved", "path", path, "vertices", m.VertexCount(), "patches", m.Patches)
	return nil
}
