// Package pchm reads and writes the PCHM binary mesh format: a 22-byte
// little-endian header followed by flat vertex and index arrays. A file holds
// either a raw polygon mesh or a Gregory patch mesh, selected by FlagPatches.
package pchm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chazu/gregmesh/pkg/buffer"
)

var byteorder = binary.LittleEndian

// Magic opens every PCHM file.
var Magic = [4]byte{'P', 'C', 'H', 'M'}

// Version is the only format version understood.
const Version uint16 = 0

// FlagPatches marks a Gregory patch body.
const FlagPatches uint16 = 1 << 0

// HeaderSize is the encoded size of Header in bytes.
const HeaderSize = 22

var (
	ErrBadMagic   = errors.New("pchm: bad magic")
	ErrBadVersion = errors.New("pchm: unsupported version")
	ErrTruncated  = errors.New("pchm: truncated data")
	ErrTooLarge   = errors.New("pchm: mesh too large for format")

	ErrIndexRange = buffer.ErrIndexRange
	ErrRawQuads   = buffer.ErrRawQuads
)

// Header is the fixed-size file header. TriangleCount and QuadCount count
// primitives, not indices.
type Header struct {
	Magic         [4]byte
	Version       uint16
	Flags         uint16
	NumTexCoords  uint16
	VertexCount   uint32
	TriangleCount uint32
	QuadCount     uint32
}

// Patches reports whether the body uses the Gregory patch layout.
func (h *Header) Patches() bool { return h.Flags&FlagPatches != 0 }

func (h *Header) triangleStride() uint64 {
	if h.Patches() {
		return buffer.TrianglePatchIndices
	}
	return buffer.TriangleIndices
}

func (h *Header) quadStride() uint64 {
	if h.Patches() {
		return buffer.QuadPatchIndices
	}
	return buffer.QuadIndices
}

// HeaderOf builds the header describing m.
func HeaderOf(m *buffer.Mesh) (Header, error) {
	h := Header{Magic: Magic, Version: Version}
	if m.Patches {
		h.Flags |= FlagPatches
	}
	if m.Channels() > math.MaxUint16 {
		return h, fmt.Errorf("%w: %d texture channels", ErrTooLarge, m.Channels())
	}
	for _, n := range []int{m.VertexCount(), m.TriangleCount(), m.QuadCount()} {
		if n > math.MaxUint32 {
			return h, fmt.Errorf("%w: count %d", ErrTooLarge, n)
		}
	}
	h.NumTexCoords = uint16(m.Channels())
	h.VertexCount = uint32(m.VertexCount())
	h.TriangleCount = uint32(m.TriangleCount())
	h.QuadCount = uint32(m.QuadCount())
	return h, nil
}

// ReadHeader reads and checks the header at the start of r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, byteorder, &h); err != nil {
		return h, truncated("header", err)
	}
	if h.Magic != Magic {
		return h, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic[:])
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)
	}
	return h, nil
}

func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, what)
	}
	return fmt.Errorf("pchm: reading %s: %w", what, err)
}
