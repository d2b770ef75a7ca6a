// Package obj parses the subset of the Wavefront OBJ format needed to feed
// mesh.Import: vertex positions, texture coordinates and polygon faces.
// Normals are accepted in face references but not kept, since patches
// define their own surface. Every other statement is skipped with a warning.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/gregmesh/pkg/logx"
	"github.com/chazu/gregmesh/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrSyntax reports a malformed statement.
var ErrSyntax = errors.New("obj: syntax error")

const noIndex = -1

// Face is one polygon, with zero-based indices into the decoder's arrays.
// UVs entries are -1 where the face reference has no texture coordinate.
type Face struct {
	Verts []int
	UVs   []int
}

func (f *Face) hasUVs() bool {
	for _, t := range f.UVs {
		if t == noIndex {
			return false
		}
	}
	return true
}

// Decoder holds everything decoded from one OBJ stream.
type Decoder struct {
	Positions []v3.Vec
	UVs       []v2.Vec
	Faces     []Face
	Warnings  []string

	normals int
	line    int
}

// Decode parses an OBJ stream.
func Decode(r io.Reader) (*Decoder, error) {
	dec := &Decoder{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		dec.line++
		if err := dec.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	return dec, nil
}

// Load decodes the OBJ file at path and converts it to a mesh description.
// Warnings from the decoder are logged and returned.
func Load(path string) (*mesh.Description, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("obj: %w", err)
	}
	defer f.Close()

	dec, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	desc := dec.Description()
	log := logx.Logger()
	for _, w := range dec.Warnings {
		log.Warn("obj: "+w, "path", path)
	}
	log.Debug("obj: decoded", "path", path, "positions", len(dec.Positions), "faces", len(dec.Faces))
	return desc, dec.Warnings, nil
}

// Description converts the decoded data for mesh.Import. Texture
// coordinates become channel 0 when every face references them; when only
// some faces do, they are dropped with a warning.
func (dec *Decoder) Description() *mesh.Description {
	desc := &mesh.Description{Positions: dec.Positions}
	withUV := 0
	for i := range dec.Faces {
		desc.Faces = append(desc.Faces, dec.Faces[i].Verts)
		if dec.Faces[i].hasUVs() {
			withUV++
		}
	}

	switch {
	case withUV == 0 || len(dec.Faces) == 0:
	case withUV < len(dec.Faces):
		dec.Warnings = append(dec.Warnings,
			fmt.Sprintf("%d of %d faces lack texture coordinates, dropping them", len(dec.Faces)-withUV, len(dec.Faces)))
	default:
		desc.TexCoords = make([][][]v2.Vec, len(dec.Faces))
		for i, f := range dec.Faces {
			uvs := make([]v2.Vec, len(f.UVs))
			for c, t := range f.UVs {
				uvs[c] = dec.UVs[t]
			}
			desc.TexCoords[i] = [][]v2.Vec{uvs}
		}
	}
	return desc
}

func (dec *Decoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "v":
		return dec.parseVertex(fields[1:])
	case "vt":
		return dec.parseTex(fields[1:])
	case "vn":
		if len(fields) < 4 {
			return dec.formatError("'vn' needs 3 components")
		}
		dec.normals++
	case "f":
		return dec.parseFace(fields[1:])
	default:
		dec.appendWarn("statement not supported: " + fields[0])
	}
	return nil
}

// v <x> <y> <z> [w]
func (dec *Decoder) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return dec.formatError("'v' needs 3 components")
	}
	var xyz [3]float64
	for i, f := range fields[:3] {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return dec.formatError(err.Error())
		}
		xyz[i] = val
	}
	dec.Positions = append(dec.Positions, v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	return nil
}

// vt <u> [<v> [<w>]]
func (dec *Decoder) parseTex(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("'vt' needs a component")
	}
	var uv [2]float64
	for i, f := range fields[:min(2, len(fields))] {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return dec.formatError(err.Error())
		}
		uv[i] = val
	}
	dec.UVs = append(dec.UVs, v2.Vec{X: uv[0], Y: uv[1]})
	return nil
}

// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *Decoder) parseFace(fields []string) error {
	if len(fields) != 3 && len(fields) != 4 {
		return fmt.Errorf("%w: line %d has %d vertices", mesh.ErrInvalidArity, dec.line, len(fields))
	}
	face := Face{Verts: make([]int, len(fields)), UVs: make([]int, len(fields))}
	for pos, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) > 3 {
			return dec.formatError("bad face reference " + f)
		}

		v, err := dec.resolve(parts[0], len(dec.Positions), "vertex")
		if err != nil {
			return err
		}
		face.Verts[pos] = v

		face.UVs[pos] = noIndex
		if len(parts) > 1 && parts[1] != "" {
			if face.UVs[pos], err = dec.resolve(parts[1], len(dec.UVs), "texture"); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if _, err = dec.resolve(parts[2], dec.normals, "normal"); err != nil {
				return err
			}
		}
	}
	dec.Faces = append(dec.Faces, face)
	return nil
}

// resolve turns a one-based or negative (relative) OBJ index into a
// zero-based index below count.
func (dec *Decoder) resolve(s string, count int, what string) (int, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, dec.formatError(fmt.Sprintf("bad %s index %q", what, s))
	}
	idx := val - 1
	if val < 0 {
		idx = count + val
	}
	if val == 0 || idx < 0 || idx >= count {
		return 0, dec.formatError(fmt.Sprintf("%s index %d out of range (%d defined)", what, val, count))
	}
	return idx, nil
}

func (dec *Decoder) formatError(msg string) error {
	return fmt.Errorf("%w: %s in line %d", ErrSyntax, msg, dec.line)
}

func (dec *Decoder) appendWarn(msg string) {
	dec.Warnings = append(dec.Warnings, fmt.Sprintf("line %d: %s", dec.line, msg))
}
