package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chazu/gregmesh/pkg/buffer"
	"github.com/chazu/gregmesh/pkg/cage"
	"github.com/chazu/gregmesh/pkg/config"
	"github.com/chazu/gregmesh/pkg/logx"
	"github.com/chazu/gregmesh/pkg/mesh"
	"github.com/chazu/gregmesh/pkg/obj"
	"github.com/chazu/gregmesh/pkg/patch"
	"github.com/chazu/gregmesh/pkg/pchm"
	"github.com/chazu/gregmesh/pkg/tessellate"
)

// app runs the conversions behind each subcommand.
type app struct {
	opts config.Options
	out  io.Writer
}

// result summarises one conversion for the command output.
type result struct {
	Mesh     *buffer.Mesh
	Patches  *patch.Set
	Warnings []string
}

func newApp(opts config.Options, out io.Writer) *app {
	return &app{opts: opts, out: out}
}

// load reads an OBJ file and checks its texture channel count.
func (a *app) load(path string) (*mesh.Description, []string, error) {
	desc, warnings, err := obj.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if want := a.opts.TexCoordChannels; want > 0 {
		got := 0
		if len(desc.TexCoords) > 0 {
			got = len(desc.TexCoords[0])
		}
		if got != want {
			return nil, nil, fmt.Errorf("%s: %w: %d texture channels, want %d", path, mesh.ErrChannelMismatch, got, want)
		}
	}
	return desc, warnings, nil
}

// generate imports desc and derives its patches. Skipped triangle faces
// become a warning rather than a failure.
func (a *app) generate(desc *mesh.Description) (*buffer.Mesh, *patch.Set, []string, error) {
	policy, err := a.opts.WeldPolicy()
	if err != nil {
		return nil, nil, nil, err
	}
	out, set, err := tessellate.Convert(desc, policy)
	var skipped *patch.SkippedFacesError
	if errors.As(err, &skipped) {
		return out, set, []string{skipped.Error()}, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return out, set, nil, nil
}

// Patch converts an OBJ file to a Gregory patch PCHM file.
func (a *app) Patch(in, out string) (*result, error) {
	desc, warnings, err := a.load(in)
	if err != nil {
		return nil, err
	}
	m, set, more, err := a.generate(desc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	if err := pchm.Save(out, m); err != nil {
		return nil, err
	}
	logx.Logger().Info("wrote patch mesh", "path", out, "quads", m.QuadCount(), "vertices", m.VertexCount())
	return &result{Mesh: m, Patches: set, Warnings: append(warnings, more...)}, nil
}

// Raw converts an OBJ file to a raw PCHM mesh with normals and tangents.
func (a *app) Raw(in, out string) (*result, error) {
	desc, warnings, err := a.load(in)
	if err != nil {
		return nil, err
	}
	policy, err := a.opts.WeldPolicy()
	if err != nil {
		return nil, err
	}
	mm, err := mesh.Import(desc, policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	m, err := buffer.FromMesh(mm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	if a.opts.ComputeNormals {
		buffer.ComputeNormals(m)
	}
	if a.opts.ComputeTangents {
		buffer.ComputeTangents(m)
	}
	if err := m.CheckRenderable(); err != nil {
		warnings = append(warnings, err.Error())
	}
	if err := pchm.Save(out, m); err != nil {
		return nil, err
	}
	logx.Logger().Info("wrote raw mesh", "path", out,
		"triangles", m.TriangleCount(), "quads", m.QuadCount(), "vertices", m.VertexCount())
	return &result{Mesh: m, Warnings: warnings}, nil
}

// Info prints the header counts of a PCHM file.
func (a *app) Info(path string) error {
	m, err := pchm.Load(path)
	if err != nil {
		return err
	}
	format := "raw"
	if m.Patches {
		format = "patches"
	}
	fmt.Fprintf(a.out, "format:    %s\n", format)
	fmt.Fprintf(a.out, "vertices:  %d\n", m.VertexCount())
	fmt.Fprintf(a.out, "triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(a.out, "quads:     %d\n", m.QuadCount())
	fmt.Fprintf(a.out, "texcoords: %d\n", m.Channels())
	return nil
}

// Cage writes the control hulls of an OBJ file's patches to STL.
func (a *app) Cage(in, out string) (*result, error) {
	desc, warnings, err := a.load(in)
	if err != nil {
		return nil, err
	}
	_, set, more, err := a.generate(desc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	if err := cage.SaveSTL(out, set); err != nil {
		return nil, err
	}
	logx.Logger().Info("wrote control cage", "path", out, "patches", set.Len())
	return &result{Patches: set, Warnings: append(warnings, more...)}, nil
}
