// Package config holds conversion options read from a TOML file. Only the
// command line consults it; the core packages take explicit parameters.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chazu/gregmesh/pkg/mesh"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid reports an option value outside its allowed range.
var ErrInvalid = errors.New("config: invalid option")

// Options controls a conversion.
type Options struct {
	// Weld is "none", "exact" or "epsilon".
	Weld string `toml:"weld"`
	// Epsilon is the merge distance for the "epsilon" weld mode.
	Epsilon float64 `toml:"epsilon"`
	// LogLevel is a slog level name: debug, info, warn or error.
	LogLevel string `toml:"log_level"`
	// ComputeNormals and ComputeTangents fill the raw output arrays.
	ComputeNormals  bool `toml:"compute_normals"`
	ComputeTangents bool `toml:"compute_tangents"`
	// TexCoordChannels is the channel count the input must have; 0 accepts any.
	TexCoordChannels int `toml:"texcoord_channels"`
}

// Default returns the options used when no file is given.
func Default() Options {
	return Options{
		Weld:            mesh.WeldExact.String(),
		Epsilon:         1e-6,
		LogLevel:        "info",
		ComputeNormals:  true,
		ComputeTangents: true,
	}
}

// Decode reads options from r over the defaults. Unknown keys are an error.
func Decode(r io.Reader) (Options, error) {
	o := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Load reads the TOML file at path.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	o, err := Decode(bufio.NewReader(f))
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Save writes o to path as TOML.
func (o Options) Save(path string) error {
	data, err := toml.Marshal(o)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks every option.
func (o Options) Validate() error {
	mode, err := parseWeld(o.Weld)
	if err != nil {
		return err
	}
	if mode == mesh.WeldEpsilon && !(o.Epsilon > 0) {
		return fmt.Errorf("%w: epsilon must be positive, got %v", ErrInvalid, o.Epsilon)
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	if o.TexCoordChannels < 0 {
		return fmt.Errorf("%w: texcoord_channels %d", ErrInvalid, o.TexCoordChannels)
	}
	return nil
}

// WeldPolicy translates the weld options for mesh.Import.
func (o Options) WeldPolicy() (mesh.WeldPolicy, error) {
	mode, err := parseWeld(o.Weld)
	if err != nil {
		return mesh.WeldPolicy{}, err
	}
	return mesh.WeldPolicy{Mode: mode, Epsilon: o.Epsilon}, nil
}

// Level parses LogLevel.
func (o Options) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, o.LogLevel)
	}
	return l, nil
}

func parseWeld(s string) (mesh.WeldMode, error) {
	for _, m := range []mesh.WeldMode{mesh.WeldNone, mesh.WeldExact, mesh.WeldEpsilon} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: weld %q", ErrInvalid, s)
}
