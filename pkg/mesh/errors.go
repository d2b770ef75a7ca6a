package mesh

import "errors"

// Malformed-topology errors. They abort processing of the whole mesh.
var (
	ErrInvalidArity        = errors.New("mesh: face must have 3 or 4 vertices")
	ErrNonManifoldEdge     = errors.New("mesh: edge has more than two incident faces")
	ErrNonManifoldBoundary = errors.New("mesh: boundary vertex has more than two border edges")
	ErrOpenFan             = errors.New("mesh: faces around vertex do not form a closed fan")
	ErrUnknownVertex       = errors.New("mesh: unknown vertex")
	ErrUnknownEdge         = errors.New("mesh: unknown edge")
	ErrUnknownFace         = errors.New("mesh: unknown face")
	ErrChannelMismatch     = errors.New("mesh: texture coordinate channels differ between faces")
)
