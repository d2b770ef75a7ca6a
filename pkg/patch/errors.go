package patch

import (
	"errors"
	"fmt"

	"github.com/chazu/gregmesh/pkg/mesh"
)

// ErrNotImplemented is returned for triangle patch generation.
var ErrNotImplemented = errors.New("patch: triangle patches are not implemented")

// SkippedFacesError reports faces left out of a Set. The quad patches of the
// Set are still valid.
type SkippedFacesError struct {
	Faces []mesh.FaceID
}

func (e *SkippedFacesError) Error() string {
	return fmt.Sprintf("patch: skipped %d triangle faces %v: triangle patches are not implemented",
		len(e.Faces), e.Faces)
}

func (e *SkippedFacesError) Unwrap() error { return ErrNotImplemented }
