package spatialmath

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDegenerateHull is matched by every error returned for inputs that do not span 3D space.
var ErrDegenerateHull = errors.New("degenerate hull")

// DegenerateHullError reports a point set with too few points, or whose points are all
// coplanar, collinear or coincident within tolerance.
type DegenerateHullError struct {
	NumPoints int
	// Dimension is the affine dimension the points span: 0 for a single location, 1 for a
	// line, 2 for a plane.
	Dimension int
}

func (e *DegenerateHullError) Error() string {
	return fmt.Sprintf("%s: %d points spanning %d dimension(s), need at least 4 non-coplanar points",
		ErrDegenerateHull, e.NumPoints, e.Dimension)
}

// Is makes errors.Is(err, ErrDegenerateHull) true for any *DegenerateHullError.
func (e *DegenerateHullError) Is(target error) bool {
	return target == ErrDegenerateHull
}
