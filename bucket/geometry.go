// Package bucket models an upright cylindrical bucket: its validated geometry, a seeded sampler
// that draws points on its wall, bottom and fill surface, and the closed-form volumes used as
// ground truth.
package bucket

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/fillvolume/utils"
)

// MinPoints is the smallest count accepted for any sampled surface. A 3D hull needs at least 4
// non-coplanar points.
const MinPoints = 4

// ErrInvalidGeometry is matched by every error returned for a bad geometry or point count.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Geometry is an upright cylinder with its base centered on the origin, partly filled from the
// bottom. Use NewGeometry to get a valid one; the zero value is invalid.
type Geometry struct {
	radius    float64
	height    float64
	fillRatio float64
}

// NewGeometry validates and returns a Geometry. radius and height are meters and must be
// positive; fillRatio is the filled fraction of the height in [0, 1].
func NewGeometry(radius, height, fillRatio float64) (Geometry, error) {
	g := Geometry{radius: radius, height: height, fillRatio: fillRatio}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Validate returns an error matching ErrInvalidGeometry if any field is out of range.
func (g Geometry) Validate() error {
	if !utils.IsFinite(g.radius) || g.radius <= 0 {
		return errors.Wrapf(ErrInvalidGeometry, "radius must be a positive number of meters, got %v", g.radius)
	}
	if !utils.IsFinite(g.height) || g.height <= 0 {
		return errors.Wrapf(ErrInvalidGeometry, "height must be a positive number of meters, got %v", g.height)
	}
	if !utils.IsFinite(g.fillRatio) || g.fillRatio < 0 || g.fillRatio > 1 {
		return errors.Wrapf(ErrInvalidGeometry, "fill ratio must be within [0, 1], got %v", g.fillRatio)
	}
	return nil
}

// Radius returns the inner radius in meters.
func (g Geometry) Radius() float64 {
	return g.radius
}

// Height returns the inner height in meters.
func (g Geometry) Height() float64 {
	return g.height
}

// FillRatio returns the filled fraction of the height.
func (g Geometry) FillRatio() float64 {
	return g.fillRatio
}

// FillHeight returns the height of the fill surface above the bottom in meters.
func (g Geometry) FillHeight() float64 {
	return g.fillRatio * g.height
}

func (g Geometry) String() string {
	return fmt.Sprintf("bucket(r=%gm, h=%gm, fill=%g)", g.radius, g.height, g.fillRatio)
}

// Counts is the number of points to draw on each surface.
type Counts struct {
	Wall        int
	Bottom      int
	FillSurface int
}

// Validate returns an error matching ErrInvalidGeometry if any count is below MinPoints.
func (c Counts) Validate() error {
	for _, count := range []struct {
		name string
		n    int
	}{
		{"wall", c.Wall},
		{"bottom", c.Bottom},
		{"fill surface", c.FillSurface},
	} {
		if count.n < MinPoints {
			return errors.Wrapf(ErrInvalidGeometry, "%s point count must be at least %d, got %d", count.name, MinPoints, count.n)
		}
	}
	return nil
}

// Total returns the number of points in the full bucket.
func (c Counts) Total() int {
	return c.Wall + c.Bottom + c.FillSurface
}
