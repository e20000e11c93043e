// Package estimator turns point clouds into convex hull volume estimates.
package estimator

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/fillvolume/bucket"
	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/pointcloud"
	"go.viam.com/fillvolume/spatialmath"
	"go.viam.com/fillvolume/utils"
)

// Config configures an Estimator.
type Config struct {
	// Epsilon is the relative hull tolerance; 0 selects spatialmath.DefaultHullEpsilon.
	Epsilon        float64
	FillDefinition FillDefinition
}

// Validate checks the tolerance and fill definition.
func (cfg Config) Validate() error {
	if !utils.IsFinite(cfg.Epsilon) || cfg.Epsilon < 0 {
		return errors.Errorf("hull epsilon must be a non-negative number, got %v", cfg.Epsilon)
	}
	if _, err := ParseFillDefinition(string(cfg.FillDefinition)); err != nil {
		return err
	}
	return nil
}

// HullResult is the convex envelope of one point cloud. Volumes are cubic meters; converting
// them is left to callers.
type HullResult struct {
	// Vertices holds the extreme points of the input, in input order.
	Vertices  *pointcloud.PointCloud
	VolumeM3  float64
	NumFaces  int
	InputSize int
	Hull      *spatialmath.ConvexHull
}

// FillEstimate is the hull estimate of the fill region of a bucket.
type FillEstimate struct {
	Definition FillDefinition
	Region     *pointcloud.PointCloud
	// Hull is nil when Empty is set.
	Hull     *HullResult
	VolumeM3 float64
	// Empty is set when the fill surface lies on the bottom within hull tolerance, so there
	// is no region to measure and the volume is exactly 0.
	Empty bool
}

// Estimator builds hulls with a fixed tolerance and fill definition. It holds no mutable
// state and can be shared between goroutines.
type Estimator struct {
	epsilon        float64
	fillDefinition FillDefinition
	logger         logging.Logger
}

// New returns an Estimator for cfg.
func New(cfg Config, logger logging.Logger) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	def, err := ParseFillDefinition(string(cfg.FillDefinition))
	if err != nil {
		return nil, err
	}
	epsilon := cfg.Epsilon
	if epsilon == 0 {
		epsilon = spatialmath.DefaultHullEpsilon
	}
	return &Estimator{epsilon: epsilon, fillDefinition: def, logger: logger}, nil
}

// Epsilon returns the relative hull tolerance in use.
func (e *Estimator) Epsilon() float64 {
	return e.epsilon
}

// FillDefinition returns the fill definition in use.
func (e *Estimator) FillDefinition() FillDefinition {
	return e.fillDefinition
}

// Estimate builds the convex hull of cloud. Clouds with fewer than 4 points or without 3D
// extent fail with an error matching spatialmath.ErrDegenerateHull.
func (e *Estimator) Estimate(cloud *pointcloud.PointCloud) (*HullResult, error) {
	if cloud == nil {
		return nil, errors.New("cannot estimate the hull of a nil point cloud")
	}
	hull, err := spatialmath.NewConvexHull(cloud.Points(), e.epsilon)
	if err != nil {
		return nil, errors.Wrapf(err, "estimating hull of %s cloud", cloud.Role())
	}
	vertices, err := pointcloud.NewFromPoints(pointcloud.RoleHull, hull.Vertices())
	if err != nil {
		return nil, err
	}
	e.logger.Debugw("hull estimated",
		"role", cloud.Role(),
		"points", cloud.Size(),
		"vertices", vertices.Size(),
		"faces", hull.NumFaces(),
		"volume_m3", hull.Volume(),
	)
	return &HullResult{
		Vertices:  vertices,
		VolumeM3:  hull.Volume(),
		NumFaces:  hull.NumFaces(),
		InputSize: cloud.Size(),
		Hull:      hull,
	}, nil
}

// FillRegion returns the points bounding the fill region under the configured definition.
func (e *Estimator) FillRegion(g bucket.Geometry, samples *bucket.Samples) (*pointcloud.PointCloud, error) {
	if samples == nil || samples.Bottom == nil || samples.FillSurface == nil {
		return nil, errors.New("fill region needs bottom and fill surface samples")
	}
	switch e.fillDefinition {
	case WallClipped:
		if samples.Wall == nil {
			return nil, errors.New("wall clipped fill region needs wall samples")
		}
		fillHeight := g.FillHeight()
		wall := samples.Wall.Filter(pointcloud.RoleWall, func(p r3.Vector) bool { return p.Z <= fillHeight })
		return pointcloud.Union(pointcloud.RoleFillRegion, wall, samples.Bottom, samples.FillSurface), nil
	case BottomAndSurface:
		return pointcloud.Union(pointcloud.RoleFillRegion, samples.Bottom, samples.FillSurface), nil
	default:
		return nil, errors.Errorf("unknown fill definition %q", e.fillDefinition)
	}
}

// EstimateFill measures the hull of the fill region of samples drawn from g.
func (e *Estimator) EstimateFill(g bucket.Geometry, samples *bucket.Samples) (*FillEstimate, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	region, err := e.FillRegion(g, samples)
	if err != nil {
		return nil, err
	}

	// the fill region spans at most this diagonal, so a thinner fill cannot produce a 3D hull
	span := math.Sqrt(8*utils.Square(g.Radius()) + utils.Square(g.Height()))
	if g.FillHeight() <= e.epsilon*span {
		e.logger.Debugw("fill surface lies on the bottom, fill is empty", "fill_ratio", g.FillRatio())
		return &FillEstimate{Definition: e.fillDefinition, Region: region, Empty: true}, nil
	}

	hull, err := e.Estimate(region)
	if err != nil {
		return nil, errors.Wrapf(err, "estimating %s fill", e.fillDefinition)
	}
	return &FillEstimate{
		Definition: e.fillDefinition,
		Region:     region,
		Hull:       hull,
		VolumeM3:   hull.VolumeM3,
	}, nil
}
