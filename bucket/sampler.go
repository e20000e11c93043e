package bucket

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/fillvolume/pointcloud"
)

// Samples holds the three surfaces drawn for one run.
type Samples struct {
	Wall        *pointcloud.PointCloud
	Bottom      *pointcloud.PointCloud
	FillSurface *pointcloud.PointCloud
}

// EmptyBucket returns the wall points followed by the bottom points.
func (s *Samples) EmptyBucket() *pointcloud.PointCloud {
	return pointcloud.Union(pointcloud.RoleEmpty, s.Wall, s.Bottom)
}

// FullBucket returns the empty bucket followed by the fill surface points.
func (s *Samples) FullBucket() *pointcloud.PointCloud {
	return pointcloud.Union(pointcloud.RoleFull, s.Wall, s.Bottom, s.FillSurface)
}

// Sampler draws points on the surfaces of a Geometry. All draws come from one generator, so a
// Sampler is not safe for concurrent use; give each run its own.
type Sampler struct {
	geometry Geometry
	rng      *rand.Rand
}

// NewSampler returns a Sampler whose output is fully determined by g and seed.
func NewSampler(g Geometry, seed uint64) *Sampler {
	return &Sampler{
		geometry: g,
		rng:      rand.New(rand.NewPCG(seed, 0)),
	}
}

// Geometry returns the geometry being sampled.
func (s *Sampler) Geometry() Geometry {
	return s.geometry
}

// Sample draws the wall, then the bottom, then the fill surface.
func (s *Sampler) Sample(c Counts) (*Samples, error) {
	if err := s.geometry.Validate(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	wall, err := s.SampleWall(c.Wall)
	if err != nil {
		return nil, err
	}
	bottom, err := s.SampleDisk(c.Bottom, 0, pointcloud.RoleBottom)
	if err != nil {
		return nil, err
	}
	fill, err := s.SampleDisk(c.FillSurface, s.geometry.FillHeight(), pointcloud.RoleFillSurface)
	if err != nil {
		return nil, err
	}
	return &Samples{Wall: wall, Bottom: bottom, FillSurface: fill}, nil
}

// SampleWall draws n points uniformly over the lateral surface. The angle is drawn before the
// height for each point.
func (s *Sampler) SampleWall(n int) (*pointcloud.PointCloud, error) {
	if err := s.check(n); err != nil {
		return nil, err
	}
	r, h := s.geometry.radius, s.geometry.height
	cloud := pointcloud.NewWithPrealloc(pointcloud.RoleWall, n)
	for i := 0; i < n; i++ {
		theta := s.rng.Float64() * 2 * math.Pi
		z := s.rng.Float64() * h
		if err := cloud.Append(r3.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}); err != nil {
			return nil, err
		}
	}
	return cloud, nil
}

// SampleDisk draws n points uniformly by area over the disk of the bucket's radius at height z.
// The radial distance is r*sqrt(u); r*u would crowd points toward the center.
func (s *Sampler) SampleDisk(n int, z float64, role pointcloud.Role) (*pointcloud.PointCloud, error) {
	if err := s.check(n); err != nil {
		return nil, err
	}
	radius := s.geometry.radius
	cloud := pointcloud.NewWithPrealloc(role, n)
	for i := 0; i < n; i++ {
		r := radius * math.Sqrt(s.rng.Float64())
		theta := s.rng.Float64() * 2 * math.Pi
		if err := cloud.Append(r3.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}); err != nil {
			return nil, err
		}
	}
	return cloud, nil
}

func (s *Sampler) check(n int) error {
	if err := s.geometry.Validate(); err != nil {
		return err
	}
	if n < 0 {
		return errors.Wrapf(ErrInvalidGeometry, "point count must not be negative, got %d", n)
	}
	return nil
}
