// Package report assembles the result of one run into an immutable VolumeReport and exports it
// in the record format read by the viewer.
package report

import (
	"github.com/pkg/errors"

	"go.viam.com/fillvolume/bucket"
	"go.viam.com/fillvolume/pointcloud"
	"go.viam.com/fillvolume/utils"
)

// ErrIncompleteReport is matched by every structural mismatch found while assembling a report.
var ErrIncompleteReport = errors.New("incomplete report")

// AnalyticVolumes are the closed-form volumes of the bucket in liters.
type AnalyticVolumes struct {
	CapacityLiters float64
	FillLiters     float64
}

// HullVolumes are the convex hull estimates in liters.
type HullVolumes struct {
	FillLiters float64
	FullLiters float64
}

// Input is everything a report is assembled from.
type Input struct {
	Geometry       bucket.Geometry
	Counts         bucket.Counts
	Seed           uint64
	FillDefinition string

	EmptyBucket *pointcloud.PointCloud
	FillSurface *pointcloud.PointCloud
	FullBucket  *pointcloud.PointCloud

	Analytic AnalyticVolumes
	Hull     HullVolumes
}

// VolumeReport is the snapshot of one generation run. It owns copies of its clouds, and its
// cloud accessors return copies, so the report cannot change after Assemble.
type VolumeReport struct {
	geometry       bucket.Geometry
	counts         bucket.Counts
	seed           uint64
	fillDefinition string

	emptyBucket *pointcloud.PointCloud
	fillSurface *pointcloud.PointCloud
	fullBucket  *pointcloud.PointCloud

	analytic AnalyticVolumes
	hull     HullVolumes
}

// Assemble checks that the parts of in fit together and returns them as a VolumeReport. Any
// mismatch returns an error matching ErrIncompleteReport.
func Assemble(in Input) (*VolumeReport, error) {
	if err := in.Geometry.Validate(); err != nil {
		return nil, errors.Wrap(ErrIncompleteReport, err.Error())
	}
	if in.FillDefinition == "" {
		return nil, errors.Wrap(ErrIncompleteReport, "fill definition is not set")
	}
	for _, c := range []struct {
		name  string
		cloud *pointcloud.PointCloud
		role  pointcloud.Role
	}{
		{"empty_bucket", in.EmptyBucket, pointcloud.RoleEmpty},
		{"fill_surface", in.FillSurface, pointcloud.RoleFillSurface},
		{"full_bucket", in.FullBucket, pointcloud.RoleFull},
	} {
		if c.cloud == nil || c.cloud.Size() == 0 {
			return nil, errors.Wrapf(ErrIncompleteReport, "%s has no points", c.name)
		}
		if c.cloud.Role() != c.role {
			return nil, errors.Wrapf(ErrIncompleteReport, "%s is tagged %q, expected %q", c.name, c.cloud.Role(), c.role)
		}
	}

	if err := checkConcatenation(in.EmptyBucket.Triples(), in.FillSurface.Triples(), in.FullBucket.Triples()); err != nil {
		return nil, err
	}
	if in.Counts.Wall+in.Counts.Bottom != in.EmptyBucket.Size() {
		return nil, errors.Wrapf(ErrIncompleteReport, "empty_bucket has %d points, counts say %d wall + %d bottom",
			in.EmptyBucket.Size(), in.Counts.Wall, in.Counts.Bottom)
	}
	if in.Counts.FillSurface != in.FillSurface.Size() {
		return nil, errors.Wrapf(ErrIncompleteReport, "fill_surface has %d points, counts say %d",
			in.FillSurface.Size(), in.Counts.FillSurface)
	}

	for _, v := range []struct {
		name   string
		liters float64
	}{
		{"analytic capacity", in.Analytic.CapacityLiters},
		{"analytic fill", in.Analytic.FillLiters},
		{"hull fill", in.Hull.FillLiters},
		{"hull full", in.Hull.FullLiters},
	} {
		if !utils.IsFinite(v.liters) || v.liters < 0 {
			return nil, errors.Wrapf(ErrIncompleteReport, "%s volume must be a non-negative number of liters, got %v", v.name, v.liters)
		}
	}

	return &VolumeReport{
		geometry:       in.Geometry,
		counts:         in.Counts,
		seed:           in.Seed,
		fillDefinition: in.FillDefinition,
		emptyBucket:    pointcloud.Union(pointcloud.RoleEmpty, in.EmptyBucket),
		fillSurface:    pointcloud.Union(pointcloud.RoleFillSurface, in.FillSurface),
		fullBucket:     pointcloud.Union(pointcloud.RoleFull, in.FullBucket),
		analytic:       in.Analytic,
		hull:           in.Hull,
	}, nil
}

// checkConcatenation verifies that full is empty followed by fill, by value and in order.
func checkConcatenation(empty, fill, full [][3]float64) error {
	if len(full) != len(empty)+len(fill) {
		return errors.Wrapf(ErrIncompleteReport, "full_bucket has %d points, expected %d empty_bucket + %d fill_surface",
			len(full), len(empty), len(fill))
	}
	for i, p := range empty {
		if full[i] != p {
			return errors.Wrapf(ErrIncompleteReport, "full_bucket point %d differs from empty_bucket point %d", i, i)
		}
	}
	for i, p := range fill {
		if full[len(empty)+i] != p {
			return errors.Wrapf(ErrIncompleteReport, "full_bucket point %d differs from fill_surface point %d", len(empty)+i, i)
		}
	}
	return nil
}

// Geometry returns the bucket the report describes.
func (r *VolumeReport) Geometry() bucket.Geometry {
	return r.geometry
}

// Counts returns the number of points sampled on each surface.
func (r *VolumeReport) Counts() bucket.Counts {
	return r.counts
}

// Seed returns the sampler seed.
func (r *VolumeReport) Seed() uint64 {
	return r.seed
}

// FillDefinition returns the name of the fill region definition the hull fill was measured with.
func (r *VolumeReport) FillDefinition() string {
	return r.fillDefinition
}

// Analytic returns the closed-form volumes.
func (r *VolumeReport) Analytic() AnalyticVolumes {
	return r.analytic
}

// Hull returns the hull estimates.
func (r *VolumeReport) Hull() HullVolumes {
	return r.hull
}

// EmptyBucket returns a copy of the wall and bottom points.
func (r *VolumeReport) EmptyBucket() *pointcloud.PointCloud {
	return pointcloud.Union(pointcloud.RoleEmpty, r.emptyBucket)
}

// FillSurface returns a copy of the fill surface points.
func (r *VolumeReport) FillSurface() *pointcloud.PointCloud {
	return pointcloud.Union(pointcloud.RoleFillSurface, r.fillSurface)
}

// FullBucket returns a copy of the empty bucket followed by the fill surface.
func (r *VolumeReport) FullBucket() *pointcloud.PointCloud {
	return pointcloud.Union(pointcloud.RoleFull, r.fullBucket)
}

// FillRelativeError returns how far the hull fill is from the analytic fill, as a fraction of
// the analytic fill.
func (r *VolumeReport) FillRelativeError() float64 {
	return utils.RelativeError(r.hull.FillLiters, r.analytic.FillLiters)
}
