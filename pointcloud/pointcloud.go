// Package pointcloud defines an ordered, role-tagged point cloud.
//
// Points keep their insertion order and duplicates are allowed, so two clouds built from the
// same inputs export identically. Coordinates are meters.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Role tags what part of the scene a cloud was sampled from.
type Role string

// The known roles.
const (
	RoleWall        Role = "wall"
	RoleBottom      Role = "bottom"
	RoleFillSurface Role = "fill_surface"
	RoleEmpty       Role = "empty"
	RoleFull        Role = "full"
	RoleFillRegion  Role = "fill_region"
	RoleHull        Role = "hull"
)

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64

	count int
}

// NewMetaData creates a new MetaData with inverted bounds so the first Merge sets them.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge updates the bounds to include the given point.
func (meta *MetaData) Merge(v r3.Vector) {
	meta.count++

	if v.X > meta.MaxX {
		meta.MaxX = v.X
	}
	if v.Y > meta.MaxY {
		meta.MaxY = v.Y
	}
	if v.Z > meta.MaxZ {
		meta.MaxZ = v.Z
	}

	if v.X < meta.MinX {
		meta.MinX = v.X
	}
	if v.Y < meta.MinY {
		meta.MinY = v.Y
	}
	if v.Z < meta.MinZ {
		meta.MinZ = v.Z
	}
}

// Empty reports whether no point has been merged.
func (meta MetaData) Empty() bool {
	return meta.count == 0
}

// Extent returns the size of the axis aligned bounding box.
func (meta MetaData) Extent() r3.Vector {
	if meta.Empty() {
		return r3.Vector{}
	}
	return r3.Vector{X: meta.MaxX - meta.MinX, Y: meta.MaxY - meta.MinY, Z: meta.MaxZ - meta.MinZ}
}

// Diagonal returns the length of the bounding box diagonal, 0 for an empty cloud.
func (meta MetaData) Diagonal() float64 {
	return meta.Extent().Norm()
}

// PointCloud is an ordered sequence of points tagged with a Role.
type PointCloud struct {
	role   Role
	points []r3.Vector
	meta   MetaData
}

// New returns an empty PointCloud with the given role.
func New(role Role) *PointCloud {
	return NewWithPrealloc(role, 0)
}

// NewWithPrealloc returns an empty, preallocated PointCloud.
func NewWithPrealloc(role Role, size int) *PointCloud {
	return &PointCloud{
		role:   role,
		points: make([]r3.Vector, 0, size),
		meta:   NewMetaData(),
	}
}

// NewFromPoints returns a PointCloud holding a copy of the given points.
func NewFromPoints(role Role, points []r3.Vector) (*PointCloud, error) {
	cloud := NewWithPrealloc(role, len(points))
	for _, p := range points {
		if err := cloud.Append(p); err != nil {
			return nil, err
		}
	}
	return cloud, nil
}

// Append validates that the point has finite coordinates before adding it to the cloud.
func (cloud *PointCloud) Append(p r3.Vector) error {
	if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.Z) {
		return errors.Errorf("cannot add non-finite point %v to %s cloud", p, cloud.role)
	}
	cloud.points = append(cloud.points, p)
	cloud.meta.Merge(p)
	return nil
}

// Size returns the number of points in the cloud.
func (cloud *PointCloud) Size() int {
	return len(cloud.points)
}

// Role returns the role the cloud was tagged with.
func (cloud *PointCloud) Role() Role {
	return cloud.role
}

// MetaData returns the bounds of the cloud.
func (cloud *PointCloud) MetaData() MetaData {
	return cloud.meta
}

// At returns the i-th point in insertion order.
func (cloud *PointCloud) At(i int) r3.Vector {
	return cloud.points[i]
}

// Points returns a copy of the points in insertion order.
func (cloud *PointCloud) Points() []r3.Vector {
	out := make([]r3.Vector, len(cloud.points))
	copy(out, cloud.points)
	return out
}

// Iterate calls fn for each point in order until fn returns false.
// numBatches lets you divide up the work. 0 means don't divide;
// myBatch is used iff numBatches > 0 and is which contiguous batch you want.
func (cloud *PointCloud) Iterate(numBatches, myBatch int, fn func(p r3.Vector) bool) {
	start, end := 0, len(cloud.points)
	if numBatches > 0 {
		batchSize := (len(cloud.points) + numBatches - 1) / numBatches
		start = myBatch * batchSize
		end = start + batchSize
		if end > len(cloud.points) {
			end = len(cloud.points)
		}
	}
	for i := start; i < end; i++ {
		if !fn(cloud.points[i]) {
			return
		}
	}
}

// Filter returns a new cloud with the given role holding the points for which keep is true.
func (cloud *PointCloud) Filter(role Role, keep func(p r3.Vector) bool) *PointCloud {
	kept := lo.Filter(cloud.points, func(p r3.Vector, _ int) bool { return keep(p) })
	out := &PointCloud{role: role, points: kept, meta: NewMetaData()}
	for _, p := range kept {
		out.meta.Merge(p)
	}
	return out
}

// Equal reports whether both clouds have the same role and the same points in the same order.
func (cloud *PointCloud) Equal(other *PointCloud) bool {
	if cloud == nil || other == nil {
		return cloud == other
	}
	if cloud.role != other.role || len(cloud.points) != len(other.points) {
		return false
	}
	for i, p := range cloud.points {
		if p != other.points[i] {
			return false
		}
	}
	return true
}

// Union concatenates the given clouds, in order, into a new cloud with the given role.
// Duplicates are kept.
func Union(role Role, clouds ...*PointCloud) *PointCloud {
	size := 0
	for _, c := range clouds {
		size += c.Size()
	}
	out := NewWithPrealloc(role, size)
	for _, c := range clouds {
		out.points = append(out.points, c.points...)
		for _, p := range c.points {
			out.meta.Merge(p)
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
