package pointcloud

import (
	"github.com/golang/geo/r3"
)

// NewVector convenience method for creating a vector.
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// Triples returns the points as [x, y, z] rows, the layout used by exported reports.
func (cloud *PointCloud) Triples() [][3]float64 {
	out := make([][3]float64, len(cloud.points))
	for i, p := range cloud.points {
		out[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return out
}

// NewFromTriples builds a cloud from [x, y, z] rows, such as those read back from a report.
func NewFromTriples(role Role, rows [][3]float64) (*PointCloud, error) {
	cloud := NewWithPrealloc(role, len(rows))
	for _, row := range rows {
		if err := cloud.Append(NewVector(row[0], row[1], row[2])); err != nil {
			return nil, err
		}
	}
	return cloud, nil
}
