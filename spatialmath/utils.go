// Package spatialmath provides the 3D geometry used to turn point clouds into volumes:
// triangles, closed meshes, and convex hulls.
package spatialmath

import (
	"github.com/golang/geo/r3"
)

// PlaneNormal returns the unit normal of the plane through p0, p1 and p2 following the right
// hand rule. Collinear points give the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	norm := n.Norm()
	if norm == 0 {
		return r3.Vector{}
	}
	return n.Mul(1 / norm)
}

// DistToLine returns the distance from pt to the infinite line through l1 and l2.
func DistToLine(pt, l1, l2 r3.Vector) float64 {
	dir := l2.Sub(l1)
	norm := dir.Norm()
	if norm == 0 {
		return pt.Sub(l1).Norm()
	}
	return pt.Sub(l1).Cross(dir).Norm() / norm
}

// PointsCentroid returns the mean of the given points.
func PointsCentroid(points []r3.Vector) r3.Vector {
	if len(points) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}
