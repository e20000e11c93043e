package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Triangle is a planar triangle in 3D. Its normal follows the right hand rule over p0, p1, p2.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a triangle from three points.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the vertices of the triangle in winding order.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal of the triangle, or the zero vector if it is degenerate.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Area returns the area of the triangle.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Centroid returns the mean of the three vertices.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// SignedVolume returns the signed volume of the tetrahedron {apex, p0, p1, p2}. It is positive
// when the triangle winds counter-clockwise seen from outside, with apex behind it.
func (t *Triangle) SignedVolume(apex r3.Vector) float64 {
	a := t.p0.Sub(apex)
	b := t.p1.Sub(apex)
	c := t.p2.Sub(apex)
	return a.Dot(b.Cross(c)) / 6
}
