package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestTriangle(t *testing.T) {
	tri := NewTriangle(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}, r3.Vector{X: 0, Y: 1, Z: 0})
	test.That(t, tri.Area(), test.ShouldAlmostEqual, 0.5)
	test.That(t, tri.Normal(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 1})
	test.That(t, tri.Centroid().Sub(r3.Vector{X: 1. / 3., Y: 1. / 3.}).Norm(), test.ShouldBeLessThan, 1e-12)
	test.That(t, tri.Points(), test.ShouldHaveLength, 3)

	t.Run("signed volume", func(t *testing.T) {
		test.That(t, tri.SignedVolume(r3.Vector{Z: -1}), test.ShouldAlmostEqual, 1./6.)
		test.That(t, tri.SignedVolume(r3.Vector{Z: 1}), test.ShouldAlmostEqual, -1./6.)
		test.That(t, tri.SignedVolume(r3.Vector{X: 5, Y: 5}), test.ShouldAlmostEqual, 0)
	})

	t.Run("degenerate", func(t *testing.T) {
		flat := NewTriangle(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 2})
		test.That(t, flat.Normal(), test.ShouldResemble, r3.Vector{})
		test.That(t, flat.Area(), test.ShouldEqual, 0)
	})
}

func TestMesh(t *testing.T) {
	o := r3.Vector{}
	x := r3.Vector{X: 1}
	y := r3.Vector{Y: 1}
	z := r3.Vector{Z: 1}
	mesh := NewMesh([]*Triangle{
		NewTriangle(o, y, x),
		NewTriangle(o, x, z),
		NewTriangle(o, z, y),
		NewTriangle(x, y, z),
	})
	test.That(t, mesh.Triangles(), test.ShouldHaveLength, 4)
	test.That(t, mesh.SurfaceArea(), test.ShouldAlmostEqual, 1.5+math.Sqrt(3)/2)

	// any reference point gives the same enclosed volume
	for _, ref := range []r3.Vector{{}, {X: 0.2, Y: 0.2, Z: 0.2}, {X: -3, Y: 4, Z: 10}} {
		test.That(t, mesh.Volume(ref), test.ShouldAlmostEqual, 1./6., 1e-12)
	}
	test.That(t, mesh.VertexCentroid().Sub(r3.Vector{X: 0.25, Y: 0.25, Z: 0.25}).Norm(), test.ShouldBeLessThan, 1e-12)
	test.That(t, NewMesh(nil).Volume(r3.Vector{}), test.ShouldEqual, 0)
}

func TestSpatialUtils(t *testing.T) {
	test.That(t, DistToLine(r3.Vector{X: 1, Y: 2}, r3.Vector{}, r3.Vector{X: 3}), test.ShouldAlmostEqual, 2)
	test.That(t, DistToLine(r3.Vector{X: 3, Y: 4}, r3.Vector{}, r3.Vector{}), test.ShouldAlmostEqual, 5)
	test.That(t, PointsCentroid(nil), test.ShouldResemble, r3.Vector{})
	test.That(t, PointsCentroid([]r3.Vector{{X: 2}, {Y: 4}}), test.ShouldResemble, r3.Vector{X: 1, Y: 2})
	test.That(t, PlaneNormal(r3.Vector{}, r3.Vector{Y: 2}, r3.Vector{X: 2}), test.ShouldResemble, r3.Vector{Z: -1})
}
