package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// Mesh is a set of triangles. When the triangles form a closed, consistently wound surface
// the mesh bounds a volume.
type Mesh struct {
	triangles []*Triangle
}

// NewMesh creates a mesh from the given triangles.
func NewMesh(triangles []*Triangle) *Mesh {
	return &Mesh{
		triangles: triangles,
	}
}

// Triangles returns the triangles of the mesh.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// SurfaceArea returns the summed area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	areas := make([]float64, len(m.triangles))
	for i, tri := range m.triangles {
		areas[i] = tri.Area()
	}
	return floats.Sum(areas)
}

// VertexCentroid returns the mean of all triangle vertices, counting shared vertices once per
// triangle.
func (m *Mesh) VertexCentroid() r3.Vector {
	if len(m.triangles) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, tri := range m.triangles {
		sum = sum.Add(tri.p0).Add(tri.p1).Add(tri.p2)
	}
	return sum.Mul(1 / float64(3*len(m.triangles)))
}

// Volume returns the volume enclosed by a closed mesh: the signed volumes of the tetrahedra
// {reference, triangle} are summed and the absolute value of the total is returned.
func (m *Mesh) Volume(reference r3.Vector) float64 {
	vols := make([]float64, len(m.triangles))
	for i, tri := range m.triangles {
		vols[i] = tri.SignedVolume(reference)
	}
	return math.Abs(floats.Sum(vols))
}
