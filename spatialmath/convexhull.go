package spatialmath

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// DefaultHullEpsilon is the relative tolerance used when NewConvexHull is given an epsilon of 0.
// The absolute tolerance is epsilon times the diagonal of the input's bounding box.
const DefaultHullEpsilon = 1e-10

// ConvexHull is the closed, triangulated convex envelope of a point set.
type ConvexHull struct {
	vertexIndices []int
	vertices      []r3.Vector
	mesh          *Mesh
	volume        float64
	tolerance     float64
}

// NewConvexHull builds the 3D convex hull of points with the quickhull algorithm.
//
// Points closer than the tolerance to a face plane are treated as lying on it, so
// near-coplanar and near-duplicate points never create extra facets. The result depends only
// on the order of points and on epsilon. Inputs with fewer than 4 points, or that do not
// span 3D space within tolerance, return a *DegenerateHullError.
func NewConvexHull(points []r3.Vector, epsilon float64) (*ConvexHull, error) {
	if epsilon < 0 || math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return nil, errors.Errorf("hull epsilon must be a non-negative finite number, got %v", epsilon)
	}
	if epsilon == 0 {
		epsilon = DefaultHullEpsilon
	}
	diagonal, err := boundsDiagonal(points)
	if err != nil {
		return nil, err
	}

	qh := &quickHull{
		points:  points,
		epsilon: epsilon,
		tol:     epsilon * diagonal,
		edges:  map[edgeKey]int{},
	}
	simplex, dim := qh.initialSimplex()
	if len(points) < 4 || dim < 3 {
		return nil, &DegenerateHullError{NumPoints: len(points), Dimension: dim}
	}
	if err := qh.buildSimplex(simplex); err != nil {
		return nil, err
	}
	for {
		fi := qh.nextFace()
		if fi < 0 {
			break
		}
		if err := qh.addPoint(fi); err != nil {
			return nil, err
		}
	}
	return qh.result()
}

// Vertices returns the extreme points of the hull ordered by their index in the input. Points
// lying on a facet or an edge of the hull are not vertices, even when a triangle uses them.
func (h *ConvexHull) Vertices() []r3.Vector {
	out := make([]r3.Vector, len(h.vertices))
	copy(out, h.vertices)
	return out
}

// VertexIndices returns the input indices of the hull vertices in ascending order.
func (h *ConvexHull) VertexIndices() []int {
	out := make([]int, len(h.vertexIndices))
	copy(out, h.vertexIndices)
	return out
}

// Mesh returns the outward wound triangles of the hull.
func (h *ConvexHull) Mesh() *Mesh {
	return h.mesh
}

// NumFaces returns the number of triangles of the hull.
func (h *ConvexHull) NumFaces() int {
	return len(h.mesh.triangles)
}

// Volume returns the enclosed volume in the cube of the input's length unit.
func (h *ConvexHull) Volume() float64 {
	return h.volume
}

// Tolerance returns the absolute distance under which points were treated as coplanar.
func (h *ConvexHull) Tolerance() float64 {
	return h.tolerance
}

// Contains reports whether p is inside the hull or within tolerance of its surface.
func (h *ConvexHull) Contains(p r3.Vector) bool {
	for _, tri := range h.mesh.triangles {
		if tri.normal.Dot(p.Sub(tri.p0)) > h.tolerance {
			return false
		}
	}
	return true
}

type edgeKey [2]int

type hullFace struct {
	v       [3]int
	normal  r3.Vector
	offset  float64
	outside []int
	visible bool
	deleted bool
}

func (f *hullFace) distance(p r3.Vector) float64 {
	return f.normal.Dot(p) - f.offset
}

type quickHull struct {
	points  []r3.Vector
	epsilon float64
	tol     float64
	faces  []*hullFace
	// edges maps each directed edge of a live face to that face. Every edge appears once in
	// each direction while the mesh is closed.
	edges map[edgeKey]int
	// faces before cursor are deleted or have empty outside sets; only new faces gain points.
	cursor int
}

func boundsDiagonal(points []r3.Vector) (float64, error) {
	if len(points) == 0 {
		return 0, nil
	}
	minP, maxP := points[0], points[0]
	for _, p := range points {
		if math.IsNaN(p.X+p.Y+p.Z) || math.IsInf(p.X+p.Y+p.Z, 0) {
			return 0, errors.Errorf("cannot build hull from non-finite point %v", p)
		}
		minP = r3.Vector{X: math.Min(minP.X, p.X), Y: math.Min(minP.Y, p.Y), Z: math.Min(minP.Z, p.Z)}
		maxP = r3.Vector{X: math.Max(maxP.X, p.X), Y: math.Max(maxP.Y, p.Y), Z: math.Max(maxP.Z, p.Z)}
	}
	return maxP.Sub(minP).Norm(), nil
}

// initialSimplex picks four points spanning a tetrahedron and returns the affine dimension of
// the input, which is below 3 when no such tetrahedron exists.
func (qh *quickHull) initialSimplex() ([4]int, int) {
	var simplex [4]int
	pts := qh.points
	if len(pts) == 0 {
		return simplex, 0
	}

	// min x, max x, min y, max y, min z, max z
	var extremes [6]int
	for i, p := range pts {
		if p.X < pts[extremes[0]].X {
			extremes[0] = i
		}
		if p.X > pts[extremes[1]].X {
			extremes[1] = i
		}
		if p.Y < pts[extremes[2]].Y {
			extremes[2] = i
		}
		if p.Y > pts[extremes[3]].Y {
			extremes[3] = i
		}
		if p.Z < pts[extremes[4]].Z {
			extremes[4] = i
		}
		if p.Z > pts[extremes[5]].Z {
			extremes[5] = i
		}
	}

	best := -1.
	for i := 0; i < len(extremes); i++ {
		for j := i + 1; j < len(extremes); j++ {
			if d := pts[extremes[i]].Sub(pts[extremes[j]]).Norm(); d > best {
				best = d
				simplex[0], simplex[1] = extremes[i], extremes[j]
			}
		}
	}
	if best <= qh.tol {
		return simplex, 0
	}

	best = -1.
	for i, p := range pts {
		if d := DistToLine(p, pts[simplex[0]], pts[simplex[1]]); d > best {
			best = d
			simplex[2] = i
		}
	}
	if best <= qh.tol {
		return simplex, 1
	}

	normal := PlaneNormal(pts[simplex[0]], pts[simplex[1]], pts[simplex[2]])
	best = -1.
	for i, p := range pts {
		if d := math.Abs(normal.Dot(p.Sub(pts[simplex[0]]))); d > best {
			best = d
			simplex[3] = i
		}
	}
	if best <= qh.tol {
		return simplex, 2
	}
	return simplex, 3
}

func (qh *quickHull) makeFace(a, b, c int) *hullFace {
	pa := qh.points[a]
	normal := PlaneNormal(pa, qh.points[b], qh.points[c])
	return &hullFace{v: [3]int{a, b, c}, normal: normal, offset: normal.Dot(pa)}
}

func (qh *quickHull) addFace(f *hullFace) (int, error) {
	idx := len(qh.faces)
	for k := 0; k < 3; k++ {
		e := edgeKey{f.v[k], f.v[(k+1)%3]}
		if _, ok := qh.edges[e]; ok {
			return -1, errors.Errorf("convex hull is no longer manifold at edge %v", e)
		}
	}
	for k := 0; k < 3; k++ {
		qh.edges[edgeKey{f.v[k], f.v[(k+1)%3]}] = idx
	}
	qh.faces = append(qh.faces, f)
	return idx, nil
}

func (qh *quickHull) buildSimplex(simplex [4]int) error {
	a, b, c, d := simplex[0], simplex[1], simplex[2], simplex[3]
	centroid := PointsCentroid([]r3.Vector{qh.points[a], qh.points[b], qh.points[c], qh.points[d]})

	initial := make([]int, 0, 4)
	for _, tri := range [][3]int{{a, b, c}, {a, b, d}, {a, c, d}, {b, c, d}} {
		f := qh.makeFace(tri[0], tri[1], tri[2])
		if f.distance(centroid) > 0 {
			f = qh.makeFace(tri[0], tri[2], tri[1])
		}
		idx, err := qh.addFace(f)
		if err != nil {
			return err
		}
		initial = append(initial, idx)
	}

	for i := range qh.points {
		if i == a || i == b || i == c || i == d {
			continue
		}
		qh.assign(i, initial)
	}
	return nil
}

// assign adds point i to the outside set of the candidate face it is farthest above, if any.
func (qh *quickHull) assign(i int, candidates []int) {
	p := qh.points[i]
	best, bestDist := -1, qh.tol
	for _, fi := range candidates {
		if d := qh.faces[fi].distance(p); d > bestDist {
			best, bestDist = fi, d
		}
	}
	if best >= 0 {
		qh.faces[best].outside = append(qh.faces[best].outside, i)
	}
}

func (qh *quickHull) nextFace() int {
	for ; qh.cursor < len(qh.faces); qh.cursor++ {
		f := qh.faces[qh.cursor]
		if !f.deleted && len(f.outside) > 0 {
			return qh.cursor
		}
	}
	return -1
}

// addPoint grows the hull by the farthest outside point of face fi.
func (qh *quickHull) addPoint(fi int) error {
	start := qh.faces[fi]
	eye, eyeDist := -1, math.Inf(-1)
	for _, i := range start.outside {
		if d := start.distance(qh.points[i]); d > eyeDist {
			eye, eyeDist = i, d
		}
	}
	eyePt := qh.points[eye]

	start.visible = true
	visible := []int{fi}
	for k := 0; k < len(visible); k++ {
		cur := qh.faces[visible[k]]
		for e := 0; e < 3; e++ {
			a, b := cur.v[e], cur.v[(e+1)%3]
			ni, ok := qh.edges[edgeKey{b, a}]
			if !ok {
				return errors.Errorf("convex hull is open at edge %v", edgeKey{a, b})
			}
			neighbor := qh.faces[ni]
			if neighbor.visible {
				continue
			}
			if neighbor.distance(eyePt) > qh.tol {
				neighbor.visible = true
				visible = append(visible, ni)
			}
		}
	}

	var horizon []edgeKey
	var orphans []int
	for _, vi := range visible {
		cur := qh.faces[vi]
		for e := 0; e < 3; e++ {
			a, b := cur.v[e], cur.v[(e+1)%3]
			if !qh.faces[qh.edges[edgeKey{b, a}]].visible {
				horizon = append(horizon, edgeKey{a, b})
			}
		}
		for _, i := range cur.outside {
			if i != eye {
				orphans = append(orphans, i)
			}
		}
	}
	for _, vi := range visible {
		cur := qh.faces[vi]
		cur.deleted = true
		cur.outside = nil
		for e := 0; e < 3; e++ {
			delete(qh.edges, edgeKey{cur.v[e], cur.v[(e+1)%3]})
		}
	}

	cone := make([]int, 0, len(horizon))
	for _, h := range horizon {
		idx, err := qh.addFace(qh.makeFace(h[0], h[1], eye))
		if err != nil {
			return err
		}
		cone = append(cone, idx)
	}
	for _, i := range orphans {
		qh.assign(i, cone)
	}
	return nil
}

func (qh *quickHull) result() (*ConvexHull, error) {
	var triangles []*Triangle
	incident := map[int][]r3.Vector{}
	for _, f := range qh.faces {
		if f.deleted {
			continue
		}
		triangles = append(triangles, NewTriangle(qh.points[f.v[0]], qh.points[f.v[1]], qh.points[f.v[2]]))
		for _, v := range f.v {
			incident[v] = append(incident[v], f.normal)
		}
	}

	// a corner needs incident facets whose normals span 3D; facet points see one normal
	// and edge points two
	indices := make([]int, 0, len(incident))
	for v, normals := range incident {
		if spansSpace(normals, qh.epsilon) {
			indices = append(indices, v)
		}
	}
	sort.Ints(indices)
	vertices := make([]r3.Vector, len(indices))
	for i, idx := range indices {
		vertices[i] = qh.points[idx]
	}

	mesh := NewMesh(triangles)
	volume := mesh.Volume(mesh.VertexCentroid())
	if len(triangles) < 4 || len(vertices) < 4 || !(volume > 0) {
		return nil, &DegenerateHullError{NumPoints: len(qh.points), Dimension: 2}
	}
	return &ConvexHull{
		vertexIndices: indices,
		vertices:      vertices,
		mesh:          mesh,
		volume:        volume,
		tolerance:     qh.tol,
	}, nil
}

// spansSpace reports whether the unit normals span 3D, treating sines and cosines at or below
// tol as zero.
func spansSpace(normals []r3.Vector, tol float64) bool {
	var first r3.Vector
	for _, n := range normals {
		if n.Norm2() > 0 {
			first = n
			break
		}
	}
	var axis r3.Vector
	best := tol
	for _, n := range normals {
		if c := first.Cross(n); c.Norm() > best {
			axis, best = c, c.Norm()
		}
	}
	if best <= tol {
		return false
	}
	axis = axis.Mul(1 / best)
	for _, n := range normals {
		if math.Abs(axis.Dot(n)) > tol {
			return true
		}
	}
	return false
}
