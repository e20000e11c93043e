package estimator

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/fillvolume/bucket"
	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/pointcloud"
	"go.viam.com/fillvolume/spatialmath"
	"go.viam.com/fillvolume/units"
)

func newTestEstimator(t *testing.T, def FillDefinition) *Estimator {
	t.Helper()
	e, err := New(Config{FillDefinition: def}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return e
}

func sampleBucket(t *testing.T, fillRatio float64, counts bucket.Counts) (bucket.Geometry, *bucket.Samples) {
	t.Helper()
	g, err := bucket.NewGeometry(0.1, 0.2, fillRatio)
	test.That(t, err, test.ShouldBeNil)
	samples, err := bucket.NewSampler(g, 0).Sample(counts)
	test.That(t, err, test.ShouldBeNil)
	return g, samples
}

var scenarioCounts = bucket.Counts{Wall: 8000, Bottom: 16000, FillSurface: 8000}

func TestNew(t *testing.T) {
	e, err := New(Config{}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e.Epsilon(), test.ShouldEqual, spatialmath.DefaultHullEpsilon)
	test.That(t, e.FillDefinition(), test.ShouldEqual, BottomAndSurface)

	_, err = New(Config{Epsilon: -1}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = New(Config{FillDefinition: "difference"}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bottom_and_surface, wall_clipped")
}

func TestParseFillDefinition(t *testing.T) {
	for in, expected := range map[string]FillDefinition{
		"":                   BottomAndSurface,
		"bottom_and_surface": BottomAndSurface,
		" Wall_Clipped ":     WallClipped,
	} {
		def, err := ParseFillDefinition(in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, def, test.ShouldEqual, expected)
	}
	_, err := ParseFillDefinition("full_minus_empty")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEstimate(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	e, err := New(Config{}, logger)
	test.That(t, err, test.ShouldBeNil)

	t.Run("cube", func(t *testing.T) {
		cloud, err := pointcloud.NewFromPoints(pointcloud.RoleFull, []r3.Vector{
			{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 2, Z: 0}, {X: 2, Y: 2, Z: 0},
			{X: 0, Y: 0, Z: 2}, {X: 2, Y: 0, Z: 2}, {X: 0, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 2},
			{X: 1, Y: 1, Z: 1},
		})
		test.That(t, err, test.ShouldBeNil)
		res, err := e.Estimate(cloud)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.VolumeM3, test.ShouldAlmostEqual, 8, 1e-12)
		test.That(t, res.Vertices.Size(), test.ShouldEqual, 8)
		test.That(t, res.Vertices.Role(), test.ShouldEqual, pointcloud.RoleHull)
		test.That(t, res.NumFaces, test.ShouldEqual, 12)
		test.That(t, res.InputSize, test.ShouldEqual, 9)

		entries := logs.FilterMessage("hull estimated").All()
		test.That(t, entries, test.ShouldHaveLength, 1)
		test.That(t, entries[0].ContextMap()["vertices"], test.ShouldEqual, int64(8))
	})

	t.Run("three point fill surface", func(t *testing.T) {
		g, err := bucket.NewGeometry(0.1, 0.2, 0.5)
		test.That(t, err, test.ShouldBeNil)
		surface, err := bucket.NewSampler(g, 0).SampleDisk(3, g.FillHeight(), pointcloud.RoleFillSurface)
		test.That(t, err, test.ShouldBeNil)

		_, err = e.Estimate(surface)
		test.That(t, errors.Is(err, spatialmath.ErrDegenerateHull), test.ShouldBeTrue)
		var degenerate *spatialmath.DegenerateHullError
		test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
		test.That(t, degenerate.NumPoints, test.ShouldEqual, 3)
		test.That(t, err.Error(), test.ShouldContainSubstring, "fill_surface")
	})

	t.Run("flat fill surface", func(t *testing.T) {
		_, samples := sampleBucket(t, 0.5, bucket.Counts{Wall: 100, Bottom: 100, FillSurface: 100})
		_, err := e.Estimate(samples.FillSurface)
		var degenerate *spatialmath.DegenerateHullError
		test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
		test.That(t, degenerate.Dimension, test.ShouldEqual, 2)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := e.Estimate(nil)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestEstimateScenario(t *testing.T) {
	g, samples := sampleBucket(t, 0.5, scenarioCounts)
	analytic := bucket.Analytic(g)

	for _, def := range FillDefinitions {
		t.Run(string(def), func(t *testing.T) {
			e := newTestEstimator(t, def)
			fill, err := e.EstimateFill(g, samples)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, fill.Empty, test.ShouldBeFalse)
			test.That(t, fill.Definition, test.ShouldEqual, def)

			liters := units.CubicMetersToLiters(fill.VolumeM3)
			// every sampled point lies on the bucket, so the hull is inscribed in the analytic fill
			test.That(t, liters, test.ShouldBeLessThanOrEqualTo, analytic.FillLiters*(1+1e-9))
			test.That(t, liters, test.ShouldBeGreaterThanOrEqualTo, analytic.FillLiters*0.98)
			test.That(t, liters, test.ShouldAlmostEqual, 3.14, 0.05)
		})
	}

	t.Run("full bucket", func(t *testing.T) {
		full, err := newTestEstimator(t, "").Estimate(samples.FullBucket())
		test.That(t, err, test.ShouldBeNil)
		liters := units.CubicMetersToLiters(full.VolumeM3)
		test.That(t, liters, test.ShouldBeLessThanOrEqualTo, analytic.CapacityLiters*(1+1e-9))
		test.That(t, liters, test.ShouldBeGreaterThanOrEqualTo, analytic.CapacityLiters*0.98)
		test.That(t, full.Vertices.Size(), test.ShouldBeLessThan, full.InputSize)
	})

	t.Run("deterministic", func(t *testing.T) {
		_, again := sampleBucket(t, 0.5, scenarioCounts)
		e := newTestEstimator(t, "")
		a, err := e.EstimateFill(g, samples)
		test.That(t, err, test.ShouldBeNil)
		b, err := e.EstimateFill(g, again)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, b.VolumeM3, test.ShouldEqual, a.VolumeM3)
		test.That(t, b.Hull.Vertices.Equal(a.Hull.Vertices), test.ShouldBeTrue)
	})
}

func TestEstimateFillBoundaries(t *testing.T) {
	counts := bucket.Counts{Wall: 4000, Bottom: 8000, FillSurface: 4000}

	t.Run("empty", func(t *testing.T) {
		g, samples := sampleBucket(t, 0, counts)
		for _, def := range FillDefinitions {
			fill, err := newTestEstimator(t, def).EstimateFill(g, samples)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, fill.Empty, test.ShouldBeTrue)
			test.That(t, fill.VolumeM3, test.ShouldEqual, 0)
			test.That(t, fill.Hull, test.ShouldBeNil)
		}
	})

	t.Run("full", func(t *testing.T) {
		g, samples := sampleBucket(t, 1, scenarioCounts)
		fill, err := newTestEstimator(t, "").EstimateFill(g, samples)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, fill.VolumeM3, test.ShouldBeLessThanOrEqualTo, bucket.CapacityM3(g)*(1+1e-9))
		test.That(t, fill.VolumeM3, test.ShouldBeGreaterThanOrEqualTo, bucket.CapacityM3(g)*0.98)
	})
}

func TestFillRegion(t *testing.T) {
	g, samples := sampleBucket(t, 0.25, bucket.Counts{Wall: 400, Bottom: 400, FillSurface: 400})

	region, err := newTestEstimator(t, BottomAndSurface).FillRegion(g, samples)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, region.Role(), test.ShouldEqual, pointcloud.RoleFillRegion)
	test.That(t, region.Size(), test.ShouldEqual, 800)

	clipped, err := newTestEstimator(t, WallClipped).FillRegion(g, samples)
	test.That(t, err, test.ShouldBeNil)
	below := 0
	samples.Wall.Iterate(0, 0, func(p r3.Vector) bool {
		if p.Z <= g.FillHeight() {
			below++
		}
		return true
	})
	test.That(t, below, test.ShouldBeGreaterThan, 0)
	test.That(t, below, test.ShouldBeLessThan, 400)
	test.That(t, clipped.Size(), test.ShouldEqual, 800+below)
	test.That(t, clipped.MetaData().MaxZ, test.ShouldEqual, g.FillHeight())

	_, err = newTestEstimator(t, "").FillRegion(g, &bucket.Samples{Bottom: samples.Bottom})
	test.That(t, err, test.ShouldNotBeNil)
}
