package diagnostics

import (
	"bytes"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/fillvolume/bucket"
	"go.viam.com/fillvolume/pointcloud"
)

func TestRadialUniformity(t *testing.T) {
	g, err := bucket.NewGeometry(0.1, 0.2, 0.5)
	test.That(t, err, test.ShouldBeNil)
	disk, err := bucket.NewSampler(g, 0).SampleDisk(16000, 0, pointcloud.RoleBottom)
	test.That(t, err, test.ShouldBeNil)

	res, err := RadialUniformity(disk, g.Radius())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.N, test.ShouldEqual, 16000)
	test.That(t, res.Statistic, test.ShouldBeLessThan, 0.02)
	test.That(t, res.Uniform(0.001), test.ShouldBeTrue)
	test.That(t, res.Mean, test.ShouldAlmostEqual, 0.5, 0.01)
	test.That(t, res.Variance, test.ShouldAlmostEqual, 1./12., 0.005)

	t.Run("linear radius is center biased", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(0, 0))
		biased := pointcloud.NewWithPrealloc(pointcloud.RoleBottom, 16000)
		for i := 0; i < 16000; i++ {
			r := g.Radius() * rng.Float64()
			theta := rng.Float64() * 2 * math.Pi
			test.That(t, biased.Append(pointcloud.NewVector(r*math.Cos(theta), r*math.Sin(theta), 0)), test.ShouldBeNil)
		}
		res, err := RadialUniformity(biased, g.Radius())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.Statistic, test.ShouldAlmostEqual, 0.25, 0.02)
		test.That(t, res.Uniform(0.001), test.ShouldBeFalse)
		test.That(t, res.PValue, test.ShouldBeLessThan, 1e-10)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := RadialUniformity(disk, 0)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = RadialUniformity(pointcloud.New(pointcloud.RoleBottom), 1)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestRadialHistogram(t *testing.T) {
	g, err := bucket.NewGeometry(0.1, 0.2, 0.5)
	test.That(t, err, test.ShouldBeNil)
	disk, err := bucket.NewSampler(g, 7).SampleDisk(16000, g.FillHeight(), pointcloud.RoleFillSurface)
	test.That(t, err, test.ShouldBeNil)

	hist, err := RadialHistogram(disk, g.Radius(), 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hist.Buckets, test.ShouldHaveLength, 10)
	total := 0
	for _, bkt := range hist.Buckets {
		test.That(t, bkt.Count, test.ShouldAlmostEqual, 1600, 200)
		total += bkt.Count
	}
	test.That(t, total, test.ShouldEqual, 16000)

	var buf bytes.Buffer
	test.That(t, FprintRadialHistogram(&buf, disk, g.Radius(), 10, 40), test.ShouldBeNil)
	test.That(t, buf.Len(), test.ShouldBeGreaterThan, 0)

	_, err = RadialHistogram(disk, g.Radius(), 0)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = RadialHistogram(pointcloud.New(pointcloud.RoleBottom), g.Radius(), 10)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestKolmogorovQ(t *testing.T) {
	test.That(t, kolmogorovQ(0), test.ShouldEqual, 1)
	test.That(t, kolmogorovQ(0.01), test.ShouldEqual, 1)
	// tabulated critical values of the Kolmogorov distribution
	test.That(t, kolmogorovQ(1.3581), test.ShouldAlmostEqual, 0.05, 1e-3)
	test.That(t, kolmogorovQ(1.6276), test.ShouldAlmostEqual, 0.01, 1e-3)
	test.That(t, kolmogorovQ(5), test.ShouldBeLessThan, 1e-20)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Count, test.ShouldEqual, 5)
	test.That(t, s.Mean, test.ShouldEqual, 3)
	test.That(t, s.Median, test.ShouldEqual, 3)
	test.That(t, s.Min, test.ShouldEqual, 1)
	test.That(t, s.Max, test.ShouldEqual, 5)
	test.That(t, s.StdDev, test.ShouldAlmostEqual, math.Sqrt(2))

	_, err = Summarize(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSummarizeCloud(t *testing.T) {
	g, err := bucket.NewGeometry(0.1, 0.2, 0.5)
	test.That(t, err, test.ShouldBeNil)
	wall, err := bucket.NewSampler(g, 1).SampleWall(2000)
	test.That(t, err, test.ShouldBeNil)

	s, err := SummarizeCloud(wall)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Role, test.ShouldEqual, pointcloud.RoleWall)
	test.That(t, s.Radial.Mean, test.ShouldAlmostEqual, 0.1, 1e-12)
	test.That(t, s.Radial.StdDev, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, s.Height.Mean, test.ShouldAlmostEqual, 0.1, 0.01)
	test.That(t, s.Height.Min, test.ShouldBeGreaterThanOrEqualTo, 0)
	test.That(t, s.Height.Max, test.ShouldBeLessThanOrEqualTo, 0.2)

	_, err = SummarizeCloud(pointcloud.New(pointcloud.RoleWall))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlots(t *testing.T) {
	g, err := bucket.NewGeometry(0.1, 0.2, 0.5)
	test.That(t, err, test.ShouldBeNil)
	samples, err := bucket.NewSampler(g, 2).Sample(bucket.Counts{Wall: 300, Bottom: 300, FillSurface: 300})
	test.That(t, err, test.ShouldBeNil)
	dir := t.TempDir()

	histPath := filepath.Join(dir, "radial.png")
	test.That(t, PlotRadialHistogram(samples.Bottom, g.Radius(), 20, histPath), test.ShouldBeNil)
	info, err := os.Stat(histPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	profilePath := filepath.Join(dir, "profile.png")
	test.That(t, PlotSideProfile(profilePath, samples.Wall, samples.Bottom, samples.FillSurface), test.ShouldBeNil)
	info, err = os.Stat(profilePath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	test.That(t, PlotRadialHistogram(pointcloud.New(pointcloud.RoleBottom), 1, 10, histPath), test.ShouldNotBeNil)
}
