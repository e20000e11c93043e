package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/fillvolume/bucket"
	"go.viam.com/fillvolume/config"
	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/report"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Points = config.Points{Wall: 500, Bottom: 1000, FillSurface: 500}
	cfg.Output = config.Output{}
	return cfg
}

func TestRunScenario(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	res, err := Run(config.Default(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.RunID, test.ShouldNotEqual, uuid.Nil)

	md := res.Report.Metadata()
	test.That(t, md.AnalyticCapacityLiters, test.ShouldEqual, 6.283)
	test.That(t, md.AnalyticFillLiters, test.ShouldEqual, 3.142)
	test.That(t, md.ConvexHullFillLiters, test.ShouldAlmostEqual, 3.14, 0.05)
	test.That(t, md.ConvexHullFillLiters, test.ShouldBeLessThanOrEqualTo, md.AnalyticFillLiters)
	test.That(t, md.ConvexHullFullLiters, test.ShouldBeLessThanOrEqualTo, md.AnalyticCapacityLiters)
	test.That(t, md.ConvexHullFullLiters, test.ShouldBeGreaterThan, md.AnalyticCapacityLiters*0.98)
	test.That(t, md.FillDefinition, test.ShouldEqual, "bottom_and_surface")
	test.That(t, res.Report.FullBucket().Size(), test.ShouldEqual, 32000)
	test.That(t, res.FillUniformity.Uniform(uniformityAlpha), test.ShouldBeTrue)
	test.That(t, res.BottomUniformity.Uniform(uniformityAlpha), test.ShouldBeTrue)

	test.That(t, logs.FilterMessage("run complete").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("run complete").All()[0].ContextMap()["run_id"], test.ShouldEqual, res.RunID.String())
}

func TestRunDeterministic(t *testing.T) {
	a, err := Run(smallConfig(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	b, err := Run(smallConfig(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.RunID, test.ShouldNotEqual, a.RunID)
	test.That(t, b.Report.FullBucket().Equal(a.Report.FullBucket()), test.ShouldBeTrue)
	test.That(t, b.Report.Hull(), test.ShouldResemble, a.Report.Hull())
	test.That(t, b.Report.Record(), test.ShouldResemble, a.Report.Record())
}

func TestRunBoundaries(t *testing.T) {
	cfg := smallConfig()
	cfg.Bucket.FillRatio = 0
	res, err := Run(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Fill.Empty, test.ShouldBeTrue)
	test.That(t, res.Report.Hull().FillLiters, test.ShouldEqual, 0)
	test.That(t, res.Report.Metadata().AnalyticFillLiters, test.ShouldEqual, 0)

	cfg.Bucket.FillRatio = 1
	res, err = Run(cfg, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Report.Hull().FillLiters, test.ShouldBeLessThanOrEqualTo, res.Report.Analytic().CapacityLiters)
	test.That(t, res.Report.Hull().FillLiters, test.ShouldBeGreaterThan, res.Report.Analytic().CapacityLiters*0.9)

	cfg.Bucket.Radius = 0
	_, err = Run(cfg, logging.NewTestLogger(t))
	test.That(t, errors.Is(err, bucket.ErrInvalidGeometry), test.ShouldBeTrue)
}

func TestExport(t *testing.T) {
	res, err := Run(smallConfig(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	dir := t.TempDir()
	out := config.Output{
		Path:    filepath.Join(dir, "report.json"),
		PCD:     filepath.Join(dir, "full.pcd"),
		LAS:     filepath.Join(dir, "full.las"),
		PlotDir: filepath.Join(dir, "plots"),
	}
	test.That(t, Export(res, out, logging.NewTestLogger(t)), test.ShouldBeNil)

	rec, err := report.ReadFile(out.Path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rec, test.ShouldResemble, res.Report.Record())

	for _, path := range []string{
		out.PCD,
		out.LAS,
		filepath.Join(out.PlotDir, "bottom_radial.png"),
		filepath.Join(out.PlotDir, "fill_surface_radial.png"),
		filepath.Join(out.PlotDir, "side_profile.png"),
	} {
		info, err := os.Stat(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
	}

	test.That(t, Export(res, config.Output{}, logging.NewTestLogger(t)), test.ShouldBeNil)
}

func TestSweep(t *testing.T) {
	ratios := []float64{0, 0.25, 0.5, 1}
	seeds := []uint64{1, 2}
	cfgs := SweepConfigs(smallConfig(), ratios, seeds)
	test.That(t, cfgs, test.ShouldHaveLength, 8)
	test.That(t, cfgs[3].Bucket.FillRatio, test.ShouldEqual, 0.25)
	test.That(t, cfgs[3].Seed, test.ShouldEqual, uint64(2))

	results, err := Sweep(context.Background(), cfgs, 3, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, results, test.ShouldHaveLength, 8)
	for i, res := range results {
		test.That(t, res.Geometry.FillRatio(), test.ShouldEqual, cfgs[i].Bucket.FillRatio)
		test.That(t, res.Report.Seed(), test.ShouldEqual, cfgs[i].Seed)
		test.That(t, res.Report.Hull().FillLiters, test.ShouldBeLessThanOrEqualTo, res.Report.Analytic().FillLiters*(1+1e-9))
	}

	t.Run("matches sequential runs", func(t *testing.T) {
		seq, err := Run(cfgs[5], logging.NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, results[5].Report.Record(), test.ShouldResemble, seq.Report.Record())
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := SweepConfigs(smallConfig(), []float64{0.5, 2}, seeds)
		_, err := Sweep(context.Background(), bad, 2, logging.NewTestLogger(t))
		test.That(t, errors.Is(err, bucket.ErrInvalidGeometry), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "sweep config 2")
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Sweep(ctx, cfgs, 2, logging.NewTestLogger(t))
		test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	})
}
