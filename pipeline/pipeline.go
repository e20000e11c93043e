// Package pipeline runs the sampler, estimator and report assembler end to end.
package pipeline

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/fillvolume/bucket"
	"go.viam.com/fillvolume/config"
	"go.viam.com/fillvolume/diagnostics"
	"go.viam.com/fillvolume/estimator"
	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/report"
	"go.viam.com/fillvolume/units"
)

// uniformityAlpha is the significance level below which disk samples are reported as biased.
const uniformityAlpha = 0.001

// Result is everything one run produced.
type Result struct {
	RunID    uuid.UUID
	Config   config.Config
	Geometry bucket.Geometry
	Samples  *bucket.Samples
	Fill     *estimator.FillEstimate
	Full     *estimator.HullResult
	Report   *report.VolumeReport

	BottomUniformity diagnostics.Uniformity
	FillUniformity   diagnostics.Uniformity
}

// Run samples the configured bucket, estimates the fill and full volumes, and assembles the
// report. It performs no I/O besides logging.
func Run(cfg *config.Config, logger logging.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	runID := uuid.New()
	logger = logger.Sublogger("run")
	logger.Debugw("starting run", "run_id", runID.String(), "geometry", g.String(), "seed", cfg.Seed)

	samples, err := bucket.NewSampler(g, cfg.Seed).Sample(cfg.Counts())
	if err != nil {
		return nil, err
	}

	est, err := estimator.New(cfg.EstimatorConfig(), logger)
	if err != nil {
		return nil, err
	}
	fill, err := est.EstimateFill(g, samples)
	if err != nil {
		return nil, err
	}
	full, err := est.Estimate(samples.FullBucket())
	if err != nil {
		return nil, errors.Wrap(err, "estimating full bucket")
	}

	analytic := bucket.Analytic(g)
	rep, err := report.Assemble(report.Input{
		Geometry:       g,
		Counts:         cfg.Counts(),
		Seed:           cfg.Seed,
		FillDefinition: string(est.FillDefinition()),
		EmptyBucket:    samples.EmptyBucket(),
		FillSurface:    samples.FillSurface,
		FullBucket:     samples.FullBucket(),
		Analytic: report.AnalyticVolumes{
			CapacityLiters: analytic.CapacityLiters,
			FillLiters:     analytic.FillLiters,
		},
		Hull: report.HullVolumes{
			FillLiters: units.CubicMetersToLiters(fill.VolumeM3),
			FullLiters: units.CubicMetersToLiters(full.VolumeM3),
		},
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:    runID,
		Config:   *cfg,
		Geometry: g,
		Samples:  samples,
		Fill:     fill,
		Full:     full,
		Report:   rep,
	}
	if res.BottomUniformity, err = diagnostics.RadialUniformity(samples.Bottom, g.Radius()); err != nil {
		return nil, err
	}
	if res.FillUniformity, err = diagnostics.RadialUniformity(samples.FillSurface, g.Radius()); err != nil {
		return nil, err
	}
	for _, u := range []struct {
		name string
		res  diagnostics.Uniformity
	}{
		{"bottom", res.BottomUniformity},
		{"fill_surface", res.FillUniformity},
	} {
		if !u.res.Uniform(uniformityAlpha) {
			logger.Warnw("disk samples fail the radial uniformity test",
				"run_id", runID.String(), "surface", u.name, "ks", u.res.Statistic, "p", u.res.PValue)
		}
	}

	logger.Infow("run complete",
		"run_id", runID.String(),
		"fill_ratio", g.FillRatio(),
		"seed", cfg.Seed,
		"analytic_fill_liters", analytic.FillLiters,
		"hull_fill_liters", rep.Hull().FillLiters,
		"hull_full_liters", rep.Hull().FullLiters,
		"fill_relative_error", rep.FillRelativeError(),
	)
	return res, nil
}
