package pipeline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/fillvolume/config"
	"go.viam.com/fillvolume/logging"
)

// SweepConfigs returns one copy of base per (fill ratio, seed) pair, ratios varying slowest.
// Outputs are cleared so sweep runs do not write files.
func SweepConfigs(base *config.Config, ratios []float64, seeds []uint64) []*config.Config {
	cfgs := make([]*config.Config, 0, len(ratios)*len(seeds))
	for _, ratio := range ratios {
		for _, seed := range seeds {
			cfg := *base
			cfg.Bucket.FillRatio = ratio
			cfg.Seed = seed
			cfg.Output = config.Output{Units: base.Output.Units}
			cfgs = append(cfgs, &cfg)
		}
	}
	return cfgs
}

// Sweep runs every config, at most parallelism at a time (unbounded when parallelism <= 0).
// Results keep the order of cfgs. The first failure cancels the runs not yet started.
func Sweep(ctx context.Context, cfgs []*config.Config, parallelism int, logger logging.Logger) ([]*Result, error) {
	for i, cfg := range cfgs {
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrapf(err, "sweep config %d", i)
		}
	}

	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Run(cfg, logger.Sublogger(fmt.Sprintf("sweep%d", i)))
			if err != nil {
				return errors.Wrapf(err, "sweep run %d", i)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Infow("sweep complete", "runs", len(results), "parallelism", parallelism)
	return results, nil
}
