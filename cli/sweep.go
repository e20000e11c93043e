package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/pipeline"
	"go.viam.com/fillvolume/units"
)

// SweepAction runs every combination of the given fill ratios and seeds and prints a table.
func SweepAction(c *cli.Context) error {
	base, err := loadConfig(c)
	if err != nil {
		return err
	}
	ratios := c.Float64Slice(sweepFlagRatios)
	if len(ratios) == 0 {
		return errors.New("sweep needs at least one fill ratio")
	}
	var seeds []uint64
	for _, s := range c.Int64Slice(sweepFlagSeeds) {
		if s < 0 {
			return errors.Errorf("seeds must not be negative, got %d", s)
		}
		seeds = append(seeds, uint64(s))
	}
	if len(seeds) == 0 {
		seeds = []uint64{base.Seed}
	}

	results, err := pipeline.Sweep(c.Context, pipeline.SweepConfigs(base, ratios, seeds), c.Int(sweepFlagParallel), logging.Global())
	if err != nil {
		return err
	}

	unit := base.VolumeUnits()
	inUnit := func(liters float64) string {
		return fmt.Sprintf("%.4f", units.ConvertVolume(units.LitersToCubicMeters(liters), unit))
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Fill ratio", "Seed", "Analytic fill (" + unit + ")", "Hull fill (" + unit + ")", "Relative error", "Run"})
	t.AppendRows(lo.Map(results, func(res *pipeline.Result, i int) table.Row {
		return table.Row{
			i + 1,
			res.Geometry.FillRatio(),
			res.Report.Seed(),
			inUnit(res.Report.Analytic().FillLiters),
			inUnit(res.Report.Hull().FillLiters),
			fmt.Sprintf("%.3f%%", 100*res.Report.FillRelativeError()),
			res.RunID.String()[:8],
		}
	}))
	printf(c.App.Writer, "%s", t.Render())
	return nil
}
