// Package cli contains all business logic needed by the fillvolume CLI command.
package cli

import (
	"io"
	"runtime"

	"github.com/urfave/cli/v2"

	"go.viam.com/fillvolume/estimator"
	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/units"
)

// CLI flags.
const (
	generalFlagConfig  = "config"
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"
	generalFlagUnits   = "units"

	generateFlagRadius         = "radius"
	generateFlagHeight         = "height"
	generateFlagFillRatio      = "fill-ratio"
	generateFlagWallPoints     = "wall-points"
	generateFlagBottomPoints   = "bottom-points"
	generateFlagFillPoints     = "fill-points"
	generateFlagSeed           = "seed"
	generateFlagEpsilon        = "epsilon"
	generateFlagFillDefinition = "fill-definition"
	generateFlagOutput         = "output"
	generateFlagPCD            = "pcd"
	generateFlagLAS            = "las"
	generateFlagPlotDir        = "plot-dir"

	sweepFlagRatios   = "ratios"
	sweepFlagSeeds    = "seeds"
	sweepFlagParallel = "parallel"

	inspectFlagBins = "bins"
)

// histogramWidth is the widest bar inspect draws.
const histogramWidth = 40

// fillTolerance is the relative error between the hull fill and the analytic fill that
// generate reports as acceptable.
const fillTolerance = 0.02

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:    generalFlagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`; flags override it",
		},
		&cli.Float64Flag{
			Name:  generateFlagRadius,
			Usage: "bucket radius in meters",
		},
		&cli.Float64Flag{
			Name:  generateFlagHeight,
			Usage: "bucket height in meters",
		},
		&cli.Float64Flag{
			Name:  generateFlagFillRatio,
			Usage: "filled fraction of the bucket height",
		},
		&cli.IntFlag{
			Name:  generateFlagWallPoints,
			Usage: "number of points on the wall",
		},
		&cli.IntFlag{
			Name:  generateFlagBottomPoints,
			Usage: "number of points on the bottom",
		},
		&cli.IntFlag{
			Name:  generateFlagFillPoints,
			Usage: "number of points on the fill surface",
		},
		&cli.Float64Flag{
			Name:  generateFlagEpsilon,
			Usage: "relative hull tolerance, 0 for the default",
		},
		&cli.StringFlag{
			Name:  generateFlagFillDefinition,
			Usage: "fill region definition: " + string(estimator.BottomAndSurface) + " or " + string(estimator.WallClipped),
		},
		&cli.StringFlag{
			Name:  generalFlagUnits,
			Usage: "volume units for printed summaries: " + units.GetValidUnitsString(),
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	var logFile *logging.FileAppender
	return &cli.App{
		Name:            "fillvolume",
		Usage:           "estimate bucket fill volumes from synthetic point clouds",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.PathFlag{
				Name:  generalFlagLogFile,
				Usage: "also write logs to `FILE`, rotating it as it grows",
			},
		},
		Before: func(c *cli.Context) error {
			var logger logging.Logger
			logger, logFile = newLogger(c)
			logging.ReplaceGlobal(logger)
			return nil
		},
		After: func(c *cli.Context) error {
			if logFile == nil {
				return nil
			}
			return logFile.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "sample a bucket, estimate its fill volume and export the report",
				Flags: append(configFlags(),
					&cli.Uint64Flag{
						Name:  generateFlagSeed,
						Usage: "sampler seed",
					},
					&cli.PathFlag{
						Name:  generateFlagOutput,
						Usage: "path of the exported report, empty to skip",
					},
					&cli.PathFlag{
						Name:  generateFlagPCD,
						Usage: "also write the full bucket cloud as PCD to `FILE`",
					},
					&cli.PathFlag{
						Name:  generateFlagLAS,
						Usage: "also write the full bucket cloud as LAS to `FILE`",
					},
					&cli.PathFlag{
						Name:  generateFlagPlotDir,
						Usage: "write diagnostic plots into `DIR`",
					},
				),
				Action: GenerateAction,
			},
			{
				Name:  "sweep",
				Usage: "run many fill ratios and seeds in parallel and tabulate the estimates",
				Flags: append(configFlags(),
					&cli.Float64SliceFlag{
						Name:  sweepFlagRatios,
						Usage: "fill ratios to run",
						Value: cli.NewFloat64Slice(0.1, 0.25, 0.5, 0.75, 1),
					},
					&cli.Int64SliceFlag{
						Name:  sweepFlagSeeds,
						Usage: "sampler seeds to run for every ratio",
						Value: cli.NewInt64Slice(0),
					},
					&cli.IntFlag{
						Name:  sweepFlagParallel,
						Usage: "maximum number of concurrent runs",
						Value: runtime.NumCPU(),
					},
				),
				Action: SweepAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of exported reports",
				Action: SchemaAction,
			},
			{
				Name:      "inspect",
				Usage:     "summarize an exported report",
				ArgsUsage: "<report.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  generalFlagUnits,
						Usage: "volume units: " + units.GetValidUnitsString(),
						Value: units.Liters,
					},
					&cli.IntFlag{
						Name:  inspectFlagBins,
						Usage: "number of bins of the fill surface radial histogram, 0 to skip it",
						Value: 10,
					},
				},
				Action: InspectAction,
			},
		},
	}
}
