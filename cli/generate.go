package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/fillvolume/config"
	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/pipeline"
	"go.viam.com/fillvolume/report"
)

// newLogger returns a logger writing to the app's error stream and, when --log-file is set,
// to that file. The file appender is returned so it can be closed.
func newLogger(c *cli.Context) (logging.Logger, *logging.FileAppender) {
	logger := logging.NewBlankLogger("fillvolume")
	logger.AddAppender(logging.NewConsoleAppender(c.App.ErrWriter))
	var file *logging.FileAppender
	if path := c.Path(generalFlagLogFile); path != "" {
		file = logging.NewFileAppender(path)
		logger.AddAppender(file)
	}
	if c.Bool(generalFlagDebug) {
		logger.SetLevel(logging.DEBUG)
	} else {
		logger.SetLevel(logging.INFO)
	}
	return logger, file
}

// loadConfig reads the --config file, or the defaults, and applies every flag that was set.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.Path(generalFlagConfig); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	for name, dst := range map[string]*float64{
		generateFlagRadius:    &cfg.Bucket.Radius,
		generateFlagHeight:    &cfg.Bucket.Height,
		generateFlagFillRatio: &cfg.Bucket.FillRatio,
		generateFlagEpsilon:   &cfg.Hull.Epsilon,
	} {
		if c.IsSet(name) {
			*dst = c.Float64(name)
		}
	}
	for name, dst := range map[string]*int{
		generateFlagWallPoints:   &cfg.Points.Wall,
		generateFlagBottomPoints: &cfg.Points.Bottom,
		generateFlagFillPoints:   &cfg.Points.FillSurface,
	} {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	for name, dst := range map[string]*string{
		generateFlagFillDefinition: &cfg.Hull.FillDefinition,
		generalFlagUnits:           &cfg.Output.Units,
		generateFlagOutput:         &cfg.Output.Path,
		generateFlagPCD:            &cfg.Output.PCD,
		generateFlagLAS:            &cfg.Output.LAS,
		generateFlagPlotDir:        &cfg.Output.PlotDir,
	} {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	if c.IsSet(generateFlagSeed) {
		cfg.Seed = c.Uint64(generateFlagSeed)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GenerateAction runs one configuration, exports it and prints its summary.
func GenerateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := logging.Global()

	res, err := pipeline.Run(cfg, logger)
	if err != nil {
		return err
	}
	if err := pipeline.Export(res, cfg.Output, logger); err != nil {
		return err
	}

	summary, err := res.Report.Table(cfg.VolumeUnits())
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", summary)
	if res.Fill.Empty {
		infof(c.App.Writer, "the fill surface lies on the bottom, so the fill is empty")
		return nil
	}
	printVerdict(c.App.Writer, res.Report)
	return nil
}

func printVerdict(w io.Writer, rep *report.VolumeReport) {
	relErr := rep.FillRelativeError()
	if relErr <= fillTolerance {
		infof(w, "hull fill is within %.1f%% of the analytic fill (%.3f%%)", 100*fillTolerance, 100*relErr)
		return
	}
	warningf(w, "hull fill is off the analytic fill by %.3f%%, more than %.1f%%; sample more points",
		100*relErr, 100*fillTolerance)
}
