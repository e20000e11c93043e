package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/fillvolume/diagnostics"
	"go.viam.com/fillvolume/pointcloud"
	"go.viam.com/fillvolume/report"
)

// SchemaAction prints the JSON schema of exported reports.
func SchemaAction(c *cli.Context) error {
	out, err := report.SchemaJSON()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}

// InspectAction prints the summary of an exported report and checks its fill surface sampling.
func InspectAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("inspect needs the path of a report")
	}
	rec, err := report.ReadFile(path)
	if err != nil {
		return err
	}
	summary, err := rec.Metadata.Table(c.String(generalFlagUnits))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", summary)

	fill, err := pointcloud.NewFromTriples(pointcloud.RoleFillSurface, rec.FillSurface)
	if err != nil {
		return err
	}
	stats, err := diagnostics.SummarizeCloud(fill)
	if err != nil {
		return err
	}
	u, err := diagnostics.RadialUniformity(fill, rec.Metadata.BucketRadius)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "fill surface: %d points at z=%.4f m, median radius %.4f m, KS D=%.4f p=%.3g",
		stats.Radial.Count, stats.Height.Median, stats.Radial.Median, u.Statistic, u.PValue)
	if !u.Uniform(0.001) {
		warningf(c.App.Writer, "fill surface points are not uniform over the disk")
	}

	if bins := c.Int(inspectFlagBins); bins > 0 {
		printf(c.App.Writer, "fill surface radial histogram (r²/R²):")
		return diagnostics.FprintRadialHistogram(c.App.Writer, fill, rec.Metadata.BucketRadius, bins, histogramWidth)
	}
	return nil
}
