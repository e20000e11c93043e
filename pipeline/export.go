package pipeline

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"go.viam.com/fillvolume/config"
	"go.viam.com/fillvolume/diagnostics"
	"go.viam.com/fillvolume/logging"
	"go.viam.com/fillvolume/pointcloud"
)

const histogramBins = 40

// Export writes the outputs selected in out. Empty paths are skipped.
func Export(res *Result, out config.Output, logger logging.Logger) error {
	if out.Path != "" {
		if err := res.Report.WriteFile(out.Path); err != nil {
			return errors.Wrapf(err, "writing report to %s", out.Path)
		}
		logger.Infow("wrote report", "path", out.Path, "run_id", res.RunID.String())
	}

	full := res.Report.FullBucket()
	if out.PCD != "" {
		if err := pointcloud.WriteToFile(full, out.PCD); err != nil {
			return errors.Wrapf(err, "writing point cloud to %s", out.PCD)
		}
		logger.Infow("wrote point cloud", "path", out.PCD, "points", full.Size())
	}
	if out.LAS != "" {
		if err := pointcloud.WriteToLASFile(full, out.LAS); err != nil {
			return errors.Wrapf(err, "writing point cloud to %s", out.LAS)
		}
		logger.Infow("wrote point cloud", "path", out.LAS, "points", full.Size())
	}

	if out.PlotDir != "" {
		if err := writePlots(res, out.PlotDir); err != nil {
			return err
		}
		logger.Infow("wrote plots", "dir", out.PlotDir)
	}
	return nil
}

func writePlots(res *Result, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	radius := res.Geometry.Radius()
	if err := diagnostics.PlotRadialHistogram(res.Samples.Bottom, radius, histogramBins,
		filepath.Join(dir, "bottom_radial.png")); err != nil {
		return err
	}
	if err := diagnostics.PlotRadialHistogram(res.Samples.FillSurface, radius, histogramBins,
		filepath.Join(dir, "fill_surface_radial.png")); err != nil {
		return err
	}
	clouds := []*pointcloud.PointCloud{res.Samples.Wall, res.Samples.Bottom, res.Samples.FillSurface}
	if res.Fill.Hull != nil {
		clouds = append(clouds, res.Fill.Hull.Vertices)
	}
	return diagnostics.PlotSideProfile(filepath.Join(dir, "side_profile.png"), clouds...)
}
