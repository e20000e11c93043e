package diagnostics

import (
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/pkg/errors"

	"go.viam.com/fillvolume/pointcloud"
)

// RadialHistogram bins the normalized squared radii of a disk cloud. A uniform disk sample
// gives bins of roughly equal count.
func RadialHistogram(cloud *pointcloud.PointCloud, radius float64, bins int) (histogram.Histogram, error) {
	if bins < 1 {
		return histogram.Histogram{}, errors.Errorf("histogram needs at least one bin, got %d", bins)
	}
	u, err := NormalizedSquaredRadii(cloud, radius)
	if err != nil {
		return histogram.Histogram{}, err
	}
	if len(u) == 0 {
		return histogram.Histogram{}, errors.Errorf("%s cloud has no points to bin", cloud.Role())
	}
	return histogram.Hist(bins, u), nil
}

// FprintRadialHistogram draws RadialHistogram as text bars at most width characters wide.
func FprintRadialHistogram(w io.Writer, cloud *pointcloud.PointCloud, radius float64, bins, width int) error {
	hist, err := RadialHistogram(cloud, radius, bins)
	if err != nil {
		return err
	}
	return histogram.Fprint(w, hist, histogram.Linear(width))
}
