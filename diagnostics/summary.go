package diagnostics

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"go.viam.com/fillvolume/pointcloud"
)

// Summary describes a sample of values.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P5     float64
	P95    float64
}

// Summarize computes the summary of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, errors.New("cannot summarize an empty sample")
	}
	data := stats.Float64Data(values)
	s := Summary{Count: len(values)}
	var err error
	for _, field := range []struct {
		name string
		dst  *float64
		fn   func() (float64, error)
	}{
		{"mean", &s.Mean, data.Mean},
		{"median", &s.Median, data.Median},
		{"standard deviation", &s.StdDev, data.StandardDeviation},
		{"min", &s.Min, data.Min},
		{"max", &s.Max, data.Max},
		{"5th percentile", &s.P5, func() (float64, error) { return data.Percentile(5) }},
		{"95th percentile", &s.P95, func() (float64, error) { return data.Percentile(95) }},
	} {
		if *field.dst, err = field.fn(); err != nil {
			return Summary{}, errors.Wrapf(err, "computing %s", field.name)
		}
	}
	return s, nil
}

// CloudSummary describes where the points of a cloud lie relative to the bucket axis.
type CloudSummary struct {
	Role   pointcloud.Role
	Radial Summary
	Height Summary
}

// SummarizeCloud summarizes the distance from the z axis and the height of every point.
func SummarizeCloud(cloud *pointcloud.PointCloud) (CloudSummary, error) {
	radial := make([]float64, 0, cloud.Size())
	heights := make([]float64, 0, cloud.Size())
	cloud.Iterate(0, 0, func(p r3.Vector) bool {
		radial = append(radial, math.Hypot(p.X, p.Y))
		heights = append(heights, p.Z)
		return true
	})
	r, err := Summarize(radial)
	if err != nil {
		return CloudSummary{}, errors.Wrapf(err, "summarizing %s radii", cloud.Role())
	}
	h, err := Summarize(heights)
	if err != nil {
		return CloudSummary{}, errors.Wrapf(err, "summarizing %s heights", cloud.Role())
	}
	return CloudSummary{Role: cloud.Role(), Radial: r, Height: h}, nil
}
