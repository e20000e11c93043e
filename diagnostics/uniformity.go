// Package diagnostics checks sampled clouds for bias and summarizes and plots them.
package diagnostics

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/fillvolume/pointcloud"
)

// Uniformity is the result of a one-sample Kolmogorov-Smirnov test.
type Uniformity struct {
	N int
	// Statistic is the largest distance between the empirical and the reference CDF.
	Statistic float64
	// PValue is the asymptotic probability of a statistic at least this large under the
	// reference distribution.
	PValue   float64
	Mean     float64
	Variance float64
}

// Uniform reports whether the test does not reject uniformity at significance level alpha.
func (u Uniformity) Uniform(alpha float64) bool {
	return u.PValue >= alpha
}

// NormalizedSquaredRadii returns (x^2+y^2)/radius^2 for every point, in cloud order. For points
// drawn uniformly by area over a disk of that radius these are uniform on [0, 1].
func NormalizedSquaredRadii(cloud *pointcloud.PointCloud, radius float64) ([]float64, error) {
	if radius <= 0 {
		return nil, errors.Errorf("radius must be positive, got %v", radius)
	}
	out := make([]float64, 0, cloud.Size())
	cloud.Iterate(0, 0, func(p r3.Vector) bool {
		out = append(out, (p.X*p.X+p.Y*p.Y)/(radius*radius))
		return true
	})
	return out, nil
}

// RadialUniformity tests the squared radial distances of a disk cloud against the uniform
// distribution on [0, 1].
func RadialUniformity(cloud *pointcloud.PointCloud, radius float64) (Uniformity, error) {
	u, err := NormalizedSquaredRadii(cloud, radius)
	if err != nil {
		return Uniformity{}, err
	}
	return KolmogorovSmirnov(u, distuv.Uniform{Min: 0, Max: 1}.CDF)
}

// KolmogorovSmirnov tests samples against the continuous distribution with the given CDF.
func KolmogorovSmirnov(samples []float64, cdf func(float64) float64) (Uniformity, error) {
	n := len(samples)
	if n == 0 {
		return Uniformity{}, errors.New("cannot test an empty sample")
	}
	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	var d float64
	for i, x := range sorted {
		f := cdf(x)
		d = math.Max(d, math.Max(f-float64(i)/float64(n), float64(i+1)/float64(n)-f))
	}

	sqrtN := math.Sqrt(float64(n))
	return Uniformity{
		N:         n,
		Statistic: d,
		PValue:    kolmogorovQ((sqrtN + 0.12 + 0.11/sqrtN) * d),
		Mean:      stat.Mean(samples, nil),
		Variance:  stat.Variance(samples, nil),
	}, nil
}

// kolmogorovQ is the complementary CDF of the Kolmogorov distribution.
func kolmogorovQ(lambda float64) float64 {
	const (
		maxTerms = 100
		relTol   = 1e-8
		absTol   = 1e-12
	)
	a2 := -2 * lambda * lambda
	sign := 2.
	var sum, prev float64
	for k := 1; k <= maxTerms; k++ {
		term := sign * math.Exp(a2*float64(k*k))
		sum += term
		if math.Abs(term) <= relTol*prev || math.Abs(term) <= absTol*sum {
			return math.Min(math.Max(sum, 0), 1)
		}
		sign = -sign
		prev = math.Abs(term)
	}
	// no convergence for tiny lambda, where the tail probability is 1
	return 1
}
