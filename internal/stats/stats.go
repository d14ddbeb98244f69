// Package stats wraps the numeric kernels used by the metrics engine and
// pattern detectors. All functions are pure and safe for concurrent use.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Sum returns the sum of xs.
func Sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

// StdDev returns the sample standard deviation (n-1 denominator), or 0 when
// fewer than two values are given.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// CV returns the coefficient of variation std/mean. A zero mean yields 0.
func CV(xs []float64) float64 {
	mean := Mean(xs)
	if mean == 0 {
		return 0
	}
	return StdDev(xs) / mean
}

// Median returns the middle value, averaging the two middle values for even
// lengths.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(xs)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between closest ranks.
func Percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(xs)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// ArgMax returns the index of the first maximum value, or -1 if empty.
func ArgMax(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

// ArgMin returns the index of the first minimum value, or -1 if empty.
func ArgMin(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	best := 0
	for i, x := range xs {
		if x < xs[best] {
			best = i
		}
	}
	return best
}

// Regression is the result of an ordinary least squares fit of y on x.
type Regression struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	PValue    float64
}

// LinearRegression fits y = intercept + slope*x. It returns false when fewer
// than three points are given or x has no spread. A constant y yields a
// zero slope, R² of 0 and a p-value of 1.
func LinearRegression(x, y []float64) (Regression, bool) {
	if len(x) != len(y) || len(x) < 3 {
		return Regression{}, false
	}
	if StdDev(x) == 0 {
		return Regression{}, false
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	reg := Regression{Slope: slope, Intercept: intercept, PValue: 1}
	if StdDev(y) == 0 {
		return reg, true
	}
	r := stat.Correlation(x, y, nil)
	reg.RSquared = r * r
	reg.PValue = correlationPValue(r, len(x))
	return reg, true
}

// Correlation is a Pearson correlation with its two-sided p-value.
type Correlation struct {
	R      float64
	PValue float64
	N      int
}

// Pearson computes the Pearson correlation between x and y. It returns false
// when the inputs differ in length, have fewer than three points, or either
// side has zero variance.
func Pearson(x, y []float64) (Correlation, bool) {
	if len(x) != len(y) || len(x) < 3 {
		return Correlation{}, false
	}
	if StdDev(x) == 0 || StdDev(y) == 0 {
		return Correlation{}, false
	}
	r := stat.Correlation(x, y, nil)
	return Correlation{R: r, PValue: correlationPValue(r, len(x)), N: len(x)}, true
}

// correlationPValue is the two-sided p-value of the t-test for a Pearson
// coefficient r over n observations.
func correlationPValue(r float64, n int) float64 {
	df := float64(n - 2)
	if df <= 0 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(df/((1-r)*(1+r)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return math.Min(1, math.Max(0, p))
}

// ZScores returns (x-mean)/std for each value using the sample standard
// deviation. It returns nil when std is zero.
func ZScores(xs []float64) []float64 {
	std := StdDev(xs)
	if std == 0 {
		return nil
	}
	mean := Mean(xs)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (x - mean) / std
	}
	return out
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}
