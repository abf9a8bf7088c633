package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabprobe/internal/table"
)

// zThreshold is the |z| above which a value counts as an outlier.
const zThreshold = 3.0

// zeroM2 is the sum-of-squares below which a sample is treated as constant
// for skewness and kurtosis.
const zeroM2 = 1e-14

// CoerceFloat converts a cell to float64. ok is false for missing or
// unparseable values; ±Inf is a valid result.
func CoerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, !math.IsNaN(x)
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(x.UnixNano()), true
	case string:
		return table.ParseFloat(x)
	}
	return 0, false
}

// distribution holds the statistics of one coerced sample.
type distribution struct {
	n         int
	mean      float64
	median    float64
	std       float64
	variance  float64
	min       float64
	q25       float64
	q75       float64
	max       float64
	skew      float64
	kurt      float64
	zOutliers int
}

// describe computes the summary statistics of xs. Statistics that are not
// defined for the sample size come back as NaN rather than an error.
func describe(xs []float64) distribution {
	nan := math.NaN()
	d := distribution{
		n: len(xs), mean: nan, median: nan, std: nan, variance: nan,
		min: nan, q25: nan, q75: nan, max: nan, skew: nan, kurt: nan,
	}
	if d.n == 0 {
		return d
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	d.mean = stat.Mean(xs, nil)
	d.median = orNaN(stats.Median(xs))
	d.min = orNaN(stats.Min(xs))
	d.max = orNaN(stats.Max(xs))
	d.q25 = quantile(sorted, 0.25)
	d.q75 = quantile(sorted, 0.75)

	if d.n >= 2 {
		d.variance = stat.Variance(xs, nil)
		d.std = math.Sqrt(d.variance)
	}

	m2 := d.variance * float64(d.n-1)
	flat := !math.IsNaN(m2) && m2 < zeroM2
	if d.n >= 3 {
		if flat {
			d.skew = 0
		} else {
			d.skew = stat.Skew(xs, nil)
		}
	}
	if d.n >= 4 {
		if flat {
			d.kurt = 0
		} else {
			d.kurt = stat.ExKurtosis(xs, nil)
		}
	}

	d.zOutliers = countZOutliers(xs, d.mean, d.std)
	return d
}

// countZOutliers counts values with |x-mean|/std > zThreshold. The score is
// undefined for fewer than two values or a zero/NaN spread.
func countZOutliers(xs []float64, mean, std float64) int {
	if len(xs) < 2 || std == 0 || math.IsNaN(std) {
		return 0
	}
	n := 0
	for _, x := range xs {
		if math.Abs(x-mean)/std > zThreshold {
			n++
		}
	}
	return n
}

func orNaN(v float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return v
}

// quantile interpolates linearly between closest ranks of a sorted sample.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
