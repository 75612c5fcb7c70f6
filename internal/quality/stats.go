package quality

import (
	"math"
	"sort"
)

// Quantile computes the p-quantile of values using the inverted-CDF-with-
// averaging method (R type 2, SAS PCTLDEF=5): with h = p*n, an integral h
// averages the h-th and (h+1)-th order statistics, otherwise the ceil(h)-th
// order statistic is taken. The method is fixed so outlier bounds are
// reproducible across runs.
func Quantile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := p * float64(n)
	j := int(math.Floor(h + 1e-9))
	g := h - float64(j)

	if g < 1e-9 {
		// h lands exactly on an order statistic: average it with the next.
		if j >= n {
			return sorted[n-1]
		}
		return (sorted[j-1] + sorted[j]) / 2
	}
	if j >= n {
		return sorted[n-1]
	}
	return sorted[j]
}

// OutlierStat describes the IQR fences and outlier incidence of one numeric
// column.
type OutlierStat struct {
	Column   string
	Q1       float64
	Q3       float64
	IQR      float64
	Lower    float64
	Upper    float64
	Outliers int
	Pct      float64
}

// outlierStatFor computes IQR fences over non-null values. The second return
// is false when the statistic is degenerate: no values, or IQR zero (at
// least three quarters of the values identical), in which case fence-based
// detection is meaningless and the column is skipped.
func outlierStatFor(column string, values []float64) (OutlierStat, bool) {
	if len(values) == 0 {
		return OutlierStat{}, false
	}
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return OutlierStat{}, false
	}

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	n := 0
	for _, v := range values {
		if v < lower || v > upper {
			n++
		}
	}

	return OutlierStat{
		Column:   column,
		Q1:       q1,
		Q3:       q3,
		IQR:      iqr,
		Lower:    lower,
		Upper:    upper,
		Outliers: n,
		Pct:      float64(n) / float64(len(values)) * 100,
	}, true
}
