package churn

import (
	"context"
	"fmt"

	"policyaudit/internal/table"
)

// Product types carried in the price-per-coverage distribution, in chart
// order.
var chartProductTypes = []string{"Term", "Whole", "Universal"}

// DistSeries is the raw value distribution for one product type, scaled for
// a readable axis.
type DistSeries struct {
	Product string
	Values  []float64
}

// ChartData is the numeric aggregation bundle handed to the rendering
// collaborator. The pipeline's responsibility ends here; no visual output is
// produced in-process.
type ChartData struct {
	Baseline           float64
	TenureCurve        []Row // 12-month buckets in tenure order, not rate order
	PaymentFrequency   []Row
	AcquisitionChannel []Row
	PricePerCoverage   []DistSeries
}

// BuildChartData computes the chart-oriented aggregations over a standardized
// table. Series whose source columns are absent come back empty rather than
// failing the bundle.
func (a *Analyzer) BuildChartData(ctx context.Context, tbl *table.Table) (*ChartData, error) {
	baseline, err := BaselineRate(tbl)
	if err != nil {
		return nil, fmt.Errorf("failed to compute baseline churn rate: %w", err)
	}

	data := &ChartData{Baseline: baseline}

	if curve, ok, err := tenureCurve(tbl, baseline); err != nil {
		return nil, err
	} else if ok {
		data.TenureCurve = curve
	}

	if rows, ok, err := Aggregate(tbl, "payment_frequency", baseline); err != nil {
		return nil, err
	} else if ok {
		data.PaymentFrequency = rows
	}

	if rows, ok, err := Aggregate(tbl, "acquisition_channel", baseline); err != nil {
		return nil, err
	} else if ok {
		data.AcquisitionChannel = rows
	}

	data.PricePerCoverage = pricePerCoverage(tbl)

	a.logger.InfoContext(ctx, "chart data assembled",
		"tenure_buckets", len(data.TenureCurve),
		"payment_groups", len(data.PaymentFrequency),
		"channel_groups", len(data.AcquisitionChannel),
		"price_series", len(data.PricePerCoverage))
	return data, nil
}

// tenureCurve aggregates churn over dynamically-sized 12-month tenure
// buckets spanning zero through the maximum observed tenure. Buckets come
// back in tenure order; empty buckets are omitted.
func tenureCurve(tbl *table.Table, baseline float64) ([]Row, bool, error) {
	tenCol, ok := tbl.Col("tenure_months")
	if !ok {
		return nil, false, nil
	}

	maxTenure := 0.0
	found := false
	for i := 0; i < tbl.NumRows(); i++ {
		if v, ok := tenCol.Float(i); ok {
			if !found || v > maxTenure {
				maxTenure = v
				found = true
			}
		}
	}
	if !found {
		return nil, false, nil
	}

	numBuckets := TenureBucketCount(maxTenure)
	bucketRows := make([][]int, numBuckets)
	for i := 0; i < tbl.NumRows(); i++ {
		v, ok := tenCol.Float(i)
		if !ok {
			continue
		}
		k, ok := TenureBucket(v)
		if !ok || k >= numBuckets {
			continue
		}
		bucketRows[k] = append(bucketRows[k], i)
	}

	var rows []Row
	for k := 0; k < numBuckets; k++ {
		if len(bucketRows[k]) == 0 {
			continue
		}
		total, churned, err := uniquePolicyCounts(tbl, bucketRows[k])
		if err != nil {
			return nil, false, err
		}
		if total == 0 {
			continue
		}
		rate := float64(churned) / float64(total) * 100
		rows = append(rows, Row{
			Value:     TenureBucketLabel(k),
			Total:     total,
			Churned:   churned,
			Rate:      rate,
			Deviation: rate - baseline,
		})
	}
	return rows, true, nil
}

// pricePerCoverage computes premium per unit of coverage, scaled by 1000,
// grouped by product type. Rows missing either input, or with zero coverage,
// are dropped.
func pricePerCoverage(tbl *table.Table) []DistSeries {
	prodCol, okP := tbl.Col("product_type")
	premCol, okM := tbl.Col("premium")
	covCol, okC := tbl.Col("coverage_amount")
	if !okP || !okM || !okC {
		return nil
	}

	byProduct := make(map[string][]float64, len(chartProductTypes))
	for i := 0; i < tbl.NumRows(); i++ {
		product, ok := prodCol.Str(i)
		if !ok {
			continue
		}
		premium, ok := premCol.Float(i)
		if !ok {
			continue
		}
		coverage, ok := covCol.Float(i)
		if !ok || coverage == 0 {
			continue
		}
		byProduct[product] = append(byProduct[product], premium/coverage*1000)
	}

	series := make([]DistSeries, 0, len(chartProductTypes))
	for _, product := range chartProductTypes {
		series = append(series, DistSeries{Product: product, Values: byProduct[product]})
	}
	return series
}
