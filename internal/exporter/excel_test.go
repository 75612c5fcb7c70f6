package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"policyaudit/internal/churn"
)

func TestChartWorkbook(t *testing.T) {
	data := &churn.ChartData{
		Baseline: 25.0,
		TenureCurve: []churn.Row{
			{Value: "0-1yr", Total: 10, Churned: 4, Rate: 40, Deviation: 15},
			{Value: "1-2yr", Total: 8, Churned: 1, Rate: 12.5, Deviation: -12.5},
		},
		PaymentFrequency: []churn.Row{
			{Value: "Monthly", Total: 12, Churned: 5, Rate: 41.7, Deviation: 16.7},
		},
		PricePerCoverage: []churn.DistSeries{
			{Product: "Term", Values: []float64{0.5, 0.6}},
			{Product: "Whole", Values: []float64{2.0}},
			{Product: "Universal"},
		},
	}

	path := filepath.Join(t.TempDir(), "charts", "churn_charts.xlsx")
	require.NoError(t, ChartWorkbook(data, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"TenureChurn", "PaymentFrequency", "AcquisitionChannel", "PricePerCoverage"},
		f.GetSheetList())

	rows, err := f.GetRows("TenureChurn")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Value", "Total", "Churned", "RatePct", "DeviationPct", "BaselinePct"}, rows[0])
	assert.Equal(t, "0-1yr", rows[1][0])
	assert.Equal(t, "10", rows[1][1])
	assert.Equal(t, "40", rows[1][3])
	assert.Equal(t, "25", rows[1][5])

	// Channel series was empty: header row only.
	rows, err = f.GetRows("AcquisitionChannel")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = f.GetRows("PricePerCoverage")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Term", "Whole", "Universal"}, rows[0])
	assert.Equal(t, "0.5", rows[1][0])
	assert.Equal(t, "2", rows[1][1])
}
