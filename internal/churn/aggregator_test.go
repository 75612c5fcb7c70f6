package churn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyaudit/internal/table"
)

func buildTable(t *testing.T, records [][]string) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords(records, table.PolicySchema())
	require.NoError(t, err)
	return tbl
}

func TestBaselineRate(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned"},
		{"P1", "C1", "true"},
		{"P2", "C1", "false"},
		{"P3", "C2", "false"},
		{"P4", "C3", "false"},
	})
	rate, err := BaselineRate(tbl)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, rate, 1e-9)
}

func TestBaselineRate_DuplicatePoliciesCountOnce(t *testing.T) {
	// P1 appears twice with contradictory flags; the first occurrence decides.
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned"},
		{"P1", "C1", "true"},
		{"P1", "C1", "false"},
		{"P2", "C2", "false"},
	})
	rate, err := BaselineRate(tbl)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, rate, 1e-9)
}

func TestBaselineRate_EmptyTable(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned"},
	})
	rate, err := BaselineRate(tbl)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestAggregate(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned", "payment_frequency"},
		{"P1", "C1", "true", "Monthly"},
		{"P2", "C2", "true", "Monthly"},
		{"P3", "C3", "false", "Monthly"},
		{"P4", "C4", "false", "Annual"},
		{"P5", "C5", "false", "Annual"},
		{"P6", "C6", "true", "Quarterly"},
		{"P7", "C7", "false", ""},
	})

	baseline, err := BaselineRate(tbl)
	require.NoError(t, err)

	rows, ok, err := Aggregate(tbl, "payment_frequency", baseline)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 3)

	// Rate descending: Quarterly 100%, Monthly 66.7%, Annual 0%.
	assert.Equal(t, "Quarterly", rows[0].Value)
	assert.Equal(t, 1, rows[0].Total)
	assert.InDelta(t, 100.0, rows[0].Rate, 1e-9)

	assert.Equal(t, "Monthly", rows[1].Value)
	assert.Equal(t, 3, rows[1].Total)
	assert.Equal(t, 2, rows[1].Churned)
	assert.InDelta(t, 200.0/3.0, rows[1].Rate, 1e-9)
	assert.InDelta(t, 200.0/3.0-baseline, rows[1].Deviation, 1e-9)

	assert.Equal(t, "Annual", rows[2].Value)
	assert.InDelta(t, 0.0, rows[2].Rate, 1e-9)
	assert.InDelta(t, -baseline, rows[2].Deviation, 1e-9)
}

func TestAggregate_CompletePartitionSumsToTable(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned", "product_type"},
		{"P1", "C1", "true", "Term"},
		{"P2", "C2", "false", "Term"},
		{"P3", "C3", "true", "Whole"},
		{"P4", "C4", "false", "Universal"},
		{"P5", "C5", "false", "Universal"},
	})

	rows, ok, err := Aggregate(tbl, "product_type", 0)
	require.NoError(t, err)
	require.True(t, ok)

	// Every row carries a group value, so group counts partition the table.
	totalSum, churnedSum := 0, 0
	for _, r := range rows {
		totalSum += r.Total
		churnedSum += r.Churned
	}
	total, churned, err := uniquePolicyCounts(tbl, nil)
	require.NoError(t, err)
	assert.Equal(t, total, totalSum)
	assert.Equal(t, churned, churnedSum)
}

func TestAggregate_TiedRatesKeepFirstAppearanceOrder(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned", "product_type"},
		{"P1", "C1", "false", "Whole"},
		{"P2", "C2", "false", "Term"},
		{"P3", "C3", "false", "Universal"},
	})

	rows, ok, err := Aggregate(tbl, "product_type", 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 3)
	assert.Equal(t, "Whole", rows[0].Value)
	assert.Equal(t, "Term", rows[1].Value)
	assert.Equal(t, "Universal", rows[2].Value)
}

func TestAggregate_AbsentColumn(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned"},
		{"P1", "C1", "true"},
	})
	rows, ok, err := Aggregate(tbl, "payment_frequency", 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rows)
}

func TestAggregate_BoolGroupsUseTitleCaseLabels(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned", "discount_applied"},
		{"P1", "C1", "true", "true"},
		{"P2", "C2", "false", "false"},
	})

	rows, ok, err := Aggregate(tbl, "discount_applied", 50)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "True", rows[0].Value)
	assert.Equal(t, "False", rows[1].Value)
}

func TestAddDerivedGroups(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned", "customer_age", "tenure_months"},
		{"P1", "C1", "true", "25", "6"},
		{"P2", "C2", "false", "52", "130"},
		{"P3", "C3", "false", "", "30"},
	})

	require.NoError(t, AddDerivedGroups(tbl))
	// Calling again must not duplicate the columns.
	require.NoError(t, AddDerivedGroups(tbl))

	age, ok := tbl.Col("age_group")
	require.True(t, ok)
	v, present := age.Str(0)
	require.True(t, present)
	assert.Equal(t, "18-30", v)
	v, _ = age.Str(1)
	assert.Equal(t, "51-60", v)
	_, present = age.Str(2)
	assert.False(t, present)

	tenure, ok := tbl.Col("tenure_group")
	require.True(t, ok)
	v, _ = tenure.Str(0)
	assert.Equal(t, "0-1yr", v)
	v, _ = tenure.Str(1)
	assert.Equal(t, "10yr+", v)
	v, _ = tenure.Str(2)
	assert.Equal(t, "2-3yr", v)
}

func TestAnalyzer_BuildReport(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned", "product_type", "payment_frequency", "customer_age", "tenure_months"},
		{"P1", "C1", "true", "Term", "Monthly", "25", "6"},
		{"P2", "C2", "false", "Term", "Annual", "45", "30"},
		{"P3", "C3", "false", "Whole", "Annual", "61", "80"},
		{"P4", "C4", "true", "Universal", "Monthly", "33", "14"},
	})

	rpt, err := NewAnalyzer(nil).BuildReport(context.Background(), tbl)
	require.NoError(t, err)

	text := rpt.Render()
	assert.Contains(t, text, "CHURN RATE ANALYSIS")
	assert.Contains(t, text, "Dataset:       4 policies")
	assert.Contains(t, text, "Total churned: 2  (50.0% overall churn rate)")
	assert.Contains(t, text, "SECTION 1: POLICY CHARACTERISTICS")
	assert.Contains(t, text, "SECTION 5: NUMERIC POLICY CHARACTERISTICS")
	assert.Contains(t, text, "Product Type")
	assert.Contains(t, text, "Age Group")
	assert.Contains(t, text, "TOTAL")
	// Breakdowns with absent source columns are skipped silently.
	assert.NotContains(t, text, "Marital Status")
}

func TestAnalyzer_BuildChartData(t *testing.T) {
	tbl := buildTable(t, [][]string{
		{"policy_id", "customer_id", "churned", "payment_frequency", "tenure_months", "product_type", "premium", "coverage_amount"},
		{"P1", "C1", "true", "Monthly", "3", "Term", "50", "100000"},
		{"P2", "C2", "false", "Monthly", "10", "Term", "60", "120000"},
		{"P3", "C3", "false", "Annual", "30", "Whole", "200", "100000"},
		{"P4", "C4", "true", "Annual", "40", "Whole", "180", "0"},
	})

	data, err := NewAnalyzer(nil).BuildChartData(context.Background(), tbl)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, data.Baseline, 1e-9)

	// Tenure buckets in tenure order with the empty 1-2yr bucket omitted.
	require.Len(t, data.TenureCurve, 3)
	assert.Equal(t, "0-1yr", data.TenureCurve[0].Value)
	assert.Equal(t, 2, data.TenureCurve[0].Total)
	assert.InDelta(t, 50.0, data.TenureCurve[0].Rate, 1e-9)
	assert.Equal(t, "2-3yr", data.TenureCurve[1].Value)
	assert.Equal(t, "3-4yr", data.TenureCurve[2].Value)

	require.Len(t, data.PaymentFrequency, 2)
	assert.Empty(t, data.AcquisitionChannel)

	require.Len(t, data.PricePerCoverage, 3)
	assert.Equal(t, "Term", data.PricePerCoverage[0].Product)
	require.Len(t, data.PricePerCoverage[0].Values, 2)
	assert.InDelta(t, 0.5, data.PricePerCoverage[0].Values[0], 1e-9)
	// P4 has zero coverage and is dropped from the Whole series.
	assert.Len(t, data.PricePerCoverage[1].Values, 1)
	assert.Empty(t, data.PricePerCoverage[2].Values)
}
