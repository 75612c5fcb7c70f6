package churn

import (
	"fmt"
	"sort"

	"policyaudit/internal/table"
)

// Row is one line of a churn breakdown.
type Row struct {
	Value     string
	Total     int     // unique policies in the group
	Churned   int     // churned unique policies in the group
	Rate      float64 // percent
	Deviation float64 // Rate minus the baseline rate, in percentage points
}

// BaselineRate computes the churn rate over the entire table, in percent,
// counting each policy_id once. Every grouped breakdown compares against this
// same value.
func BaselineRate(tbl *table.Table) (float64, error) {
	total, churned, err := uniquePolicyCounts(tbl, nil)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(churned) / float64(total) * 100, nil
}

// uniquePolicyCounts counts unique policies and churned unique policies over
// the rows in idx (nil meaning all rows). A policy_id is counted once; its
// first occurrence decides the churned flag, so accidental row duplication
// never inflates a breakdown.
func uniquePolicyCounts(tbl *table.Table, idx []int) (total, churned int, err error) {
	policyCol, ok := tbl.Col("policy_id")
	if !ok {
		return 0, 0, fmt.Errorf("policy_id column missing from table")
	}
	churnedCol, ok := tbl.Col("churned")
	if !ok {
		return 0, 0, fmt.Errorf("churned column missing from table")
	}

	if idx == nil {
		idx = make([]int, tbl.NumRows())
		for i := range idx {
			idx[i] = i
		}
	}

	seen := make(map[string]bool, len(idx))
	for _, i := range idx {
		id, ok := policyCol.Str(i)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		total++
		if b, ok := churnedCol.Bool(i); ok && b {
			churned++
		}
	}
	return total, churned, nil
}

// Aggregate computes the churn breakdown of the table grouped by column.
// Rows with no value in the group column are dropped from this breakdown.
// The result orders by rate descending; equal rates keep the label order of
// first appearance in the input. Returns false when the column is absent,
// which callers treat as "skip this breakdown".
func Aggregate(tbl *table.Table, column string, baseline float64) ([]Row, bool, error) {
	col, ok := tbl.Col(column)
	if !ok {
		return nil, false, nil
	}

	labels := make([]string, tbl.NumRows())
	present := make([]bool, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		if label, ok := col.Label(i); ok {
			labels[i] = label
			present[i] = true
		}
	}

	rows, err := aggregateByLabels(tbl, labels, present, baseline)
	if err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

// aggregateByLabels is the core grouped reduction: rows[i] joins the group
// labels[i] when present[i]. Output is rate-sorted with the stable
// first-appearance tiebreak.
func aggregateByLabels(tbl *table.Table, labels []string, present []bool, baseline float64) ([]Row, error) {
	groups := make(map[string][]int)
	var order []string
	for i := range labels {
		if !present[i] {
			continue
		}
		if _, seen := groups[labels[i]]; !seen {
			order = append(order, labels[i])
		}
		groups[labels[i]] = append(groups[labels[i]], i)
	}

	rows := make([]Row, 0, len(order))
	for _, label := range order {
		total, churned, err := uniquePolicyCounts(tbl, groups[label])
		if err != nil {
			return nil, err
		}
		if total == 0 {
			continue
		}
		rate := float64(churned) / float64(total) * 100
		rows = append(rows, Row{
			Value:     label,
			Total:     total,
			Churned:   churned,
			Rate:      rate,
			Deviation: rate - baseline,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rate > rows[j].Rate
	})
	return rows, nil
}

// AddDerivedGroups appends the binned age_group and tenure_group columns used
// by the demographic and numeric breakdowns. A missing source column skips
// its derived column.
func AddDerivedGroups(tbl *table.Table) error {
	if ageCol, ok := tbl.Col("customer_age"); ok && !tbl.HasCol("age_group") {
		values := make([]string, tbl.NumRows())
		present := make([]bool, tbl.NumRows())
		for i := 0; i < tbl.NumRows(); i++ {
			if v, ok := ageCol.Float(i); ok {
				if label, ok := AgeGroup(v); ok {
					values[i] = label
					present[i] = true
				}
			}
		}
		if err := tbl.AddStrColumn("age_group", values, present); err != nil {
			return fmt.Errorf("failed to add age_group: %w", err)
		}
	}

	if tenCol, ok := tbl.Col("tenure_months"); ok && !tbl.HasCol("tenure_group") {
		values := make([]string, tbl.NumRows())
		present := make([]bool, tbl.NumRows())
		for i := 0; i < tbl.NumRows(); i++ {
			if v, ok := tenCol.Float(i); ok {
				if label, ok := TenureGroup(v); ok {
					values[i] = label
					present[i] = true
				}
			}
		}
		if err := tbl.AddStrColumn("tenure_group", values, present); err != nil {
			return fmt.Errorf("failed to add tenure_group: %w", err)
		}
	}

	return nil
}
