// Package churn computes churn-rate breakdowns of a standardized policy
// table.
//
// Aggregate groups the table by any categorical or binned column and reports,
// per group, the unique-policy total, churned count, churn rate, and the
// deviation from the table-wide baseline rate. Groups order by descending
// rate; equal rates keep the first-appearance order of their labels in the
// input, which fixes the otherwise unspecified tiebreak.
//
// Continuous fields are pre-binned: age into six fixed bands, tenure into
// fixed yearly bands up to 10+ years, and, for the chart series, tenure into
// 12-month buckets spanning the observed range. Values outside a breakdown's
// bins are dropped from that breakdown only.
package churn
