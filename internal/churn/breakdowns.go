package churn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"policyaudit/internal/report"
	"policyaudit/internal/table"
)

// breakdownSpec names one churn table within a report section.
type breakdownSpec struct {
	Column string
	Title  string
}

// sectionSpec is one fixed section of the churn report.
type sectionSpec struct {
	Title      string
	Note       string
	Breakdowns []breakdownSpec
}

// reportSections is the fixed section ordering of the churn report. Absent
// columns skip their breakdown without failing the section.
var reportSections = []sectionSpec{
	{
		Title: "SECTION 1: POLICY CHARACTERISTICS",
		Note:  "How the policy structure relates to churn",
		Breakdowns: []breakdownSpec{
			{Column: "product_type", Title: "Product Type"},
			{Column: "payment_frequency", Title: "Payment Frequency  (strong signal)"},
			{Column: "acquisition_channel", Title: "Acquisition Channel"},
		},
	},
	{
		Title: "SECTION 2: CUSTOMER BEHAVIOR SIGNALS",
		Note:  "Activity and engagement indicators",
		Breakdowns: []breakdownSpec{
			{Column: "late_payment_count", Title: "Late Payment Count  (strongest signal)"},
			{Column: "customer_service_calls", Title: "Customer Service Calls"},
			{Column: "beneficiary_updated", Title: "Beneficiary Updated"},
		},
	},
	{
		Title: "SECTION 3: CUSTOMER DEMOGRAPHICS",
		Note:  "Who the customer is",
		Breakdowns: []breakdownSpec{
			{Column: "age_group", Title: "Age Group"},
			{Column: "customer_gender_std", Title: "Gender (standardized)"},
			{Column: "marital_status", Title: "Marital Status"},
			{Column: "income_band", Title: "Income Band"},
			{Column: "country_std", Title: "Country (standardized)"},
		},
	},
	{
		Title: "SECTION 4: ADD-ONS AND DISCOUNTS",
		Note:  "Whether riders or discounts affect retention",
		Breakdowns: []breakdownSpec{
			{Column: "discount_applied", Title: "Discount Applied"},
			{Column: "has_rider", Title: "Has Rider"},
			{Column: "critical_illness_rider", Title: "Critical Illness Rider"},
			{Column: "disability_rider", Title: "Disability Rider"},
		},
	},
	{
		Title: "SECTION 5: NUMERIC POLICY CHARACTERISTICS",
		Note:  "Policy age, size, and financial signals",
		Breakdowns: []breakdownSpec{
			{Column: "tenure_group", Title: "Tenure Group  (6-8yr highest risk)"},
			{Column: "num_dependents", Title: "Number of Dependents"},
		},
	},
}

// Analyzer builds churn-rate reports and chart series from a standardized
// table.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// BuildReport computes every breakdown of the fixed section layout and
// renders them into one report. The binned age and tenure columns are added
// to the table first when their sources exist.
func (a *Analyzer) BuildReport(ctx context.Context, tbl *table.Table) (*report.Report, error) {
	if err := AddDerivedGroups(tbl); err != nil {
		return nil, err
	}

	baseline, err := BaselineRate(tbl)
	if err != nil {
		return nil, fmt.Errorf("failed to compute baseline churn rate: %w", err)
	}

	total, churned, err := uniquePolicyCounts(tbl, nil)
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "building churn report",
		"policies", total,
		"churned", churned,
		"baseline_rate_pct", fmt.Sprintf("%.1f", baseline))

	rpt := report.New("CHURN RATE ANALYSIS")
	rpt.Subtitle = fmt.Sprintf("Dataset:       %d policies\nTotal churned: %d  (%.1f%% overall churn rate)",
		total, churned, baseline)

	for _, spec := range reportSections {
		sec := rpt.AddSectionNote(spec.Title, spec.Note)
		for _, b := range spec.Breakdowns {
			rows, ok, err := Aggregate(tbl, b.Column, baseline)
			if err != nil {
				return nil, fmt.Errorf("breakdown %s: %w", b.Column, err)
			}
			if !ok {
				a.logger.WarnContext(ctx, "column absent, skipping breakdown",
					"column", b.Column)
				continue
			}
			renderBreakdown(sec, b.Title, rows)
		}
	}

	return rpt, nil
}

// renderBreakdown writes one churn table, with a TOTAL line, into a section.
func renderBreakdown(sec *report.Section, title string, rows []Row) {
	sec.Blank()
	sec.Printf("  %s", title)
	sec.Printf("  %s", strings.Repeat("-", 60))
	sec.Printf("  %-22s %6s  %8s  %7s  %7s", "Value", "Total", "Churned", "Churn%", "vs avg")
	sec.Printf("  %s", strings.Repeat(".", 52))

	totalSum, churnedSum := 0, 0
	for _, r := range rows {
		sign := ""
		if r.Deviation >= 0 {
			sign = "+"
		}
		sec.Printf("  %-22s %6d  %8d  %6.1f%%  %s%5.1f%%",
			r.Value, r.Total, r.Churned, r.Rate, sign, r.Deviation)
		totalSum += r.Total
		churnedSum += r.Churned
	}
	sec.Printf("  %s", strings.Repeat(".", 52))
	sec.Printf("  %-22s %6d  %8d", "TOTAL", totalSum, churnedSum)
}
