package quality

// RangeRule flags numeric values that are impossible in the policy domain.
type RangeRule struct {
	Column string
	Label  string
	Bad    func(v float64) bool
}

// defaultRangeRules is the fixed impossible-value rule table. Rules for
// columns absent from the input are skipped.
func defaultRangeRules() []RangeRule {
	return []RangeRule{
		{Column: "customer_age", Label: "not in [18-120]", Bad: func(v float64) bool { return v < 18 || v > 120 }},
		{Column: "num_dependents", Label: "< 0", Bad: func(v float64) bool { return v < 0 }},
		{Column: "coverage_amount", Label: "<= 0", Bad: func(v float64) bool { return v <= 0 }},
		{Column: "premium", Label: "<= 0", Bad: func(v float64) bool { return v <= 0 }},
		{Column: "tenure_months", Label: "< 0", Bad: func(v float64) bool { return v < 0 }},
		{Column: "renewal_count", Label: "< 0", Bad: func(v float64) bool { return v < 0 }},
		{Column: "num_riders", Label: "< 0", Bad: func(v float64) bool { return v < 0 }},
		{Column: "late_payment_count", Label: "< 0", Bad: func(v float64) bool { return v < 0 }},
		{Column: "customer_service_calls", Label: "< 0", Bad: func(v float64) bool { return v < 0 }},
		{Column: "premium_change_pct", Label: "not in [-1, 1]", Bad: func(v float64) bool { return v < -1 || v > 1 }},
		{Column: "discount_rate", Label: "not in [0, 1]", Bad: func(v float64) bool { return v < 0 || v > 1 }},
	}
}

// categoricalColumns is the fixed set of columns reported in the categorical
// distribution check, in report order. churn_reason is handled separately
// over the churned subset.
var categoricalColumns = []string{
	"customer_gender",
	"marital_status",
	"product_type",
	"payment_frequency",
	"acquisition_channel",
	"country",
	"income_band",
}

// outlierColumns is the fixed set of numeric columns screened for IQR
// outliers, in report order.
var outlierColumns = []string{
	"customer_age",
	"coverage_amount",
	"premium",
	"tenure_months",
	"num_dependents",
	"renewal_count",
	"num_riders",
	"late_payment_count",
	"customer_service_calls",
	"premium_change_pct",
	"discount_rate",
}
