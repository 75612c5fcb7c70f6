package table

// Kind classifies a column's value type.
type Kind int

const (
	// KindString holds free-form or categorical text.
	KindString Kind = iota
	// KindBool holds True/False flags.
	KindBool
	// KindFloat holds numeric values, integral or fractional.
	KindFloat
	// KindDate holds calendar dates.
	KindDate
)

// String returns the kind name used in the type census.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float64"
	case KindDate:
		return "datetime"
	default:
		return "unknown"
	}
}

// ColumnSpec declares one expected column.
type ColumnSpec struct {
	Name     string
	Kind     Kind
	Required bool   // load fails when a required column is absent
	Default  string // fill-in for missing values, empty means none
}

// Schema enumerates the expected columns of a table. Columns present in the
// input but not declared here are kept and treated as strings.
type Schema struct {
	Columns []ColumnSpec
}

// Spec returns the declaration for a column name, if any.
func (s Schema) Spec(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// PolicySchema describes the policy snapshot table. Only policy_id,
// customer_id and churned are hard requirements; every other column is
// optional and its dependent checks are skipped when absent.
func PolicySchema() Schema {
	return Schema{Columns: []ColumnSpec{
		{Name: "policy_id", Kind: KindString, Required: true},
		{Name: "customer_id", Kind: KindString, Required: true},
		{Name: "snapshot_date", Kind: KindDate},
		{Name: "policy_start_date", Kind: KindDate},
		{Name: "policy_end_date", Kind: KindDate},
		{Name: "product_type", Kind: KindString},
		{Name: "payment_frequency", Kind: KindString},
		{Name: "acquisition_channel", Kind: KindString},
		{Name: "agent_id", Kind: KindString},
		{Name: "customer_gender", Kind: KindString},
		{Name: "marital_status", Kind: KindString},
		{Name: "country", Kind: KindString},
		{Name: "income_band", Kind: KindString, Default: "Unknown"},
		{Name: "churn_reason", Kind: KindString},
		{Name: "churned", Kind: KindBool, Required: true},
		{Name: "discount_applied", Kind: KindBool},
		{Name: "has_rider", Kind: KindBool},
		{Name: "critical_illness_rider", Kind: KindBool},
		{Name: "disability_rider", Kind: KindBool},
		{Name: "beneficiary_updated", Kind: KindBool},
		{Name: "customer_age", Kind: KindFloat},
		{Name: "premium", Kind: KindFloat},
		{Name: "coverage_amount", Kind: KindFloat},
		{Name: "tenure_months", Kind: KindFloat},
		{Name: "num_dependents", Kind: KindFloat},
		{Name: "renewal_count", Kind: KindFloat},
		{Name: "num_riders", Kind: KindFloat},
		{Name: "late_payment_count", Kind: KindFloat},
		{Name: "customer_service_calls", Kind: KindFloat},
		{Name: "premium_change_pct", Kind: KindFloat},
		{Name: "discount_rate", Kind: KindFloat},
	}}
}
