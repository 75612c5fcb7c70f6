package standardize

import (
	"context"
	"fmt"
	"log/slog"

	"policyaudit/internal/table"
)

// FieldMapping configures one demographic field to standardize: the raw
// source column and the names of the derived canonical and conflict columns.
type FieldMapping struct {
	Source      string
	StdColumn   string
	FlagColumn  string
	DisplayName string
}

// DefaultFields returns the minimum standardized field set: gender and
// country. Additional demographic fields follow the same mapping shape.
func DefaultFields() []FieldMapping {
	return []FieldMapping{
		{Source: "customer_gender", StdColumn: "customer_gender_std", FlagColumn: "gender_conflict", DisplayName: "gender"},
		{Source: "country", StdColumn: "country_std", FlagColumn: "country_conflict", DisplayName: "country"},
	}
}

// FieldStats summarizes conflict incidence for one standardized field.
type FieldStats struct {
	DisplayName  string
	Conflicts    int
	ConflictRate float64 // percent of customers
}

// Summary holds run statistics emitted by the standardizer.
type Summary struct {
	TotalCustomers int
	Fields         []FieldStats
}

// Standardizer applies per-customer conflict resolution to a table.
type Standardizer struct {
	fields []FieldMapping
	logger *slog.Logger
}

// NewStandardizer creates a standardizer over the given field mappings. A nil
// logger falls back to slog.Default.
func NewStandardizer(fields []FieldMapping, logger *slog.Logger) *Standardizer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(fields) == 0 {
		fields = DefaultFields()
	}
	return &Standardizer{fields: fields, logger: logger}
}

// Apply resolves every configured field per customer group and appends the
// canonical-value and conflict-flag columns to the table, broadcasting each
// customer's result onto all of that customer's rows. Raw columns are left
// untouched. A configured field whose source column is absent from the table
// is skipped.
func (s *Standardizer) Apply(ctx context.Context, tbl *table.Table) (*Summary, error) {
	custCol, ok := tbl.Col("customer_id")
	if !ok {
		return nil, fmt.Errorf("customer_id column missing from table")
	}

	// Group row indices by customer, preserving first-appearance order for
	// deterministic summaries.
	groups := make(map[string][]int)
	var customerOrder []string
	for i := 0; i < tbl.NumRows(); i++ {
		id, ok := custCol.Str(i)
		if !ok {
			continue
		}
		if _, seen := groups[id]; !seen {
			customerOrder = append(customerOrder, id)
		}
		groups[id] = append(groups[id], i)
	}

	s.logger.InfoContext(ctx, "standardizing demographic fields",
		"customers", len(customerOrder),
		"rows", tbl.NumRows(),
		"fields", len(s.fields))

	summary := &Summary{TotalCustomers: len(customerOrder)}

	for _, field := range s.fields {
		srcCol, ok := tbl.Col(field.Source)
		if !ok {
			s.logger.WarnContext(ctx, "source column absent, skipping field",
				"column", field.Source)
			continue
		}

		values := make([]string, tbl.NumRows())
		flags := make([]string, tbl.NumRows())
		present := make([]bool, tbl.NumRows())

		conflicts := 0
		for _, id := range customerOrder {
			rows := groups[id]
			observed := make([]string, 0, len(rows))
			for _, i := range rows {
				if v, ok := srcCol.Str(i); ok {
					observed = append(observed, v)
				}
			}
			resolved := Resolve(observed)
			if resolved.Conflict {
				conflicts++
			}

			flag := "0"
			if resolved.Conflict {
				flag = "1"
			}
			for _, i := range rows {
				values[i] = resolved.Value
				flags[i] = flag
				present[i] = true
			}
		}

		if err := tbl.AddStrColumn(field.StdColumn, values, present); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", field.StdColumn, err)
		}
		flagPresent := make([]bool, len(present))
		copy(flagPresent, present)
		if err := tbl.AddStrColumn(field.FlagColumn, flags, flagPresent); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", field.FlagColumn, err)
		}

		rate := 0.0
		if len(customerOrder) > 0 {
			rate = float64(conflicts) / float64(len(customerOrder)) * 100
		}
		summary.Fields = append(summary.Fields, FieldStats{
			DisplayName:  field.DisplayName,
			Conflicts:    conflicts,
			ConflictRate: rate,
		})

		s.logger.InfoContext(ctx, "field standardized",
			"field", field.DisplayName,
			"conflicts", conflicts,
			"conflict_rate_pct", fmt.Sprintf("%.1f", rate))
	}

	return summary, nil
}
