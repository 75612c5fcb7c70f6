package standardize

// Sentinel canonical values produced by Resolve.
const (
	// ValueUnknown marks a customer with no non-null observation of a field.
	ValueUnknown = "Unknown"
	// ValueConflict marks a customer whose observations tie for most frequent.
	ValueConflict = "Conflict"
)

// ResolvedField is the outcome of conflict resolution for one field of one
// customer.
type ResolvedField struct {
	Value    string
	Conflict bool
}

// Resolve reduces a customer's non-null observations of one field to a
// canonical value and a conflict indicator:
//
//   - no observations            -> (Unknown, false)
//   - one distinct value         -> (value, false), however often it repeats
//   - unique most-frequent value -> (mode, true)
//   - tied most-frequent values  -> (Conflict, true)
//
// Repeated agreement is not evidence of conflict; any disagreement is, whether
// or not a majority resolves it. Values compare by exact, case-sensitive
// equality.
func Resolve(values []string) ResolvedField {
	if len(values) == 0 {
		return ResolvedField{Value: ValueUnknown, Conflict: false}
	}

	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	if len(counts) == 1 {
		return ResolvedField{Value: values[0], Conflict: false}
	}

	best := ""
	bestCount := 0
	tied := false
	for v, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount, tied = v, n, false
		case n == bestCount:
			tied = true
		}
	}

	if tied {
		return ResolvedField{Value: ValueConflict, Conflict: true}
	}
	return ResolvedField{Value: best, Conflict: true}
}
