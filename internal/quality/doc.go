// Package quality runs the ordered data-quality battery over a policy table.
//
// The battery is fixed: shape, type census, categorical distribution, missing
// values with justification inference, duplicates, impossible values, and IQR
// outliers. Checks are independent — one check's findings never gate another,
// and a check whose columns are absent from the input reports no issues
// rather than failing. Results come back as typed values and are rendered
// into a structured report with one section per check, in battery order.
package quality
