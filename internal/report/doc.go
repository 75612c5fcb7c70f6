// Package report provides a structured report builder for the policy audit
// pipeline.
//
// Checks and breakdowns accumulate sections on a Report instead of printing
// directly; rendering to text and writing to a file are separate steps, so the
// same report content can be sent to any sink.
//
// Example usage:
//
//	rpt := report.New("DATA QUALITY CHECKS")
//	sec := rpt.AddSection("1. SHAPE")
//	sec.Printf("  Rows:    %d", rows)
//	err := report.WriteFile(rpt, "quality_report.txt")
package report
