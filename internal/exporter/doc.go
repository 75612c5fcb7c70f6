// Package exporter writes the pipeline's file outputs.
//
// CSVWriter handles the standardized snapshot and other tabular outputs,
// with a UTF-8 BOM so Excel opens them cleanly. ChartWorkbook writes the
// aggregated chart series to an .xlsx workbook, one sheet per series, for
// the rendering collaborator.
package exporter
