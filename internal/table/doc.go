// Package table provides a schema-validated, column-addressable view over a
// flat policy CSV file.
//
// A Schema enumerates the expected columns with their kinds, whether they are
// required, and any fill-in default. Load consults the schema once, parses the
// declared date columns, normalizes empty strings to absent values, and yields
// a Table whose typed accessors are used by every downstream check — no ad hoc
// per-rule existence checks.
//
// The Table owns the canonical in-memory data for one run. Downstream
// components read columns; the standardizer appends derived columns. Original
// raw cells are preserved so the full snapshot (raw plus derived columns) can
// be written back out unchanged.
package table
