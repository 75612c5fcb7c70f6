package quality

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"policyaudit/internal/report"
	"policyaudit/internal/table"
)

// Validator runs the fixed quality-check battery over a table.
type Validator struct {
	rangeRules  []RangeRule
	categorical []string
	outlierCols []string
	logger      *slog.Logger
}

// NewValidator creates a validator with the default rule tables. A nil logger
// falls back to slog.Default.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		rangeRules:  defaultRangeRules(),
		categorical: categoricalColumns,
		outlierCols: outlierColumns,
		logger:      logger,
	}
}

// KindCount is one row of the type census summary.
type KindCount struct {
	Kind  string
	Count int
}

// ColumnKind pairs a column with its loaded kind.
type ColumnKind struct {
	Column string
	Kind   string
}

// Bucket is one value of a categorical distribution, missing values included
// as an explicit bucket.
type Bucket struct {
	Label string
	Count int
	Pct   float64
}

// CategoricalDist is the value distribution of one categorical column.
type CategoricalDist struct {
	Column  string
	Subset  string // non-empty when computed over a subset, e.g. churned rows
	N       int    // denominator for percentages
	Buckets []Bucket
}

// MissingColumn reports missing-value incidence for one column, with the
// inferred structural justification when the null pattern matches one
// exactly.
type MissingColumn struct {
	Column        string
	Count         int
	Pct           float64
	Justification string
}

// IDCount is one repeated key and its occurrence count.
type IDCount struct {
	ID    string
	Count int
}

// DupStats reports duplication of one key column.
type DupStats struct {
	Dupes int // occurrences beyond the first per key
	Top   []IDCount
}

// DuplicateResult covers the duplicate checks.
type DuplicateResult struct {
	FullRows   int
	PolicyID   *DupStats
	CustomerID *DupStats
}

// Violation is one impossible-value rule with a nonzero hit count.
type Violation struct {
	Description string
	Count       int
}

// Results holds the typed outcome of the whole battery, in battery order.
type Results struct {
	Rows, Cols   int
	KindSummary  []KindCount
	ColumnKinds  []ColumnKind
	Distribution []CategoricalDist
	Missing      []MissingColumn
	Duplicates   DuplicateResult
	Violations   []Violation
	Outliers     []OutlierStat
}

// Run executes every check in the fixed order. Checks never short-circuit:
// each one's result is independent and a check with no applicable columns
// simply contributes no findings.
func (v *Validator) Run(ctx context.Context, tbl *table.Table) *Results {
	v.logger.InfoContext(ctx, "running quality checks",
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols())

	res := &Results{
		Rows: tbl.NumRows(),
		Cols: tbl.NumCols(),
	}
	v.typeCensus(tbl, res)
	v.categoricalDistribution(tbl, res)
	v.missingValues(tbl, res)
	v.duplicates(tbl, res)
	v.impossibleValues(tbl, res)
	v.outliers(tbl, res)

	v.logger.InfoContext(ctx, "quality checks complete",
		"missing_columns", len(res.Missing),
		"impossible_value_rules", len(res.Violations),
		"outlier_columns", len(res.Outliers))
	return res
}

func (v *Validator) typeCensus(tbl *table.Table, res *Results) {
	byKind := make(map[string]int)
	for _, name := range tbl.ColumnNames() {
		kind, _ := tbl.InferredKind(name)
		res.ColumnKinds = append(res.ColumnKinds, ColumnKind{Column: name, Kind: kind.String()})
		byKind[kind.String()]++
	}
	for kind, count := range byKind {
		res.KindSummary = append(res.KindSummary, KindCount{Kind: kind, Count: count})
	}
	sort.Slice(res.KindSummary, func(i, j int) bool {
		if res.KindSummary[i].Count != res.KindSummary[j].Count {
			return res.KindSummary[i].Count > res.KindSummary[j].Count
		}
		return res.KindSummary[i].Kind < res.KindSummary[j].Kind
	})
}

// valueCounts tallies the labels of rows[i] for i in idx, missing values
// bucketed as NULL/Missing. Buckets sort by count descending, ties keeping
// first-appearance order.
func valueCounts(col *table.Column, idx []int, denom int) []Bucket {
	counts := make(map[string]int)
	var order []string
	missing := 0
	for _, i := range idx {
		label, ok := col.Label(i)
		if !ok {
			missing++
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}
	if missing > 0 {
		order = append(order, "NULL/Missing")
		counts["NULL/Missing"] = missing
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	buckets := make([]Bucket, 0, len(order))
	for _, label := range order {
		pct := 0.0
		if denom > 0 {
			pct = float64(counts[label]) / float64(denom) * 100
		}
		buckets = append(buckets, Bucket{Label: label, Count: counts[label], Pct: pct})
	}
	return buckets
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func (v *Validator) categoricalDistribution(tbl *table.Table, res *Results) {
	idx := allRows(tbl.NumRows())
	for _, name := range v.categorical {
		col, ok := tbl.Col(name)
		if !ok {
			continue
		}
		res.Distribution = append(res.Distribution, CategoricalDist{
			Column:  name,
			N:       tbl.NumRows(),
			Buckets: valueCounts(col, idx, tbl.NumRows()),
		})
	}

	// churn_reason is only meaningful where churned is true; percentages are
	// relative to the churned subset, not the full table.
	reasonCol, hasReason := tbl.Col("churn_reason")
	churnedCol, hasChurned := tbl.Col("churned")
	if hasReason && hasChurned {
		var churnedIdx []int
		for i := 0; i < tbl.NumRows(); i++ {
			if b, ok := churnedCol.Bool(i); ok && b {
				churnedIdx = append(churnedIdx, i)
			}
		}
		res.Distribution = append(res.Distribution, CategoricalDist{
			Column:  "churn_reason",
			Subset:  "churned=True only",
			N:       len(churnedIdx),
			Buckets: valueCounts(reasonCol, churnedIdx, len(churnedIdx)),
		})
	}
}

// boolCount counts rows where the column holds exactly want. Absent values
// never match.
func boolCount(col *table.Column, want bool) int {
	n := 0
	for i := 0; i < col.Len(); i++ {
		if b, ok := col.Bool(i); ok && b == want {
			n++
		}
	}
	return n
}

func (v *Validator) missingValues(tbl *table.Table, res *Results) {
	justifications := inferJustifications(tbl)

	for _, name := range tbl.ColumnNames() {
		col, _ := tbl.Col(name)
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}
		res.Missing = append(res.Missing, MissingColumn{
			Column:        name,
			Count:         missing,
			Pct:           float64(missing) / float64(tbl.NumRows()) * 100,
			Justification: justifications[name],
		})
	}

	sort.SliceStable(res.Missing, func(i, j int) bool {
		return res.Missing[i].Count > res.Missing[j].Count
	})
}

// inferJustifications matches each null pattern against its paired structural
// predicate. Exact count equality is required; a near-match claims nothing.
func inferJustifications(tbl *table.Table) map[string]string {
	out := make(map[string]string)

	churnedCol, hasChurned := tbl.Col("churned")
	if endCol, ok := tbl.Col("policy_end_date"); ok && hasChurned {
		if endCol.MissingCount() == boolCount(churnedCol, false) {
			out["policy_end_date"] = "churned=False"
			out["churn_reason"] = "churned=False"
		}
	}

	if rateCol, ok := tbl.Col("discount_rate"); ok {
		if appliedCol, ok := tbl.Col("discount_applied"); ok {
			if rateCol.MissingCount() == boolCount(appliedCol, false) {
				out["discount_rate"] = "discount_applied=False"
			}
		}
	}

	if agentCol, ok := tbl.Col("agent_id"); ok {
		if chanCol, ok := tbl.Col("acquisition_channel"); ok {
			notAgent := 0
			for i := 0; i < chanCol.Len(); i++ {
				if !isAgentChannel(chanCol, i) {
					notAgent++
				}
			}
			if agentCol.MissingCount() == notAgent {
				out["agent_id"] = "acquisition_channel != Agent"
			}
		}
	}

	return out
}

// isAgentChannel reports whether row i was acquired through an agent,
// case-insensitively. A missing channel is not an agent channel.
func isAgentChannel(col *table.Column, i int) bool {
	s, ok := col.Str(i)
	return ok && strings.EqualFold(s, "agent")
}

func dupStatsFor(col *table.Column) *DupStats {
	counts := make(map[string]int)
	var order []string
	for i := 0; i < col.Len(); i++ {
		label, ok := col.Label(i)
		if !ok {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	stats := &DupStats{}
	var repeated []string
	for _, id := range order {
		if counts[id] > 1 {
			stats.Dupes += counts[id] - 1
			repeated = append(repeated, id)
		}
	}
	sort.SliceStable(repeated, func(i, j int) bool {
		return counts[repeated[i]] > counts[repeated[j]]
	})
	if len(repeated) > 10 {
		repeated = repeated[:10]
	}
	for _, id := range repeated {
		stats.Top = append(stats.Top, IDCount{ID: id, Count: counts[id]})
	}
	return stats
}

func (v *Validator) duplicates(tbl *table.Table, res *Results) {
	seen := make(map[string]bool, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		key := strings.Join(tbl.RawRow(i), "\x1f")
		if seen[key] {
			res.Duplicates.FullRows++
		}
		seen[key] = true
	}

	if col, ok := tbl.Col("policy_id"); ok {
		res.Duplicates.PolicyID = dupStatsFor(col)
	}
	if col, ok := tbl.Col("customer_id"); ok {
		res.Duplicates.CustomerID = dupStatsFor(col)
	}
}

func (v *Validator) impossibleValues(tbl *table.Table, res *Results) {
	addViolation := func(desc string, count int) {
		if count > 0 {
			res.Violations = append(res.Violations, Violation{Description: desc, Count: count})
		}
	}

	for _, rule := range v.rangeRules {
		col, ok := tbl.Col(rule.Column)
		if !ok {
			continue
		}
		n := 0
		for i := 0; i < col.Len(); i++ {
			if val, ok := col.Float(i); ok && rule.Bad(val) {
				n++
			}
		}
		addViolation(rule.Column+" "+rule.Label, n)
	}

	startCol, hasStart := tbl.Col("policy_start_date")
	endCol, hasEnd := tbl.Col("policy_end_date")
	if hasStart && hasEnd {
		n := 0
		for i := 0; i < tbl.NumRows(); i++ {
			start, okS := startCol.Date(i)
			end, okE := endCol.Date(i)
			if okS && okE && end.Before(start) {
				n++
			}
		}
		addViolation("policy_end_date before policy_start_date", n)
	}

	churnedCol, hasChurned := tbl.Col("churned")
	if hasChurned && hasEnd {
		n1, n2 := 0, 0
		for i := 0; i < tbl.NumRows(); i++ {
			churned, okC := churnedCol.Bool(i)
			_, okE := endCol.Date(i)
			if okC && churned && !okE {
				n1++
			}
			if okE && okC && !churned {
				n2++
			}
		}
		addViolation("churned=True but policy_end_date missing", n1)
		addViolation("policy_end_date exists but churned=False", n2)
	}

	appliedCol, hasApplied := tbl.Col("discount_applied")
	rateCol, hasRate := tbl.Col("discount_rate")
	if hasApplied && hasRate {
		n1, n2 := 0, 0
		for i := 0; i < tbl.NumRows(); i++ {
			applied, okA := appliedCol.Bool(i)
			_, okR := rateCol.Float(i)
			if okA && applied && !okR {
				n1++
			}
			if okR && okA && !applied {
				n2++
			}
		}
		addViolation("discount_applied=True but discount_rate missing", n1)
		addViolation("discount_rate exists but discount_applied=False", n2)
	}

	chanCol, hasChan := tbl.Col("acquisition_channel")
	agentCol, hasAgent := tbl.Col("agent_id")
	if hasChan && hasAgent {
		n1, n2 := 0, 0
		for i := 0; i < tbl.NumRows(); i++ {
			agent := isAgentChannel(chanCol, i)
			_, okID := agentCol.Str(i)
			if agent && !okID {
				n1++
			}
			if okID && !agent {
				n2++
			}
		}
		addViolation("acquisition_channel=Agent but agent_id missing", n1)
		addViolation("agent_id exists but acquisition_channel != Agent", n2)
	}
}

func (v *Validator) outliers(tbl *table.Table, res *Results) {
	for _, name := range v.outlierCols {
		col, ok := tbl.Col(name)
		if !ok {
			continue
		}
		stat, ok := outlierStatFor(name, col.NonNullFloats())
		if !ok {
			continue
		}
		res.Outliers = append(res.Outliers, stat)
	}
}

// Report renders the results as a structured report with one section per
// check, in battery order.
func (r *Results) Report() *report.Report {
	rpt := report.New("DATA QUALITY CHECKS")

	shape := rpt.AddSection("1. SHAPE")
	shape.Printf("  Rows:    %d", r.Rows)
	shape.Printf("  Columns: %d", r.Cols)

	types := rpt.AddSection("2. DATA TYPES")
	for _, kc := range r.KindSummary {
		types.Printf("  %s: %d columns", kc.Kind, kc.Count)
	}
	types.Blank()
	types.Printf("  Detailed:")
	for _, ck := range r.ColumnKinds {
		types.Printf("    %-30s %s", ck.Column, ck.Kind)
	}

	dist := rpt.AddSection("3. CATEGORICAL DISTRIBUTION")
	for _, d := range r.Distribution {
		dist.Blank()
		if d.Subset != "" {
			dist.Printf("  %s  (%s, n=%d):", d.Column, d.Subset, d.N)
		} else {
			dist.Printf("  %s:", d.Column)
		}
		dist.Printf("  %s", strings.Repeat("-", 55))
		for _, b := range d.Buckets {
			dist.Printf("    %-30s %6d  (%5.1f%%)", b.Label, b.Count, b.Pct)
		}
	}

	missing := rpt.AddSection("4. MISSING VALUES")
	if len(r.Missing) == 0 {
		missing.Printf("  No missing values found.")
	} else {
		missing.Printf("  Columns with missing values: %d", len(r.Missing))
		missing.Blank()
		missing.Printf("  %-30s %8s  %7s   Justification", "Column", "Missing", "%")
		missing.Printf("  %s", strings.Repeat("-", 70))
		for _, m := range r.Missing {
			justif := m.Justification
			if justif == "" {
				justif = "-"
			} else {
				justif = "✓ " + justif
			}
			missing.Printf("  %-30s %8d  %6.2f%%   %s", m.Column, m.Count, m.Pct, justif)
		}
	}

	dup := rpt.AddSection("5. DUPLICATES")
	dup.Printf("  Full row duplicates:    %d", r.Duplicates.FullRows)
	if r.Duplicates.PolicyID != nil {
		dup.Printf("  Duplicate policy_id:    %d", r.Duplicates.PolicyID.Dupes)
		for _, id := range r.Duplicates.PolicyID.Top {
			dup.Printf("    %s: %d occurrences", id.ID, id.Count)
		}
	}
	if r.Duplicates.CustomerID != nil {
		dup.Printf("  Duplicate customer_id:  %d", r.Duplicates.CustomerID.Dupes)
		if len(r.Duplicates.CustomerID.Top) > 0 {
			dup.Printf("  (showing top 10)")
			for _, id := range r.Duplicates.CustomerID.Top {
				dup.Printf("    %s: %d occurrences", id.ID, id.Count)
			}
		}
	}

	imp := rpt.AddSection("6. IMPOSSIBLE VALUES")
	if len(r.Violations) == 0 {
		imp.Printf("  No impossible values detected.")
	} else {
		imp.Printf("  Issues found: %d", len(r.Violations))
		imp.Blank()
		for _, v := range r.Violations {
			imp.Printf("  %s: %d", v.Description, v.Count)
		}
	}

	out := rpt.AddSection("7. OUTLIERS  (IQR method: outside Q1 - 1.5*IQR / Q3 + 1.5*IQR)")
	if len(r.Outliers) == 0 {
		out.Printf("  No outliers detected.")
	} else {
		out.Printf("  %-28s %8s %8s %8s %10s %10s %10s %6s", "Column", "Q1", "Q3", "IQR", "Lower", "Upper", "Outliers", "%")
		out.Printf("  %s", strings.Repeat("-", 92))
		anyFlagged := false
		for _, s := range r.Outliers {
			flag := ""
			if s.Outliers > 0 {
				flag = "  <--"
				anyFlagged = true
			}
			out.Printf("  %-28s %8.2f %8.2f %8.2f %10.2f %10.2f %10d %5.1f%%%s",
				s.Column, s.Q1, s.Q3, s.IQR, s.Lower, s.Upper, s.Outliers, s.Pct, flag)
		}
		if !anyFlagged {
			out.Blank()
			out.Printf("  No outliers detected.")
		}
	}

	return rpt
}
