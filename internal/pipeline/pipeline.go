package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"policyaudit/internal/churn"
	"policyaudit/internal/config"
	"policyaudit/internal/exporter"
	"policyaudit/internal/quality"
	"policyaudit/internal/report"
	"policyaudit/internal/standardize"
	"policyaudit/internal/table"
)

// Runner executes pipeline stages over one source table. Every run is a
// single synchronous pass; stages write their outputs as they complete, so
// a later failure preserves the earlier outputs.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	runID  string
}

// NewRunner creates a runner for one pipeline invocation. A nil logger falls
// back to slog.Default.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return &Runner{
		cfg:    cfg,
		logger: logger.With("run_id", runID),
		runID:  runID,
	}
}

// loadSource reads the raw policy table. A missing source file is fatal for
// the run and no partial output is written.
func (r *Runner) loadSource(ctx context.Context) (*table.Table, error) {
	tbl, err := table.Load(r.cfg.Paths.SourceCSV, table.PolicySchema())
	if err != nil {
		return nil, fmt.Errorf("load source table: %w", err)
	}
	return tbl, nil
}

// RunQuality loads the raw table, runs the quality-check battery, and writes
// the quality report.
func (r *Runner) RunQuality(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting quality checks stage")

	tbl, err := r.loadSource(ctx)
	if err != nil {
		return err
	}

	results := quality.NewValidator(r.logger).Run(ctx, tbl)
	rpt := results.Report()

	path := filepath.Join(r.cfg.Paths.OutputDir, config.QualityReportFile)
	if err := report.WriteFile(rpt, path); err != nil {
		return fmt.Errorf("write quality report: %w", err)
	}

	r.logger.InfoContext(ctx, "quality report written", "path", path)
	return nil
}

// RunStandardize loads the raw table, standardizes the demographic fields,
// and writes the full standardized snapshot. The enriched table is returned
// for downstream stages.
func (r *Runner) RunStandardize(ctx context.Context) (*table.Table, error) {
	r.logger.InfoContext(ctx, "starting standardization stage")

	tbl, err := r.loadSource(ctx)
	if err != nil {
		return nil, err
	}

	std := standardize.NewStandardizer(standardize.DefaultFields(), r.logger)
	summary, err := std.Apply(ctx, tbl)
	if err != nil {
		return nil, fmt.Errorf("standardize demographics: %w", err)
	}

	for _, f := range summary.Fields {
		r.logger.InfoContext(ctx, "conflict summary",
			"field", f.DisplayName,
			"customers", summary.TotalCustomers,
			"conflicts", f.Conflicts,
			"conflict_rate_pct", fmt.Sprintf("%.1f", f.ConflictRate))
	}

	writer := exporter.NewCSVWriter(r.cfg.Paths.OutputDir)
	if err := writer.WriteSnapshot(config.StandardizedFile, tbl.SnapshotRecords()); err != nil {
		return nil, fmt.Errorf("write standardized snapshot: %w", err)
	}

	r.logger.InfoContext(ctx, "standardized snapshot written",
		"file", config.StandardizedFile,
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols())
	return tbl, nil
}

// RunAnalysis builds the churn report and the chart workbook from a
// standardized table. When tbl is nil the previously written standardized
// snapshot is loaded instead, so the analysis tool can run on its own.
func (r *Runner) RunAnalysis(ctx context.Context, tbl *table.Table) error {
	r.logger.InfoContext(ctx, "starting churn analysis stage")

	if tbl == nil {
		path := filepath.Join(r.cfg.Paths.OutputDir, config.StandardizedFile)
		var err error
		tbl, err = table.Load(path, table.PolicySchema())
		if err != nil {
			return fmt.Errorf("load standardized table: %w", err)
		}
	}

	analyzer := churn.NewAnalyzer(r.logger)

	rpt, err := analyzer.BuildReport(ctx, tbl)
	if err != nil {
		return fmt.Errorf("build churn report: %w", err)
	}
	reportPath := filepath.Join(r.cfg.Paths.OutputDir, config.ChurnReportFile)
	if err := report.WriteFile(rpt, reportPath); err != nil {
		return fmt.Errorf("write churn report: %w", err)
	}
	r.logger.InfoContext(ctx, "churn report written", "path", reportPath)

	chartData, err := analyzer.BuildChartData(ctx, tbl)
	if err != nil {
		return fmt.Errorf("build chart data: %w", err)
	}
	chartPath := filepath.Join(r.cfg.Paths.OutputDir, config.ChartWorkbookFile)
	if err := exporter.ChartWorkbook(chartData, chartPath); err != nil {
		return fmt.Errorf("write chart workbook: %w", err)
	}
	r.logger.InfoContext(ctx, "chart workbook written", "path", chartPath)

	return nil
}

// RunAll executes the full pipeline: quality checks, standardization, then
// churn analysis over the freshly standardized table.
func (r *Runner) RunAll(ctx context.Context) error {
	if err := r.RunQuality(ctx); err != nil {
		return err
	}
	tbl, err := r.RunStandardize(ctx)
	if err != nil {
		return err
	}
	return r.RunAnalysis(ctx, tbl)
}
