package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"policyaudit/internal/churn"
)

// ChartWorkbook writes the aggregated chart series to an .xlsx workbook,
// one sheet per series. The workbook carries only the numeric data; visual
// rendering happens downstream.
func ChartWorkbook(data *churn.ChartData, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create chart output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeRateSheet(f, "TenureChurn", data.TenureCurve, data.Baseline); err != nil {
		return err
	}
	if err := writeRateSheet(f, "PaymentFrequency", data.PaymentFrequency, data.Baseline); err != nil {
		return err
	}
	if err := writeRateSheet(f, "AcquisitionChannel", data.AcquisitionChannel, data.Baseline); err != nil {
		return err
	}
	if err := writeDistSheet(f, "PricePerCoverage", data.PricePerCoverage); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on the first series.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save chart workbook: %w", err)
	}

	slog.Info("wrote chart workbook",
		slog.String("path", path),
		slog.Int("tenure_buckets", len(data.TenureCurve)),
		slog.Int("price_series", len(data.PricePerCoverage)))
	return nil
}

func writeRateSheet(f *excelize.File, sheet string, rows []churn.Row, baseline float64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{"Value", "Total", "Churned", "RatePct", "DeviationPct", "BaselinePct"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	for r, row := range rows {
		values := []any{row.Value, row.Total, row.Churned, row.Rate, row.Deviation, baseline}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
		}
	}
	return nil
}

// writeDistSheet lays out one distribution per column, product name in the
// header row.
func writeDistSheet(f *excelize.File, sheet string, series []churn.DistSeries) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	for c, s := range series {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := f.SetCellValue(sheet, cell, s.Product); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		for r, v := range s.Values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
		}
	}
	return nil
}
