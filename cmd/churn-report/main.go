// Command churn-report builds the churn-rate breakdown report and the chart
// workbook from a previously standardized snapshot.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"policyaudit/internal/config"
	"policyaudit/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	outputDir := flag.String("out", "", "directory holding the standardized snapshot and receiving the reports (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}

	logger := config.NewLogger(cfg.Logging)

	runner := pipeline.NewRunner(cfg, logger)
	if err := runner.RunAnalysis(context.Background(), nil); err != nil {
		logger.Error("churn analysis failed", "error", err)
		os.Exit(1)
	}
}
