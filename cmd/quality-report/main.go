// Command quality-report runs only the data-quality battery over the raw
// policy table and writes the sanity check report.
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
	source := flag.String("source", "", "path to the policy CSV (overrides config)")
	outputDir := flag.String("out", "", "output directory for the report (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *source != "" {
		cfg.Paths.SourceCSV = *source
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}

	logger := config.NewLogger(cfg.Logging)

	runner := pipeline.NewRunner(cfg, logger)
	if err := runner.RunQuality(context.Background()); err != nil {
		logger.Error("quality checks failed", "error", err)
		os.Exit(1)
	}
}
