package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Default output file names under OutputDir.
const (
	QualityReportFile     = "sanity_checks_report.txt"
	StandardizedFile      = "policies_standardized.csv"
	ChurnReportFile       = "churn_rate_report.txt"
	ChartWorkbookFile     = "churn_charts.xlsx"
	DefaultSourceFileName = "policies.csv"
)

// Config is the complete pipeline configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// PathsConfig names the source table and the output directory.
type PathsConfig struct {
	SourceCSV string `yaml:"source_csv" envconfig:"SOURCE_CSV" default:"policies.csv" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"." validate:"required"`
}

// LoggingConfig controls slog handler setup.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// Load builds the configuration from environment variables, then applies the
// YAML file at configFile when non-empty.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("POLICYAUDIT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
