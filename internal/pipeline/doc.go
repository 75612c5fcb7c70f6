// Package pipeline sequences the policy audit stages: load, quality checks,
// demographic standardization, churn analysis, and output writing.
//
// Each entry point under cmd/ is a thin wrapper over one Runner method, so
// the quality-only, cleaning-only, and full-pipeline tools share the same
// core components instead of redefining them.
package pipeline
