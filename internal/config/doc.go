// Package config loads the pipeline configuration.
//
// Configuration comes from environment variables with the POLICYAUDIT_
// prefix, optionally overridden by a YAML file named on the command line.
// Only file paths and logging options live here; the analytical constants
// (bin edges, rule tables) are fixed in-process and deliberately not
// configurable.
package config
