// Package config handles configuration loading and management for restflow.
//
// It provides functionality for:
//   - Loading configuration from .restflow.yaml, .restflow.yml, or restflow.yaml files
//   - Default configuration values
//   - Merging file configuration with command-line overrides
package config
