// Package config handles configuration loading and management for hitsmoke.
//
// It provides functionality for:
//   - Loading configuration from .hitsmoke.json or .hitsmoke.yaml files
//   - Default configuration values
//   - HITSMOKE_* environment overrides
package config
