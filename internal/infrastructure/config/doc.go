// Package config loads and validates Gray M2M Core configuration.
//
// Configuration is layered: hardcoded defaults, then the YAML file,
// then GRAYM2M_* environment variable overrides. Validation happens
// once at load time so the rest of the system can trust the values.
package config
