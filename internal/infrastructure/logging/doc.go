// Package logging provides structured logging for Gray M2M Core.
//
// It wraps log/slog with level-based filtering, JSON or text output,
// and default service/version fields, configured from the logging
// section of config.yaml.
package logging
