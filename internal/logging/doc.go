// Package logging provides structured logging utilities for gdrivetoken.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Process logger setup from the environment (level, format, optional rotated file)
//   - Consistent attribute naming across the codebase
//   - Token sanitization
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "generate")
//	logger.Info("created sentinel",
//	    logging.Path(tokenPath))
//
// # Security Considerations
//
// Access and refresh tokens are never logged directly; use SanitizeToken.
package logging
