// Package cmd implements the command-line interface for gdrivetoken.
//
// The root command takes an optional config file path and runs the token
// generator. It has no subcommands and no flags besides --help and --version.
// Logging and instrumentation are configured through the environment
// (LOG_LEVEL, LOG_FORMAT, LOG_FILE, INSTRUMENTATION_ENABLED, ...).
package cmd
