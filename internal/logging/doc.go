// Package logging provides a simple leveled logging interface for process
// diagnostics. It is distinct from the per-job delivery log, which is an
// output artifact owned by the report package.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable.
package logging
