// Package logger provides logging facilities for the git-backup application.
//
// This package implements a simple, structured logging system with different
// log levels and the ability to write logs to both the console and a file
// simultaneously. It defines both the logging interface and the standard
// implementation used throughout the application.
//
// # Core Components
//
// - Logger: The main interface for logging used throughout the application
// - DefaultLogger: Standard implementation that writes to console and/or file
//
// # Log Levels
//
// The logger supports the following distinct message types:
//
// - Info: General information messages (debug log only)
// - InfoToUser: Important information to display to the user
// - Warning: Warning messages for potential issues
// - WarningToUser: Important warnings to display to the user
// - Error: Error messages for failures
// - Success: Success messages for completed operations
// - StatusMessage: Current status updates
//
// # Usage
//
// Basic usage pattern:
//
//	logger := logger.New(true, "/path/to/log.file", true)
//	defer logger.Close()
//
//	logger.Info("Debug-only information: %v", details)
//	logger.Success("Backup created on %s", branch)
//
// The Logger interface is injected into components that need logging
// capabilities rather than accessed through package-level state.
//
// # File Logging
//
// When debug logging is enabled, all messages (regardless of verbosity
// settings) are written to the log file through log/slog with timestamps.
//
// # Thread Safety
//
// The DefaultLogger implementation is safe for concurrent use by multiple
// goroutines.
package logger
