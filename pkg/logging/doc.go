// Package logging provides structured logging utilities for the qbackup orchestrator.
//
// # Overview
//
// This package wraps the standard library slog package with qbackup-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("qbackup", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("collection uploaded", "collection", "StoreA_Customers")
//	    slog.Debug("locate attempt", "attempt", 2)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("qbackup", "v2.0.0", "debug")
//	logger.Info("run starting", "tag", "Chan")
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("qbackup", "v1.0.0", "warn")
//
// Converting standard library logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelInfo, false)
//	stdLogger.Println("legacy log message")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug qbackup run
//	LOG_LEVEL=error qbackup run --config /etc/qbackup.yaml
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "run finished",
//	    "module": "qbackup",
//	    "version": "v1.0.0",
//	    "uploaded": 2
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "snapshot.(*Locator).Locate",
//	        "file": "locator.go",
//	        "line": 45
//	    },
//	    "msg": "locate attempt",
//	    "module": "qbackup",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("myapp", version)
//	    defer slog.Info("application started")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("collection uploaded",
//	    "collection", name,
//	    "key", key,
//	    "duration_ms", 125,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("locate attempt", "n", 3)  // Development/troubleshooting
//	slog.Info("run started")             // Normal operations
//	slog.Warn("snapshot not found")      // Potential issues
//	slog.Error("listing failed")         // Errors requiring action
//
// 4. Log errors with context:
//
//	slog.Error("upload failed",
//	    "error", err,
//	    "collection", name,
//	    "run_id", runID,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/backup - Run orchestration logging
//   - pkg/runlog - Mirrors every audit line to slog
//   - pkg/snapshot - Locate and stage logging
//   - pkg/store - Upload logging
//
// All components share consistent logging format and configuration.
package logging
