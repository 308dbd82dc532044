// Package pkg provides shared utilities for the midiline pipeline.
//
// This package contains common functionality used across the ring buffer,
// the stream processor, and the transport HALs, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for buffer and transport conditions
//   - Component identifiers for log filtering
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with pipeline-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentPipeline, "processor started", "transform", "transpose")
//
// # Errors
//
// Common pipeline errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrInvalidConfig) {
//	    // Reject the configuration at startup
//	}
package pkg
