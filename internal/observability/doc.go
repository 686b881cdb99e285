// Package observability provides structured logging and metrics for the assist worker.
//
// This package implements:
//   - zap logger construction with optional rotating file output
//   - Prometheus metrics collection for the assist pipeline
package observability
