// Package observability provides logging setup, Prometheus metrics and the
// optional status HTTP server.
//
// # Overview
//
// The engine logs through logrus; NewLogger configures level and formatting
// from the application configuration. Metrics counts resolution runs,
// registered modules, patched files and degraded build orders on a private
// Prometheus registry. StatusServer optionally exposes /healthz, /metrics
// and /report for long-running invocations such as watch mode.
//
// # Related Packages
//
//   - pkg/prepare: Records run metrics and publishes run reports
package observability
