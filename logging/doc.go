// Package logging provides a minimal logging interface and adapters for SupportMesh.
//
// The Logger interface defines the leveled methods (Debug, Info, Warn, Error)
// that runners, agents and the completion client use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping a *slog.Logger
//   - StructuredLogger with component scoping and model/agent call helpers
//   - NoOpLogger for silent operation (tests, minimal setups)
//
// Arguments after the message are slog-style alternating key/value pairs.
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	mesh, err := supportmesh.New(cfg, func(o *supportmesh.Options) { o.Logger = logger })
package logging
