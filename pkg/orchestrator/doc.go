// Package orchestrator wires the markup → form model → renderer pipeline and
// offers dependency injection friendly helpers for consumers that prefer a
// single entry point. Themes are resolved per request through go-theme and
// handed to renderers as a RendererConfig.
package orchestrator
