// Package orchestrator is the single entry point hosting layers use to
// author forms, accept submissions and render forms: it owns the repository,
// the builder, the entry recorder and the renderer registry.
package orchestrator
