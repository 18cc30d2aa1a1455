// Package logging builds the slog loggers used across the pipeline.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Attr helpers keep call sites terse and
// ContextFields lifts standardized identifiers (video id, stage, request id)
// out of a context so every stage logs them consistently.
package logging
